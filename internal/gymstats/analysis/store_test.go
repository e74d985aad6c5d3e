package analysis_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/repcoach/internal/gymstats/analysis"
	"github.com/2beens/repcoach/internal/gymstats/exercises"
	"github.com/2beens/repcoach/internal/gymstats/kinematics"
)

func sampleResult() *analysis.Result {
	return &analysis.Result{
		ID:        testID,
		Success:   true,
		Exercise:  exercises.KindSquat,
		Timestamp: testNow,
		Metrics: exercises.Summary{
			Exercise:      exercises.KindSquat,
			DisplayName:   "Squats",
			Counter:       1,
			CompletedReps: 1,
			GoodReps:      1,
			FormAccuracy:  100,
			Reps: []kinematics.RepRecord{
				{Index: 1, StartT: 0, EndT: 2, MinAngle: 75, MaxAngle: 170, GoodForm: true, Quality: "great_depth"},
			},
			Logs:  []string{"Starting SQUAT analysis...", "Squat Count: 1", "Analysis Complete!"},
			Squat: &exercises.SquatSummary{},
		},
	}
}

func TestRedisStore(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := analysis.NewRedisStore(db)
	ctx := context.Background()

	result := sampleResult()
	payload, err := json.Marshal(result)
	require.NoError(t, err)

	key := "repcoach::analysis::" + testID
	mock.ExpectSet(key, payload, time.Hour).SetVal("OK")
	require.NoError(t, store.Save(ctx, result, time.Hour))

	mock.ExpectGet(key).SetVal(string(payload))
	got, err := store.Get(ctx, testID)
	require.NoError(t, err)
	if diff := cmp.Diff(result, got); diff != "" {
		t.Errorf("stored result mismatch (-want +got):\n%s", diff)
	}

	mock.ExpectGet("repcoach::analysis::missing").SetErr(redis.Nil)
	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, analysis.ErrNotFound)

	mock.ExpectGet("repcoach::analysis::broken").SetErr(errors.New("i/o timeout"))
	_, err = store.Get(ctx, "broken")
	require.Error(t, err)
	assert.False(t, errors.Is(err, analysis.ErrNotFound))

	mock.ExpectSet(key, payload, time.Hour).SetErr(redis.ErrClosed)
	assert.ErrorIs(t, store.Save(ctx, result, time.Hour), redis.ErrClosed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryStore(t *testing.T) {
	store := analysis.NewMemoryStore(4)
	ctx := context.Background()

	_, err := store.Get(ctx, testID)
	assert.ErrorIs(t, err, analysis.ErrNotFound)

	result := sampleResult()
	require.NoError(t, store.Save(ctx, result, time.Hour))
	assert.Equal(t, int64(1), store.Len())

	got, err := store.Get(ctx, testID)
	require.NoError(t, err)
	if diff := cmp.Diff(result, got); diff != "" {
		t.Errorf("stored result mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryStore_LargeResultIsChunked(t *testing.T) {
	// a 4MB cache takes entries up to 4KB
	store := analysis.NewMemoryStore(4)
	ctx := context.Background()

	result := sampleResult()
	for i := 0; i < 50; i++ {
		result.Metrics.Logs = append(result.Metrics.Logs, strings.Repeat("x", 1000))
	}

	require.NoError(t, store.Save(ctx, result, time.Hour))
	// index entry plus at least 13 chunks of under 4KB for ~50KB
	assert.Greater(t, store.Len(), int64(13))

	got, err := store.Get(ctx, testID)
	require.NoError(t, err)
	if diff := cmp.Diff(result, got); diff != "" {
		t.Errorf("stored result mismatch (-want +got):\n%s", diff)
	}
}
