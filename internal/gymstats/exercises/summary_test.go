package exercises_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/repcoach/internal/gymstats/exercises"
	"github.com/2beens/repcoach/internal/pose"
)

func TestSummary_Empty(t *testing.T) {
	for _, kind := range exercises.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			sum := newSession(t, kind).Summary()
			assert.Equal(t, kind, sum.Exercise)
			assert.Equal(t, 0, sum.Counter)
			assert.Equal(t, 0.0, sum.FormAccuracy)
			assert.Empty(t, sum.Reps)
			assert.Equal(t, 0.0, sum.Extremes.MinHipFlexion)

			raw, err := json.Marshal(sum)
			require.NoError(t, err)

			var blocks map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(raw, &blocks))
			_, ok := blocks[kind.String()]
			assert.True(t, ok, "exercise block %s missing", kind)
		})
	}
}

func TestSummary_Pushup(t *testing.T) {
	s := newSession(t, exercises.KindPushup)
	feed(s, pushupFrames(
		[]float64{170, 80, 170, 120, 85, 170},
		[]float64{175, 175, 175, 140, 175, 175},
	))
	s.Process(pose.Frame{T: 6})

	sum := s.Summary()
	assert.Equal(t, "Push-ups", sum.DisplayName)
	assert.Equal(t, 2, sum.Counter)
	assert.Equal(t, 2, sum.CompletedReps)
	assert.Equal(t, 1, sum.GoodReps)
	assert.Equal(t, 1, sum.BadReps)
	assert.Equal(t, 50.0, sum.FormAccuracy)
	assert.Equal(t, 6, sum.FramesProcessed)
	assert.Equal(t, 1, sum.FramesUndetected)
	assert.Equal(t, 6.0, sum.DurationSeconds)
	assert.Equal(t, "Body not detected", sum.FinalFeedback)

	require.NotNil(t, sum.Pushup)
	assert.Nil(t, sum.Squat)
	assert.Equal(t, 1, sum.Pushup.BadFormFrames)
	assert.Equal(t, 82.5, sum.Pushup.Depth.Mean)

	raw, err := json.Marshal(sum.Reps[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"is_good_form":true`)
}
