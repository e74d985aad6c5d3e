package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/repcoach/internal/gymstats/analysis"
	"github.com/2beens/repcoach/internal/gymstats/exercises"
	"github.com/2beens/repcoach/internal/pose"
)

// pushupFramesWithNoise emits the elbow sequence at 10 fps with a random
// number of undetected frames after each detected one.
func pushupFramesWithNoise(elbows ...float64) ([]pose.Frame, int) {
	ks := make(pose.KeypointSet, pose.KeypointCount)
	for i := range ks {
		ks[i] = pose.Keypoint{X: gofakeit.Float64Range(100, 500), Y: gofakeit.Float64Range(100, 500), Confidence: 0.9}
	}

	var frames []pose.Frame
	undetected := 0
	t := 0.0
	for _, e := range elbows {
		frames = append(frames, pose.Frame{
			T:         t,
			Keypoints: ks,
			Angles: pose.AngleBundle{
				pose.AngleLeftElbow: e,
				pose.AngleLeftHip:   175,
			},
		})
		t += 0.1
		for n := gofakeit.Number(0, 3); n > 0; n-- {
			frames = append(frames, pose.Frame{T: t})
			undetected++
			t += 0.1
		}
	}
	return frames, undetected
}

func (s *IntegrationTestSuite) postAnalyze(ctx context.Context, body []byte) (*http.Response, []byte) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverEndpoint+"/analyze", bytes.NewReader(body))
	require.NoError(s.T(), err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	return resp, respBytes
}

func (s *IntegrationTestSuite) get(ctx context.Context, path string) (*http.Response, []byte) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverEndpoint+path, nil)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	return resp, respBytes
}

func (s *IntegrationTestSuite) TestAnalysis_AnalyzeAndFetch() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames, undetected := pushupFramesWithNoise(170, 80, 170, 80, 170, 80, 170)
	body, err := json.Marshal(analysis.Request{Exercise: "pushup", Frames: frames})
	require.NoError(s.T(), err)

	resp, respBytes := s.postAnalyze(ctx, body)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, string(respBytes))

	var created analysis.Result
	require.NoError(s.T(), json.Unmarshal(respBytes, &created))
	assert.True(s.T(), created.Success)
	assert.Equal(s.T(), exercises.KindPushup, created.Exercise)
	assert.Equal(s.T(), 3, created.Metrics.Counter)
	assert.Equal(s.T(), 7, created.Metrics.FramesProcessed)
	assert.Equal(s.T(), undetected, created.Metrics.FramesUndetected)

	s.T().Run("fetch stored result", func(t *testing.T) {
		resp, respBytes := s.get(ctx, "/analyses/"+created.ID)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var fetched analysis.Result
		require.NoError(t, json.Unmarshal(respBytes, &fetched))
		assert.Equal(t, created.ID, fetched.ID)
		assert.Equal(t, created.Metrics.Counter, fetched.Metrics.Counter)
		assert.Len(t, fetched.Metrics.Reps, 3)
	})

	s.T().Run("download reps parquet", func(t *testing.T) {
		resp, respBytes := s.get(ctx, fmt.Sprintf("/analyses/%s/reps.parquet", created.ID))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Greater(t, len(respBytes), 8)
		// parquet files start and end with the PAR1 magic
		assert.Equal(t, "PAR1", string(respBytes[:4]))
	})
}

func (s *IntegrationTestSuite) TestAnalysis_Errors() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.T().Run("unknown exercise", func(t *testing.T) {
		resp, _ := s.postAnalyze(ctx, []byte(`{"exercise_type": "burpee", "frames": [{"t": 0}]}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	s.T().Run("no frames", func(t *testing.T) {
		resp, _ := s.postAnalyze(ctx, []byte(`{"exercise_type": "squat", "frames": []}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	s.T().Run("unknown analysis", func(t *testing.T) {
		resp, _ := s.get(ctx, "/analyses/"+gofakeit.UUID())
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func (s *IntegrationTestSuite) TestExercises() {
	resp, respBytes := s.get(context.Background(), "/exercises")
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var list struct {
		Exercises []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"exercises"`
	}
	require.NoError(s.T(), json.Unmarshal(respBytes, &list))
	assert.Len(s.T(), list.Exercises, len(exercises.Kinds()))
}
