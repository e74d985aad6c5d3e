package exercises_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/2beens/repcoach/internal/gymstats/exercises"
	"github.com/2beens/repcoach/internal/pose"
)

// standingKeypoints is a front facing person with feet at y=500.
func standingKeypoints() pose.KeypointSet {
	ks := make(pose.KeypointSet, pose.KeypointCount)
	for i := range ks {
		ks[i] = pose.Keypoint{X: 300, Y: 300, Confidence: 0.8}
	}
	ks[pose.Nose] = pose.Keypoint{X: 300, Y: 100, Confidence: 0.9}
	ks[pose.LeftShoulder] = pose.Keypoint{X: 260, Y: 200, Confidence: 0.9}
	ks[pose.RightShoulder] = pose.Keypoint{X: 340, Y: 200, Confidence: 0.9}
	ks[pose.LeftWrist] = pose.Keypoint{X: 300, Y: 320, Confidence: 0.8}
	ks[pose.RightWrist] = pose.Keypoint{X: 300, Y: 320, Confidence: 0.8}
	ks[pose.LeftAnkle] = pose.Keypoint{X: 300, Y: 500, Confidence: 0.8}
	ks[pose.RightAnkle] = pose.Keypoint{X: 300, Y: 500, Confidence: 0.8}
	return ks
}

func withAnkles(ks pose.KeypointSet, x, y float64) pose.KeypointSet {
	ks[pose.LeftAnkle].X, ks[pose.LeftAnkle].Y = x, y
	ks[pose.RightAnkle].X, ks[pose.RightAnkle].Y = x, y
	return ks
}

func frame(t float64, ks pose.KeypointSet, angles pose.AngleBundle) pose.Frame {
	return pose.Frame{T: t, Keypoints: ks, Angles: angles}
}

func newSession(t *testing.T, kind exercises.Kind) *exercises.Session {
	t.Helper()
	s, err := exercises.NewSession(kind, exercises.DefaultThresholds(), exercises.WithClock(func() time.Time {
		return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	return s
}

// feed processes all frames and returns the result of each one.
func feed(s *exercises.Session, frames []pose.Frame) []exercises.FrameResult {
	results := make([]exercises.FrameResult, 0, len(frames))
	for _, f := range frames {
		results = append(results, s.Process(f))
	}
	return results
}

func closedReps(results []exercises.FrameResult) int {
	n := 0
	for _, r := range results {
		if r.Rep != nil {
			n++
		}
	}
	return n
}
