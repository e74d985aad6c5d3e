package exercises_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/repcoach/internal/gymstats/exercises"
	"github.com/2beens/repcoach/internal/pose"
)

type jumpFrame struct {
	knee   float64
	ankleX float64
	ankleY float64
}

func jumpFrames(in []jumpFrame) []pose.Frame {
	frames := make([]pose.Frame, 0, len(in))
	for i, f := range in {
		ks := withAnkles(standingKeypoints(), f.ankleX, f.ankleY)
		frames = append(frames, frame(float64(i)*0.1, ks, pose.AngleBundle{pose.AngleLeftKnee: f.knee}))
	}
	return frames
}

func TestVerticalJump_SoftLanding(t *testing.T) {
	s := newSession(t, exercises.KindVerticalJump)
	results := feed(s, jumpFrames([]jumpFrame{
		{knee: 170, ankleX: 300, ankleY: 500},
		{knee: 170, ankleX: 300, ankleY: 500},
		{knee: 170, ankleX: 300, ankleY: 500},
		{knee: 100, ankleX: 300, ankleY: 500},
		{knee: 120, ankleX: 300, ankleY: 450},
		{knee: 170, ankleX: 300, ankleY: 420},
		{knee: 170, ankleX: 300, ankleY: 470},
		{knee: 130, ankleX: 300, ankleY: 498},
		{knee: 120, ankleX: 300, ankleY: 500},
		{knee: 165, ankleX: 300, ankleY: 500},
	}))

	assert.Equal(t, "preparing", results[3].Stage)
	assert.Equal(t, "airborne", results[4].Stage)
	assert.Equal(t, 1, results[7].Counter)
	assert.Equal(t, "landing", results[7].Stage)
	assert.Equal(t, "Jump 1: 80px", results[7].Feedback)

	rep := results[9].Rep
	require.NotNil(t, rep)
	assert.Equal(t, "standing", results[9].Stage)
	assert.Equal(t, 80.0, rep.Height)
	assert.Equal(t, 100.0, rep.Countermovement)
	assert.Equal(t, 120.0, rep.LandingKnee)
	assert.InDelta(t, 0.3, rep.AirTimeSeconds, 1e-9)
	assert.True(t, rep.GoodForm)
	assert.Equal(t, "soft_landing", rep.Quality)
	assert.Equal(t, "Great Landing!", results[9].Feedback)

	sum := s.Summary()
	require.NotNil(t, sum.VerticalJump)
	assert.Equal(t, 80.0, sum.VerticalJump.BestHeight)
	assert.Equal(t, 80.0, sum.Extremes.MaxJumpHeight)
	assert.Equal(t, 1, sum.VerticalJump.SoftLandings)
}

func TestVerticalJump_TooLowIsAttempt(t *testing.T) {
	s := newSession(t, exercises.KindVerticalJump)
	feed(s, jumpFrames([]jumpFrame{
		{knee: 170, ankleX: 300, ankleY: 500},
		{knee: 100, ankleX: 300, ankleY: 500},
		{knee: 150, ankleX: 300, ankleY: 480},
		{knee: 140, ankleX: 300, ankleY: 500},
		{knee: 170, ankleX: 300, ankleY: 500},
	}))

	assert.Equal(t, 0, s.State().Counter)
	assert.Equal(t, 1, s.History().Attempts)
	assert.Equal(t, 0, s.History().RepCount())
}

func TestVerticalJump_AbortedDip(t *testing.T) {
	s := newSession(t, exercises.KindVerticalJump)
	results := feed(s, jumpFrames([]jumpFrame{
		{knee: 170, ankleX: 300, ankleY: 500},
		{knee: 120, ankleX: 300, ankleY: 500},
		{knee: 170, ankleX: 300, ankleY: 500},
	}))

	assert.Equal(t, "standing", results[2].Stage)
	assert.Equal(t, 0, s.History().Attempts)
}

func TestBroadJump_Distance(t *testing.T) {
	s := newSession(t, exercises.KindBroadJump)
	results := feed(s, jumpFrames([]jumpFrame{
		{knee: 170, ankleX: 100, ankleY: 500},
		{knee: 170, ankleX: 100, ankleY: 500},
		{knee: 100, ankleX: 100, ankleY: 500},
		{knee: 150, ankleX: 130, ankleY: 480},
		{knee: 160, ankleX: 180, ankleY: 460},
		{knee: 130, ankleX: 220, ankleY: 505},
		{knee: 120, ankleX: 220, ankleY: 500},
		{knee: 170, ankleX: 220, ankleY: 500},
	}))

	assert.Equal(t, "airborne", results[3].Stage)
	assert.Equal(t, 1, results[5].Counter)
	assert.Equal(t, "Jump 1: 120px", results[5].Feedback)

	rep := results[7].Rep
	require.NotNil(t, rep)
	assert.Equal(t, 120.0, rep.Distance)
	assert.Equal(t, 100.0, rep.Countermovement)
	assert.Equal(t, 120.0, rep.LandingKnee)
	assert.True(t, rep.GoodForm)

	sum := s.Summary()
	require.NotNil(t, sum.BroadJump)
	assert.Equal(t, 120.0, sum.BroadJump.BestDistance)
	assert.Equal(t, 120.0, sum.Extremes.MaxJumpDistance)
}

func TestBroadJump_LandingKneeFromFirstVisibleReading(t *testing.T) {
	frames := jumpFrames([]jumpFrame{
		{knee: 170, ankleX: 100, ankleY: 500},
		{knee: 170, ankleX: 100, ankleY: 500},
		{knee: 100, ankleX: 100, ankleY: 500},
		{knee: 150, ankleX: 130, ankleY: 480},
		{knee: 160, ankleX: 180, ankleY: 460},
		{ankleX: 220, ankleY: 505},
		{ankleX: 220, ankleY: 500},
		{knee: 125, ankleX: 220, ankleY: 500},
		{knee: 170, ankleX: 220, ankleY: 500},
	})
	// knee occluded on touchdown and the frame after
	frames[5].Angles = pose.AngleBundle{}
	frames[6].Angles = pose.AngleBundle{}

	s := newSession(t, exercises.KindBroadJump)
	results := feed(s, frames)

	assert.Equal(t, "landing", results[5].Stage)
	assert.Equal(t, 1, results[5].Counter)
	assert.Equal(t, "landing", results[6].Stage)
	assert.Nil(t, results[6].Rep)

	rep := results[8].Rep
	require.NotNil(t, rep)
	assert.Equal(t, "standing", results[8].Stage)
	assert.Equal(t, 125.0, rep.LandingKnee)
	assert.Equal(t, 120.0, rep.Distance)
}

func TestBroadJump_ShortJumpIsAttempt(t *testing.T) {
	s := newSession(t, exercises.KindBroadJump)
	feed(s, jumpFrames([]jumpFrame{
		{knee: 170, ankleX: 100, ankleY: 500},
		{knee: 100, ankleX: 100, ankleY: 500},
		{knee: 150, ankleX: 110, ankleY: 480},
		{knee: 150, ankleX: 130, ankleY: 500},
		{knee: 170, ankleX: 130, ankleY: 500},
	}))

	assert.Equal(t, 0, s.State().Counter)
	assert.Equal(t, 1, s.History().Attempts)
}
