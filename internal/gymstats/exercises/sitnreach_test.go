package exercises_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/repcoach/internal/gymstats/exercises"
	"github.com/2beens/repcoach/internal/pose"
)

func reachFrame(t, reach, knee, hip float64) pose.Frame {
	return frame(t, standingKeypoints(), pose.AngleBundle{
		pose.DistanceReach:     reach,
		pose.DistanceArmLength: 200,
		pose.AngleSitReachKnee: knee,
		pose.AngleSitReachHip:  hip,
		pose.AngleSitReachBack: 120,
	})
}

func TestSitAndReach_ScoreIsMonotonic(t *testing.T) {
	s := newSession(t, exercises.KindSitAndReach)
	results := feed(s, []pose.Frame{
		reachFrame(0, 100, 170, 55),
		reachFrame(1, 150, 170, 55),
		reachFrame(2, 120, 170, 75),
	})

	assert.Equal(t, 50, results[0].Counter)
	assert.Equal(t, "MAX REACH! | Excellent Flex!", results[0].Feedback)
	assert.Equal(t, exercises.StageValid, results[0].Stage)

	assert.Equal(t, 75, results[1].Counter)
	assert.Equal(t, 75, results[2].Counter)
	assert.Equal(t, "Stretch Forward | Good Flex", results[2].Feedback)
	assert.Equal(t, 150.0, s.History().Extremes.MaxReach)
}

func TestSitAndReach_BentKnees(t *testing.T) {
	s := newSession(t, exercises.KindSitAndReach)
	res := s.Process(reachFrame(0, 100, 150, 90))

	assert.Equal(t, "MAX REACH! | Straighten Legs! | Bend More", res.Feedback)
	assert.Equal(t, exercises.StageInvalid, res.Stage)
}

func TestSitAndReach_Asymmetric(t *testing.T) {
	s := newSession(t, exercises.KindSitAndReach)
	ks := standingKeypoints()
	ks[pose.LeftWrist].X = 200
	ks[pose.RightWrist].X = 300

	res := s.Process(frame(0, ks, pose.AngleBundle{
		pose.DistanceReach:     100,
		pose.AngleSitReachKnee: 170,
	}))
	assert.Equal(t, "MAX REACH! | Balance Both Sides", res.Feedback)
	// no arm length, no score
	assert.Equal(t, 0, res.Counter)
}

func TestSitAndReach_PositionNotVisible(t *testing.T) {
	s := newSession(t, exercises.KindSitAndReach)
	res := s.Process(frame(0, standingKeypoints(), pose.AngleBundle{pose.AngleSitReachKnee: 170}))
	assert.Equal(t, "Position not visible", res.Feedback)
}

func TestSitAndReach_Summary(t *testing.T) {
	s := newSession(t, exercises.KindSitAndReach)
	feed(s, []pose.Frame{
		reachFrame(0, 100, 170, 70),
		reachFrame(2, 150, 160, 55),
	})

	sum := s.Summary()
	require.NotNil(t, sum.SitAndReach)
	assert.Equal(t, 150.0, sum.SitAndReach.MaxReach)
	assert.Equal(t, 75, sum.SitAndReach.ReachScore)
	assert.Equal(t, 2.0, sum.SitAndReach.TestDuration)
	assert.Equal(t, 55.0, sum.SitAndReach.BestHipAngle)
	assert.Equal(t, "excellent", sum.SitAndReach.FlexibilityRate)
	assert.Equal(t, 50.0, sum.SitAndReach.KneeValidPct)
	assert.Equal(t, 0, sum.CompletedReps)
	assert.Equal(t, 0, sum.IncompleteReps)
}
