package exercises

import (
	"math"
	"strings"

	"github.com/2beens/repcoach/internal/gymstats/kinematics"
	"github.com/2beens/repcoach/internal/pose"
)

const (
	StageValid   = "VALID"
	StageInvalid = "INVALID"

	feedbackSeparator = " | "

	ratingExcellent = "excellent"
	ratingGood      = "good"
	ratingNeedsWork = "needs_work"
)

// sitAndReachMachine has no reps. Its counter is the best reach as a
// percentage of arm length, which never goes down during a session.
type sitAndReachMachine struct {
	th SitAndReachThresholds
}

func (m *sitAndReachMachine) step(st *State, h *kinematics.History, f pose.Frame) *kinematics.RepRecord {
	reach, ok := f.Angles.Get(pose.DistanceReach).Value()
	if !ok {
		st.Feedback = feedbackNoPosition
		return nil
	}
	hip := f.Angles.Get(pose.AngleSitReachHip)
	back := f.Angles.Get(pose.AngleSitReachBack)
	knee := f.Angles.Get(pose.AngleSitReachKnee)
	arm := f.Angles.Get(pose.DistanceArmLength)
	symmetry := f.Angles.Get(pose.DistanceReachSymm)
	if !symmetry.Present() {
		lw, rw := f.Keypoints.At(pose.LeftWrist), f.Keypoints.At(pose.RightWrist)
		symmetry = pose.Present(math.Abs(lw.X - rw.X))
	}

	h.RecordAngle(f.T, reach)
	h.ObserveReach(f.T, reach)
	h.Momentum.Observe(f.T, reach)
	if v, ok := hip.Value(); ok {
		h.RecordSecondary(f.T, v)
		h.Hip.Add(v)
		h.ObserveHipFlexion(v)
	}
	if v, ok := back.Value(); ok {
		h.Back.Add(v)
	}
	if v, ok := knee.Value(); ok {
		h.Knee.Add(v)
		if v >= m.th.KneeValid {
			h.KneeValidFrames++
		}
	}
	symmetryPx, _ := symmetry.Value()
	h.Symmetry.Add(symmetryPx)

	best := h.Extremes.MaxReach
	var parts []string
	switch {
	case reach > best*m.th.MaxReachBand:
		parts = append(parts, "MAX REACH!")
	case reach > best*m.th.KeepReachingBand:
		parts = append(parts, "Keep Reaching")
	default:
		parts = append(parts, "Stretch Forward")
	}
	if knee.Below(m.th.KneeValid) {
		parts = append(parts, "Straighten Legs!")
	}
	if symmetryPx > m.th.SymmetryMax {
		parts = append(parts, "Balance Both Sides")
	}
	if v, ok := hip.Value(); ok {
		switch {
		case v < m.th.ExcellentHip:
			parts = append(parts, "Excellent Flex!")
		case v < m.th.AverageHip:
			parts = append(parts, "Good Flex")
		default:
			parts = append(parts, "Bend More")
		}
	}
	st.Feedback = strings.Join(parts, feedbackSeparator)

	if l, ok := arm.Value(); ok && l > 0 {
		st.Counter = max(st.Counter, int(best/l*100))
	}
	if knee.Present() && !knee.Below(m.th.KneeValid) {
		st.Stage = StageValid
	} else {
		st.Stage = StageInvalid
	}

	return nil
}

// SitAndReachSummary is the sit-and-reach specific part of a Summary.
type SitAndReachSummary struct {
	MaxReach        float64 `json:"max_reach"`
	ReachScore      int     `json:"reach_score"`
	TestDuration    float64 `json:"test_duration_seconds"`
	BestHipAngle    float64 `json:"best_hip_angle"`
	AvgHipAngle     float64 `json:"avg_hip_angle"`
	AvgBackAngle    float64 `json:"avg_back_angle"`
	AvgKneeAngle    float64 `json:"avg_knee_angle"`
	KneeValidPct    float64 `json:"knee_valid_pct"`
	AvgSymmetry     float64 `json:"avg_symmetry"`
	Momentum        float64 `json:"momentum"`
	FlexibilityRate string  `json:"flexibility_rating"`
}

func (m *sitAndReachMachine) summarize(sum *Summary, st State, h *kinematics.History) {
	s := &SitAndReachSummary{
		MaxReach:     kinematics.Round(h.Extremes.MaxReach, 1),
		ReachScore:   st.Counter,
		TestDuration: kinematics.Round(h.Elapsed(), 2),
		AvgHipAngle:  kinematics.Round(h.Hip.Mean(), 1),
		AvgBackAngle: kinematics.Round(h.Back.Mean(), 1),
		AvgKneeAngle: kinematics.Round(h.Knee.Mean(), 1),
		KneeValidPct: kinematics.Percent(h.KneeValidFrames, h.Knee.Count),
		AvgSymmetry:  kinematics.Round(h.Symmetry.Mean(), 1),
		Momentum:     h.Momentum.Score(),
	}

	if h.Hip.Count > 0 {
		s.BestHipAngle = kinematics.Round(h.Extremes.MinHipFlexion, 1)
		switch {
		case s.BestHipAngle < m.th.ExcellentHip:
			s.FlexibilityRate = ratingExcellent
		case s.BestHipAngle < m.th.AverageHip:
			s.FlexibilityRate = ratingGood
		default:
			s.FlexibilityRate = ratingNeedsWork
		}
	}

	sum.SitAndReach = s
}
