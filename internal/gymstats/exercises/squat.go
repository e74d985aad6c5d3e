package exercises

import (
	"github.com/2beens/repcoach/internal/gymstats/kinematics"
	"github.com/2beens/repcoach/internal/pose"
)

const (
	feedbackGreatDepth = "Great Depth!"
	feedbackGoLower    = "Go Lower"
	feedbackTooMuch    = "Too Much Lean!"
	feedbackSquat      = "Squat"

	qualityGreatDepth = "great_depth"
	qualityShallow    = "shallow"
	qualityLean       = "too_much_lean"
)

// squatMachine counts on the knee angle crossing Down from UP. The lift out
// of the hole is followed by the velocity tracker to find the sticking point.
type squatMachine struct {
	th SquatThresholds

	rep     kinematics.RepBuilder
	topT    float64
	bottomT float64
	counted bool
	maxLean float64
}

func (m *squatMachine) step(st *State, h *kinematics.History, f pose.Frame) *kinematics.RepRecord {
	side := pose.SelectSide(f.Keypoints, pose.LeftKnee, pose.RightKnee)
	knee, ok := f.Angles.Get(side.Pick(pose.AngleLeftKnee, pose.AngleRightKnee)).Value()
	if !ok {
		st.Feedback = feedbackNoLegs
		return nil
	}
	torso := f.Angles.Get(pose.AngleTorso)

	h.RecordAngle(f.T, knee)
	if v, ok := torso.Value(); ok {
		h.RecordSecondary(f.T, v)
	}
	h.Velocity.Observe(f.T, knee)
	m.rep.Observe(knee)
	if m.rep.Active() {
		m.maxLean = max(m.maxLean, torso.Or(0))
	}

	var closed *kinematics.RepRecord
	switch {
	case knee > m.th.Up:
		if st.Stage == StageDown && m.counted {
			rec := m.close(h, f.T)
			closed = &rec
		}
		st.Stage = StageUp
		st.Feedback = feedbackSquat
		m.topT = f.T
		m.rep.Begin(f.T, knee)
		m.maxLean = torso.Or(0)
		h.Velocity.StartDescent(knee)
	case knee < m.th.Down:
		if st.Stage == StageUp {
			st.Stage = StageDown
			st.Counter++
			m.counted = true
			m.bottomT = f.T
			st.Feedback = feedbackGoLower
		}
		if st.Stage == StageDown && knee < m.th.Deep {
			st.Feedback = feedbackGreatDepth
		}
	default:
		if st.Stage != StageDown {
			st.Feedback = feedbackSquat
		}
	}

	if torso.Above(m.th.MaxTorsoLean) {
		st.Feedback = feedbackTooMuch
	}

	return closed
}

func (m *squatMachine) close(h *kinematics.History, t float64) kinematics.RepRecord {
	h.Velocity.Stop()

	rec := m.rep.Finish(t)
	rec.EccentricSeconds = max(0, m.bottomT-m.topT)
	rec.ConcentricSeconds = max(0, t-m.bottomT)
	rec.Depth = rec.MinAngle
	rec.TorsoLean = m.maxLean

	if sp, ok := h.Velocity.StickingPoint(); ok {
		rec.StickingPoint = &sp
		h.StickingPoints = append(h.StickingPoints, sp)
	}

	deep := rec.Depth < m.th.Deep
	leaning := m.maxLean > m.th.MaxTorsoLean
	rec.GoodForm = deep && !leaning
	switch {
	case leaning:
		rec.Quality = qualityLean
	case deep:
		rec.Quality = qualityGreatDepth
	default:
		rec.Quality = qualityShallow
	}

	h.RecordTempo(rec.EccentricSeconds, rec.ConcentricSeconds)
	h.Depths = append(h.Depths, rec.Depth)
	m.counted = false
	return h.AppendRep(rec)
}

// SquatSummary is the squat specific part of a Summary.
type SquatSummary struct {
	DeepReps       int                     `json:"deep_reps"`
	LeaningReps    int                     `json:"leaning_reps"`
	Depth          kinematics.Distribution `json:"depth"`
	StickingPoints kinematics.Distribution `json:"sticking_points"`
	TorsoLean      kinematics.Distribution `json:"torso_lean"`
	Tempo          TempoSummary            `json:"tempo"`
}

func (m *squatMachine) summarize(sum *Summary, _ State, h *kinematics.History) {
	s := &SquatSummary{
		Depth:          kinematics.Describe(h.Depths),
		StickingPoints: kinematics.Describe(h.StickingPoints),
		Tempo:          describeTempo(h),
	}

	var leans []float64
	for _, rep := range h.Reps() {
		if rep.Depth < m.th.Deep {
			s.DeepReps++
		}
		if rep.Quality == qualityLean {
			s.LeaningReps++
		}
		leans = append(leans, rep.TorsoLean)
	}
	s.TorsoLean = kinematics.Describe(leans)

	sum.Squat = s
}
