package exercises

import (
	"github.com/2beens/repcoach/internal/gymstats/kinematics"
	"github.com/2beens/repcoach/internal/pose"
)

const (
	feedbackFixBack  = "Fix Back!"
	feedbackGoodForm = "Good Form"

	qualityGood    = "good"
	qualityFixBack = "fix_back"
)

// pushupMachine counts on the transition to DOWN (elbow under Down while UP).
// The rep record is closed when the elbow is back above Up.
type pushupMachine struct {
	th PushupThresholds

	rep     kinematics.RepBuilder
	topT    float64
	bottomT float64
	counted bool
	badForm bool
}

func (m *pushupMachine) step(st *State, h *kinematics.History, f pose.Frame) *kinematics.RepRecord {
	side := pose.SelectSide(f.Keypoints, pose.LeftElbow, pose.RightElbow)
	elbowReading := f.Angles.Get(side.Pick(pose.AngleLeftElbow, pose.AngleRightElbow))
	hipReading := f.Angles.Get(side.Pick(pose.AngleLeftHip, pose.AngleRightHip))

	elbow, okElbow := elbowReading.Value()
	hip, okHip := hipReading.Value()
	if !okElbow || !okHip {
		st.Feedback = feedbackNotVisible
		return nil
	}

	h.RecordAngle(f.T, elbow)
	h.RecordSecondary(f.T, hip)
	m.rep.Observe(elbow)

	var closed *kinematics.RepRecord
	switch {
	case elbow > m.th.Up:
		if st.Stage == StageDown && m.counted {
			rec := m.close(h, f.T)
			closed = &rec
		}
		st.Stage = StageUp
		m.topT = f.T
		m.rep.Begin(f.T, elbow)
		m.badForm = false
	case elbow < m.th.Down && st.Stage == StageUp:
		st.Stage = StageDown
		st.Counter++
		m.counted = true
		m.bottomT = f.T
	}

	if hip < m.th.FormHipMin {
		st.Feedback = feedbackFixBack
		h.BadFormFrames++
		m.badForm = true
	} else {
		st.Feedback = feedbackGoodForm
	}

	return closed
}

func (m *pushupMachine) close(h *kinematics.History, t float64) kinematics.RepRecord {
	rec := m.rep.Finish(t)
	rec.EccentricSeconds = max(0, m.bottomT-m.topT)
	rec.ConcentricSeconds = max(0, t-m.bottomT)
	rec.Depth = rec.MinAngle
	rec.GoodForm = !m.badForm
	rec.Quality = qualityGood
	if m.badForm {
		rec.Quality = qualityFixBack
	}

	h.RecordTempo(rec.EccentricSeconds, rec.ConcentricSeconds)
	h.Depths = append(h.Depths, rec.Depth)
	m.counted = false
	return h.AppendRep(rec)
}

// PushupSummary is the push-up specific part of a Summary.
type PushupSummary struct {
	BadFormFrames int                     `json:"bad_form_frames"`
	Depth         kinematics.Distribution `json:"depth"`
	Tempo         TempoSummary            `json:"tempo"`
}

func (m *pushupMachine) summarize(sum *Summary, _ State, h *kinematics.History) {
	sum.Pushup = &PushupSummary{
		BadFormFrames: h.BadFormFrames,
		Depth:         kinematics.Describe(h.Depths),
		Tempo:         describeTempo(h),
	}
}
