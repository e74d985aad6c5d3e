package exercises

import (
	"fmt"

	"github.com/2beens/repcoach/internal/gymstats/kinematics"
	"github.com/2beens/repcoach/internal/pose"
)

const (
	qualitySoftLanding  = "soft_landing"
	qualityStiffLanding = "stiff_landing"
	qualityDeepLanding  = "deep_landing"
	qualityShallowDip   = "shallow_countermovement"
)

type vjumpPhase string

const (
	vjumpStanding  vjumpPhase = "standing"
	vjumpPreparing vjumpPhase = "preparing"
	vjumpAirborne  vjumpPhase = "airborne"
	vjumpLanding   vjumpPhase = "landing"
)

// verticalJumpMachine runs standing -> preparing -> airborne -> landing ->
// standing. A jump is counted on landing when its height reached MinHeight;
// the record is closed once the athlete stands up again.
type verticalJumpMachine struct {
	th    VerticalJumpThresholds
	phase vjumpPhase

	prepT       float64
	takeoffT    float64
	landingT    float64
	peak        float64
	minKnee     float64
	landingKnee float64
	counted     bool
}

func (m *verticalJumpMachine) step(st *State, h *kinematics.History, f pose.Frame) *kinematics.RepRecord {
	side := pose.SelectSide(f.Keypoints, pose.LeftKnee, pose.RightKnee)
	sideKnee := f.Angles.Get(side.Pick(pose.AngleLeftKnee, pose.AngleRightKnee))
	knee, ok := f.Angles.Get(pose.AngleVJumpCounter).Value()
	if !ok {
		if knee, ok = sideKnee.Value(); !ok {
			st.Feedback = feedbackNoLegs
			return nil
		}
	}
	landingKnee := f.Angles.Get(pose.AngleVJumpLanding).Or(knee)

	ankles := f.Keypoints.Midpoint(pose.LeftAnkle, pose.RightAnkle)
	lift := h.Ground.Lift(ankles.Y)
	h.RecordAngle(f.T, knee)
	h.RecordSecondary(f.T, lift)
	h.ObserveJumpHeight(lift)

	var closed *kinematics.RepRecord
	switch m.phase {
	case vjumpStanding:
		if lift < m.th.TakeoffLift {
			h.Ground.Observe(ankles.Y)
		}
		if knee < m.th.PrepKnee {
			m.phase = vjumpPreparing
			m.prepT = f.T
			m.minKnee = knee
			st.Feedback = "Loading..."
		} else {
			st.Feedback = "Ready - Dip and Jump!"
		}
	case vjumpPreparing:
		m.minKnee = min(m.minKnee, knee)
		switch {
		case h.Ground.Ready() && lift > m.th.TakeoffLift:
			m.phase = vjumpAirborne
			m.takeoffT = f.T
			m.peak = lift
			st.Feedback = "Takeoff!"
		case knee >= m.th.PrepKnee:
			// stood back up without jumping
			m.phase = vjumpStanding
			st.Feedback = "Ready - Dip and Jump!"
		default:
			st.Feedback = fmt.Sprintf("Dip: %.0f°", m.minKnee)
		}
	case vjumpAirborne:
		m.peak = max(m.peak, lift)
		st.Feedback = fmt.Sprintf("Height: %.0fpx", m.peak)
		if lift <= m.th.TakeoffLift {
			m.phase = vjumpLanding
			m.landingT = f.T
			m.landingKnee = landingKnee
			if m.peak >= m.th.MinHeight {
				st.Counter++
				m.counted = true
				st.Feedback = fmt.Sprintf("Jump %d: %.0fpx", st.Counter, m.peak)
			} else {
				h.Attempts++
				st.Feedback = "Jump Higher!"
			}
		}
	case vjumpLanding:
		m.landingKnee = min(m.landingKnee, landingKnee)
		if knee >= m.th.PrepKnee {
			if m.counted {
				rec := m.close(h, f.T)
				closed = &rec
				st.Feedback = m.landingFeedback(rec)
			}
			m.phase = vjumpStanding
			m.counted = false
		}
	}

	st.Stage = string(m.phase)
	return closed
}

func (m *verticalJumpMachine) close(h *kinematics.History, t float64) kinematics.RepRecord {
	rec := kinematics.RepRecord{
		StartT:          m.prepT,
		EndT:            t,
		DurationSeconds: max(0, t-m.prepT),
		MinAngle:        m.minKnee,
		MaxAngle:        m.th.PrepKnee,
		Height:          kinematics.Round(m.peak, 1),
		AirTimeSeconds:  max(0, m.landingT-m.takeoffT),
		Countermovement: m.minKnee,
		LandingKnee:     m.landingKnee,
	}

	goodDip := m.minKnee <= m.th.GoodCountermovement
	switch {
	case m.landingKnee > m.th.LandingMax:
		rec.Quality = qualityStiffLanding
	case m.landingKnee < m.th.LandingMin:
		rec.Quality = qualityDeepLanding
	case !goodDip:
		rec.Quality = qualityShallowDip
	default:
		rec.Quality = qualitySoftLanding
	}
	rec.GoodForm = rec.Quality == qualitySoftLanding

	h.Heights = append(h.Heights, rec.Height)
	h.AirTimes = append(h.AirTimes, rec.AirTimeSeconds)
	h.Countermovements = append(h.Countermovements, rec.Countermovement)
	h.LandingKnees = append(h.LandingKnees, rec.LandingKnee)
	return h.AppendRep(rec)
}

func (m *verticalJumpMachine) landingFeedback(rec kinematics.RepRecord) string {
	switch rec.Quality {
	case qualityStiffLanding:
		return "Bend Knees on Landing!"
	case qualityDeepLanding:
		return "Land Softer - Too Deep"
	case qualityShallowDip:
		return "Dip Deeper Before Jumping"
	default:
		return "Great Landing!"
	}
}

// VerticalJumpSummary is the vertical jump specific part of a Summary.
type VerticalJumpSummary struct {
	Jumps           int                     `json:"jumps"`
	Attempts        int                     `json:"attempts"`
	BestHeight      float64                 `json:"best_height"`
	SoftLandings    int                     `json:"soft_landings"`
	Height          kinematics.Distribution `json:"height"`
	AirTime         kinematics.Distribution `json:"air_time"`
	Countermovement kinematics.Distribution `json:"countermovement"`
	LandingKnee     kinematics.Distribution `json:"landing_knee"`
}

func (m *verticalJumpMachine) summarize(sum *Summary, st State, h *kinematics.History) {
	s := &VerticalJumpSummary{
		Jumps:           st.Counter,
		Attempts:        h.Attempts,
		Height:          kinematics.Describe(h.Heights),
		AirTime:         kinematics.Describe(h.AirTimes),
		Countermovement: kinematics.Describe(h.Countermovements),
		LandingKnee:     kinematics.Describe(h.LandingKnees),
	}
	for _, rep := range h.Reps() {
		s.BestHeight = max(s.BestHeight, rep.Height)
		if rep.Quality == qualitySoftLanding {
			s.SoftLandings++
		}
	}
	sum.VerticalJump = s
}
