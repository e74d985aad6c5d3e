package exercises

import (
	"fmt"
	"math"

	"github.com/2beens/repcoach/internal/gymstats/kinematics"
	"github.com/2beens/repcoach/internal/pose"
)

const (
	qualityGoodDrive = "good_drive"
	qualityNoDip     = "no_countermovement"
)

type bjumpPhase string

const (
	bjumpStanding bjumpPhase = "standing"
	bjumpAirborne bjumpPhase = "airborne"
	bjumpLanding  bjumpPhase = "landing"
)

// broadJumpMachine measures the horizontal ankle travel between takeoff and
// landing. Jumps shorter than MinDistance are attempts, not reps.
type broadJumpMachine struct {
	th    BroadJumpThresholds
	phase bjumpPhase

	startX      float64
	standT      float64
	takeoffT    float64
	landingT    float64
	peak        float64
	distance    float64
	dip         float64
	takeoffDip  float64
	landingKnee float64
	kneeSeen    bool
	counted     bool
}

func (m *broadJumpMachine) step(st *State, h *kinematics.History, f pose.Frame) *kinematics.RepRecord {
	side := pose.SelectSide(f.Keypoints, pose.LeftKnee, pose.RightKnee)
	knee := f.Angles.Get(side.Pick(pose.AngleLeftKnee, pose.AngleRightKnee))
	ankles := f.Keypoints.Midpoint(pose.LeftAnkle, pose.RightAnkle)
	lift := h.Ground.Lift(ankles.Y)

	if v, ok := knee.Value(); ok {
		h.RecordAngle(f.T, v)
	}
	h.RecordSecondary(f.T, ankles.X)
	h.ObserveJumpHeight(lift)

	var closed *kinematics.RepRecord
	switch m.phase {
	case bjumpStanding:
		if h.Ground.Ready() && lift > m.th.TakeoffLift {
			m.phase = bjumpAirborne
			m.takeoffT = f.T
			m.takeoffDip = m.dip
			m.peak = lift
			m.distance = 0
			st.Feedback = "Takeoff!"
			break
		}
		if v, ok := knee.Value(); ok && v < m.th.StandKnee {
			m.dip = min(m.dip, v)
		} else {
			m.dip = knee.Or(m.th.StandKnee)
		}
		h.Ground.Observe(ankles.Y)
		m.startX = ankles.X
		m.standT = f.T
		st.Feedback = "Ready - Swing and Jump!"
	case bjumpAirborne:
		m.peak = max(m.peak, lift)
		m.distance = math.Abs(ankles.X - m.startX)
		h.ObserveJumpDistance(m.distance)
		st.Feedback = fmt.Sprintf("Distance: %.0fpx", m.distance)
		if lift <= m.th.TakeoffLift {
			m.phase = bjumpLanding
			m.landingT = f.T
			m.landingKnee, m.kneeSeen = knee.Or(0), knee.Present()
			if m.distance >= m.th.MinDistance {
				st.Counter++
				m.counted = true
				st.Feedback = fmt.Sprintf("Jump %d: %.0fpx", st.Counter, m.distance)
			} else {
				h.Attempts++
				st.Feedback = "Jump Further!"
			}
		}
	case bjumpLanding:
		v, ok := knee.Value()
		if !ok {
			// hold the landing until the knee is visible again
			break
		}
		if !m.kneeSeen {
			m.landingKnee, m.kneeSeen = v, true
		}
		m.landingKnee = min(m.landingKnee, v)
		if v >= m.th.StandKnee {
			if m.counted {
				rec := m.close(h, f.T)
				closed = &rec
				if rec.GoodForm {
					st.Feedback = "Great Jump!"
				} else {
					st.Feedback = "Bend Knees Before Takeoff"
				}
			}
			m.phase = bjumpStanding
			m.counted = false
			m.dip = knee.Or(m.th.StandKnee)
			m.startX = ankles.X
		}
	}

	st.Stage = string(m.phase)
	return closed
}

func (m *broadJumpMachine) close(h *kinematics.History, t float64) kinematics.RepRecord {
	rec := kinematics.RepRecord{
		StartT:          m.standT,
		EndT:            t,
		DurationSeconds: max(0, t-m.standT),
		MinAngle:        m.takeoffDip,
		MaxAngle:        m.th.StandKnee,
		Distance:        kinematics.Round(m.distance, 1),
		Height:          kinematics.Round(m.peak, 1),
		AirTimeSeconds:  max(0, m.landingT-m.takeoffT),
		Countermovement: m.takeoffDip,
		LandingKnee:     m.landingKnee,
	}
	rec.GoodForm = m.takeoffDip <= m.th.GoodCountermovement
	rec.Quality = qualityGoodDrive
	if !rec.GoodForm {
		rec.Quality = qualityNoDip
	}

	h.Distances = append(h.Distances, rec.Distance)
	h.AirTimes = append(h.AirTimes, rec.AirTimeSeconds)
	h.Countermovements = append(h.Countermovements, rec.Countermovement)
	return h.AppendRep(rec)
}

// BroadJumpSummary is the broad jump specific part of a Summary.
type BroadJumpSummary struct {
	Jumps           int                     `json:"jumps"`
	Attempts        int                     `json:"attempts"`
	BestDistance    float64                 `json:"best_distance"`
	Distance        kinematics.Distribution `json:"distance"`
	AirTime         kinematics.Distribution `json:"air_time"`
	Countermovement kinematics.Distribution `json:"countermovement"`
}

func (m *broadJumpMachine) summarize(sum *Summary, st State, h *kinematics.History) {
	s := &BroadJumpSummary{
		Jumps:           st.Counter,
		Attempts:        h.Attempts,
		Distance:        kinematics.Describe(h.Distances),
		AirTime:         kinematics.Describe(h.AirTimes),
		Countermovement: kinematics.Describe(h.Countermovements),
	}
	for _, rep := range h.Reps() {
		s.BestDistance = max(s.BestDistance, rep.Distance)
	}
	sum.BroadJump = s
}
