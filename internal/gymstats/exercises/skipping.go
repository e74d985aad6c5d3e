package exercises

import (
	"fmt"
	"math"
	"strings"

	"github.com/2beens/repcoach/internal/gymstats/kinematics"
	"github.com/2beens/repcoach/internal/pose"
)

const (
	StageAir    = "AIR"
	StageGround = "GROUND"

	qualityClean  = "clean"
	qualityBroken = "form_break"
)

type skipPhase string

const (
	skipGround skipPhase = "ground"
	skipAir    skipPhase = "air"
)

// skippingMachine counts a skip at takeoff: the ankles rise JumpThreshold
// above the grounded baseline. Landing is detected under MinHeight, the gap
// between both marks keeps noise from double counting.
type skippingMachine struct {
	th    SkippingThresholds
	phase skipPhase

	takeoffT   float64
	peak       float64
	formBroken bool
}

func (m *skippingMachine) step(st *State, h *kinematics.History, f pose.Frame) *kinematics.RepRecord {
	ankles := f.Keypoints.Midpoint(pose.LeftAnkle, pose.RightAnkle)
	back := f.Angles.Get(pose.AngleSkipBack)
	knee := f.Angles.Get(pose.AngleSkipKnee)
	if !knee.Present() {
		side := pose.SelectSide(f.Keypoints, pose.LeftKnee, pose.RightKnee)
		knee = f.Angles.Get(side.Pick(pose.AngleLeftKnee, pose.AngleRightKnee))
	}

	lift := h.Ground.Lift(ankles.Y)
	h.RecordAngle(f.T, lift)
	h.ObserveJumpHeight(lift)
	if v, ok := knee.Value(); ok {
		h.Knee.Add(v)
	}

	notUpright := false
	if v, ok := back.Value(); ok {
		h.Back.Add(v)
		notUpright = math.Abs(v-180) > m.th.UprightTolerance
	}
	bentKnee := knee.Below(m.th.MinKnee)
	if notUpright || bentKnee {
		h.BadFormFrames++
	}

	var closed *kinematics.RepRecord
	switch m.phase {
	case skipGround:
		if h.Ground.Ready() && lift >= m.th.JumpThreshold {
			m.phase = skipAir
			st.Counter++
			h.Rate.Add(f.T)
			m.takeoffT = f.T
			m.peak = lift
			m.formBroken = notUpright || bentKnee
		} else if lift < m.th.MinHeight {
			h.Ground.Observe(ankles.Y)
		}
	case skipAir:
		m.peak = max(m.peak, lift)
		m.formBroken = m.formBroken || notUpright || bentKnee
		if lift < m.th.MinHeight {
			m.phase = skipGround
			rec := m.land(h, f.T)
			closed = &rec
			h.Ground.Observe(ankles.Y)
		}
	}

	if m.phase == skipAir {
		st.Stage = StageAir
	} else {
		st.Stage = StageGround
	}
	st.Feedback = m.feedback(st, h, notUpright, bentKnee)

	return closed
}

func (m *skippingMachine) land(h *kinematics.History, t float64) kinematics.RepRecord {
	rec := kinematics.RepRecord{
		StartT:          m.takeoffT,
		EndT:            t,
		DurationSeconds: max(0, t-m.takeoffT),
		AirTimeSeconds:  max(0, t-m.takeoffT),
		Height:          kinematics.Round(m.peak, 1),
		MaxAngle:        m.peak,
		GoodForm:        !m.formBroken,
		Quality:         qualityClean,
	}
	if m.formBroken {
		rec.Quality = qualityBroken
	}

	h.Heights = append(h.Heights, rec.Height)
	h.AirTimes = append(h.AirTimes, rec.AirTimeSeconds)
	return h.AppendRep(rec)
}

func (m *skippingMachine) feedback(st *State, h *kinematics.History, notUpright, bentKnee bool) string {
	var parts []string
	if m.phase == skipAir {
		parts = append(parts, "IN AIR")
	} else {
		parts = append(parts, "Ready")
	}
	if notUpright {
		parts = append(parts, "Stand Upright!")
	}
	if bentKnee {
		parts = append(parts, "Less Knee Bend")
	}
	if float64(st.Counter) > m.th.FrequencyAfter {
		hz := h.Rate.Hz()
		switch {
		case hz > m.th.FastHz:
			parts = append(parts, fmt.Sprintf("Excellent Speed! %.1f/s", hz))
		case hz < m.th.SlowHz:
			parts = append(parts, fmt.Sprintf("Speed Up %.1f/s", hz))
		}
	}
	return strings.Join(parts, feedbackSeparator)
}

// SkippingSummary is the skipping specific part of a Summary.
type SkippingSummary struct {
	Jumps             int                     `json:"jumps"`
	FrequencyHz       float64                 `json:"frequency_hz"`
	RecentFrequencyHz float64                 `json:"recent_frequency_hz"`
	Height            kinematics.Distribution `json:"height"`
	AirTime           kinematics.Distribution `json:"air_time"`
	AvgBackAngle      float64                 `json:"avg_back_angle"`
	AvgKneeAngle      float64                 `json:"avg_knee_angle"`
	FormBreakFrames   int                     `json:"form_break_frames"`
}

func (m *skippingMachine) summarize(sum *Summary, st State, h *kinematics.History) {
	s := &SkippingSummary{
		Jumps:             st.Counter,
		RecentFrequencyHz: kinematics.Round(h.Rate.Hz(), 2),
		Height:            kinematics.Describe(h.Heights),
		AirTime:           kinematics.Describe(h.AirTimes),
		AvgBackAngle:      kinematics.Round(h.Back.Mean(), 1),
		AvgKneeAngle:      kinematics.Round(h.Knee.Mean(), 1),
		FormBreakFrames:   h.BadFormFrames,
	}
	if elapsed := h.Elapsed(); elapsed > 0 {
		s.FrequencyHz = kinematics.Round(float64(st.Counter)/elapsed, 2)
	}
	sum.Skipping = s
}
