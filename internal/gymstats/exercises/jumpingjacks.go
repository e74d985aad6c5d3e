package exercises

import (
	"fmt"
	"strings"

	"github.com/2beens/repcoach/internal/gymstats/kinematics"
	"github.com/2beens/repcoach/internal/pose"
)

const (
	StageOpen   = "OPEN"
	StageClosed = "CLOSED"

	qualityFullExtension = "full_extension"
	qualityPartialArms   = "partial_arms"
)

type jackPhase string

const (
	jackClosed jackPhase = "closed"
	jackOpen   jackPhase = "open"
)

// jumpingJacksMachine counts one rep per closed -> open -> closed cycle,
// at the return to closed.
type jumpingJacksMachine struct {
	th    JumpingJacksThresholds
	phase jackPhase

	rep          kinematics.RepBuilder
	closedT      float64
	maxArmSpread float64
	maxLegSpread float64
}

func (m *jumpingJacksMachine) step(st *State, h *kinematics.History, f pose.Frame) *kinematics.RepRecord {
	ks := f.Keypoints
	armSpread := ks.HorizontalSpan(pose.LeftWrist, pose.RightWrist)
	legSpread := ks.HorizontalSpan(pose.LeftAnkle, pose.RightAnkle)
	arm := armAngle(f.Angles)

	h.ArmSpreads.Push(armSpread)
	h.LegSpreads.Push(legSpread)
	if v, ok := arm.Value(); ok {
		h.ArmAngles.Push(v)
		h.RecordAngle(f.T, v)
	}
	h.RecordSecondary(f.T, legSpread)

	armsUp := arm.Present() && !arm.Below(m.th.ArmOpen) || armSpread >= m.th.ArmSpreadOpen
	var armsDown bool
	if v, ok := arm.Value(); ok {
		armsDown = v <= m.th.ArmClosed
	} else {
		armsDown = armSpread <= m.th.ArmSpreadClosed
	}
	legsApart := legSpread >= m.th.LegOpen
	feetTogether := legSpread <= m.th.LegClosed

	var closed *kinematics.RepRecord
	switch m.phase {
	case jackClosed:
		m.closedT = f.T
		if armsUp && legsApart {
			m.phase = jackOpen
			m.rep.Begin(m.closedT, arm.Or(0))
			m.maxArmSpread = armSpread
			m.maxLegSpread = legSpread
		}
	case jackOpen:
		m.rep.Observe(arm.Or(0))
		m.maxArmSpread = max(m.maxArmSpread, armSpread)
		m.maxLegSpread = max(m.maxLegSpread, legSpread)
		if armsDown && feetTogether {
			m.phase = jackClosed
			st.Counter++
			h.Rate.Add(f.T)
			rec := m.close(h, f.T)
			closed = &rec
		}
	}

	if m.phase == jackOpen {
		st.Stage = StageOpen
	} else {
		st.Stage = StageClosed
	}
	st.Feedback = m.feedback(arm, armSpread, legSpread)

	return closed
}

// armAngle prefers the arm raise angle and falls back to the mean shoulder angle.
func armAngle(b pose.AngleBundle) pose.Reading {
	if r := b.Get(pose.AngleArmRaise); r.Present() {
		return r
	}
	l, okL := b.Get(pose.AngleLeftShoulder).Value()
	r, okR := b.Get(pose.AngleRightShoulder).Value()
	switch {
	case okL && okR:
		return pose.Present((l + r) / 2)
	case okL:
		return pose.Present(l)
	case okR:
		return pose.Present(r)
	}
	return pose.Absent()
}

func (m *jumpingJacksMachine) close(h *kinematics.History, t float64) kinematics.RepRecord {
	rec := m.rep.Finish(t)
	full := rec.MaxAngle >= m.th.ArmFull || m.maxArmSpread >= m.th.ArmSpreadOpen
	rec.GoodForm = full
	rec.Quality = qualityFullExtension
	if !full {
		rec.Quality = qualityPartialArms
	}
	rec.Distance = kinematics.Round(m.maxLegSpread, 1)
	return h.AppendRep(rec)
}

const (
	cueRaiseArms    = "↑ RAISE ARMS!"
	cueSpreadFeet   = "←→ SPREAD FEET!"
	cueLowerArms    = "↓ LOWER ARMS!"
	cueFeetTogether = "→← FEET TOGETHER!"
)

// feedback reports the measured arm angle, arm spread and leg spread, each
// with a status glyph, followed by the cues that move the body toward the
// pose of the current phase.
func (m *jumpingJacksMachine) feedback(arm pose.Reading, armSpread, legSpread float64) string {
	parts := []string{"STATE: " + strings.ToUpper(string(m.phase))}

	armV, armOK := arm.Value()
	if armOK {
		parts = append(parts, fmt.Sprintf("Arms: %.0f°%s", armV, jackGlyph(armV, m.th.ArmClosed, m.th.ArmOpen)))
	}
	parts = append(parts,
		fmt.Sprintf("Spread: %.0fpx%s", armSpread, jackGlyph(armSpread, m.th.ArmSpreadClosed, m.th.ArmSpreadOpen)),
		fmt.Sprintf("Legs: %.0fpx%s", legSpread, jackGlyph(legSpread, m.th.LegClosed, m.th.LegOpen)),
	)

	switch m.phase {
	case jackOpen:
		if armOK && armV < m.th.ArmOpen || !armOK && armSpread < m.th.ArmSpreadOpen {
			parts = append(parts, cueRaiseArms)
		}
		if legSpread < m.th.LegOpen {
			parts = append(parts, cueSpreadFeet)
		}
	case jackClosed:
		if armOK && armV > m.th.ArmClosed || !armOK && armSpread > m.th.ArmSpreadClosed {
			parts = append(parts, cueLowerArms)
		}
		if legSpread > m.th.LegOpen {
			parts = append(parts, cueFeetTogether)
		}
	}

	return strings.Join(parts, feedbackSeparator)
}

// jackGlyph marks a measurement as open (✓), closed (·) or in between (~).
func jackGlyph(v, closed, open float64) string {
	switch {
	case v >= open:
		return " ✓"
	case v <= closed:
		return " ·"
	}
	return " ~"
}

// JumpingJacksSummary is the jumping jacks specific part of a Summary.
type JumpingJacksSummary struct {
	FullExtensionReps int                     `json:"full_extension_reps"`
	RepsPerMinute     float64                 `json:"reps_per_minute"`
	AvgArmSpread      float64                 `json:"avg_arm_spread"`
	AvgLegSpread      float64                 `json:"avg_leg_spread"`
	AvgArmAngle       float64                 `json:"avg_arm_angle"`
	CycleDuration     kinematics.Distribution `json:"cycle_duration"`
	LegSpread         kinematics.Distribution `json:"leg_spread"`
}

func (m *jumpingJacksMachine) summarize(sum *Summary, st State, h *kinematics.History) {
	s := &JumpingJacksSummary{
		AvgArmSpread: kinematics.Round(meanOf(h.ArmSpreads.Values()), 1),
		AvgLegSpread: kinematics.Round(meanOf(h.LegSpreads.Values()), 1),
		AvgArmAngle:  kinematics.Round(meanOf(h.ArmAngles.Values()), 1),
	}
	if elapsed := h.Elapsed(); elapsed > 0 {
		s.RepsPerMinute = kinematics.Round(float64(st.Counter)/elapsed*60, 1)
	}

	var durations, spreads []float64
	for _, rep := range h.Reps() {
		if rep.GoodForm {
			s.FullExtensionReps++
		}
		durations = append(durations, rep.DurationSeconds)
		spreads = append(spreads, rep.Distance)
	}
	s.CycleDuration = kinematics.Describe(durations)
	s.LegSpread = kinematics.Describe(spreads)

	sum.JumpingJacks = s
}
