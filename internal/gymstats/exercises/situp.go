package exercises

import (
	"math"
	"strings"

	"github.com/2beens/repcoach/internal/gymstats/kinematics"
	"github.com/2beens/repcoach/internal/pose"
)

const (
	feedbackPerfectRep   = "Perfect Rep!"
	feedbackCrunchTight  = "Good - Crunch Tighter"
	feedbackGoHigher     = "Go Higher!"
	feedbackFeetLifted   = " - Feet Lifted!"
	feedbackKeepGoingUp  = "Keep Going Up"
	feedbackControlledDn = "Controlled Down"

	qualityPerfect      = "perfect"
	qualityCrunchTight  = "good_crunch_needed"
	qualityShortROM     = "short_rom"
	qualityFeetLiftedSx = "_feet_lifted"
)

type situpPhase string

const (
	situpRest       situpPhase = "rest"
	situpAscending  situpPhase = "ascending"
	situpPeak       situpPhase = "peak"
	situpDescending situpPhase = "descending"
)

// situpMachine runs rest -> ascending -> peak -> descending -> rest on the
// torso inclination. The rep is counted at the peak and closed back at rest.
type situpMachine struct {
	th    SitupThresholds
	phase situpPhase

	rep        kinematics.RepBuilder
	restT      float64
	peakT      float64
	minHip     float64
	footLifted bool
	hipDiff    kinematics.Accumulator
	pending    kinematics.RepRecord
	counted    bool
}

func (m *situpMachine) step(st *State, h *kinematics.History, f pose.Frame) *kinematics.RepRecord {
	incl, ok := f.Angles.Get(pose.AngleTorsoIncline).Value()
	if !ok {
		st.Feedback = feedbackNotVisible
		return nil
	}
	hipFlex := f.Angles.Get(pose.AngleHipFlexion)

	ks := f.Keypoints
	shoulders := ks.Midpoint(pose.LeftShoulder, pose.RightShoulder)
	ankles := ks.Midpoint(pose.LeftAnkle, pose.RightAnkle)

	h.RecordAngle(f.T, incl)
	h.Momentum.Observe(f.T, shoulders.Y)
	if v, ok := hipFlex.Value(); ok {
		h.RecordSecondary(f.T, v)
		h.ObserveHipFlexion(v)
		m.minHip = min(m.minHip, v)
	}
	if l, okL := f.Angles.Get(pose.AngleLeftHip).Value(); okL {
		if r, okR := f.Angles.Get(pose.AngleRightHip).Value(); okR {
			m.hipDiff.Add(math.Abs(l - r))
		}
	}

	nose := ks.At(pose.Nose)
	if math.Hypot(nose.X-shoulders.X, nose.Y-shoulders.Y) < m.th.NeckStrainPx {
		h.NeckStrainFrames++
	}

	feetUp := m.phase != situpRest && h.Ground.Lift(ankles.Y) > m.th.FootLiftPx
	if feetUp {
		m.footLifted = true
	}

	var closed *kinematics.RepRecord
	switch {
	case incl <= m.th.Down:
		if m.counted {
			rec := m.close(h, f.T)
			closed = &rec
		} else if m.phase == situpAscending {
			// dropped back before reaching the top
			h.Attempts++
			st.Feedback = feedbackGoHigher
		}
		m.phase = situpRest
		st.Stage = StageDown
		m.restT = f.T
		m.startRep(f.T, incl)
		h.Ground.Observe(ankles.Y)
		h.Momentum.Reset()
	case incl >= m.th.Up || m.crunched(hipFlex):
		if m.phase == situpRest || m.phase == situpAscending {
			m.count(st, h, f.T, incl, hipFlex)
		}
		if incl < m.th.Up-m.th.PeakRelease {
			m.phase = situpDescending
		}
	default:
		switch m.phase {
		case situpRest:
			m.phase = situpAscending
			st.Feedback = feedbackKeepGoingUp
		case situpPeak:
			m.phase = situpDescending
			st.Feedback = feedbackControlledDn
		}
	}

	m.rep.Observe(incl)
	return closed
}

func (m *situpMachine) startRep(t, incl float64) {
	m.rep.Begin(t, incl)
	m.minHip = kinematics.NeutralHipFlexion
	m.footLifted = false
	m.hipDiff = kinematics.Accumulator{}
}

// crunched reports whether the hip closed to the good crunch angle.
func (m *situpMachine) crunched(hipFlex pose.Reading) bool {
	v, ok := hipFlex.Value()
	return ok && v <= m.th.GoodCrunch
}

func (m *situpMachine) count(st *State, h *kinematics.History, t, incl float64, hipFlex pose.Reading) {
	st.Counter++
	st.Stage = StageUp
	m.phase = situpPeak
	m.peakT = t
	m.counted = true
	if !m.rep.Active() {
		m.startRep(t, incl)
		m.restT = t
		m.minHip = hipFlex.Or(kinematics.NeutralHipFlexion)
	}

	// counting on hip flexion alone means the torso never reached the top
	goodROM := incl >= m.th.Up
	quality, feedback, good := qualityShortROM, feedbackGoHigher, false
	switch {
	case goodROM && m.crunched(hipFlex):
		quality, feedback, good = qualityPerfect, feedbackPerfectRep, true
	case goodROM:
		quality, feedback, good = qualityCrunchTight, feedbackCrunchTight, true
	}
	if m.footLifted {
		feedback += feedbackFeetLifted
		quality += qualityFeetLiftedSx
		good = false
		h.FootLifts++
	}
	st.Feedback = feedback

	m.pending = kinematics.RepRecord{
		ConcentricSeconds: max(0, t-m.restT),
		GoodForm:          good,
		Quality:           quality,
		FootLifted:        m.footLifted,
	}
}

func (m *situpMachine) close(h *kinematics.History, t float64) kinematics.RepRecord {
	rec := m.rep.Finish(t)
	rec.EccentricSeconds = max(0, t-m.peakT)
	rec.ConcentricSeconds = m.pending.ConcentricSeconds
	rec.GoodForm = m.pending.GoodForm
	rec.Quality = m.pending.Quality
	rec.FootLifted = m.pending.FootLifted || m.footLifted
	if rec.FootLifted && !m.pending.FootLifted {
		// feet came up on the way down
		rec.GoodForm = false
		rec.Quality += qualityFeetLiftedSx
		h.FootLifts++
	}
	rec.Momentum = h.Momentum.Score()
	rec.Symmetry = kinematics.Round(m.hipDiff.Mean(), 1)

	h.RecordTempo(rec.EccentricSeconds, rec.ConcentricSeconds)
	h.PeakInclinations = append(h.PeakInclinations, rec.MaxAngle)
	h.PeakHipFlexions = append(h.PeakHipFlexions, m.minHip)
	h.MomentumScores = append(h.MomentumScores, rec.Momentum)
	m.counted = false
	return h.AppendRep(rec)
}

// SitupSummary is the sit-up specific part of a Summary.
type SitupSummary struct {
	ValidReps        int                     `json:"valid_reps"`
	PerfectReps      int                     `json:"perfect_reps"`
	ShortROMReps     int                     `json:"short_rom_reps"`
	PartialAttempts  int                     `json:"partial_attempts"`
	FootLifts        int                     `json:"foot_lifts"`
	NeckStrainFrames int                     `json:"neck_strain_frames"`
	PeakInclination  kinematics.Distribution `json:"peak_inclination"`
	PeakHipFlexion   kinematics.Distribution `json:"peak_hip_flexion"`
	Momentum         kinematics.Distribution `json:"momentum"`
	HipAsymmetry     float64                 `json:"hip_asymmetry"`
	Tempo            TempoSummary            `json:"tempo"`
}

func (m *situpMachine) summarize(sum *Summary, _ State, h *kinematics.History) {
	s := &SitupSummary{
		PartialAttempts:  h.Attempts,
		FootLifts:        h.FootLifts,
		NeckStrainFrames: h.NeckStrainFrames,
		PeakInclination:  kinematics.Describe(h.PeakInclinations),
		PeakHipFlexion:   kinematics.Describe(h.PeakHipFlexions),
		Momentum:         kinematics.Describe(h.MomentumScores),
		Tempo:            describeTempo(h),
	}

	var asym kinematics.Accumulator
	for _, rep := range h.Reps() {
		if rep.GoodForm {
			s.ValidReps++
		}
		switch {
		case rep.Quality == qualityPerfect:
			s.PerfectReps++
		case strings.HasPrefix(rep.Quality, qualityShortROM):
			s.ShortROMReps++
		}
		if rep.Symmetry > 0 {
			asym.Add(rep.Symmetry)
		}
	}
	s.HipAsymmetry = kinematics.Round(asym.Mean(), 1)

	sum.Situp = s
}
