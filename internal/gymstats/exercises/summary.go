package exercises

import (
	"gonum.org/v1/gonum/stat"

	"github.com/2beens/repcoach/internal/gymstats/kinematics"
)

// TempoSummary describes eccentric and concentric phase durations in seconds.
type TempoSummary struct {
	Eccentric  kinematics.Distribution `json:"eccentric"`
	Concentric kinematics.Distribution `json:"concentric"`
}

// Summary is the end of session report. Exactly one of the exercise
// specific blocks is set, matching Exercise.
type Summary struct {
	Exercise    Kind   `json:"exercise"`
	DisplayName string `json:"display_name"`
	// Counter is the final live counter; for sit-and-reach it is the reach score.
	Counter        int     `json:"counter"`
	CompletedReps  int     `json:"completed_reps"`
	IncompleteReps int     `json:"incomplete_reps"`
	GoodReps       int     `json:"good_reps"`
	BadReps        int     `json:"bad_reps"`
	FormAccuracy   float64 `json:"form_accuracy_pct"`

	FramesProcessed  int     `json:"frames_processed"`
	FramesUndetected int     `json:"frames_undetected"`
	DurationSeconds  float64 `json:"duration_seconds"`

	FinalStage    string              `json:"final_stage"`
	FinalFeedback string              `json:"final_feedback"`
	Extremes      kinematics.Extremes `json:"extremes"`

	Reps []kinematics.RepRecord `json:"reps"`
	Logs []string               `json:"logs"`

	Pushup       *PushupSummary       `json:"pushup,omitempty"`
	Squat        *SquatSummary        `json:"squat,omitempty"`
	Situp        *SitupSummary        `json:"situp,omitempty"`
	SitAndReach  *SitAndReachSummary  `json:"sitnreach,omitempty"`
	Skipping     *SkippingSummary     `json:"skipping,omitempty"`
	JumpingJacks *JumpingJacksSummary `json:"jumpingjacks,omitempty"`
	VerticalJump *VerticalJumpSummary `json:"vjump,omitempty"`
	BroadJump    *BroadJumpSummary    `json:"bjump,omitempty"`
}

// Summary builds the report for everything processed so far. It can be
// called at any point and does not change the session.
func (s *Session) Summary() Summary {
	h := s.history
	reps := h.Reps()

	sum := Summary{
		Exercise:         s.state.Exercise,
		DisplayName:      s.state.Exercise.DisplayName(),
		Counter:          s.state.Counter,
		CompletedReps:    len(reps),
		GoodReps:         h.GoodReps,
		BadReps:          h.BadReps,
		FormAccuracy:     kinematics.Percent(h.GoodReps, len(reps)),
		FramesProcessed:  h.FramesProcessed,
		FramesUndetected: h.FramesUndetected,
		DurationSeconds:  kinematics.Round(h.Elapsed(), 2),
		FinalStage:       s.state.Stage,
		FinalFeedback:    s.state.Feedback,
		Extremes:         h.Extremes,
		Reps:             reps,
		Logs:             s.Logs(),
	}
	if s.state.Exercise != KindSitAndReach {
		sum.IncompleteReps = max(0, s.state.Counter-len(reps))
	}
	if !h.Started() || h.Extremes.MinHipFlexion == kinematics.NeutralHipFlexion {
		// nothing flexed the hip
		sum.Extremes.MinHipFlexion = 0
	}

	s.machine.summarize(&sum, s.state, h)
	return sum
}

func describeTempo(h *kinematics.History) TempoSummary {
	return TempoSummary{
		Eccentric:  kinematics.Describe(h.Eccentric),
		Concentric: kinematics.Describe(h.Concentric),
	}
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
