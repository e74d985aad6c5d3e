package exercises

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/repcoach/internal/gymstats/kinematics"
	"github.com/2beens/repcoach/internal/pose"
)

const (
	StageUp   = "UP"
	StageDown = "DOWN"

	feedbackNotDetected = "Body not detected"
	feedbackNotVisible  = "Body not visible"
	feedbackNoLegs      = "Legs not visible"
	feedbackNoPosition  = "Position not visible"
)

// State is the live, user facing state of a session.
type State struct {
	Exercise Kind   `json:"exercise"`
	Counter  int    `json:"counter"`
	Stage    string `json:"stage"`
	Feedback string `json:"feedback"`
	// StartedAt is the wall clock time the session was created.
	StartedAt time.Time `json:"started_at"`
}

// FrameResult is returned for every processed frame.
type FrameResult struct {
	State
	// Rep is set on the frame that closed a repetition.
	Rep *kinematics.RepRecord `json:"rep,omitempty"`
}

// machine is the per-exercise phase state machine.
type machine interface {
	// step handles a frame with a valid keypoint set and returns the rep
	// closed on that frame, if any.
	step(st *State, h *kinematics.History, f pose.Frame) *kinematics.RepRecord
	// summarize fills the exercise specific block of the summary.
	summarize(sum *Summary, st State, h *kinematics.History)
}

// Session tracks one exercise over a stream of frames. It is not safe for
// concurrent use; each session is owned by a single goroutine.
type Session struct {
	state   State
	history *kinematics.History
	machine machine
	logs    []string
	logger  *log.Entry
}

type Option func(*Session)

// WithClock sets the time source for StartedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.state.StartedAt = now()
	}
}

// WithLogger attaches a logger that mirrors the session log at debug level.
func WithLogger(l *log.Entry) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession creates a session for kind using a copy of th.
func NewSession(kind Kind, th Thresholds, opts ...Option) (*Session, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidExerciseType, kind)
	}

	s := &Session{
		state: State{
			Exercise:  kind,
			StartedAt: time.Now(),
		},
		history: kinematics.NewHistory(kind.String(), th.Squat.StickingOffset),
		machine: newMachine(kind, th),
		logger:  log.WithField("exercise", kind.String()),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Log(fmt.Sprintf("Starting %s analysis...", strings.ToUpper(kind.String())))
	return s, nil
}

func newMachine(kind Kind, th Thresholds) machine {
	switch kind {
	case KindPushup:
		return &pushupMachine{th: th.Pushup}
	case KindSquat:
		return &squatMachine{th: th.Squat}
	case KindSitup:
		return &situpMachine{th: th.Situp, phase: situpRest, minHip: kinematics.NeutralHipFlexion}
	case KindSitAndReach:
		return &sitAndReachMachine{th: th.SitAndReach}
	case KindSkipping:
		return &skippingMachine{th: th.Skipping, phase: skipGround}
	case KindJumpingJacks:
		return &jumpingJacksMachine{th: th.JumpingJacks, phase: jackClosed}
	case KindVerticalJump:
		return &verticalJumpMachine{th: th.VerticalJump, phase: vjumpStanding}
	case KindBroadJump:
		return &broadJumpMachine{th: th.BroadJump, phase: bjumpStanding, dip: th.BroadJump.StandKnee}
	}
	panic("unreachable: unknown exercise " + kind.String())
}

// Process feeds one frame and returns the updated state. Frames without a
// valid keypoint set leave the counter and stage untouched.
func (s *Session) Process(f pose.Frame) FrameResult {
	if !f.Detected() {
		s.history.ObserveUndetected(f.T)
		s.state.Feedback = feedbackNotDetected
		return FrameResult{State: s.state}
	}

	s.history.ObserveFrame(f.T)
	prevCounter := s.state.Counter
	rep := s.machine.step(&s.state, s.history, f)

	if s.state.Counter != prevCounter {
		s.Log(fmt.Sprintf("%s Count: %d", s.state.Exercise.countLabel(), s.state.Counter))
	}

	return FrameResult{State: s.state, Rep: rep}
}

func (s *Session) State() State {
	return s.state
}

// History exposes the metrics collected so far. Callers must not modify it.
func (s *Session) History() *kinematics.History {
	return s.history
}

// Log appends a line to the session log.
func (s *Session) Log(line string) {
	s.logs = append(s.logs, line)
	if s.logger != nil {
		s.logger.Debug(line)
	}
}

// Logs returns a copy of the session log.
func (s *Session) Logs() []string {
	out := make([]string, len(s.logs))
	copy(out, s.logs)
	return out
}

// Finish closes the session log. The session can still be summarized afterwards.
func (s *Session) Finish() {
	s.Log("Analysis Complete!")
}
