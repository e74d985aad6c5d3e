package analysis

import (
	"errors"
	"time"

	"github.com/2beens/repcoach/internal/gymstats/exercises"
	"github.com/2beens/repcoach/internal/pose"
)

var (
	ErrNoFrames      = errors.New("no frames")
	ErrTooManyFrames = errors.New("too many frames")
	ErrNotFound      = errors.New("analysis not found")
)

// Request is a frame stream produced by an external pose estimator.
type Request struct {
	Exercise string       `json:"exercise_type"`
	Frames   []pose.Frame `json:"frames"`
}

// Result is a finished analysis as returned to clients and kept in the result store.
type Result struct {
	ID        string            `json:"analysis_id"`
	Success   bool              `json:"success"`
	Exercise  exercises.Kind    `json:"exercise"`
	Timestamp time.Time         `json:"timestamp"`
	Metrics   exercises.Summary `json:"metrics"`
}
