package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/repcoach/internal/gymstats/exercises"
	"github.com/2beens/repcoach/internal/telemetry/metrics"
	"github.com/2beens/repcoach/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=analysis_test

type resultStore interface {
	Save(ctx context.Context, result *Result, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Result, error)
}

const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeCanceled = "canceled"
	outcomeFailed   = "failed"
)

type Service struct {
	store          resultStore
	thresholds     exercises.Thresholds
	metricsManager *metrics.Manager
	maxFrames      int
	resultTTL      time.Duration
	now            func() time.Time
	newID          func() string
}

type NewServiceParams struct {
	Store          resultStore
	Thresholds     exercises.Thresholds
	MetricsManager *metrics.Manager
	// MaxFrames caps a single request; 0 means no cap.
	MaxFrames int
	ResultTTL time.Duration
	// Clock and NewID default to time.Now and random UUIDs.
	Clock func() time.Time
	NewID func() string
}

func NewService(params NewServiceParams) *Service {
	s := &Service{
		store:          params.Store,
		thresholds:     params.Thresholds,
		metricsManager: params.MetricsManager,
		maxFrames:      params.MaxFrames,
		resultTTL:      params.ResultTTL,
		now:            params.Clock,
		newID:          params.NewID,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Analyze runs the frame stream through a fresh session and stores the summary.
// Cancellation is checked between frames.
func (s *Service) Analyze(ctx context.Context, req Request) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.analysis.analyze")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	kind, err := exercises.ParseKind(req.Exercise)
	if err != nil {
		s.countAnalysis("unknown", outcomeInvalid)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("exercise", kind.String()),
		attribute.Int("frames", len(req.Frames)),
	)

	if len(req.Frames) == 0 {
		s.countAnalysis(kind.String(), outcomeInvalid)
		return nil, ErrNoFrames
	}
	if s.maxFrames > 0 && len(req.Frames) > s.maxFrames {
		s.countAnalysis(kind.String(), outcomeInvalid)
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyFrames, len(req.Frames), s.maxFrames)
	}

	id := s.newID()
	session, err := exercises.NewSession(kind, s.thresholds,
		exercises.WithClock(s.now),
		exercises.WithLogger(log.WithFields(log.Fields{
			"exercise":    kind.String(),
			"analysis_id": id,
		})),
	)
	if err != nil {
		s.countAnalysis(kind.String(), outcomeInvalid)
		return nil, err
	}

	started := time.Now()
	goodReps, badReps := 0, 0
	for i, frame := range req.Frames {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.countAnalysis(kind.String(), outcomeCanceled)
			return nil, fmt.Errorf("analysis canceled at frame %d: %w", i, ctxErr)
		}
		res := session.Process(frame)
		if res.Rep == nil {
			continue
		}
		if res.Rep.GoodForm {
			goodReps++
		} else {
			badReps++
		}
	}
	session.Finish()
	summary := session.Summary()

	if s.metricsManager != nil {
		s.metricsManager.HistogramAnalysisDuration.WithLabelValues(kind.String()).Observe(time.Since(started).Seconds())
		s.metricsManager.CounterFramesProcessed.WithLabelValues(kind.String()).Add(float64(summary.FramesProcessed))
		s.metricsManager.CounterFramesUndetected.WithLabelValues(kind.String()).Add(float64(summary.FramesUndetected))
		s.metricsManager.CounterReps.WithLabelValues(kind.String(), "good").Add(float64(goodReps))
		s.metricsManager.CounterReps.WithLabelValues(kind.String(), "bad").Add(float64(badReps))
	}

	result := &Result{
		ID:        id,
		Success:   true,
		Exercise:  kind,
		Timestamp: s.now().UTC(),
		Metrics:   summary,
	}

	if err := s.store.Save(ctx, result, s.resultTTL); err != nil {
		s.countAnalysis(kind.String(), outcomeFailed)
		return nil, fmt.Errorf("store analysis result: %w", err)
	}

	s.countAnalysis(kind.String(), outcomeOK)
	log.Debugf("analysis [%s] done: %s, %d reps", id, kind, summary.Counter)
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.analysis.get")
	defer func() {
		// a miss is a normal answer, not a failed span
		if errors.Is(err, ErrNotFound) {
			span.End()
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, parseErr := uuid.Parse(id); parseErr != nil {
		return nil, fmt.Errorf("%w: malformed id", ErrNotFound)
	}

	result, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get analysis %s: %w", id, err)
	}
	return result, nil
}

func (s *Service) countAnalysis(exercise, outcome string) {
	if s.metricsManager == nil {
		return
	}
	s.metricsManager.CounterAnalyses.WithLabelValues(exercise, outcome).Inc()
}
