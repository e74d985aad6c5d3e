package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/repcoach/internal/gymstats/exercises"
	"github.com/2beens/repcoach/internal/gymstats/export"
	"github.com/2beens/repcoach/internal/middleware"
	"github.com/2beens/repcoach/internal/telemetry/metrics"
	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=analysis_test

type service interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
	Get(ctx context.Context, id string) (*Result, error)
}

// maxBodyBytes bounds a posted frame stream; roughly 10 minutes of 30 fps keypoints.
const maxBodyBytes = 64 << 20

type Handler struct {
	service     service
	versionInfo string
}

func NewHandler(service service, versionInfo string) *Handler {
	return &Handler{
		service:     service,
		versionInfo: versionInfo,
	}
}

func (h *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	analyzeAllowedPerMin int,
) {
	mainRouter.HandleFunc("/", h.HandleRoot).Methods("GET").Name("root")
	mainRouter.HandleFunc("/health", h.HandleHealth).Methods("GET").Name("health")
	mainRouter.HandleFunc("/exercises", h.HandleExercises).Methods("GET").Name("exercises")
	mainRouter.HandleFunc("/analyses/{id}", h.HandleGet).Methods("GET").Name("get-analysis")
	mainRouter.HandleFunc("/analyses/{id}/reps.parquet", h.HandleRepsParquet).Methods("GET").Name("get-analysis-reps")

	analyzeRouter := mainRouter.PathPrefix("/analyze").Subrouter()
	analyzeRouter.HandleFunc("", h.HandleAnalyze).Methods("POST", "OPTIONS").Name("analyze")
	if rateLimiter != nil && analyzeAllowedPerMin > 0 {
		analyzeRouter.Use(middleware.RateLimit(rateLimiter, "analyze", analyzeAllowedPerMin, metricsManager))
	}
}

type serviceIndex struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func (h *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, serviceIndex{
		Message: "Exercise repetition and form analysis API",
		Version: h.versionInfo,
		Endpoints: map[string]string{
			"/analyze":                    "POST - Analyze a pose frame stream",
			"/analyses/{id}":              "GET - Fetch a stored analysis",
			"/analyses/{id}/reps.parquet": "GET - Download the rep records as parquet",
			"/exercises":                  "GET - List available exercises",
			"/health":                     "GET - Health check",
		},
	}, http.StatusOK)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, map[string]string{"status": "healthy"}, http.StatusOK)
}

type exerciseInfo struct {
	ID   exercises.Kind `json:"id"`
	Name string         `json:"name"`
}

func (h *Handler) HandleExercises(w http.ResponseWriter, _ *http.Request) {
	kinds := exercises.Kinds()
	list := make([]exerciseInfo, 0, len(kinds))
	for _, k := range kinds {
		list = append(list, exerciseInfo{ID: k, Name: k.DisplayName()})
	}
	pkg.WriteJSON(w, map[string][]exerciseInfo{"exercises": list}, http.StatusOK)
}

func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analysis.analyze")
	defer span.End()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Errorf("analyze, unmarshal frames: %s", err)
		http.Error(w, "invalid frame stream", http.StatusBadRequest)
		return
	}

	result, err := h.service.Analyze(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, exercises.ErrInvalidExerciseType):
			http.Error(w, "Invalid exercise type", http.StatusBadRequest)
		case errors.Is(err, ErrNoFrames), errors.Is(err, ErrTooManyFrames):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			log.Warnf("analyze: %s", err)
			http.Error(w, "analysis canceled", http.StatusServiceUnavailable)
		default:
			log.Errorf("analyze: %s", err)
			http.Error(w, "analysis failed", http.StatusInternalServerError)
		}
		return
	}

	pkg.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analysis.get")
	defer span.End()

	result, ok := h.lookup(ctx, w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	pkg.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) HandleRepsParquet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analysis.reps.parquet")
	defer span.End()

	result, ok := h.lookup(ctx, w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	data, err := export.RepsParquet(result.ID, result.Exercise.String(), result.Metrics.Reps)
	if err != nil {
		log.Errorf("export reps of %s: %s", result.ID, err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s_reps.parquet"`, result.Exercise, result.ID))
	pkg.WriteResponseBytesOK(w, pkg.ContentType.Parquet, data)
}

// lookup writes the error response itself and reports whether the caller can go on.
func (h *Handler) lookup(ctx context.Context, w http.ResponseWriter, id string) (*Result, bool) {
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return nil, false
	}

	result, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "analysis not found", http.StatusNotFound)
			return nil, false
		}
		log.Errorf("get analysis %s: %s", id, err)
		http.Error(w, "get analysis failed", http.StatusInternalServerError)
		return nil, false
	}
	return result, true
}

