package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/repcoach/internal/telemetry/metrics"
)

type fakeLimiter struct {
	allowed map[string]int
	err     error
	keys    []string
}

func (l *fakeLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return nil, l.err
	}
	l.allowed[key]++
	if l.allowed[key] > limit.Rate {
		return &redis_rate.Result{Limit: limit, Allowed: 0, RetryAfter: 30 * time.Second}, nil
	}
	return &redis_rate.Result{Limit: limit, Allowed: 1, Remaining: limit.Rate - l.allowed[key]}, nil
}

func TestRateLimit(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	limiter := &fakeLimiter{allowed: map[string]int{}}
	handler := RateLimit(limiter, "analyze", 2, metricsManager)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}),
	)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
		req.RemoteAddr = "10.0.0.7:51234"
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
		if rr.Code == http.StatusTooManyRequests {
			assert.Contains(t, rr.Body.String(), "retry after 30 seconds")
		}
	}

	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "analyze:10.0.0.7", limiter.keys[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))

	// another client has its own budget
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.RemoteAddr = "10.0.0.8:40000"
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestRateLimit_LimiterError(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	nextCalled := false
	handler := RateLimit(limiter, "analyze", 2, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/analyze", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.False(t, nextCalled)
}
