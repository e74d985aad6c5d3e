package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/2beens/repcoach/internal/config"
	"github.com/2beens/repcoach/internal/gymstats/exercises"
)

const testConfig = `
[development]
environment = "development"
port = 9000
log_level = "debug"
log_to_stdout = true
result_store = "memory"
max_frames_per_request = 500

[development.thresholds.pushup]
down = 85

[development.thresholds.squat]
deep = 75

[production]
environment = "production"
host = "0.0.0.0"
port = 9000
redis_host = "localhost"
redis_port = "6379"
result_store = "redis"
result_ttl_seconds = 3600
analyze_rate_limit_per_min = 10
`

func TestParse_Development(t *testing.T) {
	cfg, err := config.Parse("dev", testConfig)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, config.StoreMemory, cfg.ResultStore)
	assert.Equal(t, 500, cfg.MaxFramesPerRequest)
	assert.Equal(t, 30, cfg.AnalyzeRateLimitMin)
	assert.Equal(t, 24*time.Hour, cfg.ResultTTL())
	assert.Equal(t, "2112", cfg.PrometheusMetricsPort)

	th, err := cfg.ExerciseThresholds()
	require.NoError(t, err)
	assert.Equal(t, 85.0, th.Pushup.Down)
	assert.Equal(t, 75.0, th.Squat.Deep)
	assert.Equal(t, exercises.DefaultThresholds().Situp, th.Situp)
}

func TestParse_Production(t *testing.T) {
	cfg, err := config.Parse("production", testConfig)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, config.StoreRedis, cfg.ResultStore)
	assert.Equal(t, time.Hour, cfg.ResultTTL())
	assert.Equal(t, 10, cfg.AnalyzeRateLimitMin)
}

func TestParse_UnknownEnv(t *testing.T) {
	_, err := config.Parse("staging", testConfig)
	require.Error(t, err)
}

func TestParse_CollectsAllProblems(t *testing.T) {
	_, err := config.Parse("dev", `
[development]
port = 0
result_store = "redis"

[development.thresholds.pushup]
sideways = 3
`)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.ErrorIs(t, err, exercises.ErrUnknownThreshold)
	assert.Len(t, multierr.Errors(err), 3)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	cfg, err := config.Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = config.Load("development", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
