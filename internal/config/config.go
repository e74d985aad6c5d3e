package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"github.com/2beens/repcoach/internal/gymstats/exercises"
)

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// browser origins allowed to call the API, "*" for any
	AllowedOrigins []string `toml:"allowed_origins"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// analysis results
	ResultStore         string `toml:"result_store"`
	ResultTTLSeconds    int    `toml:"result_ttl_seconds"`
	MemoryCacheSizeMB   int    `toml:"memory_cache_size_mb"`
	AnalyzeRateLimitMin int    `toml:"analyze_rate_limit_per_min"`
	MaxFramesPerRequest int    `toml:"max_frames_per_request"`
	// per exercise threshold overrides, e.g. [development.thresholds.pushup]
	Thresholds map[string]map[string]float64 `toml:"thresholds"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the validated config for env.
func Load(env, path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(env, string(raw))
}

func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: no [%s] section", ErrInvalidConfig, env)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.ResultStore == "" {
		c.ResultStore = StoreMemory
	}
	if c.ResultTTLSeconds == 0 {
		c.ResultTTLSeconds = int((24 * time.Hour).Seconds())
	}
	if c.MemoryCacheSizeMB == 0 {
		c.MemoryCacheSizeMB = 128
	}
	if c.AnalyzeRateLimitMin == 0 {
		c.AnalyzeRateLimitMin = 30
	}
	if c.MaxFramesPerRequest == 0 {
		c.MaxFramesPerRequest = 20_000
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var err error
	if c.Port <= 0 || c.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port))
	}
	switch c.ResultStore {
	case StoreMemory:
	case StoreRedis:
		if c.RedisHost == "" || c.RedisPort == "" {
			err = multierr.Append(err, fmt.Errorf("%w: redis store needs redis_host and redis_port", ErrInvalidConfig))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("%w: unknown result store [%s]", ErrInvalidConfig, c.ResultStore))
	}
	if c.ResultTTLSeconds < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: negative result ttl", ErrInvalidConfig))
	}
	if c.MaxFramesPerRequest < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: negative max frames per request", ErrInvalidConfig))
	}
	if _, thErr := c.ExerciseThresholds(); thErr != nil {
		err = multierr.Append(err, thErr)
	}
	return err
}

// ExerciseThresholds returns the default thresholds with the configured overrides applied.
func (c *Config) ExerciseThresholds() (exercises.Thresholds, error) {
	th := exercises.DefaultThresholds()
	if err := th.Apply(c.Thresholds); err != nil {
		return th, err
	}
	if err := th.Validate(); err != nil {
		return th, err
	}
	return th, nil
}

func (c *Config) ResultTTL() time.Duration {
	return time.Duration(c.ResultTTLSeconds) * time.Second
}
