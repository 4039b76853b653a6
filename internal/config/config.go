// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New() to build a Config with defaults.
//   - Load layers a YAML file and TEAMFORGE_* environment variables on top.
//   - Validation errors wrap ErrInvalidConfig; loading errors wrap ErrLoadConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// TeamSize is the number of players per generated team.
	TeamSize int `koanf:"team_size"`

	// DefaultRuns is used when a request does not ask for a run count.
	DefaultRuns int `koanf:"default_runs"`

	// MaxRuns caps the run count a request may ask for.
	MaxRuns int `koanf:"max_runs"`

	// MaxWallClockMS is the hard ceiling on one optimization, in milliseconds.
	MaxWallClockMS int `koanf:"max_wall_clock_ms"`

	// SwapsPerMS estimates swap attempts per run per millisecond.
	SwapsPerMS int `koanf:"swaps_per_ms"`

	// MinSteps and MaxSteps clamp the per-run non-improving step limit.
	MinSteps int `koanf:"min_steps"`
	MaxSteps int `koanf:"max_steps"`

	// CheckInterval is how many swap attempts pass between deadline checks.
	CheckInterval int `koanf:"check_interval"`

	// Parallelism bounds how many runs execute concurrently.
	Parallelism int `koanf:"parallelism"`

	// TimeoutPolicy is warn or fail.
	TimeoutPolicy string `koanf:"timeout_policy"`

	// RateLimitRPS and RateLimitBurst bound team generation requests.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// Seed fixes the random seed. Zero seeds from the clock per request.
	Seed int64 `koanf:"seed"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		TeamSize:       5,
		DefaultRuns:    300,
		MaxRuns:        1000,
		MaxWallClockMS: 2000,
		SwapsPerMS:     100,
		MinSteps:       50,
		MaxSteps:       5000,
		CheckInterval:  256,
		Parallelism:    runtime.NumCPU(),
		TimeoutPolicy:  "warn",
		RateLimitRPS:   5,
		RateLimitBurst: 10,
	}
}

// WallClock returns MaxWallClockMS as a duration.
func (c *Config) WallClock() time.Duration {
	return time.Duration(c.MaxWallClockMS) * time.Millisecond
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.TeamSize < 1:
		return fmt.Errorf("%w: team_size must be positive, got %d", ErrInvalidConfig, c.TeamSize)
	case c.MaxRuns < 1:
		return fmt.Errorf("%w: max_runs must be positive, got %d", ErrInvalidConfig, c.MaxRuns)
	case c.DefaultRuns < 1 || c.DefaultRuns > c.MaxRuns:
		return fmt.Errorf("%w: default_runs must be within 1..%d, got %d", ErrInvalidConfig, c.MaxRuns, c.DefaultRuns)
	case c.MaxWallClockMS < 1:
		return fmt.Errorf("%w: max_wall_clock_ms must be positive, got %d", ErrInvalidConfig, c.MaxWallClockMS)
	case c.SwapsPerMS < 1:
		return fmt.Errorf("%w: swaps_per_ms must be positive, got %d", ErrInvalidConfig, c.SwapsPerMS)
	case c.MinSteps < 0 || c.MaxSteps < c.MinSteps:
		return fmt.Errorf("%w: need 0 <= min_steps <= max_steps, got %d and %d", ErrInvalidConfig, c.MinSteps, c.MaxSteps)
	case c.CheckInterval < 1:
		return fmt.Errorf("%w: check_interval must be positive, got %d", ErrInvalidConfig, c.CheckInterval)
	case c.Parallelism < 1:
		return fmt.Errorf("%w: parallelism must be positive, got %d", ErrInvalidConfig, c.Parallelism)
	case c.RateLimitRPS <= 0 || c.RateLimitBurst < 1:
		return fmt.Errorf("%w: rate limit needs positive rps and burst", ErrInvalidConfig)
	}

	switch strings.ToLower(c.TimeoutPolicy) {
	case "warn", "fail":
	default:
		return fmt.Errorf("%w: timeout_policy must be warn or fail, got %q", ErrInvalidConfig, c.TimeoutPolicy)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
