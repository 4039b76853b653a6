package balancer

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/teamforge/internal/domain/partition"
	"github.com/okian/teamforge/pkg/logger"
)

// TimeoutPolicy decides what happens when the optimizer hits its deadline.
type TimeoutPolicy string

// Supported timeout policies.
const (
	// TimeoutWarn returns the best partition found so far and flags it.
	TimeoutWarn TimeoutPolicy = "warn"
	// TimeoutFail discards the partial result and returns an
	// OptimizationTimeoutError.
	TimeoutFail TimeoutPolicy = "fail"
)

// ParseTimeoutPolicy accepts "warn" or "fail" (case-insensitive).
func ParseTimeoutPolicy(s string) (TimeoutPolicy, error) {
	switch TimeoutPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", TimeoutWarn:
		return TimeoutWarn, nil
	case TimeoutFail:
		return TimeoutFail, nil
	default:
		return "", fmt.Errorf("unknown timeout policy: %s", s)
	}
}

// Optimizer is the partitioning engine signature. partition.Optimize is the
// production implementation.
type Optimizer func(roster []partition.Participant, teamSize, maxNonImprovingSteps, runs int, rng partition.Source, opts ...partition.Option) (partition.RunResult, error)

// Option applies a configuration option to the Balancer.
type Option func(*Balancer)

// WithTeamSize sets the number of players per team.
func WithTeamSize(size int) Option {
	return func(b *Balancer) {
		if size > 0 {
			b.teamSize = size
		}
	}
}

// WithRuns sets the default run count and the maximum a caller may request.
func WithRuns(defaultRuns, maxRuns int) Option {
	return func(b *Balancer) {
		if maxRuns > 0 {
			b.maxRuns = maxRuns
		}
		if defaultRuns > 0 {
			b.defaultRuns = defaultRuns
		}
	}
}

// WithBudget sets the work budget used to derive the per-run step limit and
// the optimizer deadline.
func WithBudget(budget Budget) Option {
	return func(b *Balancer) {
		b.budget = budget
	}
}

// WithCheckInterval sets how often the optimizer checks its deadline.
func WithCheckInterval(k int) Option {
	return func(b *Balancer) {
		if k > 0 {
			b.checkInterval = k
		}
	}
}

// WithParallelism sets how many runs may execute concurrently.
func WithParallelism(n int) Option {
	return func(b *Balancer) {
		if n > 0 {
			b.parallelism = n
		}
	}
}

// WithTimeoutPolicy selects warn or fail behavior on deadline expiry.
func WithTimeoutPolicy(p TimeoutPolicy) Option {
	return func(b *Balancer) {
		if p == TimeoutWarn || p == TimeoutFail {
			b.policy = p
		}
	}
}

// WithSeed fixes the random seed used by every call. Useful for tests and
// reproducible tournaments.
func WithSeed(seed int64) Option {
	return func(b *Balancer) {
		b.seed = func() int64 { return seed }
	}
}

// WithSeedFunc supplies a seed per call.
func WithSeedFunc(fn func() int64) Option {
	return func(b *Balancer) {
		if fn != nil {
			b.seed = fn
		}
	}
}

// WithClock replaces time.Now for deadlines and durations.
func WithClock(now func() time.Time) Option {
	return func(b *Balancer) {
		if now != nil {
			b.now = now
		}
	}
}

// WithOptimizer replaces the partitioning engine.
func WithOptimizer(opt Optimizer) Option {
	return func(b *Balancer) {
		if opt != nil {
			b.optimize = opt
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Balancer) {
		if l != nil {
			b.logger = l
		}
	}
}
