package service

import (
	"github.com/okian/teamforge/internal/config"
	"github.com/okian/teamforge/internal/domain/balancer"
)

// WithConfig applies the balancing settings from cfg. cfg is expected to
// have passed Validate.
func WithConfig(cfg *config.Config) Option {
	return WithBalancerOptions(BalancerOptions(cfg)...)
}

// BalancerOptions translates cfg into balancer options.
func BalancerOptions(cfg *config.Config) []balancer.Option {
	policy, err := balancer.ParseTimeoutPolicy(cfg.TimeoutPolicy)
	if err != nil {
		policy = balancer.TimeoutWarn
	}

	opts := []balancer.Option{
		balancer.WithTeamSize(cfg.TeamSize),
		balancer.WithRuns(cfg.DefaultRuns, cfg.MaxRuns),
		balancer.WithBudget(balancer.Budget{
			WallClock:           cfg.WallClock(),
			SwapsPerMillisecond: cfg.SwapsPerMS,
			MinSteps:            cfg.MinSteps,
			MaxSteps:            cfg.MaxSteps,
		}),
		balancer.WithCheckInterval(cfg.CheckInterval),
		balancer.WithParallelism(cfg.Parallelism),
		balancer.WithTimeoutPolicy(policy),
	}
	if cfg.Seed != 0 {
		opts = append(opts, balancer.WithSeed(cfg.Seed))
	}
	return opts
}
