// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	repository "github.com/okian/teamforge/internal/adapters/repository"
	"github.com/okian/teamforge/internal/domain/balancer"
	"github.com/okian/teamforge/pkg/logger"
	"github.com/okian/teamforge/pkg/metrics"
)

// Service generates balanced teams for tournament scopes and keeps the
// latest assignment per scope.
type Service struct {
	mu sync.RWMutex

	// Core components
	balancer *balancer.Balancer
	store    repository.Store

	balancerOpts []balancer.Option

	// State
	started     bool
	generations int64
	lastSpread  float64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the assignment store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithBalancerOptions forwards options to the balancer built by New.
func WithBalancerOptions(opts ...balancer.Option) Option {
	return func(s *Service) {
		s.balancerOpts = append(s.balancerOpts, opts...)
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	s.balancer = balancer.New(s.balancerOpts...)
	return s
}

// Start marks the service ready to serve requests.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.started = true
	s.logger.Info(ctx, "team service started",
		logger.Int("teamSize", s.balancer.TeamSize()),
		logger.Int("maxRuns", s.balancer.MaxRuns()),
	)
	return nil
}

// Stop marks the service stopped. Stored assignments are kept.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "team service stopped")
}

// GenerateTeams balances players into teams and replaces the stored
// assignment for scope. Nothing is stored when balancing fails.
func (s *Service) GenerateTeams(ctx context.Context, scope string, players []balancer.Player, runs *int) (balancer.Assignment, repository.Assignment, error) {
	metrics.RecordBalanceRequest()

	if strings.TrimSpace(scope) == "" {
		return balancer.Assignment{}, repository.Assignment{}, repository.ErrInvalidScope
	}

	a, err := s.balancer.GenerateBalancedTeams(ctx, players, runs)
	if err != nil {
		s.recordFailure(ctx, scope, err)
		return balancer.Assignment{}, repository.Assignment{}, err
	}
	metrics.RecordOptimization(float64(a.Duration.Microseconds())/1000, a.RunsExecuted, a.Iterations, a.Spread, a.Truncated)

	records := make([]repository.TeamRecord, len(a.Teams))
	for i, t := range a.Teams {
		records[i] = repository.TeamRecord{TeamID: t.TeamID, MemberIDs: t.MemberIDs()}
	}
	stored, err := s.store.Replace(ctx, scope, records)
	if err != nil {
		metrics.RecordErrorByComponent("store", "replace")
		return balancer.Assignment{}, repository.Assignment{}, err
	}

	s.mu.Lock()
	s.generations++
	s.lastSpread = a.Spread
	s.mu.Unlock()

	s.logger.Info(ctx, "teams generated",
		logger.String("scope", stored.Scope),
		logger.String("generation", stored.Generation),
		logger.Int("teams", len(a.Teams)),
		logger.Float64("spread", a.Spread),
		logger.Int("runsExecuted", a.RunsExecuted),
		logger.Bool("truncated", a.Truncated),
		logger.Duration("duration", a.Duration),
	)
	return a, stored, nil
}

// Teams returns the stored assignment for scope.
func (s *Service) Teams(ctx context.Context, scope string) (repository.Assignment, error) {
	return s.store.Get(ctx, scope)
}

// ClearTeams removes the stored assignment for scope.
func (s *Service) ClearTeams(ctx context.Context, scope string) error {
	if err := s.store.Delete(ctx, scope); err != nil {
		return err
	}
	s.logger.Info(ctx, "teams cleared", logger.String("scope", scope))
	return nil
}

// TeamSize returns the configured number of players per team.
func (s *Service) TeamSize() int { return s.balancer.TeamSize() }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":      s.started,
		"teamSize":     s.balancer.TeamSize(),
		"maxRuns":      s.balancer.MaxRuns(),
		"generations":  s.generations,
		"lastSpread":   s.lastSpread,
		"storedScopes": s.store.Count(context.Background()),
		"timestamp":    time.Now().Unix(),
	}
}

func (s *Service) recordFailure(ctx context.Context, scope string, err error) {
	if kind := ValidationKind(err); kind != "" {
		_ = metrics.RecordValidationFailure(kind)
		s.logger.Debug(ctx, "roster rejected",
			logger.String("scope", scope),
			logger.String("kind", kind),
			logger.Error(err),
		)
		return
	}

	switch {
	case errors.Is(err, balancer.ErrOptimizationTimeout):
		metrics.RecordOptimizationTimeout()
		s.logger.Warn(ctx, "team generation timed out", logger.String("scope", scope), logger.Error(err))
	default:
		metrics.RecordInternalFault()
		metrics.RecordErrorByComponent("balancer", "internal")
		s.logger.Error(ctx, "team generation failed", logger.String("scope", scope), logger.Error(err))
	}
}

// ValidationKind maps a roster validation error to its metrics kind, or ""
// when err is not a validation error.
func ValidationKind(err error) string {
	switch {
	case errors.Is(err, balancer.ErrEmptyRoster):
		return metrics.KindEmptyRoster
	case errors.Is(err, balancer.ErrCountNotDivisible):
		return metrics.KindNotDivisible
	case errors.Is(err, balancer.ErrInvalidRating):
		return metrics.KindInvalidRating
	case errors.Is(err, balancer.ErrDuplicateID):
		return metrics.KindDuplicateID
	case errors.Is(err, balancer.ErrRunCountOutOfRange):
		return metrics.KindRunCount
	default:
		return ""
	}
}
