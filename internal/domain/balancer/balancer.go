// Package balancer validates tournament rosters and turns them into balanced
// teams. It owns the business rules (rating range, run limits, team ids) and
// delegates the search itself to the partition package.
package balancer

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/teamforge/internal/domain/partition"
	"github.com/okian/teamforge/pkg/logger"
)

// Default balancer configuration constants.
const (
	defaultTeamSize    = 5
	defaultRuns        = 300
	defaultMaxRuns     = 1000
	defaultCheckEvery  = 256
	teamIDPrefix       = "TEAM"
	presentationFactor = 100 // two decimals

	// MinRating and MaxRating bound accepted ratings, inclusive.
	MinRating = 0.0
	MaxRating = 999.99
)

// Balancer turns validated rosters into balanced teams. It holds no
// per-call state and is safe for concurrent use.
type Balancer struct {
	teamSize      int
	defaultRuns   int
	maxRuns       int
	budget        Budget
	checkInterval int
	parallelism   int
	policy        TimeoutPolicy

	seed     func() int64
	now      func() time.Time
	optimize Optimizer
	logger   logger.Logger
}

// New constructs a Balancer with default configuration.
func New(opts ...Option) *Balancer {
	b := &Balancer{
		teamSize:      defaultTeamSize,
		defaultRuns:   defaultRuns,
		maxRuns:       defaultMaxRuns,
		budget:        DefaultBudget(),
		checkInterval: defaultCheckEvery,
		parallelism:   runtime.NumCPU(),
		policy:        TimeoutWarn,
		seed:          func() int64 { return time.Now().UnixNano() },
		now:           time.Now,
		optimize:      partition.Optimize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(b)
	}

	if b.defaultRuns > b.maxRuns {
		b.defaultRuns = b.maxRuns
	}
	if b.logger == nil {
		b.logger = logger.Get().Named("balancer")
	}
	return b
}

// TeamSize returns the configured number of players per team.
func (b *Balancer) TeamSize() int { return b.teamSize }

// MaxRuns returns the largest run count a caller may request.
func (b *Balancer) MaxRuns() int { return b.maxRuns }

// GenerateBalancedTeams validates players, runs the optimizer and maps the
// best partition back to players by id. requestedRuns may be nil to use the
// configured default.
//
// All validation happens before any search work starts.
func (b *Balancer) GenerateBalancedTeams(ctx context.Context, players []Player, requestedRuns *int) (Assignment, error) {
	runs, err := b.validate(players, requestedRuns)
	if err != nil {
		return Assignment{}, err
	}

	steps := IterationBudget(runs, b.budget)
	roster := make([]partition.Participant, len(players))
	byID := make(map[string]Player, len(players))
	for i, p := range players {
		roster[i] = partition.Participant{ID: p.ID, Rating: *p.Rating}
		byID[p.ID] = p
	}

	seed := b.seed()
	b.logger.Debug(ctx, "optimizing teams",
		logger.Int("players", len(players)),
		logger.Int("teamSize", b.teamSize),
		logger.Int("runs", runs),
		logger.Int("steps", steps),
		logger.Any("seed", seed),
	)

	res, err := b.optimize(roster, b.teamSize, steps, runs, partition.NewSource(seed),
		partition.WithDeadline(b.now().Add(b.budget.WallClock)),
		partition.WithClock(b.now),
		partition.WithCheckInterval(b.checkInterval),
		partition.WithParallelism(b.parallelism),
	)
	if err != nil {
		return Assignment{}, fmt.Errorf("%w: optimizer rejected validated roster: %w", ErrInternal, err)
	}
	if err := res.Partition.Validate(b.teamSize, roster); err != nil {
		return Assignment{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	overran := res.Truncated || res.Duration > b.budget.WallClock
	if overran && b.policy == TimeoutFail {
		return Assignment{}, &OptimizationTimeoutError{
			Elapsed:      res.Duration,
			Budget:       b.budget.WallClock,
			RunsExecuted: res.RunsExecuted,
			RunsWanted:   runs,
		}
	}
	if overran {
		b.logger.Warn(ctx, "optimization hit its deadline; returning best partition so far",
			logger.Int("runsExecuted", res.RunsExecuted),
			logger.Int("runsRequested", runs),
			logger.Duration("elapsed", res.Duration),
		)
	}

	out, err := b.assemble(res, byID)
	if err != nil {
		return Assignment{}, err
	}
	out.RunsRequested = runs
	out.IterationBudget = steps
	out.Truncated = overran

	b.logger.Info(ctx, "teams generated",
		logger.Int("teams", len(out.Teams)),
		logger.Float64("spread", out.Spread),
		logger.Float64("initialSpread", res.InitialSpread),
		logger.Int("runsExecuted", res.RunsExecuted),
		logger.Int("iterations", res.Iterations),
		logger.Duration("elapsed", res.Duration),
	)
	return out, nil
}

// validate applies the roster rules in a fixed order and resolves the run
// count.
func (b *Balancer) validate(players []Player, requestedRuns *int) (int, error) {
	if len(players) == 0 {
		return 0, ErrEmptyRoster
	}
	if len(players)%b.teamSize != 0 {
		return 0, &CountNotDivisibleError{Count: len(players), Divisor: b.teamSize}
	}

	var bad []string
	for _, p := range players {
		if !validRating(p.Rating) {
			bad = append(bad, p.displayName())
		}
	}
	if len(bad) > 0 {
		return 0, &InvalidRatingError{Labels: bad, Min: MinRating, Max: MaxRating}
	}

	seen := make(map[string]struct{}, len(players))
	var dups []string
	for _, p := range players {
		if _, ok := seen[p.ID]; ok {
			dups = append(dups, p.ID)
			continue
		}
		seen[p.ID] = struct{}{}
	}
	if len(dups) > 0 {
		return 0, &DuplicateIDError{IDs: dups}
	}

	return b.resolveRuns(requestedRuns)
}

func (b *Balancer) resolveRuns(requested *int) (int, error) {
	if requested == nil {
		return b.defaultRuns, nil
	}
	if *requested < 1 || *requested > b.maxRuns {
		return 0, &RunCountOutOfRangeError{Requested: *requested, Max: b.maxRuns}
	}
	return *requested, nil
}

func validRating(r *float64) bool {
	if r == nil || math.IsNaN(*r) || math.IsInf(*r, 0) {
		return false
	}
	return *r >= MinRating && *r <= MaxRating
}

// assemble maps the partition back to players by id and labels teams
// TEAM1..TEAMn in partition order.
func (b *Balancer) assemble(res partition.RunResult, byID map[string]Player) (Assignment, error) {
	teams := make([]TeamAssignment, len(res.Partition.Teams))
	for i, t := range res.Partition.Teams {
		members := make([]Player, len(t.Members))
		for j, m := range t.Members {
			p, ok := byID[m.ID]
			if !ok {
				return Assignment{}, fmt.Errorf("%w: optimizer returned unknown participant %q", ErrInternal, m.ID)
			}
			members[j] = p
		}
		teams[i] = TeamAssignment{
			TeamID:        teamIDPrefix + strconv.Itoa(t.Index+1),
			Members:       members,
			RatingSum:     t.RatingSum,
			AverageRating: round2(t.RatingSum / float64(b.teamSize)),
		}
	}
	return Assignment{
		Teams:        teams,
		Spread:       round2(res.Partition.Spread),
		TeamSize:     b.teamSize,
		RunsExecuted: res.RunsExecuted,
		Iterations:   res.Iterations,
		Duration:     res.Duration,
	}, nil
}

func round2(x float64) float64 {
	return math.Round(x*presentationFactor) / presentationFactor
}
