package rostergen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/okian/teamforge/internal/domain/balancer"
	"github.com/okian/teamforge/pkg/logger"
)

const rosterFilePermission = 0o600

// RunLocal generates a roster and balances it in process.
func RunLocal(ctx context.Context, cfg *Config, out io.Writer) (Report, error) {
	players, err := prepareRoster(ctx, cfg)
	if err != nil {
		return Report{}, err
	}

	opts := []balancer.Option{
		balancer.WithTeamSize(cfg.TeamSize),
		balancer.WithLogger(logger.Get().Named("rostergen")),
	}
	if cfg.Seed != 0 {
		opts = append(opts, balancer.WithSeed(cfg.Seed))
	}
	// Locally the requested run count is also the ceiling.
	if cfg.Runs > 0 {
		opts = append(opts, balancer.WithRuns(cfg.Runs, cfg.Runs))
	}
	b := balancer.New(opts...)

	a, err := b.GenerateBalancedTeams(ctx, toBalancerPlayers(players), nil)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Scope:         cfg.Scope,
		Players:       len(players),
		Spread:        a.Spread,
		RunsRequested: a.RunsRequested,
		RunsExecuted:  a.RunsExecuted,
		Truncated:     a.Truncated,
		Duration:      a.Duration,
		Teams:         make([]Team, len(a.Teams)),
	}
	for i, t := range a.Teams {
		report.Teams[i] = Team{TeamID: t.TeamID, RatingSum: t.RatingSum, AverageRating: t.AverageRating, MemberIDs: t.MemberIDs()}
	}
	return report, WriteReport(out, report)
}

// RunSubmit generates a roster and posts it to a running server.
func RunSubmit(ctx context.Context, cfg *Config, out io.Writer) (Report, error) {
	players, err := prepareRoster(ctx, cfg)
	if err != nil {
		return Report{}, err
	}

	client := NewHTTPClient(cfg.BaseURL, cfg.Timeout)
	report, err := client.Submit(ctx, cfg.Scope, players, cfg.Runs)
	if err != nil {
		return Report{}, err
	}
	return report, WriteReport(out, report)
}

func prepareRoster(ctx context.Context, cfg *Config) ([]Player, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	players, err := GenerateRoster(cfg.Players, cfg.Invalid, rand.New(rand.NewSource(seed))) //nolint:gosec // test data only
	if err != nil {
		return nil, err
	}
	logger.Get().Info(ctx, "generated roster", logger.Int("players", len(players)), logger.Any("seed", seed))

	if cfg.OutputFile != "" {
		if err := writeRoster(cfg.OutputFile, players); err != nil {
			return nil, err
		}
		logger.Get().Info(ctx, "roster written", logger.String("file", cfg.OutputFile))
	}
	return players, nil
}

func writeRoster(path string, players []Player) error {
	data, err := json.MarshalIndent(players, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}
	if err := os.WriteFile(path, data, rosterFilePermission); err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}
	return nil
}

func toBalancerPlayers(players []Player) []balancer.Player {
	out := make([]balancer.Player, len(players))
	for i, p := range players {
		rating := p.Rating
		out[i] = balancer.Player{ID: p.ID, Label: p.Name, Rating: &rating}
	}
	return out
}

// WriteReport prints a human readable summary of r.
func WriteReport(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if r.Generation != "" {
		fmt.Fprintf(tw, "scope:\t%s (generation %s)\n", r.Scope, r.Generation)
	}
	fmt.Fprintf(tw, "players:\t%d\n", r.Players)
	fmt.Fprintf(tw, "teams:\t%d\n", len(r.Teams))
	fmt.Fprintf(tw, "spread:\t%.2f\n", r.Spread)
	fmt.Fprintf(tw, "runs:\t%d of %d\n", r.RunsExecuted, r.RunsRequested)
	fmt.Fprintf(tw, "truncated:\t%t\n", r.Truncated)
	fmt.Fprintf(tw, "duration:\t%s\n\n", r.Duration.Round(time.Microsecond))

	fmt.Fprintln(tw, "TEAM\tSUM\tAVG\tMEMBERS")
	for _, t := range r.Teams {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%d\n", t.TeamID, t.RatingSum, t.AverageRating, len(t.MemberIDs))
	}
	return tw.Flush()
}
