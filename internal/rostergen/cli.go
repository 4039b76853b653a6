package rostergen

import (
	"time"

	"github.com/okian/teamforge/pkg/logger"
	"github.com/spf13/cobra"
)

// Default flag values.
const (
	defaultBaseURL  = "http://localhost:9080"
	defaultScope    = "demo"
	defaultPlayers  = 50
	defaultTeamSize = 5
	defaultTimeout  = 30 * time.Second
)

// NewRootCommand builds the rostergen command tree.
func NewRootCommand() *cobra.Command {
	cfg := &Config{}
	var (
		logLevel  string
		logFormat string
	)

	root := &cobra.Command{
		Use:   "rostergen",
		Short: "Generate random rosters and balance them into teams",
		Long: `rostergen generates random tournament rosters with uuid player ids and
balances them, either in process or against a running teamforge server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWith(cmd.ErrOrStderr(), logFormat); err != nil {
				return err
			}
			return logger.SetLevelString(logLevel)
		},
	}

	flags := root.PersistentFlags()
	flags.IntVarP(&cfg.Players, "players", "n", defaultPlayers, "number of players to generate")
	flags.IntVar(&cfg.Runs, "runs", 0, "number of optimization runs (0 uses the default)")
	flags.Int64Var(&cfg.Seed, "seed", 0, "random seed (0 is time-based)")
	flags.IntVar(&cfg.Invalid, "invalid", 0, "number of players to give an out of range rating")
	flags.StringVarP(&cfg.OutputFile, "output", "o", "", "write the generated roster as JSON to this file")
	flags.StringVar(&cfg.Scope, "scope", defaultScope, "tournament scope")
	flags.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(newBalanceCommand(cfg), newSubmitCommand(cfg))
	return root
}

func newBalanceCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Balance a generated roster in process",
		Long: `Balance a generated roster with the built-in balancer and print the teams.

Examples:
  # 50 players into teams of 5
  rostergen balance

  # Reproducible run
  rostergen balance --players 140 --team-size 7 --runs 100 --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := RunLocal(cmd.Context(), cfg, cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().IntVar(&cfg.TeamSize, "team-size", defaultTeamSize, "players per team")
	return cmd
}

func newSubmitCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Post a generated roster to a teamforge server",
		Long: `Post a generated roster to POST /tournaments/{scope}/teams and print the
stored assignment. The server's team size applies.

Examples:
  rostergen submit --scope spring-cup --players 60
  rostergen submit --url http://teamforge:9080 --invalid 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := RunSubmit(cmd.Context(), cfg, cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", defaultBaseURL, "base URL of the teamforge server")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	return cmd
}
