// Command rostergen generates random rosters and balances them locally or
// against a running teamforge server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/teamforge/internal/rostergen"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rostergen.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
