// Command dealsync is the entry point for the dealsync CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dealsync/dealsync/cmd/dealsync/app"
	"github.com/dealsync/dealsync/pkg/constants"
)

// Populated by goreleaser at release time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cli, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, os.Args[1:]); err != nil {
		// The signal context may already be cancelled; give cleanup its
		// own deadline so it still runs.
		cleanupCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if cleanupErr := cli.Shutdown(cleanupCtx); cleanupErr != nil {
			cli.Logger().Error().Err(cleanupErr).Msg("Cleanup failed after command error")
		}
		app.ExitOnError(err)
	}
}
