// Package sync provides the one-shot sync command for the DealSync CLI.
package sync

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dealsync/dealsync"
	"github.com/dealsync/dealsync/cmd/application"
	"github.com/dealsync/dealsync/pkg/logging"
)

// NewCommand creates the sync command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one sync cycle and print the result",
		Long: `Run a single sync cycle: pull opportunities from the CRM and issues
from the tracker, merge them by opportunity name, and write the merged
table to the spreadsheet.

Individual system failures never abort the run; they are recorded on the
result and the run finishes as partial or failed. The command exits
non-zero only when the run fails outright.`,
		Example: `  # Run against the configured systems (demo datasets without credentials)
  dealsync sync

  # Machine-readable result
  dealsync sync --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, app)
		},
	}

	cmd.Flags().Bool("json", false, "print the run result as JSON")

	return cmd
}

// runSync executes a single run and prints its result.
func runSync(cmd *cobra.Command, app application.Application) error {
	ds, err := app.Client()
	if err != nil {
		return fmt.Errorf("creating sync client: %w", err)
	}

	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	result, err := ds.Sync(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		cmd.Println(string(out))
	} else {
		cmd.Println(result.Summary())
	}

	if result.Status == dealsync.StatusFailed {
		return fmt.Errorf("sync failed with %d errors", len(result.Errors))
	}

	return nil
}
