package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dealsync/dealsync/cmd/dealsync/cmd/serve"
	synccmd "github.com/dealsync/dealsync/cmd/dealsync/cmd/sync"
)

// NewSyncCommand creates the sync command with app dependencies.
func (a *App) NewSyncCommand() *cobra.Command {
	return synccmd.NewCommand(a)
}

// NewServeCommand creates the serve command with app dependencies.
func (a *App) NewServeCommand() *cobra.Command {
	return serve.NewCommand(a)
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("dealsync %s\n", a.Version())
			cmd.Printf("  commit:   %s\n", a.Commit())
			cmd.Printf("  built:    %s\n", a.Date())
			cmd.Printf("  built by: %s\n", a.BuiltBy())
			cmd.Printf("  go:       %s\n", runtime.Version())
			cmd.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
