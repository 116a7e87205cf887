package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute parses args and runs the selected command. This is the entry
// point main calls.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand assembles the root cobra command, its persistent flags
// and every subcommand.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "dealsync",
		Short:   "Sales pipeline synchronization service",
		Version: a.build.version,
		Long: `DealSync keeps a sales pipeline consistent across systems. Each run
pulls opportunities from the CRM and issues from the tracker, merges them
by opportunity name with a configurable conflict policy, and writes the
merged table to a spreadsheet.

Without credentials it runs in demo mode against embedded datasets, so
every command works offline out of the box.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.dealsync.yaml)")
	flags.String("env-file", "", "extra .env file loaded over the environment")
	flags.Bool("demo", false, "force demo mode (embedded datasets, no external calls)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.String("log-format", "", "log format: auto, json, console")

	// Match the version subcommand's output.
	rootCmd.SetVersionTemplate("dealsync {{.Version}}\n")

	rootCmd.AddCommand(a.NewSyncCommand())
	rootCmd.AddCommand(a.NewServeCommand())
	rootCmd.AddCommand(a.NewVersionCommand())

	return rootCmd
}

// setupCommand runs before every command: it reloads configuration when an
// alternate source is requested, folds the global flags in, and rebuilds
// the logger accordingly.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	configFile := must(cmd.Flags().GetString("config"))
	envFile := must(cmd.Flags().GetString("env-file"))
	if configFile != "" || envFile != "" {
		config, err := LoadConfigFrom(configFile, envFile)
		if err != nil {
			return err
		}
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(
		must(cmd.Flags().GetBool("verbose")),
		must(cmd.Flags().GetBool("quiet")),
		must(cmd.Flags().GetBool("no-color")),
		must(cmd.Flags().GetBool("demo")),
		must(cmd.Flags().GetString("log-level")),
		must(cmd.Flags().GetString("log-format")),
	)

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// ExitOnError prints err to stderr and exits 1. Main uses it as the last
// stop for errors cobra did not already report.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

// must unwraps a flag lookup. The flags are registered in this package, so
// a failed lookup is a programming error worth a panic.
func must[T any](value T, err error) T {
	if err != nil {
		panic("flag lookup failed: " + err.Error())
	}
	return value
}
