// Package serve provides the HTTP API server command for the DealSync CLI.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dealsync/dealsync"
	"github.com/dealsync/dealsync/cmd/application"
	"github.com/dealsync/dealsync/internal/notify"
	"github.com/dealsync/dealsync/internal/schedule"
	"github.com/dealsync/dealsync/internal/server"
	"github.com/dealsync/dealsync/internal/server/handlers"
	"github.com/dealsync/dealsync/pkg/constants"
	"github.com/dealsync/dealsync/pkg/errors"
	"github.com/dealsync/dealsync/pkg/logging"
)

// NewCommand creates the serve command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "Start the sync API server and cron scheduler",
		Long: `Start the DealSync HTTP API and background scheduler.

The server exposes the status, history, trigger, and configuration
endpoints used by dashboards, and streams completed runs over Server-Sent
Events. Scheduled syncs run on the configured cron expression; a tick that
fires while another run is in flight is skipped and logged, never queued.
A malformed schedule disables scheduled runs but the server still starts.`,
		Example: `  # Serve on the configured host and port (default 0.0.0.0:8000)
  dealsync serve

  # Bind to localhost on a custom port
  dealsync serve --addr 127.0.0.1 --port 3000

  # Demo mode against the embedded datasets
  dealsync serve --demo`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, app)
		},
	}

	// Server configuration flags
	cmd.Flags().String("addr", "", "bind address (default from SERVER_HOST)")
	cmd.Flags().IntP("port", "p", 0, "server port (default from SERVER_PORT)")
	cmd.Flags().StringSlice("cors-origins", []string{}, "allowed CORS origins (default: all)")

	// Timeout flags
	cmd.Flags().Duration("read-timeout", constants.ServerReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", constants.ServerWriteTimeout, "HTTP write timeout (must cover a full sync run)")
	cmd.Flags().Duration("idle-timeout", constants.ServerIdleTimeout, "HTTP idle timeout")

	return cmd
}

// runServe starts the API server and scheduler.
func runServe(cmd *cobra.Command, app application.Application) error {
	logger := app.Logger()
	settings := app.Settings()

	cfg, err := parseConfig(cmd, settings)
	if err != nil {
		return err
	}

	ds, err := app.Client()
	if err != nil {
		return fmt.Errorf("creating sync client: %w", err)
	}

	// Scheduler: a malformed expression disables scheduled runs but never
	// prevents the server from starting.
	sched := startScheduler(ds, app.Notifier(), settings.Schedule, logger)
	if sched != nil {
		defer stopScheduler(sched, logger)
	}

	srvSettings := handlers.Settings{
		DemoMode:    settings.DemoMode,
		Schedule:    settings.Schedule,
		Strategy:    settings.Strategy,
		SheetName:   settings.SheetName,
		NotifyEmail: settings.NotifyEmail,

		CRMConfigured:     settings.CRMConfigured,
		TrackerConfigured: settings.TrackerConfigured,
		SheetsConfigured:  settings.SheetsConfigured,
		SMTPConfigured:    settings.SMTPConfigured,
	}
	if sched != nil {
		srvSettings.NextRun = sched.NextRun
	}

	logger.Info().
		Str("addr", cfg.Addr()).
		Bool("demo_mode", settings.DemoMode).
		Str("schedule", settings.Schedule).
		Str("strategy", string(settings.Strategy)).
		Msg("Starting sync API server")

	// Create server and start background services (SSE broadcaster)
	srv := server.New(ds, srvSettings, cfg, logger)
	srv.Start()

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// cmd.Context() carries the signal handling from main.go.
	return runUntilShutdown(cmd.Context(), httpServer, srv, logger)
}

// parseConfig resolves the server configuration, flags over settings.
func parseConfig(cmd *cobra.Command, settings application.Settings) (server.Config, error) {
	cfg := server.DefaultConfig()
	cfg.Host = settings.ServerHost
	cfg.Port = settings.ServerPort

	if addr := must(cmd.Flags().GetString("addr")); addr != "" {
		cfg.Host = addr
	}
	if port := must(cmd.Flags().GetInt("port")); port != 0 {
		cfg.Port = port
	}
	cfg.CORSOrigins = must(cmd.Flags().GetStringSlice("cors-origins"))
	cfg.ReadTimeout = must(cmd.Flags().GetDuration("read-timeout"))
	cfg.WriteTimeout = must(cmd.Flags().GetDuration("write-timeout"))
	cfg.IdleTimeout = must(cmd.Flags().GetDuration("idle-timeout"))

	if cfg.Port < 1 || cfg.Port > 65535 {
		return cfg, errors.NewValidationError("port", cfg.Port, "must be between 1 and 65535")
	}

	return cfg, nil
}

// startScheduler wires the cron job that runs a sync and emails the report.
// It returns nil when the expression is malformed.
func startScheduler(ds dealsync.Client, notifier notify.Service, spec string, logger *zerolog.Logger) *schedule.Scheduler {
	job := func() {
		ctx := logging.WithLogger(context.Background(), logger)

		logger.Info().Msg("Scheduled sync starting")
		result, err := ds.Sync(ctx)
		if err != nil {
			// Typically a manual run already in flight; never queue behind it
			logger.Warn().Err(err).Msg("Scheduled sync skipped")
			return
		}

		nctx, cancel := context.WithTimeout(ctx, constants.NotifyTimeout)
		defer cancel()
		if err := notifier.Notify(nctx, result); err != nil {
			logger.Error().Err(err).Msg("Failed to deliver sync report")
		}
	}

	sched, err := schedule.New(spec, job)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("schedule", spec).
			Msg("Invalid sync schedule, scheduled runs disabled")
		return nil
	}

	sched.Start()
	logger.Info().
		Str("schedule", spec).
		Time("next_run", sched.NextRun().Time).
		Msg("Sync scheduler started")
	return sched
}

// stopScheduler stops the cron runner and waits briefly for an in-flight
// job; a full sync can outlive the shutdown window and is abandoned.
func stopScheduler(sched *schedule.Scheduler, logger *zerolog.Logger) {
	stopCtx := sched.Stop()
	select {
	case <-stopCtx.Done():
		logger.Info().Msg("Scheduler stopped")
	case <-time.After(constants.ShutdownTimeout):
		logger.Warn().Msg("Timed out waiting for a scheduled sync to finish")
	}
}

// runUntilShutdown serves HTTP until the context is cancelled (SIGINT or
// SIGTERM from main) or the listener fails, then drains in-flight requests
// before stopping the background services.
func runUntilShutdown(ctx context.Context, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	listenErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		fmt.Printf("🚀 DealSync API listening on %s\n", httpServer.Addr)
		fmt.Println("   Press Ctrl+C to stop")

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			listenErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutdown signal received")
	fmt.Printf("\n🛑 Shutting down API server...\n")

	// The parent context is already cancelled; shutdown gets its own.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Background services shutdown had issues")
	}

	logger.Info().Msg("Server stopped gracefully")
	fmt.Printf("✅ API server stopped gracefully\n")
	return nil
}

// must unwraps a flag lookup. The flags are registered in this package, so
// a failed lookup is a programming error worth a panic.
func must[T any](value T, err error) T {
	if err != nil {
		panic("flag lookup failed: " + err.Error())
	}
	return value
}
