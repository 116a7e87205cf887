// Package logging provides structured logging for dealsync using zerolog.
// It emits human-readable console output when attached to a terminal and
// structured JSON everywhere else, so the same call sites serve both the
// CLI and the long-running service.
//
// Example usage:
//
//	// Get the default logger
//	log := logging.Default()
//	log.Info().Str("source", "salesforce").Int("records", 5).Msg("Fetched opportunities")
//
//	// Carry a logger through a sync run
//	ctx := logging.WithRun(context.Background(), 12)
//	logging.Ctx(ctx).Debug().Msg("Connecting sheet writer")
package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is the process-wide logger. It is assembled from the
// environment at startup and replaced wholesale by SetDefault once CLI
// flags have been parsed.
var defaultLogger = NewLoggerFromConfig(envConfig())

// envConfig derives a logger configuration from LOG_LEVEL, LOG_FORMAT,
// DEBUG and NO_COLOR. Flag wiring refines it later; until then the
// environment is all we have.
func envConfig() *Config {
	cfg := DefaultConfig()

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = level
	} else if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	return cfg
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the default global logger, keeping zerolog's own
// package-level logger in step.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Debug starts a debug-level event on the default logger.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts an info-level event on the default logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warning-level event on the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts an error-level event on the default logger.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

// stderrIsTerminal reports whether stderr is a character device, which is
// what decides the "auto" output format.
func stderrIsTerminal() bool {
	info, err := os.Stderr.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
