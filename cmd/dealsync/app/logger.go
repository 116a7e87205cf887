package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/dealsync/dealsync/pkg/logging"
)

// NewLogger builds the process logger from the resolved CLI configuration.
// Level precedence, highest first: --log-level, -v, -q, LOG_LEVEL, info.
func NewLogger(config *Config) zerolog.Logger {
	level := resolveLogLevel(config)

	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor,
		AddCaller: level == "debug" || level == "trace",
	})
}

// resolveLogLevel applies the flag and environment precedence rules.
func resolveLogLevel(config *Config) string {
	// An explicit --log-level wins even when it needs correcting.
	if config.LogLevel != "" {
		level := validateLogLevel(config.LogLevel)
		if level != config.LogLevel {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", config.LogLevel, level)
		}
		return level
	}

	switch {
	case config.Verbose && config.Quiet:
		// -q is the safer read of contradictory flags.
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	case config.Verbose:
		return "debug"
	case config.Quiet:
		return "warn"
	}

	if config.EnvLogLevel != "" {
		return validateLogLevel(config.EnvLogLevel)
	}
	return "info"
}

// validateLogLevel narrows level to one this CLI accepts, falling back to
// info for anything unrecognized. Matching is case-sensitive on purpose;
// the flag help advertises the lowercase names.
func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	}
	return "info"
}
