package logging

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealsync/dealsync/pkg/constants"
)

// Config holds logger configuration options.
type Config struct {
	// Level is the minimum level that gets emitted ("trace" through
	// "fatal", or "disabled").
	Level string

	// Format selects the encoder: "json", "console", "pretty", or "auto"
	// to pick console on a terminal and JSON everywhere else.
	Format string

	// Output is the destination: "stderr", "stdout", "discard", or a
	// file path that is opened for append.
	Output string

	// TimeFormat names the timestamp layout for console output
	// ("kitchen", "rfc3339", "unix", or a Go reference layout).
	TimeFormat string

	// NoColor strips ANSI colors from console output.
	NoColor bool

	// AddCaller includes file:line on every event.
	AddCaller bool

	// Fields are bound to every event the logger emits.
	Fields map[string]any
}

// DefaultConfig returns the configuration used when nothing else is
// specified: info level, auto-detected format, stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
		Fields:     map[string]any{},
	}
}

// NewLoggerFromConfig builds a logger per cfg. The parsed level also
// becomes zerolog's global floor so derived loggers cannot out-chat it.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(resolveWriter(cfg)).Level(level).With().Timestamp().Logger()

	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	if len(cfg.Fields) == 0 {
		return logger
	}

	// Bind default fields in a stable order so identical configs produce
	// byte-identical prefixes.
	keys := make([]string, 0, len(cfg.Fields))
	for k := range cfg.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	logCtx := logger.With()
	for _, k := range keys {
		logCtx = applyField(logCtx, k, cfg.Fields[k])
	}
	return logCtx.Logger()
}

// resolveWriter maps cfg.Output and cfg.Format onto an io.Writer, wrapping
// it in a ConsoleWriter when a human is watching.
func resolveWriter(cfg *Config) io.Writer {
	output := openOutput(cfg.Output)

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		// Console only on a terminal stderr; a file, pipe, or discarded
		// output gets JSON.
		if output == os.Stderr && stderrIsTerminal() {
			format = "console"
		} else {
			format = "json"
		}
	}

	switch format {
	case "console", "pretty":
		return zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: timeLayout(cfg.TimeFormat),
			NoColor:    cfg.NoColor,
		}
	default:
		return output
	}
}

// openOutput interprets the Output field. An unopenable file path falls
// back to stderr rather than failing the process over a log sink.
func openOutput(name string) io.Writer {
	switch strings.ToLower(name) {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	case "discard", "none":
		return io.Discard
	}

	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return os.Stderr
		}
	}
	file, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return os.Stderr
	}
	return file
}

// parseLevel maps a level name onto a zerolog.Level, accepting a few
// spellings zerolog itself does not. Unknown names degrade to info.
func parseLevel(name string) zerolog.Level {
	switch strings.ToLower(name) {
	case "", "info":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "none", "off", "disabled":
		return zerolog.Disabled
	}
	if level, err := zerolog.ParseLevel(strings.ToLower(name)); err == nil {
		return level
	}
	return zerolog.InfoLevel
}

// timeLayout resolves a TimeFormat name to a Go time layout. Strings that
// already look like a reference layout pass through.
func timeLayout(name string) string {
	switch strings.ToLower(name) {
	case "", "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "rfc3339nano":
		return time.RFC3339Nano
	case "unix", "epoch":
		return "" // ConsoleWriter prints a Unix timestamp for the empty layout
	case "stamp":
		return time.Stamp
	}
	if strings.Contains(name, "2006") || strings.Contains(name, "15:04") {
		return name
	}
	return time.Kitchen
}
