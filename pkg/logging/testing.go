package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger captures log output for assertions in tests.
type TestLogger struct {
	*zerolog.Logger
	Buffer *bytes.Buffer
}

// NewTestLogger creates a logger that records into a buffer. Writes are
// serialized so goroutines under test may log concurrently; read the
// captured output only after those goroutines are done. The global level
// is opened up to trace and restored when the test finishes.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()

	previousLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(previousLevel)
	})

	buf := &bytes.Buffer{}
	logger := zerolog.New(zerolog.SyncWriter(buf)).Level(zerolog.TraceLevel).With().Timestamp().Logger()

	return &TestLogger{Logger: &logger, Buffer: buf}
}

// Output returns everything captured so far.
func (tl *TestLogger) Output() string {
	return tl.Buffer.String()
}

// Lines returns each captured log line, oldest first.
func (tl *TestLogger) Lines() []string {
	out := strings.TrimSpace(tl.Output())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// Contains reports whether the captured output includes substr.
func (tl *TestLogger) Contains(substr string) bool {
	return strings.Contains(tl.Output(), substr)
}

// Clear discards everything captured so far.
func (tl *TestLogger) Clear() {
	tl.Buffer.Reset()
}

// swapDefault installs logger as the process default until the test ends.
// The previous logger is copied out first; SetDefault mutates the value
// Default points at, so holding the pointer would restore the replacement
// instead of the original.
func swapDefault(t testing.TB, logger zerolog.Logger) {
	t.Helper()

	previous := *Default()
	SetDefault(logger)
	t.Cleanup(func() {
		SetDefault(previous)
	})
}

// DisableLoggingForTest silences the default logger for the duration of a
// test.
func DisableLoggingForTest(t testing.TB) {
	t.Helper()
	swapDefault(t, zerolog.Nop())
}

// CaptureLoggingForTest redirects the default logger into a TestLogger for
// the duration of a test.
func CaptureLoggingForTest(t testing.TB) *TestLogger {
	t.Helper()

	tl := NewTestLogger(t)
	swapDefault(t, *tl.Logger)
	return tl
}
