package app

import "testing"

func TestResolveLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"default is info", Config{}, "info"},
		{"verbose means debug", Config{Verbose: true}, "debug"},
		{"quiet means warn", Config{Quiet: true}, "warn"},
		{"quiet wins a flag conflict", Config{Verbose: true, Quiet: true}, "warn"},
		{"environment fills in when no flags are set", Config{EnvLogLevel: "error"}, "error"},
		{"verbose beats environment", Config{EnvLogLevel: "error", Verbose: true}, "debug"},
		{"quiet beats environment", Config{EnvLogLevel: "trace", Quiet: true}, "warn"},
		{"explicit level beats flags and environment", Config{LogLevel: "error", EnvLogLevel: "trace", Verbose: true, Quiet: true}, "error"},
		{"explicit trace accepted", Config{LogLevel: "trace"}, "trace"},
		{"invalid explicit level degrades to info", Config{LogLevel: "loud", Verbose: true}, "info"},
		{"invalid environment level degrades to info", Config{EnvLogLevel: "loud"}, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveLogLevel(&tt.config); got != tt.want {
				t.Errorf("resolveLogLevel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		if got := validateLogLevel(level); got != level {
			t.Errorf("validateLogLevel(%q) = %q, want the level back", level, got)
		}
	}

	// Anything off the whitelist degrades to info, including uppercase
	// spellings and zerolog aliases the flag help does not advertise.
	for _, level := range []string{"", "DEBUG", "warning", "loud"} {
		if got := validateLogLevel(level); got != "info" {
			t.Errorf("validateLogLevel(%q) = %q, want %q", level, got, "info")
		}
	}
}

func TestNewLoggerBuilds(t *testing.T) {
	for _, config := range []*Config{
		{LogFormat: "console", LogOutput: "discard", LogLevel: "trace"},
		{LogFormat: "json", LogOutput: "discard", Quiet: true},
		{LogFormat: "auto", LogOutput: "discard"},
	} {
		logger := NewLogger(config)
		logger.Info().Msg("logger built")
	}
}
