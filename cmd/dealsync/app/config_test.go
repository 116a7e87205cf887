package app

import (
	"os"
	"testing"
	"time"

	"github.com/dealsync/dealsync/pkg/errors"
)

// TestLoadConfig verifies basic config loading and defaults.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config == nil {
		t.Fatal("LoadConfig() returned nil config")
	}

	// Verify defaults are set
	if config.Schedule != "0 7 * * *" {
		t.Errorf("Schedule = %s, want 0 7 * * *", config.Schedule)
	}
	if config.Strategy != "crm-wins" {
		t.Errorf("Strategy = %s, want crm-wins", config.Strategy)
	}
	if config.Timeout != 5*time.Minute {
		t.Errorf("Timeout = %v, want 5m", config.Timeout)
	}
	if config.ServerHost != "0.0.0.0" {
		t.Errorf("ServerHost = %s, want 0.0.0.0", config.ServerHost)
	}
	if config.ServerPort != 8000 {
		t.Errorf("ServerPort = %d, want 8000", config.ServerPort)
	}
	if config.SMTP.Host != "smtp.gmail.com" {
		t.Errorf("SMTP.Host = %s, want smtp.gmail.com", config.SMTP.Host)
	}
	if config.SMTP.Port != 587 {
		t.Errorf("SMTP.Port = %d, want 587", config.SMTP.Port)
	}
	if config.Sheets.SheetName != "Master Data" {
		t.Errorf("Sheets.SheetName = %s, want Master Data", config.Sheets.SheetName)
	}
	if config.Sheets.CredentialsFile != "credentials.json" {
		t.Errorf("Sheets.CredentialsFile = %s, want credentials.json", config.Sheets.CredentialsFile)
	}
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
}

// TestConfig_EnvironmentVariables verifies environment variable loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	envs := map[string]string{
		"DEMO_MODE":           "true",
		"SALESFORCE_USERNAME": "sales@example.com",
		"SALESFORCE_PASSWORD": "hunter2",
		"JIRA_URL":            "https://example.atlassian.net",
		"JIRA_EMAIL":          "bot@example.com",
		"JIRA_API_TOKEN":      "token-123",
		"NOTIFY_EMAIL":        "ops@example.com",
		"CONFLICT_STRATEGY":   "tracker-wins",
		"SYNC_SCHEDULE":       "*/30 * * * *",
	}
	for key, value := range envs {
		old := os.Getenv(key)
		os.Setenv(key, value)
		defer os.Setenv(key, old)
	}

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if !config.DemoMode {
		t.Error("DEMO_MODE environment variable not loaded")
	}
	if config.Salesforce.Username != "sales@example.com" {
		t.Errorf("Salesforce.Username = %s, want sales@example.com", config.Salesforce.Username)
	}
	if !config.Salesforce.Configured() {
		t.Error("Salesforce should report configured with username and password set")
	}
	if config.Jira.URL != "https://example.atlassian.net" {
		t.Errorf("Jira.URL = %s, want https://example.atlassian.net", config.Jira.URL)
	}
	if !config.Jira.Configured() {
		t.Error("Jira should report configured with URL, email, and token set")
	}
	if config.SMTP.To != "ops@example.com" {
		t.Errorf("SMTP.To = %s, want ops@example.com", config.SMTP.To)
	}
	if config.Strategy != "tracker-wins" {
		t.Errorf("Strategy = %s, want tracker-wins", config.Strategy)
	}
	if config.Schedule != "*/30 * * * *" {
		t.Errorf("Schedule = %s, want */30 * * * *", config.Schedule)
	}
}

// TestConfig_SyncTimeout verifies the two accepted timeout formats.
func TestConfig_SyncTimeout(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"bare seconds", "90", 90 * time.Second},
		{"duration string", "2m", 2 * time.Minute},
		{"garbage falls back to default", "soon", 5 * time.Minute},
		{"negative falls back to default", "-30", 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := os.Getenv("SYNC_TIMEOUT")
			defer os.Setenv("SYNC_TIMEOUT", old)
			os.Setenv("SYNC_TIMEOUT", tt.value)

			config, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig() failed: %v", err)
			}
			if config.Timeout != tt.want {
				t.Errorf("Timeout = %v, want %v", config.Timeout, tt.want)
			}
		})
	}
}

// TestConfig_DebugEnablesVerbose verifies the legacy DEBUG switch.
func TestConfig_DebugEnablesVerbose(t *testing.T) {
	old := os.Getenv("DEBUG")
	defer os.Setenv("DEBUG", old)
	os.Setenv("DEBUG", "true")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if !config.Verbose {
		t.Error("DEBUG=true should enable verbose logging")
	}
}

// TestConfig_Validate verifies startup validation.
func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Strategy:   "crm-wins",
			Schedule:   "0 7 * * *",
			ServerPort: 8000,
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		if err := base().Validate(); err != nil {
			t.Errorf("Validate() failed: %v", err)
		}
	})

	t.Run("unknown strategy rejected", func(t *testing.T) {
		config := base()
		config.Strategy = "newest-wins"
		if err := config.Validate(); !errors.IsValidationError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("unimplemented strategy rejected", func(t *testing.T) {
		config := base()
		config.Strategy = "most-recent"
		err := config.Validate()
		if !errors.IsUnimplementedStrategy(err) {
			t.Errorf("expected unimplemented strategy error, got %v", err)
		}
	})

	t.Run("malformed schedule accepted", func(t *testing.T) {
		// A bad schedule disables scheduled runs; it must not block startup
		config := base()
		config.Schedule = "61 * * * *"
		if err := config.Validate(); err != nil {
			t.Errorf("Validate() should ignore the schedule, got %v", err)
		}
	})

	t.Run("port out of range rejected", func(t *testing.T) {
		config := base()
		config.ServerPort = 0
		if err := config.Validate(); !errors.IsValidationError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

// TestConfig_UpdateFromFlags verifies flag precedence over the environment.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{
		Verbose:     false,
		Quiet:       true, // from env
		DemoMode:    false,
		EnvLogLevel: "error",
	}

	config.UpdateFromFlags(true, false, true, true, "debug", "json")

	if !config.Verbose {
		t.Error("verbose flag not applied")
	}
	if !config.Quiet {
		t.Error("a false flag must not clear an env-provided setting")
	}
	if !config.NoColor {
		t.Error("no-color flag not applied")
	}
	if !config.DemoMode {
		t.Error("demo flag not applied")
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", config.LogLevel)
	}
	if config.LogFormat != "json" {
		t.Errorf("LogFormat = %s, want json", config.LogFormat)
	}

	// Empty string flags leave current values alone
	config.UpdateFromFlags(false, false, false, false, "", "")
	if config.LogLevel != "debug" {
		t.Errorf("empty log-level flag cleared the level, got %s", config.LogLevel)
	}
	if config.LogFormat != "json" {
		t.Errorf("empty log-format flag cleared the format, got %s", config.LogFormat)
	}
}
