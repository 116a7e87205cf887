package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dealsync/dealsync/internal/notify"
	"github.com/dealsync/dealsync/internal/sheets"
	"github.com/dealsync/dealsync/internal/sources/jira"
	"github.com/dealsync/dealsync/internal/sources/salesforce"
	"github.com/dealsync/dealsync/pkg/constants"
	"github.com/dealsync/dealsync/pkg/errors"
	"github.com/dealsync/dealsync/pkg/merge"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config sources
	ConfigFile string
	EnvFile    string

	// Runtime mode: demo runs entirely on embedded datasets
	DemoMode bool

	// External systems
	Salesforce salesforce.Config
	Jira       jira.Config
	Sheets     sheets.Config
	SMTP       notify.Config

	// Sync behavior
	Schedule string
	Strategy string
	Timeout  time.Duration

	// HTTP API
	ServerHost string
	ServerPort int

	// Logging configuration. LogLevel is set only by the --log-level flag;
	// EnvLogLevel carries LOG_LEVEL so flags keep precedence over env.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later via UpdateFromFlags)
//  2. Environment variables
//  3. .env files
//  4. Config file (~/.dealsync.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("", "")
}

// LoadConfigFrom loads configuration like LoadConfig, additionally reading
// the given config file and .env file when non-empty. The explicit .env
// file overrides variables already present in the environment.
func LoadConfigFrom(configFile, envFile string) (*Config, error) {
	loadEnvFiles(envFile)

	// Set up Viper for environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".dealsync")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		// Global flags (may be overridden by cobra flags later). DEBUG is
		// the legacy switch for verbose logging.
		Verbose: viper.GetBool("verbose") || viper.GetBool("debug"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		// Config sources
		ConfigFile: viper.ConfigFileUsed(),
		EnvFile:    envFile,

		// Runtime mode
		DemoMode: viper.GetBool("demo_mode"),

		// External systems
		Salesforce: salesforce.Config{
			Username:      viper.GetString("salesforce_username"),
			Password:      viper.GetString("salesforce_password"),
			SecurityToken: viper.GetString("salesforce_security_token"),
			Domain:        getEnvOrDefault("SALESFORCE_DOMAIN", constants.DefaultSalesforceDomain),
			Query:         viper.GetString("salesforce_query"),
		},
		Jira: jira.Config{
			URL:      viper.GetString("jira_url"),
			Email:    viper.GetString("jira_email"),
			APIToken: viper.GetString("jira_api_token"),
			JQL:      viper.GetString("jira_jql"),
		},
		Sheets: sheets.Config{
			CredentialsFile: getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
			SpreadsheetID:   viper.GetString("google_spreadsheet_id"),
			SheetName:       getEnvOrDefault("GOOGLE_SHEET_NAME", constants.DefaultSheetName),
		},
		SMTP: notify.Config{
			Host:     getEnvOrDefault("SMTP_HOST", constants.DefaultSMTPHost),
			Port:     getIntEnvOrDefault("SMTP_PORT", constants.DefaultSMTPPort),
			Username: viper.GetString("smtp_user"),
			Password: viper.GetString("smtp_password"),
			To:       viper.GetString("notify_email"),
		},

		// Sync behavior
		Schedule: getEnvOrDefault("SYNC_SCHEDULE", constants.DefaultSchedule),
		Strategy: getEnvOrDefault("CONFLICT_STRATEGY", string(merge.StrategyCRMWins)),
		Timeout:  getDurationEnvOrDefault("SYNC_TIMEOUT", constants.SyncTimeout),

		// HTTP API
		ServerHost: getEnvOrDefault("SERVER_HOST", constants.DefaultServerHost),
		ServerPort: getIntEnvOrDefault("SERVER_PORT", constants.DefaultServerPort),

		// Logging configuration
		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// Validate checks the parts of the configuration that must be correct before
// anything runs. The conflict strategy is rejected here so an unimplemented
// policy surfaces at startup, not mid-run. The cron schedule is deliberately
// not checked: a malformed schedule disables scheduled runs but never
// prevents the service from starting.
func (c *Config) Validate() error {
	strategy, err := merge.ParseStrategy(c.Strategy)
	if err != nil {
		return err
	}
	if err := strategy.Validate(); err != nil {
		return err
	}

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return errors.NewValidationError("server port", c.ServerPort, "must be between 1 and 65535")
	}

	return nil
}

// UpdateFromFlags applies parsed command flags over the loaded config.
// Boolean flags only promote (a false flag never clears an env setting),
// and string flags apply only when given, so flags keep the documented
// precedence without clobbering the environment.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor, demo bool, logLevel, logFormat string) {
	if verbose {
		c.Verbose = true
	}
	if quiet {
		c.Quiet = true
	}
	if noColor {
		c.NoColor = true
	}
	if demo {
		c.DemoMode = true
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if logFormat != "" {
		c.LogFormat = logFormat
	}
}

// loadEnvFiles loads environment variables from .env files. The explicit
// file (from --env-file) is loaded last and overrides existing variables;
// the conventional files never do.
func loadEnvFiles(envFile string) {
	// .env.local overrides .env
	for _, f := range []string{".env", ".env.local"} {
		_ = godotenv.Load(f)
	}
	if envFile != "" {
		_ = godotenv.Overload(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvOrDefault returns the environment variable parsed as an integer,
// or the default when unset or malformed.
func getIntEnvOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getDurationEnvOrDefault returns the environment variable parsed as a
// duration. Bare integers are treated as seconds for compatibility with
// deployment configs that predate duration strings.
func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
