// Package application defines the contract between the app layer and
// the command implementations. Commands accept the Application
// interface instead of the concrete *app.App, which keeps them testable
// with the Mock below and free of wiring concerns.
//
// A command typically looks like:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            ds, err := app.Client()
//	            if err != nil {
//	                return err
//	            }
//	            result, err := ds.Sync(cmd.Context())
//	            // ... render result
//	            return err
//	        },
//	    }
//	}
//
// and its test swaps in a Mock:
//
//	mock := &application.Mock{
//	    ClientFunc: func() (dealsync.Client, error) { return testClient, nil },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/dealsync/dealsync"
	"github.com/dealsync/dealsync/internal/notify"
	"github.com/dealsync/dealsync/pkg/merge"
)

// Settings is the resolved runtime configuration that commands need to
// wire the server and scheduler. The Configured flags report credential
// presence for the config endpoint; they say nothing about whether the
// credentials actually work.
type Settings struct {
	DemoMode    bool
	Schedule    string
	Strategy    merge.Strategy
	SheetName   string
	NotifyEmail string
	ServerHost  string
	ServerPort  int

	CRMConfigured     bool
	TrackerConfigured bool
	SheetsConfigured  bool
	SMTPConfigured    bool
}

// Application is what a command gets to work with. *app.App implements
// it; tests use Mock. Implementations must be safe for concurrent use,
// since the serve command shares one instance between the scheduler and
// the HTTP handlers.
type Application interface {
	// Client returns the sync client, built lazily on first use. The
	// instance is shared; repeated calls return the same client.
	Client() (dealsync.Client, error)

	// Settings returns the resolved runtime configuration.
	Settings() Settings

	// Notifier returns the post-run report service. Demo mode and
	// missing SMTP configuration both yield a log-only implementation.
	Notifier() notify.Service

	// Logger returns the configured logger.
	Logger() *zerolog.Logger

	// Version reports the application version string.
	Version() string

	// Commit reports the git commit hash.
	Commit() string

	// Date reports the build date.
	Date() string

	// BuiltBy reports the build system identifier.
	BuiltBy() string
}

// Compile-time check that Mock implements Application.
var _ Application = (*Mock)(nil)

// Mock implements Application for command tests. Set a *Func field to
// control a method; leave it nil to get a harmless default (no-op
// logger, log-only notifier, zero settings, "dev"/"unknown" build
// info).
type Mock struct {
	ClientFunc   func() (dealsync.Client, error)
	SettingsFunc func() Settings
	NotifierFunc func() notify.Service
	LoggerFunc   func() *zerolog.Logger
	VersionFunc  func() string
	CommitFunc   func() string
	DateFunc     func() string
	BuiltByFunc  func() string
}

// Client calls ClientFunc, or returns nil, nil.
func (m *Mock) Client() (dealsync.Client, error) {
	if m.ClientFunc == nil {
		return nil, nil
	}
	return m.ClientFunc()
}

// Settings calls SettingsFunc, or returns the zero Settings.
func (m *Mock) Settings() Settings {
	if m.SettingsFunc == nil {
		return Settings{}
	}
	return m.SettingsFunc()
}

// Notifier calls NotifierFunc, or returns a log-only service.
func (m *Mock) Notifier() notify.Service {
	if m.NotifierFunc == nil {
		return notify.NewService(notify.Config{}, true)
	}
	return m.NotifierFunc()
}

// Logger calls LoggerFunc, or returns a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc == nil {
		logger := zerolog.Nop()
		return &logger
	}
	return m.LoggerFunc()
}

// Version calls VersionFunc, or returns "dev".
func (m *Mock) Version() string {
	if m.VersionFunc == nil {
		return "dev"
	}
	return m.VersionFunc()
}

// Commit calls CommitFunc, or returns "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc == nil {
		return "unknown"
	}
	return m.CommitFunc()
}

// Date calls DateFunc, or returns "unknown".
func (m *Mock) Date() string {
	if m.DateFunc == nil {
		return "unknown"
	}
	return m.DateFunc()
}

// BuiltBy calls BuiltByFunc, or returns "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc == nil {
		return "unknown"
	}
	return m.BuiltByFunc()
}
