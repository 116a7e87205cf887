// Package app wires the dealsync CLI together: it loads and validates
// configuration, builds the logger, and owns the lazily constructed
// sync client. Commands receive an *App (through the application
// interface) instead of assembling these pieces themselves.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dealsync/dealsync"
	"github.com/dealsync/dealsync/cmd/application"
	"github.com/dealsync/dealsync/internal/notify"
	"github.com/dealsync/dealsync/internal/sheets"
	"github.com/dealsync/dealsync/internal/sources/jira"
	"github.com/dealsync/dealsync/internal/sources/salesforce"
	"github.com/dealsync/dealsync/pkg/merge"
)

// Ensure App implements the command-facing interface at compile time.
var _ application.Application = (*App)(nil)

// buildInfo carries the goreleaser-injected build identification.
type buildInfo struct {
	version string
	commit  string
	date    string
	builtBy string
}

// App holds everything a command needs at runtime. The config and
// logger are built once in New; the sync client is built on first use
// and shared from then on.
type App struct {
	build  buildInfo
	config *Config
	logger *zerolog.Logger

	mu     sync.RWMutex
	client dealsync.Client
}

// New builds the application from the environment. Configuration is
// loaded and validated immediately, so a misconfigured conflict
// strategy fails here rather than mid-run. Options run last and may
// replace anything the defaults produced.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := NewLogger(config)

	app := &App{
		build:  buildInfo{version: version, commit: commit, date: date, builtBy: builtBy},
		config: config,
		logger: &logger,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version reports the semantic version injected at build time.
func (a *App) Version() string { return a.build.version }

// Commit reports the git revision injected at build time.
func (a *App) Commit() string { return a.build.commit }

// Date reports when the binary was built.
func (a *App) Date() string { return a.build.date }

// BuiltBy reports which build system produced the binary.
func (a *App) BuiltBy() string { return a.build.builtBy }

// Config returns the loaded application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// Client returns the shared sync client, building it on first use.
// Safe for concurrent callers; every caller gets the same instance.
func (a *App) Client() (dealsync.Client, error) {
	if c := a.cachedClient(); c != nil {
		return c, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Another caller may have built it between the read and this lock.
	if a.client != nil {
		return a.client, nil
	}

	c, err := dealsync.New(a.buildClientOptions()...)
	if err != nil {
		return nil, err
	}

	a.client = c
	return c, nil
}

func (a *App) cachedClient() dealsync.Client {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.client
}

// Settings returns the resolved runtime configuration for commands.
// The Configured flags report credential presence; live adapters still
// surface their own connection errors per run.
func (a *App) Settings() application.Settings {
	// Validated at startup, so the parse cannot fail here.
	strategy, _ := merge.ParseStrategy(a.config.Strategy)

	return application.Settings{
		DemoMode:    a.config.DemoMode,
		Schedule:    a.config.Schedule,
		Strategy:    strategy,
		SheetName:   a.config.Sheets.SheetName,
		NotifyEmail: a.config.SMTP.To,
		ServerHost:  a.config.ServerHost,
		ServerPort:  a.config.ServerPort,

		CRMConfigured:     a.config.Salesforce.Configured(),
		TrackerConfigured: a.config.Jira.Configured(),
		SheetsConfigured:  a.config.Sheets.Configured(),
		SMTPConfigured:    a.config.SMTP.Configured(),
	}
}

// Notifier returns the post-run report service for the current mode.
func (a *App) Notifier() notify.Service {
	return notify.NewService(a.config.SMTP, a.config.DemoMode)
}

// Shutdown performs graceful shutdown of the application. The HTTP
// server and scheduler are owned by the serve command and shut down
// there; the client itself holds no background resources.
func (a *App) Shutdown(_ context.Context) error {
	return nil
}

// buildClientOptions translates the app configuration into client
// options. Demo mode keeps the defaults (embedded demo adapters
// everywhere). Live mode wires the vendor adapters unconditionally: a
// system without credentials fails its Connect per run and is recorded
// on the result, matching the non-fatal degradation the orchestrator
// guarantees.
func (a *App) buildClientOptions() []dealsync.Option {
	opts := []dealsync.Option{
		dealsync.WithLogger(a.logger),
		dealsync.WithTimeout(a.config.Timeout),
	}

	// Validated at startup, so the parse cannot fail here.
	if strategy, err := merge.ParseStrategy(a.config.Strategy); err == nil {
		opts = append(opts, dealsync.WithStrategy(strategy))
	}

	if a.config.DemoMode {
		return opts
	}

	return append(opts,
		dealsync.WithOpportunitySource(salesforce.New(a.config.Salesforce)),
		dealsync.WithIssueSource(jira.New(a.config.Jira)),
		dealsync.WithSheetWriter(sheets.New(a.config.Sheets)),
	)
}

// Option customizes an App during New.
type Option func(*App) error

// WithConfig replaces the environment-loaded configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger replaces the configured logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient injects a pre-built sync client, bypassing lazy
// construction. Primarily for tests.
func WithClient(ds dealsync.Client) Option {
	return func(a *App) error {
		a.client = ds
		return nil
	}
}
