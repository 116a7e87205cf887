package dealsync

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/dealsync/dealsync/internal/sheets"
	"github.com/dealsync/dealsync/internal/sources"
	"github.com/dealsync/dealsync/internal/sources/demo"
	"github.com/dealsync/dealsync/pkg/constants"
	"github.com/dealsync/dealsync/pkg/errors"
	"github.com/dealsync/dealsync/pkg/logging"
	"github.com/dealsync/dealsync/pkg/merge"
)

// Option is a function that configures a Client instance.
type Option func(*options) error

// options holds the resolved configuration for a client.
type options struct {
	opportunities sources.OpportunitySource
	issues        sources.IssueSource
	sheet         sheets.Writer
	strategy      merge.Strategy
	timeout       time.Duration
	historyLimit  int
	logger        *zerolog.Logger
}

// defaults returns the configuration used when no options are given: demo
// adapters everywhere, crm-wins conflict policy, and the package logger.
func defaults() *options {
	return &options{
		opportunities: demo.NewOpportunities(),
		issues:        demo.NewIssues(),
		sheet:         sheets.NewDemo(),
		strategy:      merge.StrategyCRMWins,
		timeout:       constants.SyncTimeout,
		historyLimit:  constants.HistoryLimit,
		logger:        logging.Default(),
	}
}

// apply runs each option in order, failing on the first error.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithOpportunitySource configures the CRM adapter.
func WithOpportunitySource(src sources.OpportunitySource) Option {
	return func(o *options) error {
		if src == nil {
			return errors.NewValidationError("opportunity source", nil, "must not be nil")
		}
		o.opportunities = src
		return nil
	}
}

// WithIssueSource configures the issue-tracker adapter.
func WithIssueSource(src sources.IssueSource) Option {
	return func(o *options) error {
		if src == nil {
			return errors.NewValidationError("issue source", nil, "must not be nil")
		}
		o.issues = src
		return nil
	}
}

// WithSheetWriter configures the spreadsheet destination.
func WithSheetWriter(w sheets.Writer) Option {
	return func(o *options) error {
		if w == nil {
			return errors.NewValidationError("sheet writer", nil, "must not be nil")
		}
		o.sheet = w
		return nil
	}
}

// WithStrategy configures the conflict resolution policy. Unknown and
// unimplemented strategies are rejected here so they surface at startup
// rather than mid-run.
func WithStrategy(strategy merge.Strategy) Option {
	return func(o *options) error {
		if err := strategy.Validate(); err != nil {
			return err
		}
		o.strategy = strategy
		return nil
	}
}

// WithTimeout configures the per-run timeout applied to every external call.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) error {
		if timeout <= 0 {
			return errors.NewValidationError("timeout", timeout, "must be positive")
		}
		o.timeout = timeout
		return nil
	}
}

// WithHistoryLimit configures how many completed runs are retained.
func WithHistoryLimit(limit int) Option {
	return func(o *options) error {
		if limit <= 0 {
			return errors.NewValidationError("history limit", limit, "must be positive")
		}
		o.historyLimit = limit
		return nil
	}
}

// WithLogger configures the logger used by the orchestrator and passed down
// to the adapters via context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "must not be nil")
		}
		o.logger = logger
		return nil
	}
}
