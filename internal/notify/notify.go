// Package notify delivers post-run reports. The email implementation sends
// a multipart plain-text/HTML summary over SMTP; the noop implementation
// logs that delivery was skipped. Selection happens once at startup, so
// demo mode and missing configuration both degrade to noop without
// conditionals at the call sites.
package notify

import (
	"context"

	"github.com/dealsync/dealsync"
)

// Service delivers the report for a completed sync run.
type Service interface {
	// Notify sends the run report. Implementations must be safe to call
	// from the scheduler goroutine.
	Notify(ctx context.Context, result *dealsync.Result) error
}

// Config holds the SMTP settings and destination address.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	To       string // destination address; empty disables email
}

// Configured reports whether enough settings are present to send mail.
func (c Config) Configured() bool {
	return c.To != "" && c.Username != ""
}

// NewService builds the notifier for the given configuration. Demo mode and
// incomplete configuration both select the noop implementation.
func NewService(cfg Config, demo bool) Service {
	if demo {
		return noopService{reason: "demo mode"}
	}
	if cfg.To == "" {
		return noopService{reason: "no notification address configured"}
	}
	if cfg.Username == "" {
		return noopService{reason: "SMTP not configured"}
	}
	return newEmailService(cfg)
}
