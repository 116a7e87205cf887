// Package sources defines the contracts for the two external record systems
// a sync run pulls from. Implementations come in pairs: a live client backed
// by the vendor API and a demo client backed by embedded fixtures, selected
// once at startup.
//
// Connect failures are non-fatal to a run: the orchestrator records the
// error and continues with whatever the other systems deliver. Fetch
// failures propagate so the orchestrator can log them per source and
// substitute an empty dataset.
package sources

import (
	"context"

	"github.com/agentstation/utc"

	"github.com/dealsync/dealsync/pkg/records"
)

// OpportunitySource delivers CRM opportunity snapshots.
type OpportunitySource interface {
	// Name identifies the source in logs and error strings.
	Name() string

	// Connect establishes a session. In live mode Fetch requires a prior
	// successful Connect.
	Connect(ctx context.Context) error

	// Fetch returns all opportunities matching the configured query.
	Fetch(ctx context.Context) ([]records.Opportunity, error)

	// LastModified returns the record's last modification time.
	LastModified(ctx context.Context, id string) (utc.Time, error)
}

// IssueSource delivers tracker issue snapshots.
type IssueSource interface {
	// Name identifies the source in logs and error strings.
	Name() string

	// Connect establishes a session. In live mode Fetch requires a prior
	// successful Connect.
	Connect(ctx context.Context) error

	// Fetch returns all issues matching the configured query.
	Fetch(ctx context.Context) ([]records.Issue, error)

	// LastModified returns the issue's last update time.
	LastModified(ctx context.Context, key string) (utc.Time, error)
}
