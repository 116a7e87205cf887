// Package records defines the record types that flow through a sync run:
// CRM opportunities, tracker issues, and the merged rows written to the
// spreadsheet. Records are immutable snapshots taken at fetch time; nothing
// here is persisted between runs.
package records

import (
	"github.com/agentstation/utc"
	"github.com/shopspring/decimal"
)

// Opportunity is a sales deal snapshot from the CRM.
type Opportunity struct {
	ID        string          `json:"id" yaml:"id"`                 // CRM record identifier
	Name      string          `json:"name" yaml:"name"`             // Deal name, e.g. "Acme Corp - Enterprise License"
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`         // Deal value
	Stage     string          `json:"stage" yaml:"stage"`           // Pipeline stage label (open string set)
	CloseDate string          `json:"close_date" yaml:"close_date"` // Expected close date (YYYY-MM-DD)
}

// Issue is a work item snapshot from the issue tracker.
type Issue struct {
	Key      string   `json:"key" yaml:"key"`           // Tracker issue key, e.g. "SALES-101"
	Summary  string   `json:"summary" yaml:"summary"`   // One-line description
	Status   string   `json:"status" yaml:"status"`     // Workflow status label
	Assignee string   `json:"assignee" yaml:"assignee"` // Display name of the assignee
	Priority string   `json:"priority" yaml:"priority"` // Priority label
	Created  utc.Time `json:"created" yaml:"created"`   // Creation timestamp
	Updated  utc.Time `json:"updated" yaml:"updated"`   // Last update timestamp
}
