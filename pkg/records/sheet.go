package records

import (
	"github.com/agentstation/utc"
	"github.com/shopspring/decimal"

	"github.com/dealsync/dealsync/pkg/constants"
)

// Source tags carried in the first spreadsheet column.
const (
	// SourceCombined marks a row built from a CRM opportunity,
	// with tracker fields filled in when a match was found.
	SourceCombined = "Combined"

	// SourceTrackerOnly marks a row built from an issue that
	// matched no opportunity.
	SourceTrackerOnly = "Tracker Only"
)

// sheetHeader is the fixed header row of the merged-data sheet.
var sheetHeader = []string{
	"Source",
	"CRM Id",
	"Name",
	"Amount",
	"Stage",
	"Close Date",
	"Tracker Key",
	"Tracker Status",
	"Assignee",
	"Last Synced",
}

// SheetHeader returns a copy of the fixed 10-column header row.
func SheetHeader() []string {
	header := make([]string, len(sheetHeader))
	copy(header, sheetHeader)
	return header
}

// MergedRow is one output record combining a CRM opportunity and/or a
// tracker issue. Rows are produced fresh each run and never persisted.
type MergedRow struct {
	Source        string           `json:"source" yaml:"source"`
	CRMID         string           `json:"crm_id,omitempty" yaml:"crm_id,omitempty"`
	Name          string           `json:"name" yaml:"name"`
	Amount        *decimal.Decimal `json:"amount,omitempty" yaml:"amount,omitempty"` // nil for tracker-only rows
	Stage         string           `json:"stage,omitempty" yaml:"stage,omitempty"`
	CloseDate     string           `json:"close_date,omitempty" yaml:"close_date,omitempty"`
	TrackerKey    string           `json:"tracker_key,omitempty" yaml:"tracker_key,omitempty"`
	TrackerStatus string           `json:"tracker_status,omitempty" yaml:"tracker_status,omitempty"`
	Assignee      string           `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	LastUpdated   utc.Time         `json:"last_updated" yaml:"last_updated"`
}

// SheetRow renders the row as one spreadsheet line in header order.
func (r MergedRow) SheetRow() []any {
	amount := ""
	if r.Amount != nil {
		amount = r.Amount.String()
	}
	return []any{
		r.Source,
		r.CRMID,
		r.Name,
		amount,
		r.Stage,
		r.CloseDate,
		r.TrackerKey,
		r.TrackerStatus,
		r.Assignee,
		r.LastUpdated.Format(constants.TimeFormatSheet),
	}
}

// SheetValues formats merged rows as a header row plus one line per record.
// An empty row list yields an empty payload, not a lone header.
func SheetValues(rows []MergedRow) [][]any {
	if len(rows) == 0 {
		return [][]any{}
	}

	values := make([][]any, 0, len(rows)+1)
	header := make([]any, len(sheetHeader))
	for i, h := range sheetHeader {
		header[i] = h
	}
	values = append(values, header)

	for _, row := range rows {
		values = append(values, row.SheetRow())
	}
	return values
}
