package dealsync

import (
	"fmt"
	"strings"

	"github.com/agentstation/utc"
)

// Status is the lifecycle state of a sync run.
type Status string

// Run states. A run is created PENDING, immediately moves to RUNNING, and
// ends in exactly one of the three terminal states.
const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusPartial Status = "partial"
)

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// Result records a single sync run: what was fetched, what was written, and
// everything that went wrong along the way. Errors are ordered
// human-readable strings; typed causes are logged, not stored.
type Result struct {
	Status            Status    `json:"status"`
	StartedAt         utc.Time  `json:"started_at"`
	CompletedAt       *utc.Time `json:"completed_at"` // nil while the run is in flight
	CRMRecords        int       `json:"crm_records"`
	TrackerIssues     int       `json:"tracker_issues"`
	RowsWritten       int       `json:"rows_written"`
	ConflictsResolved int       `json:"conflicts_resolved"`
	Errors            []string  `json:"errors"`
	DurationSeconds   float64   `json:"duration_seconds"`
}

// addErrorf appends a formatted error string, preserving append order.
func (r *Result) addErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// statusFromOutcome classifies a finished run: FAILED when errors occurred
// and nothing reached the sheet, PARTIAL when errors occurred but some rows
// made it through, SUCCESS otherwise.
func (r *Result) statusFromOutcome() Status {
	if len(r.Errors) == 0 {
		return StatusSuccess
	}
	if r.RowsWritten == 0 {
		return StatusFailed
	}
	return StatusPartial
}

// clone returns a deep copy so callers can hold a Result without racing the
// orchestrator.
func (r *Result) clone() *Result {
	if r == nil {
		return nil
	}
	out := *r
	if r.CompletedAt != nil {
		completed := *r.CompletedAt
		out.CompletedAt = &completed
	}
	out.Errors = make([]string, len(r.Errors))
	copy(out.Errors, r.Errors)
	return &out
}

// Summary renders a short human-readable report for CLI output.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sync %s: %d CRM records, %d tracker issues, %d rows written, %d conflicts resolved",
		r.Status, r.CRMRecords, r.TrackerIssues, r.RowsWritten, r.ConflictsResolved)
	if r.CompletedAt != nil {
		fmt.Fprintf(&b, " in %.2fs", r.DurationSeconds)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors (%d):", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "\n  - %s", e)
		}
	}
	return b.String()
}

// history is a bounded FIFO of completed runs. The backing array is
// allocated once at the cap, so a long-lived service never grows it.
type history struct {
	limit   int
	entries []*Result
}

func newHistory(limit int) *history {
	return &history{
		limit:   limit,
		entries: make([]*Result, 0, limit),
	}
}

// add appends a completed run, evicting the oldest entry once the cap is
// reached.
func (h *history) add(r *Result) {
	if h.limit <= 0 {
		return
	}
	if len(h.entries) == h.limit {
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = r
		return
	}
	h.entries = append(h.entries, r)
}

// list returns deep copies of the retained runs, oldest first.
func (h *history) list() []*Result {
	out := make([]*Result, len(h.entries))
	for i, r := range h.entries {
		out[i] = r.clone()
	}
	return out
}
