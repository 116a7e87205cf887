package dealsync

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromOutcome(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   Status
	}{
		{"no errors", Result{RowsWritten: 7}, StatusSuccess},
		{"no errors, nothing written", Result{}, StatusSuccess},
		{"errors and no rows", Result{Errors: []string{"boom"}}, StatusFailed},
		{"errors but rows written", Result{Errors: []string{"boom"}, RowsWritten: 3}, StatusPartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.statusFromOutcome())
		})
	}
}

func TestResultCloneIsDeep(t *testing.T) {
	completed := utc.Now()
	original := &Result{
		Status:      StatusPartial,
		StartedAt:   utc.Now(),
		CompletedAt: &completed,
		Errors:      []string{"first"},
	}

	copied := original.clone()
	copied.Errors[0] = "mutated"
	*copied.CompletedAt = utc.Time{}

	assert.Equal(t, "first", original.Errors[0])
	assert.False(t, original.CompletedAt.IsZero())

	var nilResult *Result
	assert.Nil(t, nilResult.clone())
}

func TestResultJSONKeys(t *testing.T) {
	raw, err := json.Marshal(&Result{Status: StatusRunning, StartedAt: utc.Now(), Errors: []string{}})
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))

	for _, key := range []string{
		"status", "started_at", "completed_at", "crm_records",
		"tracker_issues", "rows_written", "conflicts_resolved",
		"errors", "duration_seconds",
	} {
		assert.Contains(t, payload, key)
	}
	assert.Nil(t, payload["completed_at"], "in-flight runs have no completion timestamp")
	assert.Equal(t, []any{}, payload["errors"], "errors marshal as an empty list, not null")
}

func TestResultSummary(t *testing.T) {
	completed := utc.Now()
	r := &Result{
		Status:            StatusPartial,
		CRMRecords:        5,
		TrackerIssues:     5,
		RowsWritten:       7,
		ConflictsResolved: 1,
		CompletedAt:       &completed,
		DurationSeconds:   0.42,
		Errors:            []string{"jira: fetch failed: 401"},
	}

	summary := r.Summary()
	assert.Contains(t, summary, "Sync partial")
	assert.Contains(t, summary, "5 CRM records")
	assert.Contains(t, summary, "7 rows written")
	assert.Contains(t, summary, "in 0.42s")
	assert.Contains(t, summary, "jira: fetch failed: 401")
}

func TestHistoryBounded(t *testing.T) {
	h := newHistory(3)
	for i := 0; i < 5; i++ {
		h.add(&Result{RowsWritten: i})
	}

	list := h.list()
	require.Len(t, list, 3)
	assert.Equal(t, 2, list[0].RowsWritten)
	assert.Equal(t, 4, list[2].RowsWritten)

	// The backing array never regrows past the cap.
	assert.Equal(t, 3, cap(h.entries))
}

func TestHistoryListCopies(t *testing.T) {
	h := newHistory(2)
	h.add(&Result{Errors: []string{"original"}})

	list := h.list()
	list[0].Errors[0] = "mutated"

	assert.Equal(t, "original", h.entries[0].Errors[0])
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "success", fmt.Sprintf("%s", StatusSuccess))
	assert.Equal(t, "failed", StatusFailed.String())
}
