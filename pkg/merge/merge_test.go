package merge_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealsync/dealsync/pkg/merge"
	"github.com/dealsync/dealsync/pkg/records"
)

func opportunity(id, name, stage string) records.Opportunity {
	return records.Opportunity{
		ID:        id,
		Name:      name,
		Amount:    decimal.NewFromInt(1000),
		Stage:     stage,
		CloseDate: "2024-06-30",
	}
}

func issue(key, summary, status string) records.Issue {
	return records.Issue{
		Key:      key,
		Summary:  summary,
		Status:   status,
		Assignee: "John Smith",
		Priority: "High",
	}
}

func TestMergeEmptyInputs(t *testing.T) {
	result, err := merge.Merge(nil, nil, merge.StrategyCRMWins)
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.Zero(t, result.Conflicts)
}

func TestMergeMatchesByNameContainment(t *testing.T) {
	opps := []records.Opportunity{
		opportunity("0061234567890ABCD1", "Acme Corp - Enterprise License", "Negotiation"),
	}
	issues := []records.Issue{
		issue("SALES-101", "Follow up with Acme Corp on enterprise pricing", "In Progress"),
	}

	result, err := merge.Merge(opps, issues, merge.StrategyCRMWins)
	require.NoError(t, err)

	require.Len(t, result.Rows, 1, "matched pair should collapse to a single combined row")
	row := result.Rows[0]
	assert.Equal(t, records.SourceCombined, row.Source)
	assert.Equal(t, "0061234567890ABCD1", row.CRMID)
	assert.Equal(t, "SALES-101", row.TrackerKey)
	assert.Equal(t, "In Progress", row.TrackerStatus)
	assert.Equal(t, "John Smith", row.Assignee)
}

func TestMergeMatchingIsCaseInsensitive(t *testing.T) {
	opps := []records.Opportunity{
		opportunity("006A", "ACME CORP - Enterprise License", "Negotiation"),
	}
	issues := []records.Issue{
		issue("SALES-1", "follow up with acme corp on pricing", "To Do"),
	}

	result, err := merge.Merge(opps, issues, merge.StrategyCRMWins)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "SALES-1", result.Rows[0].TrackerKey)
}

func TestMergeConflictResolution(t *testing.T) {
	opps := []records.Opportunity{
		opportunity("006A", "Acme Corp - Enterprise License", "Closed Won"),
	}
	issues := []records.Issue{
		issue("SALES-1", "Follow up with Acme Corp", "In Progress"),
	}

	t.Run("crm-wins keeps the stage", func(t *testing.T) {
		result, err := merge.Merge(opps, issues, merge.StrategyCRMWins)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Conflicts)
		assert.Equal(t, "Closed Won", result.Rows[0].Stage)
	})

	t.Run("tracker-wins overwrites the stage", func(t *testing.T) {
		result, err := merge.Merge(opps, issues, merge.StrategyTrackerWins)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Conflicts)
		assert.Equal(t, "In Progress", result.Rows[0].Stage)
	})

	t.Run("done status is not a conflict", func(t *testing.T) {
		done := []records.Issue{issue("SALES-1", "Follow up with Acme Corp", "Done")}
		result, err := merge.Merge(opps, done, merge.StrategyCRMWins)
		require.NoError(t, err)
		assert.Zero(t, result.Conflicts)
	})

	t.Run("open stage is not a conflict", func(t *testing.T) {
		open := []records.Opportunity{opportunity("006A", "Acme Corp - Enterprise License", "Negotiation")}
		result, err := merge.Merge(open, issues, merge.StrategyCRMWins)
		require.NoError(t, err)
		assert.Zero(t, result.Conflicts)
	})
}

func TestMergeUnmatchedIssueBecomesTrackerOnlyRow(t *testing.T) {
	opps := []records.Opportunity{
		opportunity("006A", "Acme Corp - Enterprise License", "Negotiation"),
	}
	issues := []records.Issue{
		issue("SALES-2", "Prepare demo environment for TechStart", "To Do"),
	}

	result, err := merge.Merge(opps, issues, merge.StrategyCRMWins)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	trackerOnly := result.Rows[1]
	assert.Equal(t, records.SourceTrackerOnly, trackerOnly.Source)
	assert.Equal(t, "SALES-2", trackerOnly.TrackerKey)
	assert.Equal(t, "Prepare demo environment for TechStart", trackerOnly.Name)
	assert.Empty(t, trackerOnly.CRMID, "tracker-only rows carry no CRM id")
	assert.Nil(t, trackerOnly.Amount, "tracker-only rows carry no amount")
	assert.Empty(t, trackerOnly.Stage)
	assert.Empty(t, trackerOnly.CloseDate)
}

func TestMergeFirstOpportunityWins(t *testing.T) {
	// Both opportunities share the "Acme" key prefix; the issue must map to
	// the first one in source order even though the second also matches.
	opps := []records.Opportunity{
		opportunity("006A", "Acme - West Region", "Negotiation"),
		opportunity("006B", "Acme - East Region", "Discovery"),
	}
	issues := []records.Issue{
		issue("SALES-1", "Review Acme contract terms", "To Do"),
	}

	result, err := merge.Merge(opps, issues, merge.StrategyCRMWins)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	assert.Equal(t, "SALES-1", result.Rows[0].TrackerKey, "first opportunity takes the match")
	assert.Empty(t, result.Rows[1].TrackerKey, "second opportunity stays unmatched")
}

func TestMergeLaterIssueDisplacesEarlierMapping(t *testing.T) {
	// Two issues match the same opportunity. The later one takes the
	// mapping; the displaced one surfaces as a tracker-only row.
	opps := []records.Opportunity{
		opportunity("006A", "Acme Corp - Enterprise License", "Negotiation"),
	}
	issues := []records.Issue{
		issue("SALES-1", "Follow up with Acme Corp on pricing", "In Progress"),
		issue("SALES-2", "Schedule Acme Corp renewal call", "To Do"),
	}

	result, err := merge.Merge(opps, issues, merge.StrategyCRMWins)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	assert.Equal(t, "SALES-2", result.Rows[0].TrackerKey, "later issue owns the mapping")
	assert.Equal(t, records.SourceTrackerOnly, result.Rows[1].Source)
	assert.Equal(t, "SALES-1", result.Rows[1].TrackerKey, "displaced issue becomes tracker-only")
}

func TestMergeNameWithoutSeparatorUsesWholeName(t *testing.T) {
	opps := []records.Opportunity{
		opportunity("006A", "MegaCorp", "Qualification"),
	}
	issues := []records.Issue{
		issue("SALES-5", "Legal review for MegaCorp contract", "Blocked"),
	}

	result, err := merge.Merge(opps, issues, merge.StrategyCRMWins)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "SALES-5", result.Rows[0].TrackerKey)
}

func TestMergeRejectsUnimplementedStrategies(t *testing.T) {
	opps := []records.Opportunity{
		opportunity("006A", "Acme Corp - Enterprise License", "Closed Won"),
	}

	for _, strategy := range []merge.Strategy{merge.StrategyMostRecent, merge.StrategyManual} {
		t.Run(string(strategy), func(t *testing.T) {
			result, err := merge.Merge(opps, nil, strategy)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Contains(t, err.Error(), "not implemented")
		})
	}
}

func TestMergeRowOrdering(t *testing.T) {
	opps := []records.Opportunity{
		opportunity("006A", "Acme Corp - Enterprise License", "Negotiation"),
		opportunity("006B", "TechStart Inc - Annual Contract", "Proposal"),
	}
	issues := []records.Issue{
		issue("SALES-9", "Totally unrelated work item", "To Do"),
		issue("SALES-1", "Follow up with Acme Corp", "In Progress"),
	}

	result, err := merge.Merge(opps, issues, merge.StrategyCRMWins)
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)

	// Opportunity rows first in source order, then unmatched issues in
	// their own source order.
	assert.Equal(t, "006A", result.Rows[0].CRMID)
	assert.Equal(t, "006B", result.Rows[1].CRMID)
	assert.Equal(t, "SALES-9", result.Rows[2].TrackerKey)
}
