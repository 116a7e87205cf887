// Package merge joins CRM opportunities and tracker issues into the row list
// written to the spreadsheet. Matching is a name-containment heuristic: the
// opportunity name up to " - ", case-folded, matched as a substring of the
// issue summary. First opportunity in source order wins per issue; a later
// issue matching the same opportunity replaces the earlier one. The heuristic
// is a known accuracy limitation, not a stable join key, and is kept
// compatible with the behavior described above.
package merge

import (
	"strings"

	"github.com/agentstation/utc"
	"golang.org/x/text/cases"

	"github.com/dealsync/dealsync/pkg/records"
)

// Labels that define a conflict: a deal the CRM considers closed-won whose
// tracker work item is not done.
const (
	stageClosedWon = "Closed Won"
	statusDone     = "Done"
)

// Result carries the merged rows and the number of conflicts detected.
type Result struct {
	Rows      []records.MergedRow
	Conflicts int
}

// Merge joins the two record lists under the given conflict strategy.
// Every opportunity yields exactly one combined row; every unmatched issue
// yields one tracker-only row after the combined rows. Empty inputs yield
// empty output with zero conflicts. An unimplemented or unknown strategy
// fails before any work is done.
func Merge(opportunities []records.Opportunity, issues []records.Issue, strategy Strategy) (*Result, error) {
	if err := strategy.Validate(); err != nil {
		return nil, err
	}

	// Casers are stateful, so build one per call rather than sharing.
	fold := cases.Fold()

	// Scan issues against opportunities in source order. The mapping is
	// keyed by opportunity id, so a later issue matching the same
	// opportunity overwrites the earlier one.
	matched := make(map[string]records.Issue, len(opportunities))
	for _, issue := range issues {
		summary := fold.String(issue.Summary)
		for _, opp := range opportunities {
			if strings.Contains(summary, matchKey(fold, opp.Name)) {
				matched[opp.ID] = issue
				break
			}
		}
	}

	// Only issues that survived the mapping count as matched; an issue
	// displaced by a later one becomes a tracker-only row again.
	matchedKeys := make(map[string]bool, len(matched))
	for _, issue := range matched {
		matchedKeys[issue.Key] = true
	}

	now := utc.Now()
	rows := make([]records.MergedRow, 0, len(opportunities)+len(issues))
	conflicts := 0

	for _, opp := range opportunities {
		amount := opp.Amount
		row := records.MergedRow{
			Source:      records.SourceCombined,
			CRMID:       opp.ID,
			Name:        opp.Name,
			Amount:      &amount,
			Stage:       opp.Stage,
			CloseDate:   opp.CloseDate,
			LastUpdated: now,
		}

		if issue, ok := matched[opp.ID]; ok {
			row.TrackerKey = issue.Key
			row.TrackerStatus = issue.Status
			row.Assignee = issue.Assignee

			if opp.Stage == stageClosedWon && issue.Status != statusDone {
				conflicts++
				row.Stage = strategy.resolveStage(opp.Stage, issue.Status)
			}
		}

		rows = append(rows, row)
	}

	for _, issue := range issues {
		if matchedKeys[issue.Key] {
			continue
		}
		rows = append(rows, records.MergedRow{
			Source:        records.SourceTrackerOnly,
			Name:          issue.Summary,
			TrackerKey:    issue.Key,
			TrackerStatus: issue.Status,
			Assignee:      issue.Assignee,
			LastUpdated:   now,
		})
	}

	return &Result{Rows: rows, Conflicts: conflicts}, nil
}

// matchKey derives the match key from an opportunity name: the segment
// before " - ", case-folded. Names without the separator use the whole name.
func matchKey(fold cases.Caser, name string) string {
	return fold.String(strings.SplitN(name, " - ", 2)[0])
}
