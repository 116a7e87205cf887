package dealsync

import (
	"context"

	"github.com/agentstation/utc"

	"github.com/dealsync/dealsync/pkg/constants"
	"github.com/dealsync/dealsync/pkg/errors"
	"github.com/dealsync/dealsync/pkg/logging"
	"github.com/dealsync/dealsync/pkg/merge"
	"github.com/dealsync/dealsync/pkg/records"
)

// Sync executes one synchronization run: connect to the externals, fetch
// both datasets, merge, and write the rows to the sheet. Failures along the
// way are recorded on the result and never abort the run; the only error
// this returns is ErrSyncRunning when another run holds the slot.
func (c *client) Sync(ctx context.Context) (result *Result, err error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Claim the run slot. Exactly one run may be in flight; losers
	// of the race fail fast instead of queueing.
	result, run, err := c.begin()
	if err != nil {
		return nil, err
	}

	// Step 2: Setup the per-run timeout and logger context.
	var cancel context.CancelFunc
	if c.options.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.options.timeout)
	} else {
		cancel = func() {} // No-op cancel if no timeout
	}
	defer cancel()

	ctx = logging.WithLogger(ctx, c.options.logger)
	ctx = logging.WithRun(ctx, run)
	log := logging.Ctx(ctx)
	log.Info().Msg("Sync run started")

	// Completion runs on every exit path. A panic anywhere in the run is
	// recovered here and forces FAILED.
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Sync run panicked")
			result.addErrorf("panic: %v", r)
			result.Status = StatusFailed
			err = nil
		} else {
			result.Status = result.statusFromOutcome()
		}
		c.finish(ctx, result)
	}()

	crm := c.options.opportunities
	tracker := c.options.issues
	sheet := c.options.sheet

	// Step 3: Connect each external system independently. A failed connect
	// is recorded and that system contributes nothing to the run.
	crmConnected := true
	if err := connect(ctx, crm.Connect); err != nil {
		crmConnected = false
		result.addErrorf("%s: connect failed: %v", crm.Name(), err)
		log.Warn().Err(err).Str("system", crm.Name()).Msg("CRM connection failed")
	}

	trackerConnected := true
	if err := connect(ctx, tracker.Connect); err != nil {
		trackerConnected = false
		result.addErrorf("%s: connect failed: %v", tracker.Name(), err)
		log.Warn().Err(err).Str("system", tracker.Name()).Msg("Tracker connection failed")
	}

	sheetConnected := true
	if err := connect(ctx, sheet.Connect); err != nil {
		sheetConnected = false
		result.addErrorf("sheets: connect failed: %v", err)
		log.Warn().Err(err).Str("system", "sheets").Msg("Sheet connection failed")
	}

	// Step 4: Fetch sequentially and independently; a failed fetch leaves
	// that dataset empty and the run proceeds with partial data.
	var opportunities []records.Opportunity
	if crmConnected {
		opportunities, err = crm.Fetch(ctx)
		if err != nil {
			result.addErrorf("%s: fetch failed: %v", crm.Name(), err)
			log.Warn().Err(err).Str("system", crm.Name()).Msg("CRM fetch failed")
			opportunities = nil
		}
		result.CRMRecords = len(opportunities)
	}

	var issues []records.Issue
	if trackerConnected {
		issues, err = tracker.Fetch(ctx)
		if err != nil {
			result.addErrorf("%s: fetch failed: %v", tracker.Name(), err)
			log.Warn().Err(err).Str("system", tracker.Name()).Msg("Tracker fetch failed")
			issues = nil
		}
		result.TrackerIssues = len(issues)
	}

	// Step 5: Merge unconditionally, even over empty datasets. A strategy
	// validation error is recorded like any other failure.
	merged, err := merge.Merge(opportunities, issues, c.options.strategy)
	if err != nil {
		result.addErrorf("merge failed: %v", err)
		log.Warn().Err(err).Msg("Merge failed")
		merged = &merge.Result{}
	}
	result.ConflictsResolved = merged.Conflicts

	// Step 6: Format and write the merged table.
	if sheetConnected {
		values := records.SheetValues(merged.Rows)
		written, err := sheet.Write(ctx, values)
		if err != nil {
			result.addErrorf("sheets: write failed: %v", err)
			log.Warn().Err(err).Str("system", "sheets").Msg("Sheet write failed")
		} else {
			result.RowsWritten = written
		}
	}

	return result, nil
}

// connect calls one system's Connect under its own handshake budget.
// The run context still applies; this only keeps a hung handshake from
// consuming time the fetch phase needs.
func connect(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, constants.ConnectTimeout)
	defer cancel()
	return fn(ctx)
}

// begin performs the compare-and-swap from idle to running. It returns the
// mutable result owned by the run goroutine and publishes a frozen snapshot
// for Status readers.
func (c *client) begin() (*Result, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil, 0, errors.ErrSyncRunning
	}

	c.running = true
	c.runSeq++

	result := &Result{
		Status:    StatusRunning,
		StartedAt: utc.Now(),
		Errors:    []string{},
	}
	c.current = result.clone()
	return result, c.runSeq, nil
}

// finish stamps completion, releases the run slot, records the result, and
// fires completion hooks. The result's terminal status is already set.
func (c *client) finish(ctx context.Context, result *Result) {
	completed := utc.Now()
	result.CompletedAt = &completed
	result.DurationSeconds = completed.Sub(result.StartedAt).Seconds()

	c.mu.Lock()
	c.running = false
	c.current = nil
	c.last = result
	c.history.add(result)
	c.mu.Unlock()

	event := logging.Ctx(ctx).Info()
	if result.Status == StatusFailed {
		event = logging.Ctx(ctx).Error()
	}
	event.
		Str("status", result.Status.String()).
		Int("crm_records", result.CRMRecords).
		Int("tracker_issues", result.TrackerIssues).
		Int("rows_written", result.RowsWritten).
		Int("conflicts_resolved", result.ConflictsResolved).
		Int("errors", len(result.Errors)).
		Float64("duration_seconds", result.DurationSeconds).
		Msg("Sync run completed")

	c.hooks.fireSyncComplete(ctx, *result.clone())
}
