// Package dealsync synchronizes sales records between a CRM, an issue
// tracker, and a spreadsheet. Each run pulls opportunities and tracker
// issues, merges them by a name-matching heuristic with a configurable
// conflict policy, and writes the merged table to the sheet.
//
// The orchestrator runs at most one sync at a time; concurrent triggers
// fail fast with ErrSyncRunning. Every external failure is recorded on the
// run's Result and never aborts the run, so a partially degraded
// environment still produces whatever rows it can.
//
// Example usage:
//
//	// Demo adapters are the default; no credentials required.
//	ds, err := dealsync.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ds.OnSyncComplete(func(result dealsync.Result) {
//	    log.Printf("sync finished: %s", result.Status)
//	})
//
//	result, err := ds.Sync(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
//
//	// Live mode wires the vendor-backed adapters instead.
//	ds, err = dealsync.New(
//	    dealsync.WithOpportunitySource(salesforce.New(sfCfg)),
//	    dealsync.WithIssueSource(jira.New(jiraCfg)),
//	    dealsync.WithSheetWriter(sheets.New(sheetCfg)),
//	    dealsync.WithStrategy(merge.StrategyTrackerWins),
//	)
package dealsync

import (
	"context"
	"sync"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Syncer runs synchronization cycles.
type Syncer interface {
	// Sync executes one run end to end and returns its result. When a run
	// is already in flight it fails immediately with ErrSyncRunning.
	Sync(ctx context.Context) (*Result, error)
}

// StatusReporter exposes the orchestrator's run state and retained results.
type StatusReporter interface {
	// Running reports whether a run is currently in flight.
	Running() bool

	// Status returns a snapshot of the in-flight run, the last completed
	// run when idle, or nil when nothing has run yet.
	Status() *Result

	// History returns copies of the retained completed runs, oldest first.
	History() []*Result
}

// Hooks provides access to event callback registration.
type Hooks interface {
	// OnSyncComplete registers a callback fired after each run reaches a
	// terminal status.
	OnSyncComplete(fn SyncCompleteHook)
}

// Client ties the record sources, merge engine, and sheet writer into a
// single sync orchestrator.
type Client interface {

	// Syncer runs synchronization cycles
	Syncer

	// StatusReporter exposes run state and retained results
	StatusReporter

	// Hooks provides access to event callback registration
	Hooks
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options

	// run state
	mu      sync.RWMutex
	running bool
	runSeq  int64
	current *Result // frozen snapshot of the in-flight run
	last    *Result
	history *history

	// hooks holds event callbacks fired on run completion
	hooks *hooks
}

// New creates a new Client instance with the given options. Without options
// the client runs entirely on the embedded demo adapters.
func New(opts ...Option) (Client, error) {
	options, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	return &client{
		options: options,
		history: newHistory(options.historyLimit),
		hooks:   newHooks(),
	}, nil
}

// Running reports whether a run is currently in flight.
func (c *client) Running() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// Status returns a snapshot of the in-flight run, the last completed run
// when idle, or nil when nothing has run yet.
func (c *client) Status() *Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.running {
		return c.current.clone()
	}
	return c.last.clone()
}

// History returns copies of the retained completed runs, oldest first.
func (c *client) History() []*Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.history.list()
}
