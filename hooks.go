package dealsync

import (
	"context"
	"sync"

	"github.com/dealsync/dealsync/pkg/logging"
)

// SyncCompleteHook is called after a sync run reaches a terminal status.
// Hooks receive a copy of the result and run synchronously on the sync
// goroutine, so they should return quickly.
type SyncCompleteHook func(result Result)

// OnSyncComplete registers a callback fired after each run reaches a
// terminal status. Registration is safe while a run is in flight; the new
// hook fires starting with the next completion.
func (c *client) OnSyncComplete(fn SyncCompleteHook) {
	c.hooks.OnSyncComplete(fn)
}

// hooks manages event callbacks for run lifecycle events.
type hooks struct {
	mu             sync.RWMutex
	onSyncComplete []SyncCompleteHook
}

// newHooks creates a new hooks instance.
func newHooks() *hooks {
	return &hooks{}
}

// OnSyncComplete registers a callback for completed runs.
func (h *hooks) OnSyncComplete(fn SyncCompleteHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSyncComplete = append(h.onSyncComplete, fn)
}

// fireSyncComplete dispatches a completed result to every registered hook.
// A panicking hook is recovered and logged; it cannot fail the run or stop
// later hooks from firing.
func (h *hooks) fireSyncComplete(ctx context.Context, result Result) {
	h.mu.RLock()
	registered := make([]SyncCompleteHook, len(h.onSyncComplete))
	copy(registered, h.onSyncComplete)
	h.mu.RUnlock()

	for _, fn := range registered {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logging.Ctx(ctx).Error().
						Interface("panic", r).
						Msg("Sync completion hook panicked")
				}
			}()
			fn(result)
		}()
	}
}
