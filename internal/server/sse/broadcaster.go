// Package sse streams sync run results to connected dashboards over
// Server-Sent Events.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealsync/dealsync/pkg/constants"
)

// Event is one server-sent event. Data is JSON-encoded on the wire.
type Event struct {
	Event string `json:"event,omitempty"`
	ID    string `json:"id,omitempty"`
	Data  any    `json:"data"`
}

// Broadcaster fans events out to every connected SSE subscriber.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}

	joining chan chan Event
	leaving chan chan Event
	inbox   chan Event

	logger *zerolog.Logger
}

// NewBroadcaster creates a broadcaster; call Run to start it.
func NewBroadcaster(logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[chan Event]struct{}),
		// Buffered so handlers that connect before Run starts, or
		// disconnect during shutdown, do not block.
		joining: make(chan chan Event, 10),
		leaving: make(chan chan Event, 10),
		inbox:   make(chan Event, constants.ChannelBufferSize),
		logger:  logger,
	}
}

// Run is the broadcaster's main loop; it owns the subscriber set until ctx
// is cancelled, then closes every subscription.
func (b *Broadcaster) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.closeAll()
			b.logger.Info().Msg("SSE broadcaster shut down")
			return

		case sub := <-b.joining:
			b.mu.Lock()
			b.subscribers[sub] = struct{}{}
			total := len(b.subscribers)
			b.mu.Unlock()

			b.logger.Info().Int("total_clients", total).Msg("SSE client connected")

		case sub := <-b.leaving:
			b.mu.Lock()
			if _, known := b.subscribers[sub]; known {
				delete(b.subscribers, sub)
				close(sub)
			}
			total := len(b.subscribers)
			b.mu.Unlock()

			b.logger.Info().Int("total_clients", total).Msg("SSE client disconnected")

		case event := <-b.inbox:
			b.fanOut(event)
		}
	}
}

// Broadcast hands an event to the run loop. It never blocks: when the
// inbox is full the event is dropped, so a sync run is never held up by
// slow dashboards.
func (b *Broadcaster) Broadcast(event Event) {
	select {
	case b.inbox <- event:
	default:
		b.logger.Warn().Msg("SSE broadcast channel full, event dropped")
	}
}

// ClientCount returns how many subscribers are connected.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// ServeHTTP subscribes the caller and streams events until it disconnects
// or the broadcaster shuts down.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("Access-Control-Allow-Origin", "*")

	sub := make(chan Event, constants.EventBufferSize)
	b.joining <- sub

	b.writeEvent(w, flusher, Event{
		Event: "connected",
		Data: map[string]any{
			"message":   "Connected to sync event stream",
			"timestamp": time.Now(),
		},
	})

	for {
		select {
		case event, open := <-sub:
			if !open {
				// Broadcaster shut down and closed the subscription.
				return
			}
			b.writeEvent(w, flusher, event)

		case <-r.Context().Done():
			b.leaving <- sub
			return
		}
	}
}

// fanOut delivers one event to every subscriber that has buffer room.
func (b *Broadcaster) fanOut(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub <- event:
		default:
			// A full buffer means a stalled reader; it misses this event.
			b.logger.Warn().Msg("SSE client buffer full, event skipped")
		}
	}
}

// closeAll closes every subscription and empties the set.
func (b *Broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subscribers {
		close(sub)
	}
	b.subscribers = make(map[chan Event]struct{})
}

// writeEvent encodes one event in SSE wire format and flushes it out.
func (b *Broadcaster) writeEvent(w http.ResponseWriter, flusher http.Flusher, event Event) {
	if event.Event != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", event.Event)
	}
	if event.ID != "" {
		_, _ = fmt.Fprintf(w, "id: %s\n", event.ID)
	}

	data, err := json.Marshal(event.Data)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to marshal SSE event data")
		return
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)

	flusher.Flush()
}
