package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealsync/dealsync/pkg/constants"
)

func newRunningBroadcaster(t *testing.T) *Broadcaster {
	t.Helper()

	logger := zerolog.Nop()
	b := NewBroadcaster(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go b.Run(ctx)

	return b
}

// waitForClients polls until the subscriber count satisfies ok, replacing
// sleeps with a bounded wait.
func waitForClients(t *testing.T, b *Broadcaster, ok func(int) bool) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for !ok(b.ClientCount()) {
		select {
		case <-deadline:
			t.Fatalf("client count stuck at %d", b.ClientCount())
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestBroadcastReachesSubscriber(t *testing.T) {
	b := newRunningBroadcaster(t)

	sub := make(chan Event, constants.EventBufferSize)
	b.joining <- sub
	waitForClients(t, b, func(n int) bool { return n == 1 })

	b.Broadcast(Event{Event: "sync_complete", ID: "1", Data: map[string]any{"rows_written": 7}})

	select {
	case got := <-sub:
		if got.Event != "sync_complete" || got.ID != "1" {
			t.Errorf("received event %q with id %q, want sync_complete/1", got.Event, got.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not receive the event")
	}
}

func TestBroadcastNeverBlocksOnSlowSubscriber(t *testing.T) {
	b := newRunningBroadcaster(t)

	// A subscriber that never drains more than one event.
	slow := make(chan Event, 1)
	b.joining <- slow
	waitForClients(t, b, func(n int) bool { return n == 1 })

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < constants.ChannelBufferSize+20; i++ {
			b.Broadcast(Event{Event: "sync_complete"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow subscriber")
	}

	if got := b.ClientCount(); got != 1 {
		t.Errorf("slow subscriber should stay registered, have %d clients", got)
	}
}

func TestShutdownClosesSubscribers(t *testing.T) {
	logger := zerolog.Nop()
	b := NewBroadcaster(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)

	first := make(chan Event, constants.EventBufferSize)
	second := make(chan Event, constants.EventBufferSize)
	b.joining <- first
	b.joining <- second
	waitForClients(t, b, func(n int) bool { return n == 2 })

	cancel()

	for name, sub := range map[string]chan Event{"first": first, "second": second} {
		select {
		case _, open := <-sub:
			if open {
				t.Errorf("%s subscriber received an event instead of a close", name)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("%s subscription was not closed on shutdown", name)
		}
	}

	if got := b.ClientCount(); got != 0 {
		t.Errorf("expected no subscribers after shutdown, have %d", got)
	}
}

func TestServeHTTPStreamsUntilDisconnect(t *testing.T) {
	b := newRunningBroadcaster(t)

	reqCtx, disconnect := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(reqCtx)
	rec := httptest.NewRecorder()

	served := make(chan struct{})
	go func() {
		defer close(served)
		b.ServeHTTP(rec, req)
	}()

	waitForClients(t, b, func(n int) bool { return n == 1 })
	disconnect()

	select {
	case <-served:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after the client disconnected")
	}

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", got)
	}
	if !rec.Flushed {
		t.Error("handler never flushed the stream")
	}

	body := rec.Body.String()
	if !strings.Contains(body, "event: connected") {
		t.Errorf("stream preamble missing connected event:\n%s", body)
	}
	if !strings.Contains(body, "Connected to sync event stream") {
		t.Errorf("connected event missing greeting payload:\n%s", body)
	}

	waitForClients(t, b, func(n int) bool { return n == 0 })
}
