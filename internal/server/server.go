// Package server provides the HTTP API for the DealSync service.
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealsync/dealsync"
	"github.com/dealsync/dealsync/internal/server/handlers"
	"github.com/dealsync/dealsync/internal/server/sse"
)

// Server ties the sync client, the HTTP handlers and the SSE broadcaster
// together and owns the lifetime of the background services.
type Server struct {
	ds             dealsync.Client
	settings       handlers.Settings
	sseBroadcaster *sse.Broadcaster
	logger         *zerolog.Logger
	config         Config
	startTime      time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a server and subscribes it to completed sync runs. Call
// Start before serving and Shutdown when done.
func New(ds dealsync.Client, settings handlers.Settings, cfg Config, logger *zerolog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		ds:             ds,
		settings:       settings,
		sseBroadcaster: sse.NewBroadcaster(logger),
		logger:         logger,
		config:         cfg,
		startTime:      time.Now(),
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
	}

	// Every completed run reaches the event stream, whether the API, the
	// scheduler, or the CLI triggered it.
	s.ds.OnSyncComplete(func(result dealsync.Result) {
		s.sseBroadcaster.Broadcast(sse.Event{
			Event: "sync_complete",
			ID:    strconv.FormatInt(result.StartedAt.UnixNano(), 10),
			Data:  result,
		})
		s.logger.Debug().
			Str("status", result.Status.String()).
			Msg("Sync result published to event stream")
	})

	return s
}

// Start launches the background services.
func (s *Server) Start() {
	s.logger.Debug().Msg("Starting SSE broadcaster")
	go func() {
		defer close(s.done)
		s.sseBroadcaster.Run(s.ctx)
	}()
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops the background services and waits for the broadcaster to
// close its subscriptions, or for ctx to give up.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()

	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info().Msg("Background services shut down")
	return nil
}

// SSEBroadcaster exposes the event stream fan-out.
func (s *Server) SSEBroadcaster() *sse.Broadcaster {
	return s.sseBroadcaster
}

// StartTime returns when the server came up, for uptime reporting.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
