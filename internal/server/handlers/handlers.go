// Package handlers provides HTTP request handlers for the DealSync API.
package handlers

import (
	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/dealsync/dealsync"
	"github.com/dealsync/dealsync/internal/server/sse"
	"github.com/dealsync/dealsync/pkg/merge"
)

// Settings is the sanitized runtime configuration echoed by the config
// endpoints. Secrets never leave the process; callers only learn whether
// each credential is present.
type Settings struct {
	DemoMode          bool
	Schedule          string
	Strategy          merge.Strategy
	SheetName         string
	NotifyEmail       string
	CRMConfigured     bool
	TrackerConfigured bool
	SheetsConfigured  bool
	SMTPConfigured    bool

	// NextRun reports the next scheduled sync. Nil when the server runs
	// without a scheduler attached.
	NextRun func() utc.Time
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	ds             dealsync.Client
	settings       Settings
	sseBroadcaster *sse.Broadcaster
	logger         *zerolog.Logger
}

// New creates a new Handlers instance.
func New(
	ds dealsync.Client,
	settings Settings,
	sseBroadcaster *sse.Broadcaster,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		ds:             ds,
		settings:       settings,
		sseBroadcaster: sseBroadcaster,
		logger:         logger,
	}
}
