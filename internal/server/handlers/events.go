package handlers

import (
	"net/http"
)

// HandleEvents handles GET /api/events.
// @Summary Sync events stream
// @Description Server-Sent Events stream of completed sync results
// @Tags events
// @Produce text/event-stream
// @Success 200 "Event stream"
// @Router /api/events [get].
func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
