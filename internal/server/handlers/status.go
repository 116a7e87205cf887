package handlers

import (
	"net/http"

	"github.com/dealsync/dealsync/internal/server/response"
)

// HandleStatus handles GET /api/status.
// @Summary Current sync status
// @Description Returns the running snapshot when a sync is in flight, the
// most recent completed result otherwise, or an idle placeholder when no
// sync has run yet
// @Tags sync
// @Produce json
// @Success 200 {object} response.Response{data=dealsync.Result}
// @Router /api/status [get].
func (h *Handlers) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	result := h.ds.Status()
	if result == nil {
		response.OK(w, map[string]any{
			"status":  "idle",
			"message": "No sync has been run yet",
		})
		return
	}

	response.OK(w, result)
}

// HandleHistory handles GET /api/history.
// @Summary Sync history
// @Description Returns the retained sync results, oldest first
// @Tags sync
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/history [get].
func (h *Handlers) HandleHistory(w http.ResponseWriter, _ *http.Request) {
	runs := h.ds.History()

	response.OK(w, map[string]any{
		"history": runs,
		"count":   len(runs),
	})
}
