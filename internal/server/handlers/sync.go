package handlers

import (
	"net/http"

	"github.com/dealsync/dealsync/internal/server/response"
	"github.com/dealsync/dealsync/pkg/logging"
)

// HandleSync handles POST /api/sync. The run executes synchronously within
// the request, so the response carries the completed result. Concurrent
// triggers are rejected with 409 rather than queued.
// @Summary Trigger a sync run
// @Description Runs a full sync and returns its result
// @Tags sync
// @Produce json
// @Success 200 {object} response.Response{data=dealsync.Result}
// @Failure 409 {object} response.Response{error=response.Error}
// @Router /api/sync [post].
func (h *Handlers) HandleSync(w http.ResponseWriter, r *http.Request) {
	result, err := h.ds.Sync(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Sync trigger rejected")
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, result)
}
