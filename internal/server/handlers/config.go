package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dealsync/dealsync/internal/schedule"
	"github.com/dealsync/dealsync/internal/server/response"
	"github.com/dealsync/dealsync/pkg/merge"
)

// configUpdate is the mutable subset accepted by PUT /api/config.
type configUpdate struct {
	Schedule *string `json:"sync_schedule"`
	Strategy *string `json:"conflict_strategy"`
}

// HandleGetConfig handles GET /api/config.
// @Summary Configuration echo
// @Description Returns the sanitized runtime configuration; credentials are
// reported only as configured/not-configured booleans
// @Tags config
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/config [get].
func (h *Handlers) HandleGetConfig(w http.ResponseWriter, _ *http.Request) {
	s := h.settings
	data := map[string]any{
		"demo_mode":         s.DemoMode,
		"sync_schedule":     s.Schedule,
		"conflict_strategy": string(s.Strategy),
		"sheet_name":        s.SheetName,
		"notify_email":      s.NotifyEmail,
		"sf_configured":     s.CRMConfigured,
		"jira_configured":   s.TrackerConfigured,
		"sheets_configured": s.SheetsConfigured,
		"smtp_configured":   s.SMTPConfigured,
	}
	if s.NextRun != nil {
		if next := s.NextRun(); !next.IsZero() {
			data["next_run"] = next
		}
	}

	response.OK(w, data)
}

// HandleUpdateConfig handles PUT /api/config. Submitted values are validated
// and echoed back but never persisted; changing the live configuration
// requires a restart with new environment variables.
// @Summary Validate configuration changes
// @Description Validates the mutable configuration subset and echoes it
// @Tags config
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/config [put].
func (h *Handlers) HandleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var update configUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.BadRequest(w, "Invalid JSON body", err.Error())
		return
	}

	spec := h.settings.Schedule
	if update.Schedule != nil {
		if err := schedule.Validate(*update.Schedule); err != nil {
			response.ErrorFromType(w, err)
			return
		}
		spec = *update.Schedule
	}

	strategy := h.settings.Strategy
	if update.Strategy != nil {
		parsed, err := merge.ParseStrategy(*update.Strategy)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		if err := parsed.Validate(); err != nil {
			response.ErrorFromType(w, err)
			return
		}
		strategy = parsed
	}

	h.logger.Info().
		Str("schedule", spec).
		Str("strategy", string(strategy)).
		Msg("Configuration update acknowledged (not persisted)")

	response.OK(w, map[string]any{
		"sync_schedule":     spec,
		"conflict_strategy": string(strategy),
		"persisted":         false,
	})
}
