package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"event-registration/config"
	"event-registration/internal/services"
	"event-registration/monitoring"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type DashboardHandler struct {
	app       *pocketbase.PocketBase
	dashboard *services.DashboardService
	timeout   time.Duration
}

func NewDashboardHandler(app *pocketbase.PocketBase, dashboard *services.DashboardService, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{
		app:       app,
		dashboard: dashboard,
		timeout:   cfg.RequestTimeout,
	}
}

// EventRegistrations - Staff dashboard: the caller's events with their
// registrations attached. Identity and role are checked before any data
// access; failures map to the flat error contract (401/403/500).
func (h *DashboardHandler) EventRegistrations(e *core.RequestEvent) error {
	if code, msg := staffGate(e.Auth); code != 0 {
		monitoring.TrackDashboardRequest(http.StatusText(code))
		return e.JSON(code, map[string]string{"error": msg})
	}

	ctx, cancel := context.WithTimeout(e.Request.Context(), h.timeout)
	defer cancel()

	events, err := h.dashboard.EventRegistrations(ctx, e.Auth.Id)
	if err != nil {
		slog.Error("dashboard aggregation failed", "staff_id", e.Auth.Id, "error", err)
		monitoring.TrackDashboardRequest(http.StatusText(http.StatusInternalServerError))
		return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	monitoring.TrackDashboardRequest(http.StatusText(http.StatusOK))
	return e.JSON(http.StatusOK, map[string]any{"events": events})
}
