package handlers

import (
	"errors"
	"net/http"

	"event-registration/config"
	"event-registration/internal/services"
	"event-registration/internal/status"
	"event-registration/models"
	"event-registration/monitoring"
	"event-registration/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/crypto/bcrypt"
)

type RegistrationHandler struct {
	app       *pocketbase.PocketBase
	dashboard *services.DashboardService
	notify    *services.NotifyService
	cfg       *config.Config
}

func NewRegistrationHandler(app *pocketbase.PocketBase, dashboard *services.DashboardService, notify *services.NotifyService, cfg *config.Config) *RegistrationHandler {
	return &RegistrationHandler{
		app:       app,
		dashboard: dashboard,
		notify:    notify,
		cfg:       cfg,
	}
}

type registerRequest struct {
	UserEmail   string `json:"user_email"`
	UserName    string `json:"user_name"`
	TicketCount int    `json:"ticket_count"`
}

// Register - Register the caller for a published event. Returns a one-time
// cancellation code; only its bcrypt hash is stored.
func (h *RegistrationHandler) Register(e *core.RequestEvent) error {
	if e.Auth == nil {
		return e.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	event, err := h.app.FindRecordById("events", e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Event not found", status.ErrEventNotFound)
	}
	if event.GetString("status") != models.EventStatusPublished {
		return apis.NewBadRequestError("Event is not open for registration", status.ErrEventNotPublished)
	}

	var req registerRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	tickets := req.TicketCount
	if tickets <= 0 {
		tickets = 1
	}
	if tickets > h.cfg.MaxTicketsPerRegistration {
		return apis.NewBadRequestError("Too many tickets requested", nil)
	}

	email := req.UserEmail
	if email == "" {
		email = e.Auth.GetString("email")
	}
	if email == "" {
		return apis.NewBadRequestError("Email is required", nil)
	}
	name := req.UserName
	if name == "" {
		name = e.Auth.GetString("name")
	}

	cancelCode, err := utils.GenerateCode(h.cfg.CancelCodeLength)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to register", err)
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(cancelCode), bcrypt.DefaultCost)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to register", err)
	}

	collection, err := h.app.FindCollectionByNameOrId("registrations")
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to register", err)
	}

	record := core.NewRecord(collection)
	record.Set("event", event.Id)
	record.Set("user", e.Auth.Id)
	record.Set("user_email", email)
	record.Set("user_name", name)
	record.Set("status", models.RegistrationStatusConfirmed)
	record.Set("ticket_count", tickets)
	record.Set("cancel_code_hash", string(codeHash))

	// Counting and inserting share one transaction, so two concurrent
	// registrations for the last remaining tickets cannot both commit.
	err = h.app.RunInTransaction(func(txApp core.App) error {
		if err := checkCapacity(txApp, event, tickets); err != nil {
			return err
		}
		return txApp.Save(record)
	})
	if err != nil {
		if errors.Is(err, status.ErrEventFull) {
			return apis.NewBadRequestError("Event is sold out", err)
		}
		return apis.NewBadRequestError("Failed to register", err)
	}

	monitoring.TrackRegistrationCreated()

	ctx := e.Request.Context()
	owner := event.GetString("created_by")
	h.dashboard.Invalidate(ctx, owner)
	h.notify.RegistrationCreated(ctx, owner, event.Id, event.GetString("name"), record.Id, tickets)

	return e.JSON(http.StatusCreated, map[string]any{
		"id":           record.Id,
		"event_id":     event.Id,
		"user_email":   email,
		"user_name":    name,
		"status":       models.RegistrationStatusConfirmed,
		"ticket_count": tickets,
		"cancel_code":  cancelCode,
	})
}

type cancelRequest struct {
	CancelCode string `json:"cancel_code"`
}

// Cancel - Cancel a registration. Allowed for the registering user, or for
// anyone presenting the cancellation code handed out at registration time.
func (h *RegistrationHandler) Cancel(e *core.RequestEvent) error {
	record, err := h.app.FindRecordById("registrations", e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Registration not found", status.ErrRegistrationNotFound)
	}

	var req cancelRequest
	if e.Request.ContentLength > 0 {
		if err := e.BindBody(&req); err != nil {
			return apis.NewBadRequestError("Invalid request", err)
		}
	}

	// An unauthorized caller gets the same 404 as an unknown id, so valid
	// registration ids cannot be enumerated.
	if !h.cancelAllowed(e.Auth, record, req.CancelCode) {
		return apis.NewNotFoundError("Registration not found", status.ErrRegistrationNotFound)
	}

	if record.GetString("status") == models.RegistrationStatusCancelled {
		return apis.NewBadRequestError("Registration already cancelled", status.ErrAlreadyCancelled)
	}

	record.Set("status", models.RegistrationStatusCancelled)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to cancel registration", err)
	}

	ctx := e.Request.Context()
	if event, err := h.app.FindRecordById("events", record.GetString("event")); err == nil {
		owner := event.GetString("created_by")
		h.dashboard.Invalidate(ctx, owner)
		h.notify.RegistrationCancelled(ctx, owner, event.Id, record.Id)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"id":     record.Id,
		"status": models.RegistrationStatusCancelled,
	})
}

// Mine - List the caller's registrations, newest first.
func (h *RegistrationHandler) Mine(e *core.RequestEvent) error {
	if e.Auth == nil {
		return e.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	records, err := h.app.FindRecordsByFilter(
		"registrations",
		"user = {:user}",
		"-created",
		0,
		0,
		dbx.Params{"user": e.Auth.Id},
	)
	if err != nil {
		return apis.NewBadRequestError("Failed to list registrations", err)
	}

	result := make([]map[string]any, 0, len(records))
	for _, record := range records {
		entry := map[string]any{
			"id":           record.Id,
			"event_id":     record.GetString("event"),
			"user_email":   record.GetString("user_email"),
			"user_name":    record.GetString("user_name"),
			"status":       record.GetString("status"),
			"ticket_count": record.GetInt("ticket_count"),
			"created":      record.GetDateTime("created"),
		}
		if event, err := h.app.FindRecordById("events", record.GetString("event")); err == nil {
			entry["event_name"] = event.GetString("name")
			entry["event_start_at"] = event.GetDateTime("start_at")
		}
		result = append(result, entry)
	}

	return e.JSON(http.StatusOK, result)
}

// checkCapacity enforces the event capacity against confirmed tickets,
// reading through the given app so a caller can run it inside a write
// transaction. A zero capacity means unlimited.
func checkCapacity(app core.App, event *core.Record, requested int) error {
	capacity := event.GetInt("capacity")
	if capacity <= 0 {
		return nil
	}

	records, err := app.FindRecordsByFilter(
		"registrations",
		"event = {:event} && status = {:status}",
		"",
		0,
		0,
		dbx.Params{"event": event.Id, "status": models.RegistrationStatusConfirmed},
	)
	if err != nil {
		return err
	}

	return admitTickets(confirmedTickets(records), requested, capacity)
}

func confirmedTickets(records []*core.Record) int {
	total := 0
	for _, record := range records {
		count := record.GetInt("ticket_count")
		if count <= 0 {
			count = 1
		}
		total += count
	}
	return total
}

// admitTickets reports whether a request still fits the capacity given the
// tickets already confirmed.
func admitTickets(confirmed, requested, capacity int) error {
	if confirmed+requested > capacity {
		return status.ErrEventFull
	}
	return nil
}

func (h *RegistrationHandler) cancelAllowed(auth *core.Record, record *core.Record, cancelCode string) bool {
	if auth != nil && record.GetString("user") != "" && record.GetString("user") == auth.Id {
		return true
	}
	if cancelCode != "" {
		hash := record.GetString("cancel_code_hash")
		if hash != "" && bcrypt.CompareHashAndPassword([]byte(hash), []byte(cancelCode)) == nil {
			return true
		}
	}
	return false
}
