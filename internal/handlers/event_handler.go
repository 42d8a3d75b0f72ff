package handlers

import (
	"net/http"
	"strconv"

	"event-registration/internal/status"
	"event-registration/models"
	"event-registration/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type EventHandler struct {
	app *pocketbase.PocketBase
}

func NewEventHandler(app *pocketbase.PocketBase) *EventHandler {
	return &EventHandler{app: app}
}

type createEventRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Venue       string  `json:"venue"`
	StartAt     string  `json:"start_at"`
	EndAt       string  `json:"end_at"`
	Status      string  `json:"status"`
	Price       float64 `json:"price"`
	Capacity    int     `json:"capacity"`
}

type updateEventRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Venue       *string  `json:"venue"`
	StartAt     *string  `json:"start_at"`
	EndAt       *string  `json:"end_at"`
	Status      *string  `json:"status"`
	Price       *float64 `json:"price"`
	Capacity    *int     `json:"capacity"`
}

// Create - Create an event owned by the calling staff user.
func (h *EventHandler) Create(e *core.RequestEvent) error {
	if code, msg := staffGate(e.Auth); code != 0 {
		return e.JSON(code, map[string]string{"error": msg})
	}

	var req createEventRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Name == "" || req.StartAt == "" {
		return apis.NewBadRequestError("Name and start_at are required", nil)
	}
	if req.Status == "" {
		req.Status = models.EventStatusDraft
	}

	collection, err := h.app.FindCollectionByNameOrId("events")
	if err != nil {
		return apis.NewBadRequestError("Failed to create event", err)
	}

	record := core.NewRecord(collection)
	record.Set("name", req.Name)
	record.Set("description", req.Description)
	record.Set("venue", req.Venue)
	record.Set("start_at", req.StartAt)
	record.Set("end_at", req.EndAt)
	record.Set("status", req.Status)
	record.Set("price", req.Price)
	record.Set("capacity", req.Capacity)
	// Ownership is taken from the session, never from the body.
	record.Set("created_by", e.Auth.Id)

	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to create event", err)
	}

	return e.JSON(http.StatusCreated, eventResponse(record))
}

// ListMine - List the calling staff user's events.
func (h *EventHandler) ListMine(e *core.RequestEvent) error {
	if code, msg := staffGate(e.Auth); code != 0 {
		return e.JSON(code, map[string]string{"error": msg})
	}

	records, err := h.app.FindRecordsByFilter(
		"events",
		"created_by = {:creator}",
		"+start_at",
		0,
		0,
		dbx.Params{"creator": e.Auth.Id},
	)
	if err != nil {
		return apis.NewBadRequestError("Failed to list events", err)
	}

	result := make([]map[string]any, 0, len(records))
	for _, record := range records {
		result = append(result, eventResponse(record))
	}

	return e.JSON(http.StatusOK, result)
}

// Browse - Public listing of published events, ascending by start date.
func (h *EventHandler) Browse(e *core.RequestEvent) error {
	limit := queryInt(e, "limit", 50)
	if limit > 200 {
		limit = 200
	}
	offset := queryInt(e, "offset", 0)

	records, err := h.app.FindRecordsByFilter(
		"events",
		"status = {:status}",
		"+start_at",
		limit,
		offset,
		dbx.Params{"status": models.EventStatusPublished},
	)
	if err != nil {
		return apis.NewBadRequestError("Failed to list events", err)
	}

	result := make([]map[string]any, 0, len(records))
	for _, record := range records {
		result = append(result, eventResponse(record))
	}

	return e.JSON(http.StatusOK, result)
}

// Get - Event detail. Unpublished events are only visible to their creator.
func (h *EventHandler) Get(e *core.RequestEvent) error {
	record, err := h.visibleEvent(e)
	if err != nil {
		return apis.NewNotFoundError("Event not found", status.ErrEventNotFound)
	}

	return e.JSON(http.StatusOK, eventResponse(record))
}

// Update - Update an owned event. The creator reference is immutable.
func (h *EventHandler) Update(e *core.RequestEvent) error {
	if code, msg := staffGate(e.Auth); code != 0 {
		return e.JSON(code, map[string]string{"error": msg})
	}

	record, err := h.app.FindRecordById("events", e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Event not found", status.ErrEventNotFound)
	}
	if record.GetString("created_by") != e.Auth.Id {
		return e.JSON(http.StatusForbidden, map[string]string{"error": "Access denied"})
	}

	var req updateEventRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if req.Name != nil {
		record.Set("name", *req.Name)
	}
	if req.Description != nil {
		record.Set("description", *req.Description)
	}
	if req.Venue != nil {
		record.Set("venue", *req.Venue)
	}
	if req.StartAt != nil {
		record.Set("start_at", *req.StartAt)
	}
	if req.EndAt != nil {
		record.Set("end_at", *req.EndAt)
	}
	if req.Status != nil {
		record.Set("status", *req.Status)
	}
	if req.Price != nil {
		record.Set("price", *req.Price)
	}
	if req.Capacity != nil {
		record.Set("capacity", *req.Capacity)
	}

	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to update event", err)
	}

	return e.JSON(http.StatusOK, eventResponse(record))
}

// Delete - Delete an owned event.
func (h *EventHandler) Delete(e *core.RequestEvent) error {
	if code, msg := staffGate(e.Auth); code != 0 {
		return e.JSON(code, map[string]string{"error": msg})
	}

	record, err := h.app.FindRecordById("events", e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Event not found", status.ErrEventNotFound)
	}
	if record.GetString("created_by") != e.Auth.Id {
		return e.JSON(http.StatusForbidden, map[string]string{"error": "Access denied"})
	}

	if err := h.app.Delete(record); err != nil {
		return apis.NewBadRequestError("Failed to delete event", err)
	}

	return e.JSON(http.StatusOK, map[string]string{"message": "Event deleted"})
}

// Calendar - iCalendar download for the add-to-calendar button.
func (h *EventHandler) Calendar(e *core.RequestEvent) error {
	record, err := h.visibleEvent(e)
	if err != nil {
		return apis.NewNotFoundError("Event not found", status.ErrEventNotFound)
	}

	ics := utils.BuildEventICS(
		record.Id,
		record.GetString("name"),
		record.GetString("description"),
		record.GetString("venue"),
		record.GetDateTime("start_at").Time(),
		record.GetDateTime("end_at").Time(),
	)

	e.Response.Header().Set("Content-Disposition",
		"attachment; filename="+utils.ICSFilename(record.GetString("name")))

	return e.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// visibleEvent resolves the {id} path parameter, hiding unpublished events
// from everyone but their creator.
func (h *EventHandler) visibleEvent(e *core.RequestEvent) (*core.Record, error) {
	record, err := h.app.FindRecordById("events", e.Request.PathValue("id"))
	if err != nil {
		return nil, status.ErrEventNotFound
	}

	if record.GetString("status") != models.EventStatusPublished {
		if e.Auth == nil || record.GetString("created_by") != e.Auth.Id {
			return nil, status.ErrEventNotFound
		}
	}

	return record, nil
}

func eventResponse(record *core.Record) map[string]any {
	return map[string]any{
		"id":          record.Id,
		"name":        record.GetString("name"),
		"description": record.GetString("description"),
		"venue":       record.GetString("venue"),
		"start_at":    record.GetDateTime("start_at"),
		"end_at":      record.GetDateTime("end_at"),
		"status":      record.GetString("status"),
		"price":       record.GetFloat("price"),
		"capacity":    record.GetInt("capacity"),
		"created_by":  record.GetString("created_by"),
	}
}

func queryInt(e *core.RequestEvent, name string, fallback int) int {
	raw := e.Request.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
