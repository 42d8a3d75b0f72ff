package services

import (
	"context"
	"fmt"

	"event-registration/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// RecordStore is the read surface the dashboard aggregation needs. The
// authenticated identity is resolved by the caller and passed in explicitly.
type RecordStore interface {
	// EventsByCreator returns every event created by the given user.
	EventsByCreator(ctx context.Context, creatorID string) ([]models.Event, error)

	// AllRegistrations returns the complete registrations collection. The
	// store has no server-side join, so owner scoping happens in memory.
	AllRegistrations(ctx context.Context) ([]models.Registration, error)
}

// PBStore reads events and registrations from the PocketBase collections.
type PBStore struct {
	app core.App
}

func NewPBStore(app core.App) *PBStore {
	return &PBStore{app: app}
}

func (s *PBStore) EventsByCreator(ctx context.Context, creatorID string) ([]models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := s.app.FindRecordsByFilter(
		"events",
		"created_by = {:creator}",
		"+start_at",
		0,
		0,
		dbx.Params{"creator": creatorID},
	)
	if err != nil {
		return nil, fmt.Errorf("events by creator: %w", err)
	}

	events := make([]models.Event, 0, len(records))
	for _, record := range records {
		events = append(events, eventFromRecord(record))
	}

	return events, nil
}

func (s *PBStore) AllRegistrations(ctx context.Context) ([]models.Registration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := s.app.FindAllRecords("registrations")
	if err != nil {
		return nil, fmt.Errorf("registration scan: %w", err)
	}

	registrations := make([]models.Registration, 0, len(records))
	for _, record := range records {
		registrations = append(registrations, registrationFromRecord(record))
	}

	return registrations, nil
}

func eventFromRecord(record *core.Record) models.Event {
	return models.Event{
		ID:          record.Id,
		Name:        record.GetString("name"),
		Description: record.GetString("description"),
		Venue:       record.GetString("venue"),
		StartAt:     record.GetDateTime("start_at"),
		EndAt:       record.GetDateTime("end_at"),
		Status:      record.GetString("status"),
		Price:       record.GetFloat("price"),
		Capacity:    record.GetInt("capacity"),
		CreatedBy:   record.GetString("created_by"),
	}
}

func registrationFromRecord(record *core.Record) models.Registration {
	return models.Registration{
		ID:           record.Id,
		EventID:      record.GetString("event"),
		UserID:       record.GetString("user"),
		UserEmail:    record.GetString("user_email"),
		UserName:     record.GetString("user_name"),
		RegisteredAt: record.GetDateTime("created"),
		Status:       record.GetString("status"),
		TicketCount:  record.GetInt("ticket_count"),
	}
}
