package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"event-registration/config"
	"event-registration/models"
	"event-registration/monitoring"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// DashboardService aggregates registrations under the events a staff user
// owns. The store cannot join collections server-side, so the two reads are
// issued concurrently and joined in memory.
type DashboardService struct {
	Store    RecordStore
	Redis    *redis.Client
	CacheTTL time.Duration
}

func NewDashboardService(store RecordStore, redisClient *redis.Client, cfg *config.Config) *DashboardService {
	return &DashboardService{
		Store:    store,
		Redis:    redisClient,
		CacheTTL: cfg.DashboardCacheTTL,
	}
}

// EventRegistrations returns the aggregated dashboard for one staff user:
// their events, each carrying its registrations, sorted ascending by start
// date. Events without registrations are omitted.
func (s *DashboardService) EventRegistrations(ctx context.Context, staffID string) ([]models.EventRegistrations, error) {
	if cached, ok := s.cachedDashboard(ctx, staffID); ok {
		return cached, nil
	}

	var (
		wg     sync.WaitGroup
		events []models.Event
		regs   []models.Registration
		evErr  error
		regErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		events, evErr = s.Store.EventsByCreator(ctx, staffID)
	}()
	go func() {
		defer wg.Done()
		regs, regErr = s.Store.AllRegistrations(ctx)
	}()
	// Both reads must settle before filtering starts.
	wg.Wait()

	if evErr != nil {
		return nil, fmt.Errorf("owned events: %w", evErr)
	}
	if regErr != nil {
		return nil, fmt.Errorf("registration scan: %w", regErr)
	}

	started := time.Now()
	result := Aggregate(events, regs)
	monitoring.TrackAggregation(time.Since(started), len(regs))

	s.cacheDashboard(ctx, staffID, result)

	return result, nil
}

// Aggregate filters the registration scan down to the owned-event set,
// groups by event and normalizes date and ticket-count values.
//
// Normalization rules:
//   - dates become ISO-8601 UTC strings; unparseable values become the
//     InvalidDateLabel sentinel (never "now")
//   - a missing or non-positive ticket count defaults to 1
//   - registrations sort ascending by registeredAt, events ascending by
//     startDate with the id as tie-breaker
func Aggregate(events []models.Event, regs []models.Registration) []models.EventRegistrations {
	owned := make(map[string]models.Event, len(events))
	for _, ev := range events {
		owned[ev.ID] = ev
	}

	groups := make(map[string][]models.RegistrationEntry)
	for _, reg := range regs {
		// Dangling references and other owners' events are dropped.
		if _, ok := owned[reg.EventID]; !ok {
			continue
		}

		groups[reg.EventID] = append(groups[reg.EventID], models.RegistrationEntry{
			ID:           reg.ID,
			EventID:      reg.EventID,
			UserEmail:    reg.UserEmail,
			UserName:     reg.UserName,
			RegisteredAt: isoDate(reg.RegisteredAt),
			Status:       reg.Status,
			TicketCount:  ticketCountOrDefault(reg.TicketCount),
		})
	}

	result := make([]models.EventRegistrations, 0, len(groups))
	for eventID, entries := range groups {
		event := owned[eventID]

		// ISO strings compare chronologically; the invalid sentinel sorts last.
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].RegisteredAt < entries[j].RegisteredAt
		})

		totalTickets := 0
		for _, entry := range entries {
			totalTickets += entry.TicketCount
		}
		revenue := decimal.NewFromFloat(event.Price).Mul(decimal.NewFromInt(int64(totalTickets)))

		result = append(result, models.EventRegistrations{
			ID:            event.ID,
			Name:          event.Name,
			StartDate:     isoDate(event.StartAt),
			TotalTickets:  totalTickets,
			Revenue:       revenue.StringFixed(2),
			Registrations: entries,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartDate != result[j].StartDate {
			return result[i].StartDate < result[j].StartDate
		}
		return result[i].ID < result[j].ID
	})

	return result
}

func ticketCountOrDefault(count int) int {
	if count <= 0 {
		return 1
	}
	return count
}

// Invalidate drops the cached dashboard of one staff user. Called after
// registration writes so owners see new registrations immediately.
func (s *DashboardService) Invalidate(ctx context.Context, staffID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, dashboardCacheKey(staffID)).Err(); err != nil {
		slog.Warn("dashboard cache invalidation failed", "staff_id", staffID, "error", err)
	}
}

func (s *DashboardService) cachedDashboard(ctx context.Context, staffID string) ([]models.EventRegistrations, bool) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return nil, false
	}

	data, err := s.Redis.Get(ctx, dashboardCacheKey(staffID)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("dashboard cache read failed", "staff_id", staffID, "error", err)
		}
		monitoring.TrackCache("miss")
		return nil, false
	}

	var cached []models.EventRegistrations
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		monitoring.TrackCache("miss")
		return nil, false
	}

	monitoring.TrackCache("hit")
	return cached, true
}

func (s *DashboardService) cacheDashboard(ctx context.Context, staffID string, result []models.EventRegistrations) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}

	if err := s.Redis.Set(ctx, dashboardCacheKey(staffID), string(data), s.CacheTTL).Err(); err != nil {
		slog.Warn("dashboard cache write failed", "staff_id", staffID, "error", err)
	}
}

func dashboardCacheKey(staffID string) string {
	return fmt.Sprintf("dashboard:staff:%s", staffID)
}
