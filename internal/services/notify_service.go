package services

import (
	"context"
	"fmt"
	"log/slog"

	"event-registration/utils"

	pubnub "github.com/pubnub/go"
)

// NotifyService pushes realtime registration notifications to the staff
// channel of the event owner. Publishing is best effort behind a circuit
// breaker; a broken realtime provider never fails the request.
type NotifyService struct {
	pubnub  *pubnub.PubNub
	breaker *utils.CircuitBreaker
}

func NewNotifyService(pn *pubnub.PubNub) *NotifyService {
	return &NotifyService{
		pubnub:  pn,
		breaker: utils.NewCircuitBreaker("pubnub"),
	}
}

// RegistrationCreated notifies the event owner about a new registration.
func (s *NotifyService) RegistrationCreated(ctx context.Context, ownerID, eventID, eventName, registrationID string, ticketCount int) {
	s.publish(ctx, ownerID, map[string]any{
		"type":            "registration_created",
		"event_id":        eventID,
		"event_name":      eventName,
		"registration_id": registrationID,
		"ticket_count":    ticketCount,
	})
}

// RegistrationCancelled notifies the event owner about a cancellation.
func (s *NotifyService) RegistrationCancelled(ctx context.Context, ownerID, eventID, registrationID string) {
	s.publish(ctx, ownerID, map[string]any{
		"type":            "registration_cancelled",
		"event_id":        eventID,
		"registration_id": registrationID,
	})
}

func (s *NotifyService) publish(ctx context.Context, ownerID string, message map[string]any) {
	if s.pubnub == nil {
		return
	}

	channel := fmt.Sprintf("staff-%s", ownerID)
	_, err := s.breaker.Execute(ctx, func() (any, error) {
		_, _, err := s.pubnub.Publish().
			Channel(channel).
			Message(message).
			Execute()
		return nil, err
	})
	if err != nil {
		slog.Warn("registration notification dropped", "channel", channel, "error", err)
	}
}
