package handlers

import (
	"testing"

	"event-registration/internal/status"

	"github.com/pocketbase/pocketbase/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func registrationRecord(userID, codeHash string, tickets int) *core.Record {
	collection := core.NewBaseCollection("registrations")
	collection.Fields.Add(
		&core.TextField{Name: "user"},
		&core.SelectField{
			Name:      "status",
			Values:    []string{"confirmed", "cancelled"},
			MaxSelect: 1,
		},
		&core.NumberField{Name: "ticket_count", OnlyInt: true},
		&core.TextField{Name: "cancel_code_hash", Hidden: true},
	)

	record := core.NewRecord(collection)
	record.Set("user", userID)
	record.Set("status", "confirmed")
	record.Set("ticket_count", tickets)
	record.Set("cancel_code_hash", codeHash)
	return record
}

func TestAdmitTickets(t *testing.T) {
	tests := []struct {
		name      string
		confirmed int
		requested int
		capacity  int
		expected  error
	}{
		{"Plenty of room", 2, 3, 10, nil},
		{"Exactly fills the event", 4, 1, 5, nil},
		{"One over", 5, 1, 5, status.ErrEventFull},
		{"Large request against small remainder", 8, 5, 10, status.ErrEventFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := admitTickets(tt.confirmed, tt.requested, tt.capacity)
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestAdmitTickets_LastTicketAdmittedOnce(t *testing.T) {
	// Two buyers want the final ticket. The recount inside the second
	// write transaction sees the first commit and refuses.
	require.NoError(t, admitTickets(0, 1, 1))
	assert.ErrorIs(t, admitTickets(1, 1, 1), status.ErrEventFull)
}

func TestConfirmedTickets_DefaultsMissingCountToOne(t *testing.T) {
	records := []*core.Record{
		registrationRecord("u1", "", 2),
		registrationRecord("u2", "", 0),
		registrationRecord("u3", "", 3),
	}

	assert.Equal(t, 6, confirmedTickets(records))
}

func TestCancelAllowed(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("AB12CD"), bcrypt.MinCost)
	require.NoError(t, err)

	record := registrationRecord("user-1", string(hash), 1)

	owner := userRecord("attendee")
	owner.Id = "user-1"
	stranger := userRecord("attendee")
	stranger.Id = "user-2"

	h := &RegistrationHandler{}

	tests := []struct {
		name     string
		auth     *core.Record
		code     string
		expected bool
	}{
		{"Registering user", owner, "", true},
		{"Different user without code", stranger, "", false},
		{"Anonymous with correct code", nil, "AB12CD", true},
		{"Anonymous with wrong code", nil, "ZZZZZZ", false},
		{"Anonymous without code", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, h.cancelAllowed(tt.auth, record, tt.code))
		})
	}
}
