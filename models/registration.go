package models

// Registration statuses.
const (
	RegistrationStatusConfirmed = "confirmed"
	RegistrationStatusCancelled = "cancelled"
)

// Registration is a registration record as read from the store.
// RegisteredAt is kept raw (native timestamp or string); TicketCount is the
// stored value, which may be zero when the field was never set.
type Registration struct {
	ID           string `json:"id"`
	EventID      string `json:"event_id"`
	UserID       string `json:"user_id"`
	UserEmail    string `json:"user_email"`
	UserName     string `json:"user_name"`
	RegisteredAt any    `json:"registered_at"`
	Status       string `json:"status"`
	TicketCount  int    `json:"ticket_count"`
}

// RegistrationEntry is the dashboard projection of a registration with
// normalized dates and the documented ticket-count default applied.
type RegistrationEntry struct {
	ID           string `json:"id"`
	EventID      string `json:"eventId"`
	UserEmail    string `json:"userEmail"`
	UserName     string `json:"userName"`
	RegisteredAt string `json:"registeredAt"`
	Status       string `json:"status"`
	TicketCount  int    `json:"ticketCount"`
}
