package models

// Event statuses.
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCancelled = "cancelled"
)

// User roles. Exactly RoleStaff grants access to the staff surface.
const (
	RoleStaff    = "staff"
	RoleAttendee = "attendee"
)

// Event is an event record as read from the store. StartAt and EndAt are
// kept raw (native timestamp or string) and normalized at aggregation time.
type Event struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Venue       string  `json:"venue"`
	StartAt     any     `json:"start_at"`
	EndAt       any     `json:"end_at"`
	Status      string  `json:"status"`
	Price       float64 `json:"price"`
	Capacity    int     `json:"capacity"`
	CreatedBy   string  `json:"created_by"`
}

// EventRegistrations is one entry of the staff dashboard: an owned event
// with its registrations attached and per-event totals.
type EventRegistrations struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	StartDate     string              `json:"startDate"`
	TotalTickets  int                 `json:"totalTickets"`
	Revenue       string              `json:"revenue"`
	Registrations []RegistrationEntry `json:"registrations"`
}
