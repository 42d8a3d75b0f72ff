package status

import "errors"

var (
	ErrEventNotFound        = errors.New("event: not found")
	ErrEventNotPublished    = errors.New("event: not open for registration")
	ErrEventFull            = errors.New("event: sold out")
	ErrRegistrationNotFound = errors.New("registration: not found")
	ErrAlreadyCancelled     = errors.New("registration: already cancelled")
)
