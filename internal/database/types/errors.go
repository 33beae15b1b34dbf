package types

import "errors"

var (
	// ErrTutorNotFound is returned when a referenced tutor does not exist.
	ErrTutorNotFound = errors.New("tutor not found")
	// ErrOrderNotFound is returned when a referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")
)
