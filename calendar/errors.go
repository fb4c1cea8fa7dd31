package calendar

import "errors"

var (
	ErrEventNotFound = errors.New("calendar event not found")
	ErrInvalidRange  = errors.New("event end must not be before its start")
	ErrMissingTitle  = errors.New("event title is required")
	ErrMissingOwner  = errors.New("event owner is required")
)
