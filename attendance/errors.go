package attendance

import "errors"

var (
	// ErrRecordImmutable is returned when an update or delete reaches an attendance record.
	ErrRecordImmutable = errors.New("attendance: records are append-only")
	ErrMissingEmail    = errors.New("attendance: employee email is required")
)
