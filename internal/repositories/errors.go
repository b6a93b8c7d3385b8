package repositories

import "errors"

var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict is returned when an update loses the
	// optimistic-concurrency race (stored version differs).
	ErrVersionConflict = errors.New("version conflict")
)
