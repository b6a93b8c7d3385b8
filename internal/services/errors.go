package services

import (
	"errors"
	"fmt"

	"taskhub/internal/repositories"
)

// Failures are distinguished by kind so handlers can map them to the
// right responses: validation -> 400, not found -> 404, conflict -> 409,
// repository -> 500. Reason texts of transition rejections are part of
// the observable contract and must stay stable.

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

type RepositoryError struct {
	Err error
}

func (e *RepositoryError) Error() string { return "repository error: " + e.Err.Error() }
func (e *RepositoryError) Unwrap() error { return e.Err }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

// wrapRepoErr converts repository sentinels into service error kinds;
// anything unrecognized is an opaque repository failure (no retry here,
// retry policy belongs to the storage layer).
func wrapRepoErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return &NotFoundError{Msg: what + " not found"}
	case errors.Is(err, repositories.ErrVersionConflict):
		return &ConflictError{Msg: what + " was modified concurrently"}
	default:
		return &RepositoryError{Err: err}
	}
}
