// Package common holds the sentinel errors shared by the guestbook and RSVP
// stores and the HTTP layer. Callers match them with errors.Is.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when a required field is missing or malformed.
	// No write is performed.
	ErrValidation = errors.New("validation error")

	// ErrMismatch is returned when a delete password does not match.
	ErrMismatch = errors.New("password mismatch")

	// ErrNotFound is returned when the target record does not exist (anymore).
	ErrNotFound = errors.New("not found")

	// ErrTransient wraps storage failures that the caller may retry.
	ErrTransient = errors.New("store unavailable")

	// ErrDuplicate is returned for a repeated submission inside the duplicate window.
	ErrDuplicate = errors.New("duplicate submission")

	// ErrClosed is returned when submissions are no longer accepted.
	ErrClosed = errors.New("submissions closed")
)

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Transient marks err as retryable.
func Transient(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransient, op, err)
}
