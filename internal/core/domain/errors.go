package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrForbidden          = errors.New("access forbidden")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError reports a missing or malformed field detected before a
// write reaches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is lets callers match any validation failure with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Required returns a ValidationError for a missing field.
func Required(field string) error {
	return &ValidationError{Field: field, Message: "is required"}
}

// Unavailable wraps a transport or backend failure so it matches
// ErrBackendUnavailable while keeping the cause.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, op, err)
}

// PartialWriteError is returned when a multi-step write fails after earlier
// steps were already persisted. Nothing is rolled back.
type PartialWriteError struct {
	Completed string
	Failed    string
	Err       error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write: %s persisted, %s failed: %v", e.Completed, e.Failed, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }
