package domain

import (
	"errors"
	"fmt"
)

// Error categories shared by every service. Callers classify failures with
// errors.Is against these values; the API layer maps each one to a status code.
var (
	// ErrValidation is returned when input is missing or malformed.
	// This is usually wrapped by a *ValidationError naming the field.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when an operation would duplicate a unique value.
	ErrConflict = errors.New("conflict")

	// ErrAuthentication is returned when credentials or tokens are missing or wrong.
	ErrAuthentication = errors.New("authentication failed")

	// ErrAuthorization is returned when an authenticated caller may not perform
	// the requested operation.
	ErrAuthorization = errors.New("not authorized")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = fmt.Errorf("%w: invalid ID", ErrValidation)
)

// ValidationError describes a single invalid input field.
type ValidationError struct {
	Field   string // The offending field, or a comma separated list of fields
	Message string // Human readable description of the problem
	Err     error  // Underlying category, ErrValidation unless set otherwise
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped category so errors.Is(err, ErrValidation) holds.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
// A nil err defaults to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
