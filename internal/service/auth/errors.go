package auth

import (
	"fmt"

	"github.com/phrazzld/quill-api/internal/domain"
)

// Common authentication service errors. Each wraps domain.ErrAuthentication.
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = fmt.Errorf("%w: invalid authentication token", domain.ErrAuthentication)

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = fmt.Errorf("%w: authentication token has expired", domain.ErrAuthentication)

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = fmt.Errorf("%w: authentication token is missing", domain.ErrAuthentication)

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password alike.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", domain.ErrAuthentication)
)

// ServiceError wraps unexpected failures from auth operations with the
// operation name.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("auth %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
