package article

import "fmt"

// ServiceError wraps unexpected failures from article operations with the
// operation name.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("article %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("article %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
