package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/quill-api/internal/api/shared"
	"github.com/phrazzld/quill-api/internal/domain"
	"github.com/phrazzld/quill-api/internal/service/auth"
)

// MapErrorToStatusCode maps service errors to HTTP status codes without
// exposing their types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Token errors wrap ErrAuthentication, so they are matched first.
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrAuthentication):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrAuthorization):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, domain.ErrAuthentication):
		return "Authentication required"
	case errors.As(err, &validationErr):
		return validationMessage(validationErr)
	case errors.Is(err, domain.ErrValidation):
		return "Validation error"
	case errors.Is(err, domain.ErrConflict):
		return "Email already exists"
	case errors.Is(err, domain.ErrAuthorization):
		return "Only the author can edit this article"
	case errors.Is(err, domain.ErrNotFound):
		return "Article not found"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err. When
// fallbackMsg is set it replaces the generic 500 message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMsg != "" {
		msg = fallbackMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}

func validationMessage(err *domain.ValidationError) string {
	if err.Field == "" {
		return "Validation error"
	}
	return fmt.Sprintf("Invalid %s: %s", err.Field, err.Message)
}

// SanitizeValidationError turns validator output into a message naming the
// first failing field, without echoing struct names or values.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation error"
	}
	fe := fieldErrs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), validationTagMessage(fe.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "url", "http_url":
		return "invalid URL"
	default:
		return "validation failed"
	}
}
