package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/quill-api/internal/api/shared"
	"github.com/phrazzld/quill-api/internal/domain"
)

// decodeAndValidate reads the JSON body into v and runs tag validation,
// writing a 400 and returning false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// callerFromContext returns the authenticated caller, or uuid.Nil when the
// route is served without authentication.
func callerFromContext(r *http.Request) uuid.UUID {
	userID, _ := shared.GetUserID(r.Context())
	return userID
}

// getPathUUID parses the named chi path parameter as a UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", nil)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// wantsExpand reports whether the comma separated expand query parameter
// names field.
func wantsExpand(r *http.Request, field string) bool {
	for _, v := range strings.Split(r.URL.Query().Get("expand"), ",") {
		if strings.EqualFold(strings.TrimSpace(v), field) {
			return true
		}
	}
	return false
}
