package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/quill-api/internal/api/shared"
	"github.com/phrazzld/quill-api/internal/platform/logger"
	"github.com/phrazzld/quill-api/internal/service/auth"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	authService auth.Service
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	logger.FromContextOrDefault(r.Context(), slog.Default()).
		Info("user registered", "user_id", result.UserID)
	shared.RespondWithJSON(w, r, http.StatusOK, toAuthResponse(result))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toAuthResponse(result))
}

func toAuthResponse(result *auth.TokenResult) AuthResponse {
	return AuthResponse{
		UserID:    result.UserID,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
