package shared_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/quill-api/internal/api/shared"
	"github.com/phrazzld/quill-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data any
		want string
	}{
		{name: "object", data: map[string]any{"likes": 3}, want: `{"likes":3}`},
		{name: "empty list", data: []string{}, want: `[]`},
		{name: "nil", data: nil, want: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			shared.RespondWithJSON(w, httptest.NewRequest("GET", "/", nil), http.StatusOK, tt.data)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestRespondWithErrorIncludesTraceID(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(shared.WithTraceID(r.Context(), "abc123"))
	w := httptest.NewRecorder()

	shared.RespondWithError(w, r, http.StatusNotFound, "Article not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, shared.ErrorResponse{Error: "Article not found", TraceID: "abc123"}, body)
}

func TestRespondWithErrorAndLogRedacts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r = r.WithContext(logger.WithLogger(r.Context(), log))
	w := httptest.NewRecorder()

	err := errors.New("dial postgres://quill:hunter22@db:5432/quill")
	shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "An unexpected error occurred", err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter22")
	assert.NotContains(t, w.Body.String(), "postgres")
	assert.NotContains(t, buf.String(), "hunter22")
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "[REDACTED_CREDENTIAL]")
}
