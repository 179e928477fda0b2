package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/phrazzld/quill-api/internal/config"
	"github.com/phrazzld/quill-api/internal/service/article"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(mode article.AuthMode) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "error", ShutdownTimeoutSeconds: 1},
		Database: config.DatabaseConfig{
			Driver:                 config.DriverMemory,
			MaxOpenConns:           1,
			ConnMaxLifetimeMinutes: 1,
		},
		Auth: config.AuthConfig{
			JWTSecret:            "router-test-secret-that-is-long-enough",
			TokenLifetimeMinutes: 60,
			BCryptCost:           4,
		},
		Articles: config.ArticlesConfig{AuthMode: string(mode)},
		Metrics:  config.MetricsConfig{Enabled: true},
	}
}

func newTestServer(t *testing.T, mode article.AuthMode) *httptest.Server {
	t.Helper()
	app, err := newApplication(context.Background(), testConfig(mode), slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, err)
	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path string, body any) (int, []byte) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, data
}

func (c *client) register(email, password string) string {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/api/auth/register", map[string]string{"email": email, "password": password})
	require.Equal(c.t, http.StatusOK, status, string(body))
	var resp struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
	}
	require.NoError(c.t, json.Unmarshal(body, &resp))
	require.NotEmpty(c.t, resp.Token)
	require.NotEmpty(c.t, resp.ExpiresAt)
	return resp.Token
}

type articleJSON struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Text        string  `json:"text"`
	ImageURL    *string `json:"imageUrl"`
	Likes       int     `json:"likes"`
	PublishDate string  `json:"publishDate"`
	Author      any     `json:"author"`
}

func decodeArticle(t *testing.T, body []byte) articleJSON {
	t.Helper()
	var a articleJSON
	require.NoError(t, json.Unmarshal(body, &a), string(body))
	return a
}

func TestArticleFlowWithAuthRequired(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, article.ModeRequired)
	anon := &client{t: t, base: srv.URL}
	ada := &client{t: t, base: srv.URL}
	bob := &client{t: t, base: srv.URL}

	ada.token = ada.register("ada@example.com", "secret1")
	bob.token = bob.register("bob@example.com", "secret2")

	// Duplicate email and bad login are both 400.
	status, _ := anon.do(http.MethodPost, "/api/auth/register", map[string]string{"email": "ADA@example.com", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = anon.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ada@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = anon.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ada@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, status)

	newArticle := map[string]string{"title": "Hello", "description": "First", "text": "Body"}

	status, _ = anon.do(http.MethodPost, "/api/articles", newArticle)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := ada.do(http.MethodPost, "/api/articles", newArticle)
	require.Equal(t, http.StatusOK, status, string(body))
	created := decodeArticle(t, body)
	assert.Equal(t, 0, created.Likes)
	assert.IsType(t, "", created.Author)

	status, _ = ada.do(http.MethodPost, "/api/articles", map[string]string{"title": "x", "text": "y"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = anon.do(http.MethodPost, "/api/articles/"+created.ID+"/like", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, body = bob.do(http.MethodPost, "/api/articles/"+created.ID+"/like", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, decodeArticle(t, body).Likes)

	status, _ = bob.do(http.MethodPut, "/api/articles/"+created.ID, map[string]string{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = ada.do(http.MethodPut, "/api/articles/"+created.ID, map[string]any{"title": "Edited", "likes": 100})
	require.Equal(t, http.StatusOK, status)
	edited := decodeArticle(t, body)
	assert.Equal(t, "Edited", edited.Title)
	assert.Equal(t, "First", edited.Description)
	assert.Equal(t, 1, edited.Likes)

	status, _ = ada.do(http.MethodPut, "/api/articles/"+created.ID, map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = anon.do(http.MethodGet, "/api/articles?expand=author", nil)
	require.Equal(t, http.StatusOK, status)
	var list []articleJSON
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	author, ok := list[0].Author.(map[string]any)
	require.True(t, ok, "author should be expanded")
	assert.Equal(t, created.Author, author["id"])
	assert.Equal(t, "ada@example.com", author["email"])

	status, _ = ada.do(http.MethodPost, "/api/articles/not-a-uuid/like", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = ada.do(http.MethodPost, "/api/articles/00000000-0000-4000-8000-000000000000/like", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestArticleFlowWithAuthDisabled(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, article.ModeDisabled)
	anon := &client{t: t, base: srv.URL}

	status, body := anon.do(http.MethodPost, "/api/articles", map[string]string{"title": "T", "description": "D", "text": "X"})
	require.Equal(t, http.StatusOK, status, string(body))
	created := decodeArticle(t, body)
	assert.Nil(t, created.Author)

	status, body = anon.do(http.MethodPut, "/api/articles/"+created.ID, map[string]string{"title": "Anyone may edit"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Anyone may edit", decodeArticle(t, body).Title)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/articles/"+created.ID+"/like", nil)
			if err != nil {
				return
			}
			resp, err := http.DefaultClient.Do(req)
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	status, body = anon.do(http.MethodGet, "/api/articles?sort=likes", nil)
	require.Equal(t, http.StatusOK, status)
	var list []articleJSON
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, 50, list[0].Likes)
}

func TestOperationalEndpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, article.ModeRequired)
	c := &client{t: t, base: srv.URL}

	status, body := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", string(body))

	status, body = c.do(http.MethodGet, "/api/articles", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, body = c.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "quill_http_requests_total")
}

func TestErrorBodyCarriesTraceID(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, article.ModeRequired)
	resp, err := http.Post(srv.URL+"/api/auth/login", "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body struct {
		Error   string `json:"error"`
		TraceID string `json:"trace_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Invalid request format", body.Error)
	assert.NotEmpty(t, body.TraceID)
	assert.Equal(t, resp.Header.Get("X-Trace-Id"), body.TraceID)
}

func TestNewApplicationRejectsBadConfig(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewJSONHandler(io.Discard, nil))

	cfg := testConfig(article.ModeRequired)
	cfg.Auth.JWTSecret = "short"
	_, err := newApplication(context.Background(), cfg, log)
	assert.Error(t, err)

	cfg = testConfig("sometimes")
	_, err = newApplication(context.Background(), cfg, log)
	assert.Error(t, err)

	cfg = testConfig(article.ModeRequired)
	cfg.Database.Driver = "sqlite"
	_, err = newApplication(context.Background(), cfg, log)
	assert.Error(t, err)
}

func TestPrintRoutes(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	require.NoError(t, printRoutes(context.Background(), testConfig(article.ModeRequired), &out, log))

	assert.Contains(t, out.String(), "/articles/{id}/like")
	assert.Contains(t, out.String(), "/auth/register")
	assert.Contains(t, out.String(), "/health")
}
