package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/config"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/metrics"
	"github.com/phrazzld/essaylab-api/internal/mocks"
	"github.com/phrazzld/essaylab-api/internal/quota"
	"github.com/phrazzld/essaylab-api/internal/service/auth"
	"github.com/phrazzld/essaylab-api/internal/vocabulary"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, userID uuid.UUID) *application {
	t.Helper()

	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)

	return &application{
		config: &config.Config{
			Server: config.ServerConfig{
				Port:           8080,
				LogLevel:       "info",
				AllowedOrigins: []string{"https://essaylab.example"},
			},
		},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		registry:   registry,
		jwtService: auth.NewMockJWTService(userID),
		quotaService: &mocks.MockQuotaService{
			GetStatusFn: func(context.Context, uuid.UUID) (*quota.Status, error) {
				return &quota.Status{Email: "writer@gmail.com", Tier: domain.TierFree}, nil
			},
		},
		referralService:  &mocks.MockReferralService{},
		flashcardService: &mocks.MockFlashcardService{},
		guestGate:        &mocks.MockGuestGate{},
	}
}

func doRequest(handler http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealth(t *testing.T) {
	router := newTestApp(t, uuid.New()).setupRouter()

	rec := doRequest(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Trace-Id"))
}

func TestRouterAuthenticatedRoutes(t *testing.T) {
	router := newTestApp(t, uuid.New()).setupRouter()

	rec := doRequest(router, http.MethodGet, "/api/quota", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/quota", "", map[string]string{
		"Authorization": "Bearer token",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tier":"free"`)
}

func TestRouterPublicRoutesSkipAuth(t *testing.T) {
	router := newTestApp(t, uuid.New()).setupRouter()

	rec := doRequest(router, http.MethodPost, "/api/guest/check", `{"fingerprint":"fp_abc"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hasUsed":false`)
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestApp(t, uuid.New()).setupRouter()

	rec := doRequest(router, http.MethodOptions, "/api/guest/check", "", map[string]string{
		"Origin":                        "https://essaylab.example",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "https://essaylab.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = doRequest(router, http.MethodOptions, "/api/guest/check", "", map[string]string{
		"Origin":                        "https://evil.example",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterVocabularyRouteRequiresGenerator(t *testing.T) {
	headers := map[string]string{"Authorization": "Bearer token"}
	path := "/api/essays/" + uuid.NewString() + "/vocabulary"

	app := newTestApp(t, uuid.New())
	rec := doRequest(app.setupRouter(), http.MethodPost, path, `{"text":"hello"}`, headers)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	app.vocabularyService = &mocks.MockVocabularyService{
		GenerateForEssayFn: func(context.Context, uuid.UUID, uuid.UUID, string) (*vocabulary.Result, error) {
			return &vocabulary.Result{}, nil
		},
	}
	rec = doRequest(app.setupRouter(), http.MethodPost, path, `{"text":"hello"}`, headers)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestApp(t, uuid.New()).setupRouter()

	_ = doRequest(router, http.MethodGet, "/health", "", nil)
	rec := doRequest(router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "essaylab_requests_total")
}
