// Copyright (c) 2026 Vivi Sews. All rights reserved.

package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/ctxutil"
	"github.com/vivisews/vivisews/internal/platform/metrics"
	"github.com/vivisews/vivisews/internal/platform/middleware"
	"github.com/vivisews/vivisews/internal/platform/sec"
)

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

type stubVerifier struct {
	claims *sec.AuthClaims
	err    error
	seen   string
}

func (stub *stubVerifier) VerifyToken(_ context.Context, token string) (*sec.AuthClaims, error) {
	stub.seen = token
	return stub.claims, stub.err
}

func TestRequestID(t *testing.T) {
	var captured string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		captured = ctxutil.GetRequestID(request.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, captured)
		assert.Equal(t, captured, recorder.Header().Get("X-Request-ID"))
	})

	t.Run("propagated", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Request-ID", "abc-123")
		handler.ServeHTTP(httptest.NewRecorder(), request)
		assert.Equal(t, "abc-123", captured)
	})
}

func TestAuthenticate(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "u-1", Role: "user"}

	tests := []struct {
		name       string
		header     string
		verifier   *stubVerifier
		wantStatus int
		wantUser   bool
	}{
		{"anonymous", "", &stubVerifier{}, http.StatusOK, false},
		{"valid", "Bearer tok", &stubVerifier{claims: claims}, http.StatusOK, true},
		{"lowercase_scheme", "bearer tok", &stubVerifier{claims: claims}, http.StatusOK, true},
		{"bad_format", "Token tok", &stubVerifier{claims: claims}, http.StatusUnauthorized, false},
		{"missing_token", "Bearer ", &stubVerifier{claims: claims}, http.StatusUnauthorized, false},
		{"rejected", "Bearer tok", &stubVerifier{err: errors.New("revoked")}, http.StatusUnauthorized, false},
		{"store_down", "Bearer tok", &stubVerifier{err: apperr.Internal(errors.New("redis"))}, http.StatusInternalServerError, false},
		{"account_suspended", "Bearer tok", &stubVerifier{err: apperr.Forbidden("Account has been suspended")}, http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser *sec.AuthClaims
			handler := middleware.Authenticate(tt.verifier)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				gotUser = ctxutil.GetAuthUser(request.Context())
				writer.WriteHeader(http.StatusOK)
			}))

			request := httptest.NewRequest(http.MethodGet, "/api/fabrics", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantUser, gotUser != nil)
			if tt.wantUser {
				assert.Equal(t, "tok", tt.verifier.seen)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := middleware.RequireRole(sec.RoleAdmin)(okHandler)

	serve := func(claims *sec.AuthClaims) int {
		request := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		if claims != nil {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
		}
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&sec.AuthClaims{UserID: "u", Role: "user"}))
	assert.Equal(t, http.StatusOK, serve(&sec.AuthClaims{UserID: "a", Role: "admin"}))
}

func TestRequireAuth(t *testing.T) {
	recorder := httptest.NewRecorder()
	middleware.RequireAuth(okHandler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := middleware.NewRateLimiter(ctx, 1, 2)
	handler := limiter.Handler(okHandler)

	codes := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.7:5555"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A different client has its own bucket.
	assert.True(t, limiter.Allow("10.0.0.8"))
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Internal server error")
}

type corsConfig struct {
	dev     bool
	origins []string
}

func (c corsConfig) IsDevelopment() bool { return c.dev }
func (c corsConfig) Origins() []string   { return c.origins }

func TestCORS(t *testing.T) {
	serve := func(cfg corsConfig, origin, method string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, "/api/fabrics", nil)
		request.Header.Set("Origin", origin)
		if method == http.MethodOptions {
			request.Header.Set("Access-Control-Request-Method", http.MethodPost)
		}
		recorder := httptest.NewRecorder()
		middleware.CORS(cfg)(okHandler).ServeHTTP(recorder, request)
		return recorder
	}

	prod := corsConfig{origins: []string{"https://vivisews.app"}}

	allowed := serve(prod, "https://vivisews.app", http.MethodGet)
	assert.Equal(t, "https://vivisews.app", allowed.Header().Get("Access-Control-Allow-Origin"))

	denied := serve(prod, "https://evil.example", http.MethodGet)
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))

	dev := serve(corsConfig{dev: true}, "http://localhost:5173", http.MethodGet)
	assert.Equal(t, "http://localhost:5173", dev.Header().Get("Access-Control-Allow-Origin"))

	preflight := serve(prod, "https://vivisews.app", http.MethodOptions)
	assert.Equal(t, http.StatusNoContent, preflight.Code)
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.168.1.4:1234"
	assert.Equal(t, "192.168.1.4", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", middleware.RealIP(request))
}

func TestMetricsAndLogger_UseRoutePattern(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewWithRegistry("vivisews-api", registry, registry)

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	router := chi.NewRouter()
	router.Use(middleware.StructuredLogger(logger), middleware.Metrics(collector))
	router.With(middleware.Authenticate(&stubVerifier{claims: &sec.AuthClaims{UserID: "u-9", Role: "user"}})).
		Get("/api/fabrics/{id}", okHandler)

	request := httptest.NewRequest(http.MethodGet, "/api/fabrics/42", nil)
	request.Header.Set("Authorization", "Bearer tok")
	router.ServeHTTP(httptest.NewRecorder(), request)

	scrape := httptest.NewRecorder()
	collector.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(), `route="/api/fabrics/{id}"`)

	assert.Contains(t, logs.String(), `"msg":"http_request_finished"`)
	assert.Contains(t, logs.String(), `"user_id":"u-9"`)
}
