// Copyright (c) 2026 Vivi Sews. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It is the composition root for the chi router; cmd/api builds the
    dependencies and hands them over through [Handlers].
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vivisews/vivisews/internal/inventory/fabric"
	"github.com/vivisews/vivisews/internal/inventory/pattern"
	"github.com/vivisews/vivisews/internal/inventory/project"
	"github.com/vivisews/vivisews/internal/platform/config"
	"github.com/vivisews/vivisews/internal/platform/constants"
	"github.com/vivisews/vivisews/internal/platform/metrics"
	"github.com/vivisews/vivisews/internal/platform/middleware"
	"github.com/vivisews/vivisews/internal/upload"
	"github.com/vivisews/vivisews/internal/users/account"
	"github.com/vivisews/vivisews/internal/users/admin"
	"github.com/vivisews/vivisews/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler, always 200 while the process is up.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 only when Postgres and Redis answer.
	Readiness http.HandlerFunc

	// Auth, Account, and Admin share the /api/auth prefix.
	Auth    *auth.Handler
	Account *account.Handler
	Admin   *admin.Handler

	Fabric  *fabric.Handler
	Project *project.Handler
	Pattern *pattern.Handler
	Upload  *upload.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. The rate limiter's cleanup stops with context.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, collector *metrics.Metrics, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := Router(context, cfg, log, collector, verifier, h)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Router builds the routing tree without an [http.Server] around it.
func Router(context context.Context, cfg *config.Config, log *slog.Logger, collector *metrics.Metrics, verifier middleware.TokenVerifier, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.Metrics(collector))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.NewRateLimiter(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst).Handler)
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", collector.Handler())

	// # Application API
	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(authRouter chi.Router) {
			h.Auth.RegisterRoutes(authRouter)
			h.Account.RegisterRoutes(authRouter)
			h.Admin.RegisterRoutes(authRouter)
		})

		api.Mount("/fabrics", h.Fabric.Routes())
		api.Mount("/projects", h.Project.Routes())
		api.Mount("/patterns", h.Pattern.Routes())
		api.Mount("/upload", h.Upload.Routes())
	})

	r.Handle("/uploads/*", h.Upload.Files())

	return r
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
