// Copyright (c) 2026 Vivi Sews. All rights reserved.

// Command api is the entry point for the vivi.sews HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vivisews/vivisews/internal/api"
	"github.com/vivisews/vivisews/internal/inventory/fabric"
	"github.com/vivisews/vivisews/internal/inventory/pattern"
	"github.com/vivisews/vivisews/internal/inventory/project"
	"github.com/vivisews/vivisews/internal/platform/config"
	"github.com/vivisews/vivisews/internal/platform/constants"
	"github.com/vivisews/vivisews/internal/platform/events"
	"github.com/vivisews/vivisews/internal/platform/metrics"
	"github.com/vivisews/vivisews/internal/platform/migration"
	pgstore "github.com/vivisews/vivisews/internal/platform/postgres"
	redisstore "github.com/vivisews/vivisews/internal/platform/redis"
	"github.com/vivisews/vivisews/internal/platform/sec"
	"github.com/vivisews/vivisews/internal/upload"
	"github.com/vivisews/vivisews/internal/users/account"
	"github.com/vivisews/vivisews/internal/users/admin"
	"github.com/vivisews/vivisews/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("signup_policy", string(cfg.SignupPolicy)),
	)

	// Misconfiguration should fail fast rather than hang.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Cancelled on shutdown; stops background routines such as the rate limiter cleanup.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Shared Infrastructure ──────────────────────────────────────────
	tokens, err := newTokenService(cfg)
	must(log, err, "initialize token service")

	collector := metrics.New(constants.AppName)

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		amqpPublisher := events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue, log)
		defer func() {
			if cerr := amqpPublisher.Close(); cerr != nil {
				log.Error("amqp close error", slog.Any("error", cerr))
			}
		}()
		publisher = amqpPublisher
		log.Info("event_publishing_enabled", slog.String("queue", cfg.EventsQueue))
	}

	files, err := upload.NewDiskStore(cfg.UploadDir)
	must(log, err, "open upload directory")
	defer func() { _ = files.Close() }()

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	users := auth.NewUserRepository(pool)

	lockout := auth.LockoutPolicy{MaxAttempts: cfg.MaxLoginAttempts, Duration: cfg.LockoutDuration}

	authService := auth.NewService(users, auth.NewRevocationStore(rdb), tokens, auth.Options{
		SignupPolicy: cfg.SignupPolicy,
		AllowSignups: cfg.AllowSignups,
		TokenTTL:     cfg.TokenTTL,
		Lockout:      lockout,
		Publisher:    publisher,
		Metrics:      collector,
		Logger:       log,
	})
	accountService := account.NewService(users, account.Options{Lockout: lockout, Logger: log})
	adminService := admin.NewService(users, admin.Options{Publisher: publisher, Metrics: collector, Logger: log})

	fabricService := fabric.NewService(fabric.NewPostgresRepository(pool), fabric.Options{
		Publisher: publisher,
		Metrics:   collector,
		Logger:    log,
	})
	projectService := project.NewService(project.NewPostgresRepository(pool), log)
	patternService := pattern.NewService(pattern.NewPostgresRepository(pool), log)
	uploadService := upload.NewService(files, cfg.MaxUploadBytes, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
		Admin:     admin.NewHandler(adminService),
		Fabric:    fabric.NewHandler(fabricService),
		Project:   project.NewHandler(projectService),
		Pattern:   pattern.NewHandler(patternService),
		Upload:    upload.NewHandler(uploadService, files.FS(), cfg.PublicBaseURL),
	}

	server := api.NewServer(appCtx, cfg, log, collector, authService, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// newTokenService signs with RS256 when a key pair is configured and HS256 otherwise.
func newTokenService(cfg *config.Config) (*sec.TokenService, error) {
	if cfg.UsesRSAKeys() {
		return sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	}
	return sec.NewHMACTokenService(cfg.JWTSecret, constants.AuthIssuer)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
