// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Trackbook web server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis (sessions and plan cache).
//  4. Build the reading-plan backend client.
//  5. Wire domain services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/trackbook/internal/api"
	"github.com/taibuivan/trackbook/internal/core/dashboard"
	"github.com/taibuivan/trackbook/internal/core/plan"
	"github.com/taibuivan/trackbook/internal/core/report"
	"github.com/taibuivan/trackbook/internal/platform/config"
	"github.com/taibuivan/trackbook/internal/platform/constants"
	redisstore "github.com/taibuivan/trackbook/internal/platform/redis"
	"github.com/taibuivan/trackbook/internal/platform/remote"
	"github.com/taibuivan/trackbook/internal/platform/sec"
	"github.com/taibuivan/trackbook/internal/platform/session"
	"github.com/taibuivan/trackbook/internal/users/auth"
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

	location, err := cfg.Location()
	must(log, err, "load timezone")

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("timezone", location.String()),
		slog.String("remote_api", cfg.RemoteAPIURL),
	)

	// Root context for background work; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 4. Backend Client ─────────────────────────────────────────────────
	backend, err := remote.NewClient(remote.Options{
		BaseURL: cfg.RemoteAPIURL,
		Timeout: cfg.RemoteTimeout,
		Retries: cfg.RemoteRetries,
	}, log)
	must(log, err, "build backend client")

	inspector := sec.NewTokenInspector()

	// ── 5. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
		CheckUpstream: backend.Reachable,
	}, log)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(auth.NewRemoteGateway(backend), session.NewRedisFactory(rdb, cfg.SessionTTL), inspector, log)
	planService := plan.NewService(plan.NewRemoteRepository(backend), plan.NewRedisCache(rdb, cfg.PlanCacheTTL), location, log)
	reportService := report.NewService(report.NewRemoteRepository(backend), log)
	dashboardService := dashboard.NewService(planService, reportService, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth: auth.NewHandler(authService, auth.CookieOptions{
			Secure: !cfg.IsDevelopment(),
			MaxAge: cfg.SessionTTL,
		}),
		Plan:      plan.NewHandler(planService),
		Report:    report.NewHandler(reportService),
		Dashboard: dashboard.NewHandler(dashboardService),
	}

	if cfg.StaticDir != "" {
		if info, statErr := os.Stat(cfg.StaticDir); statErr == nil && info.IsDir() {
			handlers.Static = api.NewSPAHandler(os.DirFS(cfg.StaticDir))
			log.Info("static_serving_enabled", slog.String("dir", cfg.StaticDir))
		} else {
			log.Warn("static_dir_missing", slog.String("dir", cfg.StaticDir))
		}
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, inspector, authService, handlers)

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
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_start_failed", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// Only used during startup wiring.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
