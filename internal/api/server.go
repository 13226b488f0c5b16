// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/trackbook/internal/core/dashboard"
	"github.com/taibuivan/trackbook/internal/core/plan"
	"github.com/taibuivan/trackbook/internal/core/report"
	"github.com/taibuivan/trackbook/internal/platform/apperr"
	"github.com/taibuivan/trackbook/internal/platform/config"
	"github.com/taibuivan/trackbook/internal/platform/constants"
	"github.com/taibuivan/trackbook/internal/platform/middleware"
	"github.com/taibuivan/trackbook/internal/platform/respond"
	"github.com/taibuivan/trackbook/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler, 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when Redis and the backend answer.
	Readiness http.HandlerFunc

	// Auth handles sign-in, registration and password reset.
	Auth *auth.Handler

	// Plan serves plans and their progress views.
	Plan *plan.Handler

	// Report serves the progress overview.
	Report *report.Handler

	// Dashboard serves the signed-in home page.
	Dashboard *dashboard.Handler

	// Static serves the single-page app. Nil disables it.
	Static http.Handler
}

// # Server Initialization

/*
NewServer constructs the chi router with the full middleware chain and
registers all route groups.

Parameters:
  - context: context.Context (bounds background work such as rate-limit cleanup)
  - cfg: *config.Config
  - log: *slog.Logger
  - verifier: middleware.TokenVerifier (reads upstream tokens)
  - sessions: middleware.SessionResolver (server-side sessions behind the cookie)
  - h: Handlers
*/
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, sessions middleware.SessionResolver, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(chimw.Timeout(constants.GlobalRequestTimeout))
		api.Use(middleware.Authenticate(verifier, sessions))

		api.NotFound(func(writer http.ResponseWriter, request *http.Request) {
			respond.Error(writer, request, apperr.NotFound("Route"))
		})

		api.Mount("/auth", h.Auth.Routes())
		h.Plan.RegisterRoutes(api)
		h.Report.RegisterRoutes(api)
		h.Dashboard.RegisterRoutes(api)
	})

	// # Single-Page App
	if h.Static != nil {
		r.NotFound(h.Static.ServeHTTP)
	}

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

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
