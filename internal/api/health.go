// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/trackbook/internal/platform/constants"
	"github.com/taibuivan/trackbook/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckCache pings the Redis client.
	CheckCache func(ctx context.Context) error

	// CheckUpstream probes the reading-plan backend.
	CheckUpstream func(ctx context.Context) error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	checks := []struct {
		name  string
		check func(ctx context.Context) error
	}{
		{"redis", handler.dependencies.CheckCache},
		{"upstream", handler.dependencies.CheckUpstream},
	}

	results := make([]checkResult, 0, len(checks))
	isSystemReady := true

	for _, dependency := range checks {
		if dependency.check == nil {
			continue
		}

		result := checkResult{Name: dependency.name, IsOK: true}
		if err := dependency.check(request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", dependency.name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	responseStatus, httpStatus := "ready", http.StatusOK
	if !isSystemReady {
		responseStatus, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: responseStatus,
		constants.FieldChecks: results,
	}})
}
