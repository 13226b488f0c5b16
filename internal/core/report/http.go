// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/trackbook/internal/platform/middleware"
	requestutil "github.com/taibuivan/trackbook/internal/platform/request"
	"github.com/taibuivan/trackbook/internal/platform/respond"
)

// Handler implements the HTTP layer for reports.
type Handler struct {
	service *Service
}

// NewHandler constructs a report [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the report endpoints.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Route("/reports", func(reports chi.Router) {
		reports.Use(middleware.RequireAuth)
		reports.Get("/overview", handler.Overview)
	})
}

/*
GET /api/v1/reports/overview.

Description: Returns the caller's progress overview.

Response:
  - 200: Overview
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) Overview(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	overview, err := handler.service.Overview(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, overview)
}
