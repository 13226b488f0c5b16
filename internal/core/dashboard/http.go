// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/trackbook/internal/platform/middleware"
	requestutil "github.com/taibuivan/trackbook/internal/platform/request"
	"github.com/taibuivan/trackbook/internal/platform/respond"
)

// Handler serves the dashboard.
type Handler struct {
	service *Service
}

// NewHandler constructs a dashboard [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches GET /dashboard.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.With(middleware.RequireAuth).Get("/dashboard", handler.Get)
}

/*
GET /api/v1/dashboard.

Response:
  - 200: Dashboard (report is null when the overview is unavailable)
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	dashboard, err := handler.service.Load(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, dashboard)
}
