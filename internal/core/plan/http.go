// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/trackbook/internal/platform/middleware"
	requestutil "github.com/taibuivan/trackbook/internal/platform/request"
	"github.com/taibuivan/trackbook/internal/platform/respond"
	"github.com/taibuivan/trackbook/pkg/pagination"
)

const (
	paramPlanID = "planID"
	queryDay    = "day"
	resource    = "Plan"
)

// # Handler Implementation

// Handler implements the HTTP layer for plans and their progress.
type Handler struct {
	service *Service
}

// NewHandler constructs a new plan [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the plan endpoints. Every route requires a signed-in user.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Route("/plans", func(plans chi.Router) {
		plans.Use(middleware.RequireAuth)

		plans.Get("/", handler.ListPlans)
		plans.Post("/", handler.CreatePlan)
		plans.Get("/{planID}", handler.GetPlan)
		plans.Put("/{planID}", handler.UpdatePlan)
		plans.Delete("/{planID}", handler.DeletePlan)
		plans.Get("/{planID}/progress", handler.GetProgress)
		plans.Post("/{planID}/chapters/mark-read", handler.MarkChaptersRead)
	})
}

// # Plan Retrieval

/*
GET /api/v1/plans.

Description: Lists the caller's plans with rounded progress and colour band.

Request:
  - page: int
  - limit: int

Response:
  - 200: []Card: Paginated list
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) ListPlans(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cards, meta, err := handler.service.ListPlans(request.Context(), userID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, cards, meta)
}

/*
GET /api/v1/plans/{planID}.

Response:
  - 200: PlanWithDetails: The plan and all assignments
  - 404: ErrNotFound: Plan not found
*/
func (handler *Handler) GetPlan(writer http.ResponseWriter, request *http.Request) {
	userID, planID, ok := handler.identify(writer, request)
	if !ok {
		return
	}

	plan, err := handler.service.GetPlan(request.Context(), userID, planID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, plan)
}

/*
GET /api/v1/plans/{planID}/progress.

Description: Returns the day-grouped progress view with one expanded day.

Request:
  - day: int (optional explicit selection; unknown days keep the default focus)

Response:
  - 200: ProgressView
  - 400: Validation: day is not an integer
  - 404: ErrNotFound: Plan not found
*/
func (handler *Handler) GetProgress(writer http.ResponseWriter, request *http.Request) {
	userID, planID, ok := handler.identify(writer, request)
	if !ok {
		return
	}

	day, err := requestutil.OptionalIntQuery(request, queryDay)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.GetProgress(request.Context(), userID, planID, day)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// # Plan Mutations

/*
POST /api/v1/plans.

Request:
  - body: CreatePlanInput

Response:
  - 201: Plan: The generated plan
  - 400: Validation: Invalid payload
*/
func (handler *Handler) CreatePlan(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreatePlanInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	plan, err := handler.service.CreatePlan(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, plan)
}

/*
PUT /api/v1/plans/{planID}.

Request:
  - body: UpdatePlanInput

Response:
  - 200: Plan: The updated plan
  - 400: Validation: Invalid payload
  - 404: ErrNotFound: Plan not found
*/
func (handler *Handler) UpdatePlan(writer http.ResponseWriter, request *http.Request) {
	userID, planID, ok := handler.identify(writer, request)
	if !ok {
		return
	}

	var input UpdatePlanInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	plan, err := handler.service.UpdatePlan(request.Context(), userID, planID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, plan)
}

/*
DELETE /api/v1/plans/{planID}.

Response:
  - 204: No content
  - 404: ErrNotFound: Plan not found
*/
func (handler *Handler) DeletePlan(writer http.ResponseWriter, request *http.Request) {
	userID, planID, ok := handler.identify(writer, request)
	if !ok {
		return
	}

	if err := handler.service.DeletePlan(request.Context(), userID, planID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/plans/{planID}/chapters/mark-read.

Request:
  - body: MarkReadRequest

Response:
  - 200: MarkReadOutcome: Backend message and re-derived progress
  - 400: Validation: minutes, difficulty or ids invalid
*/
func (handler *Handler) MarkChaptersRead(writer http.ResponseWriter, request *http.Request) {
	userID, planID, ok := handler.identify(writer, request)
	if !ok {
		return
	}

	var input MarkReadRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	outcome, err := handler.service.MarkChaptersRead(request.Context(), userID, planID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, outcome)
}

// identify resolves the caller and the {planID} segment, answering the error itself.
func (handler *Handler) identify(writer http.ResponseWriter, request *http.Request) (string, int, bool) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return "", 0, false
	}

	planID, err := requestutil.IntParam(request, paramPlanID, resource)
	if err != nil {
		respond.Error(writer, request, err)
		return "", 0, false
	}

	return userID, planID, true
}
