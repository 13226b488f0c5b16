// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/taibuivan/trackbook/internal/platform/validate"
	"github.com/taibuivan/trackbook/pkg/pagination"
	"github.com/taibuivan/trackbook/pkg/pointer"
	"github.com/taibuivan/trackbook/pkg/slice"
)

// Field names reported in validation errors.
const (
	FieldTitle               = "title"
	FieldDescription         = "description"
	FieldBookID              = "book_id"
	FieldStartDate           = "start_date"
	FieldEndDate             = "end_date"
	FieldPagesPerDay         = "pages_per_day"
	FieldMinutesPerDay       = "minutes_per_day"
	FieldAssignmentIDs       = "assignment_ids"
	FieldActualMinutes       = "actual_minutes"
	FieldPerceivedDifficulty = "perceived_difficulty"
	FieldNotes               = "notes"
)

// Form limits.
const (
	titleMinLen       = 3
	titleMaxLen       = 100
	descriptionMaxLen = 500
	notesMaxLen       = 1000
	maxPagesPerDay    = 500
	maxMinutesPerDay  = 1440
	minDifficulty     = 1
	maxDifficulty     = 5
)

// # Service Layer

// Service orchestrates plan reads, writes and progress derivation.
type Service struct {
	repository Repository
	cache      Cache
	location   *time.Location
	now        func() time.Time
	logger     *slog.Logger
}

/*
NewService constructs a [Service].

Parameters:
  - repository: Repository (the reading-plan backend)
  - cache: Cache (use NopCache{} to disable caching)
  - location: *time.Location deciding which calendar day is "today"
  - logger: *slog.Logger
*/
func NewService(repository Repository, cache Cache, location *time.Location, logger *slog.Logger) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repository: repository,
		cache:      cache,
		location:   location,
		now:        time.Now,
		logger:     logger,
	}
}

// Today returns the current time in the service's location.
func (service *Service) Today() time.Time {
	return service.now().In(service.location)
}

// # Queries

/*
ListPlans returns one page of the user's plans as cards.

Parameters:
  - context: context.Context
  - userID: string
  - params: pagination.Params

Returns:
  - []Card: The requested page
  - pagination.Meta: Page metadata over the full list
  - error: Upstream failures
*/
func (service *Service) ListPlans(context context.Context, userID string, params pagination.Params) ([]Card, pagination.Meta, error) {
	plans, err := service.repository.ListByUser(context, userID)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	cards, meta := pagination.Slice(slice.Map(plans, CardOf), params)
	return cards, meta, nil
}

/*
GetPlan returns a plan with its assignments, served from the cache when fresh.

Cache failures are logged and fall through to the backend.
*/
func (service *Service) GetPlan(context context.Context, userID string, planID int) (*PlanWithDetails, error) {
	cached, ok, err := service.cache.Get(context, userID, planID)
	if err != nil {
		service.logger.WarnContext(context, "plan_cache_unavailable", slog.String("error", err.Error()))
	}
	if ok {
		return cached, nil
	}

	plan, err := service.repository.FindByID(context, planID)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(context, userID, plan); err != nil {
		service.logger.WarnContext(context, "plan_cache_unavailable", slog.String("error", err.Error()))
	}

	return plan, nil
}

/*
GetProgress derives the progress view of a plan.

Parameters:
  - focusDay: *int (an explicit day selection; nil applies the initial focus rule)
*/
func (service *Service) GetProgress(context context.Context, userID string, planID int, focusDay *int) (*ProgressView, error) {
	plan, err := service.GetPlan(context, userID, planID)
	if err != nil {
		return nil, err
	}

	view := Derive(*plan, service.Today(), focusDay)
	return &view, nil
}

// # Commands

// CreatePlan validates input and asks the backend to generate the plan.
func (service *Service) CreatePlan(context context.Context, userID string, input CreatePlanInput) (*Plan, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MinLen(FieldTitle, input.Title, titleMinLen).
		MaxLen(FieldTitle, input.Title, titleMaxLen).
		MaxLen(FieldDescription, input.Description, descriptionMaxLen).
		Positive(FieldBookID, input.BookID).
		RequiredTime(FieldStartDate, input.StartDate.Time).
		RequiredTime(FieldEndDate, input.EndDate.Time).
		Custom(FieldEndDate, !input.StartDate.IsZero() && input.EndDate.Before(input.StartDate.Time), "Must not be before the start date")
	validateDailyTargets(validator, input.PagesPerDay, input.MinutesPerDay)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	plan, err := service.repository.Create(context, input)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "plan_created",
		slog.Int("plan_id", plan.ID),
		slog.String("user_id", userID),
	)

	return plan, nil
}

// UpdatePlan validates input, updates the plan and drops the cached copy.
func (service *Service) UpdatePlan(context context.Context, userID string, planID int, input UpdatePlanInput) (*Plan, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MinLen(FieldTitle, input.Title, titleMinLen).
		MaxLen(FieldTitle, input.Title, titleMaxLen).
		MaxLen(FieldDescription, pointer.Val(input.Description), descriptionMaxLen).
		RequiredTime(FieldEndDate, input.EndDate.Time)
	validateDailyTargets(validator, input.PagesPerDay, input.MinutesPerDay)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	plan, err := service.repository.Update(context, planID, input)
	if err != nil {
		return nil, err
	}

	service.invalidate(context, userID, planID)
	service.logger.InfoContext(context, "plan_updated", slog.Int("plan_id", planID))

	return plan, nil
}

// DeletePlan removes a plan and its cached copy.
func (service *Service) DeletePlan(context context.Context, userID string, planID int) error {
	if err := service.repository.Delete(context, planID); err != nil {
		return err
	}

	service.invalidate(context, userID, planID)
	service.logger.InfoContext(context, "plan_deleted", slog.Int("plan_id", planID))

	return nil
}

// MarkReadOutcome is the confirmation message plus the re-derived view.
type MarkReadOutcome struct {
	Message string       `json:"message"`
	View    ProgressView `json:"progress"`
}

/*
MarkChaptersRead records reading of one or more assignments.

Description: Validates the form (minutes > 0, difficulty 1..5 defaulting to 1),
forwards it, then merges the confirmation into the cached plan. Without a
cached copy the plan is fetched again. The returned view keeps the day of the
first marked assignment expanded.

Returns:
  - *MarkReadOutcome: Backend message and the new progress view
  - error: Validation or upstream failures
*/
func (service *Service) MarkChaptersRead(context context.Context, userID string, planID int, request MarkReadRequest) (*MarkReadOutcome, error) {
	if request.PerceivedDifficulty == 0 {
		request.PerceivedDifficulty = minDifficulty
	}

	validator := &validate.Validator{}
	validator.Custom(FieldAssignmentIDs, len(request.AssignmentIDs) == 0, "Select at least one chapter").
		Custom(FieldAssignmentIDs, slices.ContainsFunc(request.AssignmentIDs, func(id int) bool { return id <= 0 }), "Chapter identifiers must be positive").
		Positive(FieldActualMinutes, request.ActualMinutes).
		Range(FieldPerceivedDifficulty, request.PerceivedDifficulty, minDifficulty, maxDifficulty).
		MaxLen(FieldNotes, request.Notes, notesMaxLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	result, err := service.repository.MarkChaptersRead(context, planID, request)
	if err != nil {
		service.invalidate(context, userID, planID)
		return nil, err
	}

	plan, err := service.mergeOrReload(context, userID, planID, *result)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "plan_marked_read",
		slog.Int("plan_id", planID),
		slog.Int("assignments", len(request.AssignmentIDs)),
		slog.Float64("new_progress", result.NewProgress),
	)

	var focusDay *int
	if index := slices.IndexFunc(plan.Assignments, func(assignment ReadingAssignment) bool {
		return assignment.ID == request.AssignmentIDs[0]
	}); index >= 0 {
		focusDay = pointer.To(plan.Assignments[index].Day)
	}

	return &MarkReadOutcome{
		Message: result.Message,
		View:    Derive(*plan, service.Today(), focusDay),
	}, nil
}

// mergeOrReload patches the cached plan with result, or refetches it.
func (service *Service) mergeOrReload(context context.Context, userID string, planID int, result MarkReadResult) (*PlanWithDetails, error) {
	cached, ok, err := service.cache.Get(context, userID, planID)
	if err != nil || !ok {
		service.invalidate(context, userID, planID)
		return service.GetPlan(context, userID, planID)
	}

	merged := ApplyMarkReadResult(*cached, result)
	if err := service.cache.Set(context, userID, &merged); err != nil {
		service.logger.WarnContext(context, "plan_cache_unavailable", slog.String("error", err.Error()))
	}

	return &merged, nil
}

func (service *Service) invalidate(context context.Context, userID string, planID int) {
	if err := service.cache.Invalidate(context, userID, planID); err != nil {
		service.logger.WarnContext(context, "plan_cache_unavailable", slog.String("error", err.Error()))
	}
}

func validateDailyTargets(validator *validate.Validator, pagesPerDay, minutesPerDay *int) {
	if pagesPerDay != nil {
		validator.Range(FieldPagesPerDay, *pagesPerDay, 1, maxPagesPerDay)
	}
	if minutesPerDay != nil {
		validator.Range(FieldMinutesPerDay, *minutesPerDay, 1, maxMinutesPerDay)
	}
}
