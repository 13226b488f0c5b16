// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan

import "context"

// # Plan Data Access

// Repository is the reading-plan backend as seen by this package. The caller's
// identity travels in the context.
type Repository interface {

	/*
		ListByUser returns every plan of a user, without assignments.

		Parameters:
		  - ctx: context.Context (carries the caller's access token)
		  - userID: string (backend user id)

		Returns:
		  - []Plan: The user's plans in backend order
		  - error: Upstream failures
	*/
	ListByUser(ctx context.Context, userID string) ([]Plan, error)

	/*
		FindByID returns a plan with all of its assignments.

		Returns:
		  - *PlanWithDetails: The plan
		  - error: apperr NOT_FOUND if the plan does not exist
	*/
	FindByID(ctx context.Context, planID int) (*PlanWithDetails, error)

	// Create asks the backend to generate a plan and its assignments.
	Create(ctx context.Context, input CreatePlanInput) (*Plan, error)

	// Update replaces the editable fields of a plan.
	Update(ctx context.Context, planID int, input UpdatePlanInput) (*Plan, error)

	// Delete removes a plan.
	Delete(ctx context.Context, planID int) error

	/*
		MarkChaptersRead marks assignments of a plan as read.

		Returns:
		  - *MarkReadResult: New overall progress and the patched assignments
		  - error: Upstream failures
	*/
	MarkChaptersRead(ctx context.Context, planID int, request MarkReadRequest) (*MarkReadResult, error)
}

// # Plan Cache

// Cache keeps recently fetched plans per user so that re-deriving a view (a
// day selection, a refresh) does not cost an upstream round-trip.
type Cache interface {
	// Get returns the cached plan and whether it was present.
	Get(ctx context.Context, userID string, planID int) (*PlanWithDetails, bool, error)

	// Set stores plan for userID.
	Set(ctx context.Context, userID string, plan *PlanWithDetails) error

	// Invalidate drops the cached copy of a plan.
	Invalidate(ctx context.Context, userID string, planID int) error
}

// NopCache is a [Cache] that never stores anything.
type NopCache struct{}

// Get implements [Cache].
func (NopCache) Get(context.Context, string, int) (*PlanWithDetails, bool, error) {
	return nil, false, nil
}

// Set implements [Cache].
func (NopCache) Set(context.Context, string, *PlanWithDetails) error { return nil }

// Invalidate implements [Cache].
func (NopCache) Invalidate(context.Context, string, int) error { return nil }
