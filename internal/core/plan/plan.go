// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package plan derives reading progress from a plan's daily chapter assignments.

A plan is divided into numbered days, each holding one or more chapter
assignments. The backend owns the plans; this package turns what it returns
into the view everyone renders:

  - Grouping: assignments are grouped by their day number, keeping input order.
  - Status: each day is completed, overdue, in-progress or pending.
  - Focus: exactly one day is expanded, chosen as the unfinished day closest to today.

# Architecture

The derivation ([GroupByDay], [DayStatus], [OrderedDays],
[SelectInitialFocusDay], [ApplyMarkAsRead], [Derive]) is pure and total: no I/O,
no errors, no mutation of inputs. [Service] wraps it with the remote
[Repository], the plan [Cache] and request validation.
*/
package plan

import "time"

// # Plan Aggregate

// Plan is a user's reading schedule for one book.
type Plan struct {
	ID              int     `json:"id"`
	UserID          string  `json:"user_id,omitempty"`
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	BookTitle       string  `json:"book_title,omitempty"`
	CoverURL        string  `json:"cover_url,omitempty"`
	StartDate       Date    `json:"start_date"`
	EndDate         Date    `json:"end_date"`
	IncludeWeekends bool    `json:"include_weekends"`
	PagesPerDay     int     `json:"pages_per_day,omitempty"`
	MinutesPerDay   int     `json:"minutes_per_day,omitempty"`
	Status          string  `json:"status,omitempty"`
	Progress        float64 `json:"progress"` // Overall percentage reported by the backend
}

// Chapter is the book chapter an assignment refers to.
type Chapter struct {
	ID             int    `json:"id"`
	Number         int    `json:"number"`
	Title          string `json:"title"`
	EstimatedPages int    `json:"estimated_pages"`
}

// ReadingAssignment is one chapter to read on one day of a plan.
type ReadingAssignment struct {
	ID               int     `json:"id"`
	PlanID           int     `json:"plan_id"`
	Chapter          Chapter `json:"chapter"`
	AssignedDate     Date    `json:"assigned_date"`
	Day              int     `json:"day"` // 1-based; independent of AssignedDate
	IsRead           bool    `json:"is_read"`
	IsOverdue        bool    `json:"is_overdue"` // Computed by the backend and trusted as-is
	StartPage        int     `json:"start_page"`
	EndPage          int     `json:"end_page"`
	EstimatedMinutes int     `json:"estimated_minutes"`

	// Completion metadata, present once IsRead is true.
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	ActualMinutes       *int       `json:"actual_minutes,omitempty"`
	PerceivedDifficulty *int       `json:"perceived_difficulty,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
}

// Pages returns the inclusive page count of the assignment.
func (assignment ReadingAssignment) Pages() int {
	if assignment.EndPage < assignment.StartPage {
		return 0
	}
	return assignment.EndPage - assignment.StartPage + 1
}

// PlanWithDetails is a plan together with all of its assignments.
type PlanWithDetails struct {
	Plan
	Assignments []ReadingAssignment `json:"assignments"`
}

// # Derived View

// Status is the aggregate state of one day.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusOverdue    Status = "overdue"
	StatusInProgress Status = "in-progress"
	StatusPending    Status = "pending"
)

// DayGroups maps a day number to its assignments in input order.
type DayGroups map[int][]ReadingAssignment

// DayView is one rendered day of a plan.
type DayView struct {
	Day          int                 `json:"day"`
	Status       Status              `json:"status"`
	StatusLabel  string              `json:"status_label"`
	AssignedDate Date                `json:"assigned_date"`
	ReadCount    int                 `json:"read_count"`
	Total        int                 `json:"total"`
	Expanded     bool                `json:"expanded"`
	Assignments  []ReadingAssignment `json:"assignments"`
}

// ProgressView is everything a presentation layer needs to render a plan.
type ProgressView struct {
	Plan       Plan           `json:"plan"`
	Today      Date           `json:"today"`
	Days       []DayView      `json:"days"`
	FocusDay   *int           `json:"focus_day"`
	Statistics PlanStatistics `json:"statistics"`
}

// # Commands

// CreatePlanInput carries the fields of a new plan.
type CreatePlanInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	BookID          int    `json:"book_id"`
	StartDate       Date   `json:"start_date"`
	EndDate         Date   `json:"end_date"`
	IncludeWeekends bool   `json:"include_weekends"`
	PagesPerDay     *int   `json:"pages_per_day"`
	MinutesPerDay   *int   `json:"minutes_per_day"`
}

// UpdatePlanInput carries the editable fields of a plan. Nil pointers are
// sent to the backend as null.
type UpdatePlanInput struct {
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	EndDate         Date    `json:"end_date"`
	IncludeWeekends bool    `json:"include_weekends"`
	PagesPerDay     *int    `json:"pages_per_day"`
	MinutesPerDay   *int    `json:"minutes_per_day"`
}

// MarkReadRequest marks one or more assignments of a plan as read.
type MarkReadRequest struct {
	AssignmentIDs       []int  `json:"assignment_ids"`
	ActualMinutes       int    `json:"actual_minutes"`
	PerceivedDifficulty int    `json:"perceived_difficulty"`
	Notes               string `json:"notes"`
}

// MarkReadResult is the backend's confirmation of a [MarkReadRequest].
type MarkReadResult struct {
	Message            string              `json:"message"`
	NewProgress        float64             `json:"new_progress"`
	UpdatedAssignments []ReadingAssignment `json:"updated_assignments"`
}

// ReadUpdate is the server-confirmed part of an assignment after marking it read.
type ReadUpdate struct {
	IsRead        bool
	CompletedAt   *time.Time
	ActualMinutes *int
	Notes         *string // nil leaves the current notes untouched
}

// ReadUpdateOf extracts the confirmed fields from an updated assignment.
func ReadUpdateOf(assignment ReadingAssignment) ReadUpdate {
	return ReadUpdate{
		IsRead:        assignment.IsRead,
		CompletedAt:   assignment.CompletedAt,
		ActualMinutes: assignment.ActualMinutes,
		Notes:         assignment.Notes,
	}
}
