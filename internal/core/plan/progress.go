// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan

import (
	"maps"
	"slices"
	"time"

	"github.com/taibuivan/trackbook/pkg/slice"
)

// # Grouping

// GroupByDay groups assignments by their day number. Inside a day the input
// order is kept. Days are taken verbatim, including zero or negative ones.
func GroupByDay(assignments []ReadingAssignment) DayGroups {
	groups := make(DayGroups)
	for _, assignment := range assignments {
		groups[assignment.Day] = append(groups[assignment.Day], assignment)
	}
	return groups
}

// OrderedDays returns the day numbers of groups in ascending order.
func OrderedDays(groups DayGroups) []int {
	return slices.Sorted(maps.Keys(groups))
}

// # Status

/*
DayStatus summarizes one day.

Precedence: completed > overdue > in-progress > pending. A day that is partly
read but has an overdue assignment reports overdue. An empty day is pending.
*/
func DayStatus(group []ReadingAssignment) Status {
	if len(group) == 0 {
		return StatusPending
	}

	read := slice.Count(group, func(assignment ReadingAssignment) bool { return assignment.IsRead })
	if read == len(group) {
		return StatusCompleted
	}

	if slices.ContainsFunc(group, func(assignment ReadingAssignment) bool { return assignment.IsOverdue }) {
		return StatusOverdue
	}

	if read > 0 {
		return StatusInProgress
	}

	return StatusPending
}

// # Focus Selection

/*
SelectInitialFocusDay picks the day to expand when a plan is opened.

Among the non-empty days that are not completed, it returns the one whose first
assignment's date is the fewest whole days away from today, in either
direction. Ties go to the lower day. When every day is completed it falls back
to the lowest day. It returns false only when there are no days at all.
*/
func SelectInitialFocusDay(groups DayGroups, today time.Time) (int, bool) {
	days := OrderedDays(groups)
	if len(days) == 0 {
		return 0, false
	}

	todayDate := DateOf(today)

	best, bestDistance, found := 0, 0, false
	for _, day := range days {
		group := groups[day]
		if len(group) == 0 || DayStatus(group) == StatusCompleted {
			continue
		}

		distance := abs(todayDate.DaysUntil(group[0].AssignedDate))
		if !found || distance < bestDistance {
			best, bestDistance, found = day, distance, true
		}
	}

	if found {
		return best, true
	}
	return days[0], true
}

// # Mark As Read

// ApplyMarkAsRead returns a copy of assignment with the server-confirmed read
// fields overwritten. Notes are replaced only when the update carries them.
func ApplyMarkAsRead(assignment ReadingAssignment, update ReadUpdate) ReadingAssignment {
	patched := assignment
	patched.IsRead = update.IsRead
	patched.CompletedAt = update.CompletedAt
	patched.ActualMinutes = update.ActualMinutes
	if update.Notes != nil {
		patched.Notes = update.Notes
	}
	return patched
}

// ApplyMarkReadResult merges a mark-as-read confirmation into a copy of plan:
// the overall progress is replaced and every returned assignment is patched
// by id. Assignments the result does not mention are left as they were.
func ApplyMarkReadResult(plan PlanWithDetails, result MarkReadResult) PlanWithDetails {
	updates := make(map[int]ReadingAssignment, len(result.UpdatedAssignments))
	for _, updated := range result.UpdatedAssignments {
		updates[updated.ID] = updated
	}

	merged := plan
	merged.Progress = result.NewProgress
	merged.Assignments = slice.Map(plan.Assignments, func(assignment ReadingAssignment) ReadingAssignment {
		if updated, ok := updates[assignment.ID]; ok {
			return ApplyMarkAsRead(assignment, ReadUpdateOf(updated))
		}
		return assignment
	})

	return merged
}

// # View

/*
Derive computes the full progress view of plan as of today.

focusOverride, when non-nil, moves the focus to that day if it exists (an
explicit user selection); otherwise the initial focus rule applies.
*/
func Derive(plan PlanWithDetails, today time.Time, focusOverride *int) ProgressView {
	groups := GroupByDay(plan.Assignments)

	focus := InitialFocus(groups, today)
	if focusOverride != nil {
		focus = focus.Select(groups, *focusOverride)
	}

	days := make([]DayView, 0, len(groups))
	for _, day := range OrderedDays(groups) {
		group := groups[day]
		status := DayStatus(group)

		view := DayView{
			Day:         day,
			Status:      status,
			StatusLabel: status.Label(),
			ReadCount:   slice.Count(group, func(assignment ReadingAssignment) bool { return assignment.IsRead }),
			Total:       len(group),
			Expanded:    focus.IsExpanded(day),
			Assignments: group,
		}
		if len(group) > 0 {
			view.AssignedDate = group[0].AssignedDate
		}

		days = append(days, view)
	}

	var focusDay *int
	if day, ok := focus.Day(); ok {
		focusDay = &day
	}

	return ProgressView{
		Plan:       plan.Plan,
		Today:      DateOf(today),
		Days:       days,
		FocusDay:   focusDay,
		Statistics: ComputeStatistics(plan.Assignments),
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
