// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan

import "time"

// Focus is the single expanded day of a plan view.
//
// A Focus is a value: every operation returns a new one. Once a plan with days
// is loaded the focus always names one of them; selecting a day that does not
// exist keeps the current focus instead of clearing it.
type Focus struct {
	day int
	set bool
}

// InitialFocus selects the focus for freshly loaded groups.
func InitialFocus(groups DayGroups, today time.Time) Focus {
	day, ok := SelectInitialFocusDay(groups, today)
	return Focus{day: day, set: ok}
}

// Day returns the focused day, or false when the plan has no days.
func (focus Focus) Day() (int, bool) {
	return focus.day, focus.set
}

// Select moves the focus to day when groups contains it.
func (focus Focus) Select(groups DayGroups, day int) Focus {
	if _, ok := groups[day]; !ok {
		return focus
	}
	return Focus{day: day, set: true}
}

// IsExpanded reports whether day is the focused one.
func (focus Focus) IsExpanded(day int) bool {
	return focus.set && focus.day == day
}
