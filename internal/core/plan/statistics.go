// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan

import (
	"encoding/json"
	"math"

	"github.com/taibuivan/trackbook/pkg/pointer"
)

// # Statistics

// PlanStatistics aggregates a plan's assignments into reading totals.
type PlanStatistics struct {
	TotalChapters     int `json:"total_chapters"`
	CompletedChapters int `json:"completed_chapters"`
	TotalPages        int `json:"total_pages"`
	PagesRead         int `json:"pages_read"`
	TotalDays         int `json:"total_days"`
	CompletedDays     int `json:"completed_days"`
	EstimatedMinutes  int `json:"estimated_minutes"`
	ActualMinutes     int `json:"actual_minutes"`
}

// ComputeStatistics counts chapters, pages, days and minutes. A day counts as
// completed when [DayStatus] says so.
func ComputeStatistics(assignments []ReadingAssignment) PlanStatistics {
	var stats PlanStatistics

	for _, assignment := range assignments {
		stats.TotalChapters++
		stats.TotalPages += assignment.Pages()
		stats.EstimatedMinutes += assignment.EstimatedMinutes

		if assignment.IsRead {
			stats.CompletedChapters++
			stats.PagesRead += assignment.Pages()
			stats.ActualMinutes += pointer.Val(assignment.ActualMinutes)
		}
	}

	groups := GroupByDay(assignments)
	stats.TotalDays = len(groups)
	for _, group := range groups {
		if DayStatus(group) == StatusCompleted {
			stats.CompletedDays++
		}
	}

	return stats
}

// ChaptersPercentage is the share of chapters read.
func (stats PlanStatistics) ChaptersPercentage() int {
	return Percentage(stats.CompletedChapters, stats.TotalChapters)
}

// PagesPercentage is the share of pages read.
func (stats PlanStatistics) PagesPercentage() int {
	return Percentage(stats.PagesRead, stats.TotalPages)
}

// DaysPercentage is the share of days completed.
func (stats PlanStatistics) DaysPercentage() int {
	return Percentage(stats.CompletedDays, stats.TotalDays)
}

// MarshalJSON adds the three percentages next to the raw counts.
func (stats PlanStatistics) MarshalJSON() ([]byte, error) {
	type raw PlanStatistics
	return json.Marshal(struct {
		raw
		ChaptersPercentage int `json:"chapters_percentage"`
		PagesPercentage    int `json:"pages_percentage"`
		DaysPercentage     int `json:"days_percentage"`
	}{
		raw:                raw(stats),
		ChaptersPercentage: stats.ChaptersPercentage(),
		PagesPercentage:    stats.PagesPercentage(),
		DaysPercentage:     stats.DaysPercentage(),
	})
}

// # Presentation Helpers

// Percentage returns part/total as a whole percentage rounded half up, or 0
// when total is 0.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100/float64(total) + 0.5))
}

// Band is the colour class of a percentage.
type Band string

const (
	BandPrimary Band = "primary"
	BandAccent  Band = "accent"
	BandWarn    Band = "warn"
)

// ProgressBand classifies a percentage: 80 and above is primary, 50 and above accent.
func ProgressBand(percentage int) Band {
	switch {
	case percentage >= 80:
		return BandPrimary
	case percentage >= 50:
		return BandAccent
	default:
		return BandWarn
	}
}

// DisplayProgress rounds the backend's progress and clamps it to 0..100.
func DisplayProgress(progress float64) int {
	if math.IsNaN(progress) {
		return 0
	}
	return min(max(int(math.Floor(progress+0.5)), 0), 100)
}

// Label is the human-readable name of a status.
func (status Status) Label() string {
	switch status {
	case StatusCompleted:
		return "Completed"
	case StatusOverdue:
		return "Overdue"
	case StatusInProgress:
		return "In progress"
	default:
		return "Pending"
	}
}

var difficultyLabels = [...]string{"Very easy", "Easy", "Normal", "Hard", "Very hard"}

// DifficultyLabel names a perceived difficulty from 1 to 5. Out-of-range
// levels read as "Normal".
func DifficultyLabel(level int) string {
	if level < 1 || level > len(difficultyLabels) {
		return difficultyLabels[2]
	}
	return difficultyLabels[level-1]
}

// # Plan Cards

// Card is a plan as listed on the plans page.
type Card struct {
	Plan
	ProgressPercent int  `json:"progress_percent"`
	ProgressBand    Band `json:"progress_band"`
}

// CardOf rounds and classifies the progress of plan.
func CardOf(plan Plan) Card {
	percent := DisplayProgress(plan.Progress)
	return Card{Plan: plan, ProgressPercent: percent, ProgressBand: ProgressBand(percent)}
}
