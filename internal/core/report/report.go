// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package report exposes the backend's reading progress overview of a user.
package report

// # Overview

// Overview is the full progress report of one reader.
type Overview struct {
	Profile         ReadingProfile     `json:"profile"`
	Books           BookSummary        `json:"books"`
	Progress        ProgressStatistics `json:"progress"`
	Compliance      ComplianceAnalysis `json:"compliance"`
	BooksInProgress []BookInProgress   `json:"books_in_progress"`
}

// ReadingProfile holds the reader's stated habits.
type ReadingProfile struct {
	ReadingLevel    int    `json:"reading_level"`
	DailyMinutes    int    `json:"daily_minutes"`
	PreferredTime   string `json:"preferred_time"`
	IncludeWeekends bool   `json:"include_weekends"`
	AutoAdjustPlans bool   `json:"auto_adjust_plans"`
}

// BookSummary counts books and plans by state.
type BookSummary struct {
	TotalBooks      int `json:"total_books"`
	BooksInProgress int `json:"books_in_progress"`
	BooksCompleted  int `json:"books_completed"`
	TotalPlans      int `json:"total_plans"`
	ActivePlans     int `json:"active_plans"`
	CompletedPlans  int `json:"completed_plans"`
	PausedPlans     int `json:"paused_plans"`
}

// ProgressStatistics aggregates chapters, pages and time across all plans.
type ProgressStatistics struct {
	TotalChapters   int     `json:"total_chapters"`
	ChaptersRead    int     `json:"chapters_read"`
	ChaptersPending int     `json:"chapters_pending"`
	ProgressPercent float64 `json:"progress_percent"`
	PagesRead       int     `json:"pages_read"`
	MinutesInvested int     `json:"minutes_invested"`
}

// ComplianceAnalysis compares what was planned against what was read.
type ComplianceAnalysis struct {
	PlannedDays       int     `json:"planned_days"`
	CompletedDays     int     `json:"completed_days"`
	LateDays          int     `json:"late_days"`
	EarlyDays         int     `json:"early_days"`
	CompliancePercent float64 `json:"compliance_percent"`
	Trend             Trend   `json:"trend"`
}

// BookInProgress is one book the reader is working through.
type BookInProgress struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Progress      float64 `json:"progress"`
	ChaptersRead  int     `json:"chapters_read"`
	TotalChapters int     `json:"total_chapters"`
	StartDate     string  `json:"start_date"`
	ElapsedDays   int     `json:"elapsed_days"`
	Status        string  `json:"status"`
}

// # Trend

// Trend is the direction of the reader's compliance.
type Trend string

const (
	TrendPositive Trend = "POSITIVE"
	TrendNegative Trend = "NEGATIVE"
	TrendNeutral  Trend = "NEUTRAL"
)

// ParseTrend maps the backend's trend names. Anything unknown is neutral.
func ParseTrend(raw string) Trend {
	switch raw {
	case "POSITIVA", string(TrendPositive):
		return TrendPositive
	case "NEGATIVA", string(TrendNegative):
		return TrendNegative
	default:
		return TrendNeutral
	}
}

// Icon names the arrow a presentation layer draws for the trend.
func (trend Trend) Icon() string {
	switch trend {
	case TrendPositive:
		return "trending_up"
	case TrendNegative:
		return "trending_down"
	default:
		return "trending_flat"
	}
}
