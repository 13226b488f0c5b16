// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"context"
	"fmt"
	"net/url"

	"github.com/taibuivan/trackbook/internal/platform/remote"
	"github.com/taibuivan/trackbook/pkg/slice"
)

type remoteRepository struct {
	client *remote.Client
}

// NewRemoteRepository creates a [Repository] over GET /reports/overview/{userID}.
func NewRemoteRepository(client *remote.Client) Repository {
	return &remoteRepository{client: client}
}

// Overview implements [Repository].
func (repository *remoteRepository) Overview(ctx context.Context, userID string) (*Overview, error) {
	var dto overviewDTO
	if err := repository.client.Get(ctx, "/reports/overview/"+url.PathEscape(userID), &dto); err != nil {
		return nil, fmt.Errorf("report: overview for user %s: %w", userID, err)
	}

	overview := dto.toDomain()
	return &overview, nil
}

// # Wire Format

type overviewDTO struct {
	Profile struct {
		Level           int    `json:"nivelLectura"`
		DailyMinutes    int    `json:"tiempoLecturaDiario"`
		PreferredTime   string `json:"horaPreferida"`
		IncludeWeekends bool   `json:"incluirFinesSemana"`
		AutoAdjust      bool   `json:"autoAjustePlan"`
	} `json:"perfilLectura"`

	Books struct {
		Total      int `json:"totalLibros"`
		InProgress int `json:"librosEnProgreso"`
		Completed  int `json:"librosCompletados"`
		Plans      int `json:"totalPlanes"`
		Active     int `json:"planesActivos"`
		Finished   int `json:"planesCompletados"`
		Paused     int `json:"planesPausados"`
	} `json:"resumenLibros"`

	Progress struct {
		TotalChapters int     `json:"totalCapitulos"`
		Read          int     `json:"capitulosLeidos"`
		Pending       int     `json:"capitulosPendientes"`
		Percent       float64 `json:"porcentajeProgreso"`
		Pages         int     `json:"paginasLeidas"`
		Minutes       int     `json:"tiempoTotalInvertido"`
	} `json:"estadisticasProgreso"`

	Compliance struct {
		Planned   int     `json:"diasPlanificados"`
		Completed int     `json:"diasCompletados"`
		Late      int     `json:"diasAtrasados"`
		Early     int     `json:"diasAdelantados"`
		Percent   float64 `json:"porcentajeCumplimiento"`
		Trend     string  `json:"tendencia"`
	} `json:"analisisCumplimiento"`

	InProgress []bookInProgressDTO `json:"librosEnProgreso"`
}

type bookInProgressDTO struct {
	Title         string  `json:"titulo"`
	Author        string  `json:"autor"`
	Progress      float64 `json:"progreso"`
	ChaptersRead  int     `json:"capitulosLeidos"`
	TotalChapters int     `json:"capitulosTotales"`
	StartDate     string  `json:"fechaInicio"`
	ElapsedDays   int     `json:"diasTranscurridos"`
	Status        string  `json:"estado"`
}

func (dto overviewDTO) toDomain() Overview {
	books := slice.Map(dto.InProgress, func(book bookInProgressDTO) BookInProgress {
		return BookInProgress(book)
	})
	if books == nil {
		books = []BookInProgress{}
	}

	return Overview{
		Profile: ReadingProfile{
			ReadingLevel:    dto.Profile.Level,
			DailyMinutes:    dto.Profile.DailyMinutes,
			PreferredTime:   dto.Profile.PreferredTime,
			IncludeWeekends: dto.Profile.IncludeWeekends,
			AutoAdjustPlans: dto.Profile.AutoAdjust,
		},
		Books: BookSummary{
			TotalBooks:      dto.Books.Total,
			BooksInProgress: dto.Books.InProgress,
			BooksCompleted:  dto.Books.Completed,
			TotalPlans:      dto.Books.Plans,
			ActivePlans:     dto.Books.Active,
			CompletedPlans:  dto.Books.Finished,
			PausedPlans:     dto.Books.Paused,
		},
		Progress: ProgressStatistics{
			TotalChapters:   dto.Progress.TotalChapters,
			ChaptersRead:    dto.Progress.Read,
			ChaptersPending: dto.Progress.Pending,
			ProgressPercent: dto.Progress.Percent,
			PagesRead:       dto.Progress.Pages,
			MinutesInvested: dto.Progress.Minutes,
		},
		Compliance: ComplianceAnalysis{
			PlannedDays:       dto.Compliance.Planned,
			CompletedDays:     dto.Compliance.Completed,
			LateDays:          dto.Compliance.Late,
			EarlyDays:         dto.Compliance.Early,
			CompliancePercent: dto.Compliance.Percent,
			Trend:             ParseTrend(dto.Compliance.Trend),
		},
		BooksInProgress: books,
	}
}
