// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dashboard assembles the signed-in home page: every plan card plus the
// progress overview, fetched in parallel.
package dashboard

import (
	"context"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/trackbook/internal/core/plan"
	"github.com/taibuivan/trackbook/internal/core/report"
	"github.com/taibuivan/trackbook/pkg/pagination"
	"github.com/taibuivan/trackbook/pkg/slice"
)

// PlanLister lists a user's plans as cards.
type PlanLister interface {
	ListPlans(ctx context.Context, userID string, params pagination.Params) ([]plan.Card, pagination.Meta, error)
}

// ReportSource loads a user's progress overview.
type ReportSource interface {
	Overview(ctx context.Context, userID string) (*report.Overview, error)
}

// Dashboard is the home page view-model.
type Dashboard struct {
	Plans           []plan.Card      `json:"plans"`
	ActivePlans     int              `json:"active_plans"`
	AverageProgress int              `json:"average_progress"`
	Report          *report.Overview `json:"report"` // nil when the report could not be loaded
}

// dashboardPlanLimit caps the cards shown on the home page.
const dashboardPlanLimit = pagination.MaxLimit

// Service builds dashboards.
type Service struct {
	plans   PlanLister
	reports ReportSource
	logger  *slog.Logger
}

// NewService constructs a [Service].
func NewService(plans PlanLister, reports ReportSource, logger *slog.Logger) *Service {
	return &Service{plans: plans, reports: reports, logger: logger}
}

/*
Load fetches plans and the report concurrently.

A failing plan list fails the dashboard. A failing report only leaves
Report nil, since the page is still useful without it.
*/
func (service *Service) Load(context context.Context, userID string) (*Dashboard, error) {
	group, groupContext := errgroup.WithContext(context)

	var cards []plan.Card
	group.Go(func() error {
		listed, _, err := service.plans.ListPlans(groupContext, userID, pagination.Params{Page: 1, Limit: dashboardPlanLimit})
		if err != nil {
			return err
		}
		cards = listed
		return nil
	})

	var overview *report.Overview
	group.Go(func() error {
		loaded, err := service.reports.Overview(groupContext, userID)
		if err != nil {
			service.logger.WarnContext(groupContext, "dashboard_report_skipped", slog.String("error", err.Error()))
			return nil
		}
		overview = loaded
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &Dashboard{
		Plans:           cards,
		ActivePlans:     slice.Count(cards, func(card plan.Card) bool { return card.ProgressPercent < 100 }),
		AverageProgress: averageProgress(cards),
		Report:          overview,
	}, nil
}

func averageProgress(cards []plan.Card) int {
	if len(cards) == 0 {
		return 0
	}
	total := slice.Reduce(cards, 0, func(sum int, card plan.Card) int { return sum + card.ProgressPercent })
	return int(math.Floor(float64(total)/float64(len(cards)) + 0.5))
}
