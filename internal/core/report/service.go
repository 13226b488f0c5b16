// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"context"
	"log/slog"
)

// Service serves progress reports.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

/*
Overview returns the progress overview of userID.

Returns:
  - *Overview: Profile, summaries and the books in progress
  - error: Upstream failures
*/
func (service *Service) Overview(context context.Context, userID string) (*Overview, error) {
	overview, err := service.repository.Overview(context, userID)
	if err != nil {
		service.logger.WarnContext(context, "report_overview_failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	return overview, nil
}
