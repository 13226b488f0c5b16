// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import "context"

// Repository fetches progress reports from the backend.
type Repository interface {
	// Overview returns the progress overview of userID.
	Overview(ctx context.Context, userID string) (*Overview, error)
}
