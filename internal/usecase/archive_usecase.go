package usecase

import (
	"context"

	"fulfillment/internal/domain/entity"
)

// Window selects the archive time range.
type Window string

const (
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

// DeliveredOrder is one archive row: the reconstructed order plus its
// full/partial classification.
type DeliveredOrder struct {
	*entity.CombinedOrder
	Partial bool `json:"partial"`
}

// DeliveredSummary is the archive read model for one window.
type DeliveredSummary struct {
	Orders         []*DeliveredOrder `json:"orders"`
	DeliveredToday int               `json:"delivered_today"`
	DeliveredWeek  int               `json:"delivered_week"`
	TotalInWindow  int               `json:"total_in_window"`
}

// ArchiveUsecase reconstructs completed and partial deliveries for historical
// display. Purely derived; performs no writes.
type ArchiveUsecase interface {
	// ListDelivered returns every order delivered within the window, newest
	// first, with aggregate counts.
	ListDelivered(ctx context.Context, window Window) (*DeliveredSummary, error)
}
