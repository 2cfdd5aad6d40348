package impl

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"fulfillment/internal/domain/entity"
	"fulfillment/internal/domain/repository"
	"fulfillment/internal/usecase"
)

type archiveService struct {
	orderRepo repository.OrderRepository
	itemRepo  repository.ItemRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewArchiveService creates a new delivered-archive service instance
func NewArchiveService(
	orderRepo repository.OrderRepository,
	itemRepo repository.ItemRepository,
	logger *slog.Logger,
) usecase.ArchiveUsecase {
	return &archiveService{
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// ListDelivered reconstructs every order delivered within the window, newest
// first, classifying each as a full or partial delivery and computing the
// aggregate counts. Read-only with respect to the state machine.
func (s *archiveService) ListDelivered(ctx context.Context, window usecase.Window) (*usecase.DeliveredSummary, error) {
	now := s.now()
	since := windowStart(now, window)

	orders, err := s.orderRepo.FindDeliveredSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to find delivered orders: %w", err)
	}

	todayStart := startOfDay(now)
	weekStart := now.AddDate(0, 0, -7)

	summary := &usecase.DeliveredSummary{}
	for _, order := range orders {
		items, err := s.itemRepo.FindItemsByOrder(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to find items for order %s: %w", order.ID, err)
		}

		combined := &entity.CombinedOrder{Order: order, Items: items}
		summary.Orders = append(summary.Orders, &usecase.DeliveredOrder{
			CombinedOrder: combined,
			Partial:       combined.IsPartialDelivery(),
		})

		if order.DeliveredAt != nil {
			if !order.DeliveredAt.Before(todayStart) {
				summary.DeliveredToday++
			}
			if !order.DeliveredAt.Before(weekStart) {
				summary.DeliveredWeek++
			}
		}
	}
	summary.TotalInWindow = len(summary.Orders)

	sort.SliceStable(summary.Orders, func(i, j int) bool {
		a, b := summary.Orders[i].Order.DeliveredAt, summary.Orders[j].Order.DeliveredAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}

		return a.After(*b)
	})

	return summary, nil
}

// windowStart maps a window to its lower bound; nil means the whole history.
func windowStart(now time.Time, window usecase.Window) *time.Time {
	var since time.Time
	switch window {
	case usecase.WindowToday:
		since = startOfDay(now)
	case usecase.WindowWeek:
		since = now.AddDate(0, 0, -7)
	case usecase.WindowMonth:
		since = now.AddDate(0, -1, 0)
	default:
		return nil
	}

	return &since
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
