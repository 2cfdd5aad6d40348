// Package impl contains the use case implementations.
package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/domain/entity"
	"fulfillment/internal/domain/repository"
	"fulfillment/internal/domain/service"
	"fulfillment/internal/usecase"

	"github.com/google/uuid"
)

// itemWrite is one pending partial-field merge on an item document.
type itemWrite struct {
	key    entity.ItemKey
	fields map[string]any
}

// applyItemWrites dispatches every write concurrently and collects per-key
// outcomes. The store offers no multi-document transaction: succeeded writes
// stay committed no matter what fails, and nothing is retried.
func applyItemWrites(ctx context.Context, itemRepo repository.ItemRepository, writes []itemWrite) *usecase.ItemBulkResult {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result usecase.ItemBulkResult
	)

	for _, w := range writes {
		wg.Add(1)
		go func(w itemWrite) {
			defer wg.Done()

			err := itemRepo.UpdateItemFields(ctx, w.key, w.fields)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, usecase.ItemFailure{Key: w.key, Reason: err.Error()})

				return
			}
			result.Succeeded = append(result.Succeeded, w.key)
		}(w)
	}
	wg.Wait()

	return &result
}

// recomputeOrderReadiness re-reads an order's items and flips the aggregate
// when every item is at the warehouse. The fresh read happens immediately
// before the flip so a concurrent transfer cannot leave the aggregate stale.
// Orders already past assignment keep their distribution status; an order
// returning from a partial delivery keeps "delivered" so it resurfaces in the
// unassigned pool for its remainder.
func recomputeOrderReadiness(ctx context.Context, orderRepo repository.OrderRepository, itemRepo repository.ItemRepository, orderID string) error {
	order, err := orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	items, err := itemRepo.FindItemsByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		return nil
	}
	for _, item := range items {
		if !item.AtWarehouse() {
			// Not all items are staged; the order is left untouched.
			return nil
		}
	}

	fields := map[string]any{
		repository.FieldAllItemsGathered: true,
	}
	switch order.DistributionStatus {
	case entity.DistributionNone, entity.DistributionPending:
		fields[repository.FieldDistributionStatus] = string(entity.DistributionReady)
	}

	return orderRepo.UpdateOrderFields(ctx, orderID, fields)
}

// publishEvent sends a fulfillment event best-effort. Publishing never blocks
// or fails the transition that produced it.
func publishEvent(ctx context.Context, publisher service.EventPublisher, logger *slog.Logger, event *service.FulfillmentEvent) {
	if publisher == nil {
		return
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := publisher.PublishFulfillmentEvent(ctx, event); err != nil {
		logger.Warn("failed to publish fulfillment event",
			slog.String("event_type", event.EventType),
			slog.Any("error", err),
		)
	}
}

// itemIDs projects the item component of each key, for event payloads.
func itemIDs(keys []entity.ItemKey) []string {
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, key.String())
	}

	return ids
}
