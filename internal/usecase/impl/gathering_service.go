package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"fulfillment/internal/domain/entity"
	domainerrors "fulfillment/internal/domain/errors"
	"fulfillment/internal/domain/repository"
	"fulfillment/internal/domain/service"
	"fulfillment/internal/usecase"
)

type gatheringService struct {
	orderRepo repository.OrderRepository
	itemRepo  repository.ItemRepository
	publisher service.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewGatheringService creates a new gathering service instance
func NewGatheringService(
	orderRepo repository.OrderRepository,
	itemRepo repository.ItemRepository,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.GatheringUsecase {
	return &gatheringService{
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ListUnassignedGroups returns pending items grouped by seller.
func (s *gatheringService) ListUnassignedGroups(ctx context.Context) ([]*entity.SellerGroup, error) {
	items, err := s.itemRepo.FindItemsByGatheringStatus(ctx, entity.GatheringPending)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending items: %w", err)
	}

	return entity.GroupItemsBySeller(items), nil
}

// ListAssignedGroups returns assigned, gathered and failed items grouped by
// seller. Items that reached the warehouse are distribution's concern.
func (s *gatheringService) ListAssignedGroups(ctx context.Context) ([]*entity.SellerGroup, error) {
	items, err := s.itemRepo.FindItemsByGatheringStatus(ctx,
		entity.GatheringAssigned,
		entity.GatheringGathered,
		entity.GatheringFailed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find in-flight items: %w", err)
	}

	return entity.GroupItemsBySeller(items), nil
}

// AssignItemsToGatherer assigns every pending or already-assigned item to the
// gatherer. Each item is read and written independently; partial success is
// reported in the result, never hidden from the operator.
func (s *gatheringService) AssignItemsToGatherer(ctx context.Context, keys []entity.ItemKey, gatherer usecase.GathererInfo) (*usecase.ItemBulkResult, error) {
	if len(keys) == 0 {
		return nil, domainerrors.ErrNoItemsSelected
	}

	assignedAt := s.now()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result usecase.ItemBulkResult
	)
	for _, key := range keys {
		wg.Add(1)
		go func(key entity.ItemKey) {
			defer wg.Done()

			fail := func(reason string) {
				mu.Lock()
				defer mu.Unlock()
				result.Failed = append(result.Failed, usecase.ItemFailure{Key: key, Reason: reason})
			}

			item, err := s.itemRepo.FindItemByKey(ctx, key)
			if err != nil {
				fail(err.Error())

				return
			}
			if item.GatheringStatus != entity.GatheringPending && item.GatheringStatus != entity.GatheringAssigned {
				fail(fmt.Sprintf("item is %s, not awaiting pickup", item.GatheringStatus))

				return
			}

			err = s.itemRepo.UpdateItemFields(ctx, key, map[string]any{
				repository.FieldGatheringStatus: string(entity.GatheringAssigned),
				repository.FieldGatheredBy:      gatherer.ID,
				repository.FieldGatheredByName:  gatherer.Name,
				repository.FieldGatheredAt:      assignedAt,
			})
			if err != nil {
				fail(err.Error())

				return
			}

			mu.Lock()
			defer mu.Unlock()
			result.Succeeded = append(result.Succeeded, key)
		}(key)
	}
	wg.Wait()

	if len(result.Succeeded) > 0 {
		publishEvent(ctx, s.publisher, s.logger, &service.FulfillmentEvent{
			EventType:  service.EventGathererAssigned,
			ItemIDs:    itemIDs(result.Succeeded),
			ActorID:    gatherer.ID,
			OccurredAt: assignedAt,
		})
	}

	return &result, nil
}

// UnassignGatherer reverts one item to pending and clears its gatherer.
func (s *gatheringService) UnassignGatherer(ctx context.Context, key entity.ItemKey) error {
	item, err := s.itemRepo.FindItemByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return domainerrors.ErrItemNotFound.WithDetails(key.String())
		}

		return fmt.Errorf("failed to find item: %w", err)
	}

	err = s.itemRepo.UpdateItemFields(ctx, key, map[string]any{
		repository.FieldGatheringStatus: string(entity.GatheringPending),
		repository.FieldGatheredBy:      nil,
		repository.FieldGatheredByName:  nil,
		repository.FieldGatheredAt:      nil,
	})
	if err != nil {
		return fmt.Errorf("failed to unassign gatherer: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger, &service.FulfillmentEvent{
		EventType:  service.EventGathererUnassigned,
		ItemIDs:    []string{key.String()},
		ActorID:    item.GatheredBy,
		OccurredAt: s.now(),
	})

	return nil
}

// MarkItemsArrived promotes items to the warehouse. Items already at the
// warehouse are counted as succeeded without another write, so a repeated
// call converges on the same terminal state. The parent orders' aggregate
// readiness is recomputed afterwards, never interleaved with the item writes.
func (s *gatheringService) MarkItemsArrived(ctx context.Context, keys []entity.ItemKey) (*usecase.ItemBulkResult, error) {
	if len(keys) == 0 {
		return nil, domainerrors.ErrNoItemsSelected
	}

	arrivedAt := s.now()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result usecase.ItemBulkResult
	)
	for _, key := range keys {
		wg.Add(1)
		go func(key entity.ItemKey) {
			defer wg.Done()

			item, err := s.itemRepo.FindItemByKey(ctx, key)
			if err == nil && item.AtWarehouse() && item.ArrivedAt != nil {
				mu.Lock()
				defer mu.Unlock()
				result.Succeeded = append(result.Succeeded, key)

				return
			}

			err = s.itemRepo.UpdateItemFields(ctx, key, map[string]any{
				repository.FieldGatheringStatus: string(entity.GatheringAtWarehouse),
				repository.FieldArrivedAt:       arrivedAt,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, usecase.ItemFailure{Key: key, Reason: err.Error()})

				return
			}
			result.Succeeded = append(result.Succeeded, key)
		}(key)
	}
	wg.Wait()

	for _, orderID := range distinctOrderIDs(result.Succeeded) {
		if err := recomputeOrderReadiness(ctx, s.orderRepo, s.itemRepo, orderID); err != nil {
			s.logger.Error("failed to recompute order readiness",
				slog.String("order_id", orderID),
				slog.Any("error", err),
			)
		}
	}

	if len(result.Succeeded) > 0 {
		publishEvent(ctx, s.publisher, s.logger, &service.FulfillmentEvent{
			EventType:  service.EventItemsArrived,
			ItemIDs:    itemIDs(result.Succeeded),
			OccurredAt: arrivedAt,
		})
	}

	return &result, nil
}

// MarkItemFailed records a gathering failure on one item.
func (s *gatheringService) MarkItemFailed(ctx context.Context, key entity.ItemKey, reason, notes string) error {
	err := s.itemRepo.UpdateItemFields(ctx, key, map[string]any{
		repository.FieldGatheringStatus:   string(entity.GatheringFailed),
		repository.FieldItemFailureReason: reason,
		repository.FieldItemFailureNotes:  notes,
		repository.FieldItemFailedAt:      s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return domainerrors.ErrItemNotFound.WithDetails(key.String())
		}

		return fmt.Errorf("failed to mark item failed: %w", err)
	}

	return nil
}

// SetWarehouseNote annotates the item's parent order. Empty text removes the
// note.
func (s *gatheringService) SetWarehouseNote(ctx context.Context, key entity.ItemKey, note string) error {
	return setOrderNote(ctx, s.orderRepo, key.OrderID, note)
}

// setOrderNote writes or clears the free-text warehouse note on an order.
func setOrderNote(ctx context.Context, orderRepo repository.OrderRepository, orderID, note string) error {
	note = strings.TrimSpace(note)

	var value any = note
	if note == "" {
		value = nil
	}

	err := orderRepo.UpdateOrderFields(ctx, orderID, map[string]any{
		repository.FieldWarehouseNote: value,
	})
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domainerrors.ErrOrderNotFound.WithDetails(orderID)
		}

		return fmt.Errorf("failed to set warehouse note: %w", err)
	}

	return nil
}

// distinctOrderIDs returns the parent order of each key, deduplicated in
// first-seen order.
func distinctOrderIDs(keys []entity.ItemKey) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, key := range keys {
		if !seen[key.OrderID] {
			seen[key.OrderID] = true
			ids = append(ids, key.OrderID)
		}
	}

	return ids
}
