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

type transferService struct {
	orderRepo repository.OrderRepository
	itemRepo  repository.ItemRepository
	publisher service.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewTransferService creates a new transfer service instance
func NewTransferService(
	orderRepo repository.OrderRepository,
	itemRepo repository.ItemRepository,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.TransferUsecase {
	return &transferService{
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// TransferItemsToDistribution promotes items straight to the warehouse. Items
// that were never handled by a real picker are credited to the system
// pseudo-gatherer so fast-tracked items stay distinguishable from genuine
// assignments. The operation is not transactional: failures are surfaced per
// item, and readiness is still recomputed for every order that had at least
// one successful write, so the aggregate is never left stale.
func (s *transferService) TransferItemsToDistribution(ctx context.Context, keys []entity.ItemKey) (*usecase.ItemBulkResult, error) {
	if len(keys) == 0 {
		return nil, domainerrors.ErrNoItemsSelected
	}

	transferredAt := s.now()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result usecase.ItemBulkResult
	)
	for _, key := range keys {
		wg.Add(1)
		go func(key entity.ItemKey) {
			defer wg.Done()

			err := s.promoteItem(ctx, key, transferredAt)

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

	// Aggregate recomputation runs after all item writes were attempted,
	// never interleaved with them.
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
			EventType:  service.EventTransferToDistribution,
			ItemIDs:    itemIDs(result.Succeeded),
			OccurredAt: transferredAt,
		})
	}

	return &result, nil
}

// promoteItem moves one item to the warehouse, backfilling gathering fields
// the item never received.
func (s *transferService) promoteItem(ctx context.Context, key entity.ItemKey, transferredAt time.Time) error {
	item, err := s.itemRepo.FindItemByKey(ctx, key)
	if err != nil {
		return err
	}

	fields := map[string]any{
		repository.FieldGatheringStatus: string(entity.GatheringAtWarehouse),
		repository.FieldArrivedAt:       transferredAt,
	}
	if item.GatheredAt == nil {
		fields[repository.FieldGatheredAt] = transferredAt
	}
	if item.GatheredBy == "" {
		fields[repository.FieldGatheredBy] = entity.SystemGathererID
		fields[repository.FieldGatheredByName] = entity.SystemGathererName
	}

	return s.itemRepo.UpdateItemFields(ctx, key, fields)
}

// TransferOrdersToGathering reverses orders out of distribution. An order that
// is incomplete and already carries a delivery is blocked outright, before any
// write: the buyer physically received part of it, and reversing would erase
// that record.
func (s *transferService) TransferOrdersToGathering(ctx context.Context, orderIDs []string) (*usecase.OrderBulkResult, error) {
	if len(orderIDs) == 0 {
		return nil, domainerrors.ErrNoOrdersSelected
	}

	// Precondition pass over every order before the first write.
	var blocked []string
	combined := make(map[string]*entity.CombinedOrder, len(orderIDs))
	for _, orderID := range orderIDs {
		order, err := s.orderRepo.FindOrderByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return nil, domainerrors.ErrOrderNotFound.WithDetails(orderID)
			}

			return nil, fmt.Errorf("failed to find order: %w", err)
		}
		items, err := s.itemRepo.FindItemsByOrder(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("failed to find items: %w", err)
		}

		c := &entity.CombinedOrder{Order: order, Items: items}
		if c.IsIncomplete() && order.DeliveredAt != nil {
			blocked = append(blocked, orderID)
		}
		combined[orderID] = c
	}
	if len(blocked) > 0 {
		return nil, domainerrors.ErrCannotReverseDeliveredPartial.WithDetails(strings.Join(blocked, ", "))
	}

	reversedAt := s.now()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result usecase.OrderBulkResult
	)
	for _, orderID := range orderIDs {
		wg.Add(1)
		go func(orderID string) {
			defer wg.Done()

			err := s.reverseOrder(ctx, combined[orderID])

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, usecase.OrderFailure{OrderID: orderID, Reason: err.Error()})

				return
			}
			result.Succeeded = append(result.Succeeded, orderID)
		}(orderID)
	}
	wg.Wait()

	if len(result.Succeeded) > 0 {
		publishEvent(ctx, s.publisher, s.logger, &service.FulfillmentEvent{
			EventType:  service.EventTransferToGathering,
			OrderIDs:   result.Succeeded,
			OccurredAt: reversedAt,
		})
	}

	return &result, nil
}

// reverseOrder sends one order and all of its items back to gathering. The
// order header is reset first, then the items: a picker who really handled an
// item keeps the association and returns to assigned; everything else drops to
// pending with gatherer fields cleared. The items are being physically
// recalled, so the partial-delivery record is cleared too.
func (s *transferService) reverseOrder(ctx context.Context, c *entity.CombinedOrder) error {
	err := s.orderRepo.UpdateOrderFields(ctx, c.Order.ID, map[string]any{
		repository.FieldAllItemsGathered:   false,
		repository.FieldDistributionStatus: nil,
		repository.FieldDistributedBy:      nil,
		repository.FieldDistributedByName:  nil,
		repository.FieldDistributedAt:      nil,
		repository.FieldDeliveredAt:        nil,
	})
	if err != nil {
		return fmt.Errorf("failed to reset order: %w", err)
	}

	var writes []itemWrite
	for _, item := range c.Items {
		fields := map[string]any{
			repository.FieldArrivedAt:          nil,
			repository.FieldDeliveredInPartial: false,
			repository.FieldPartialDeliveryAt:  nil,
		}
		if item.HasRealGatherer() {
			fields[repository.FieldGatheringStatus] = string(entity.GatheringAssigned)
		} else {
			fields[repository.FieldGatheringStatus] = string(entity.GatheringPending)
			fields[repository.FieldGatheredBy] = nil
			fields[repository.FieldGatheredByName] = nil
			fields[repository.FieldGatheredAt] = nil
		}
		writes = append(writes, itemWrite{key: item.Key, fields: fields})
	}

	itemResult := applyItemWrites(ctx, s.itemRepo, writes)
	if len(itemResult.Failed) > 0 {
		return fmt.Errorf("%d of %d item updates failed; reload and retry the failed items",
			len(itemResult.Failed), len(writes))
	}

	return nil
}
