package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"fulfillment/internal/domain/entity"
	domainerrors "fulfillment/internal/domain/errors"
	"fulfillment/internal/domain/repository"
	"fulfillment/internal/domain/service"
	"fulfillment/internal/usecase"
)

type distributionService struct {
	orderRepo repository.OrderRepository
	itemRepo  repository.ItemRepository
	publisher service.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewDistributionService creates a new distribution service instance
func NewDistributionService(
	orderRepo repository.OrderRepository,
	itemRepo repository.ItemRepository,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.DistributionUsecase {
	return &distributionService{
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ListUnassignedOrders returns the unassigned column. "Ready for distribution"
// spans several underlying conditions, so the store queries are unioned and
// the final inclusion check runs on the combined order:
//   - fully gathered orders marked ready;
//   - incomplete orders not yet assigned, as long as at least one item is
//     staged at the warehouse (nothing to act on otherwise);
//   - fully gathered orders that were delivered while incomplete and have no
//     distributor anymore: their remainder needs a fresh assignment.
func (s *distributionService) ListUnassignedOrders(ctx context.Context) ([]*entity.CombinedOrder, error) {
	orders, err := s.unionOrders(ctx,
		func(ctx context.Context) ([]*entity.Order, error) {
			return s.orderRepo.FindOrdersByGathered(ctx, true, entity.DistributionReady)
		},
		func(ctx context.Context) ([]*entity.Order, error) {
			return s.orderRepo.FindOrdersByGathered(ctx, false, entity.DistributionNone, entity.DistributionReady)
		},
		func(ctx context.Context) ([]*entity.Order, error) {
			return s.orderRepo.FindOrdersByGathered(ctx, true, entity.DistributionDelivered)
		},
	)
	if err != nil {
		return nil, err
	}

	return s.combineAndFilter(ctx, orders, func(c *entity.CombinedOrder) bool {
		o := c.Order
		switch {
		case o.AllItemsGathered && o.DistributionStatus == entity.DistributionReady:
			return true
		case !o.AllItemsGathered &&
			(o.DistributionStatus == entity.DistributionNone || o.DistributionStatus == entity.DistributionReady):
			return len(c.StagedItems()) > 0
		case o.AllItemsGathered && o.DistributionStatus == entity.DistributionDelivered:
			return o.DistributedBy == ""
		default:
			return false
		}
	})
}

// ListAssignedOrders returns the assigned/history column: orders in transit,
// failed orders, and incomplete orders that were partially delivered.
func (s *distributionService) ListAssignedOrders(ctx context.Context) ([]*entity.CombinedOrder, error) {
	orders, err := s.unionOrders(ctx,
		func(ctx context.Context) ([]*entity.Order, error) {
			return s.orderRepo.FindOrdersByGathered(ctx, true, entity.DistributionAssigned, entity.DistributionDistributed)
		},
		func(ctx context.Context) ([]*entity.Order, error) {
			return s.orderRepo.FindOrdersByStatus(ctx, entity.DistributionFailed)
		},
		func(ctx context.Context) ([]*entity.Order, error) {
			return s.orderRepo.FindOrdersByGathered(ctx, false, entity.DistributionDelivered)
		},
	)
	if err != nil {
		return nil, err
	}

	return s.combineAndFilter(ctx, orders, func(c *entity.CombinedOrder) bool {
		o := c.Order
		switch {
		case o.DistributionStatus == entity.DistributionFailed:
			return true
		case o.AllItemsGathered &&
			(o.DistributionStatus == entity.DistributionAssigned || o.DistributionStatus == entity.DistributionDistributed):
			return true
		case !o.AllItemsGathered && o.DistributionStatus == entity.DistributionDelivered:
			return true
		default:
			return false
		}
	})
}

// AssignOrdersToDistributor assigns whole orders to a distributor. Incomplete
// orders require explicit confirmation because only the staged items will
// actually ship; the rejection happens before any write.
func (s *distributionService) AssignOrdersToDistributor(ctx context.Context, orderIDs []string, distributor usecase.DistributorInfo, confirmIncomplete bool) (*usecase.OrderBulkResult, error) {
	if len(orderIDs) == 0 {
		return nil, domainerrors.ErrNoOrdersSelected
	}

	combined, err := s.loadCombinedOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	if !confirmIncomplete {
		if details := describeIncomplete(combined); details != "" {
			return nil, domainerrors.ErrIncompleteOrderRequiresConfirmation.WithDetails(details)
		}
	}

	assignedAt := s.now()
	result := s.applyOrderWrites(ctx, orderIDs, map[string]any{
		repository.FieldDistributionStatus: string(entity.DistributionAssigned),
		repository.FieldDistributedBy:      distributor.ID,
		repository.FieldDistributedByName:  distributor.Name,
		repository.FieldDistributedAt:      assignedAt,
	})

	if len(result.Succeeded) > 0 {
		publishEvent(ctx, s.publisher, s.logger, &service.FulfillmentEvent{
			EventType:  service.EventDistributorAssigned,
			OrderIDs:   result.Succeeded,
			ActorID:    distributor.ID,
			OccurredAt: assignedAt,
		})
	}

	return result, nil
}

// UnassignDistributor reverts one order to ready and clears its distributor.
func (s *distributionService) UnassignDistributor(ctx context.Context, orderID string) error {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domainerrors.ErrOrderNotFound.WithDetails(orderID)
		}

		return fmt.Errorf("failed to find order: %w", err)
	}

	err = s.orderRepo.UpdateOrderFields(ctx, orderID, map[string]any{
		repository.FieldDistributionStatus: string(entity.DistributionReady),
		repository.FieldDistributedBy:      nil,
		repository.FieldDistributedByName:  nil,
		repository.FieldDistributedAt:      nil,
	})
	if err != nil {
		return fmt.Errorf("failed to unassign distributor: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger, &service.FulfillmentEvent{
		EventType:  service.EventDistributorUnassigned,
		OrderIDs:   []string{orderID},
		ActorID:    order.DistributedBy,
		OccurredAt: s.now(),
	})

	return nil
}

// MarkOrdersDelivered records a delivery for each order. Every item currently
// at the warehouse is marked physically delivered, whether or not the order is
// complete; that item-level record must survive any later order bookkeeping.
// An incomplete order, or one returning from an earlier partial delivery, has
// its distributor relationship closed so it re-enters the unassigned pool once
// its remaining items are gathered.
func (s *distributionService) MarkOrdersDelivered(ctx context.Context, orderIDs []string) (*usecase.OrderBulkResult, error) {
	if len(orderIDs) == 0 {
		return nil, domainerrors.ErrNoOrdersSelected
	}

	deliveredAt := s.now()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result usecase.OrderBulkResult
	)
	for _, orderID := range orderIDs {
		wg.Add(1)
		go func(orderID string) {
			defer wg.Done()

			err := s.deliverOrder(ctx, orderID, deliveredAt)

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
			EventType:  service.EventOrdersDelivered,
			OrderIDs:   result.Succeeded,
			OccurredAt: deliveredAt,
		})
	}

	return &result, nil
}

// deliverOrder applies the delivery transition to one order and its staged
// items. The combined order is read fresh; in-memory state from an earlier
// listing could already be stale.
func (s *distributionService) deliverOrder(ctx context.Context, orderID string, deliveredAt time.Time) error {
	combined, err := s.loadCombined(ctx, orderID)
	if err != nil {
		return err
	}

	wasPartiallyDelivered := combined.Order.DeliveredAt != nil && combined.Order.DistributedBy == ""
	incomplete := combined.IsIncomplete()

	var writes []itemWrite
	for _, item := range combined.StagedItems() {
		writes = append(writes, itemWrite{
			key: item.Key,
			fields: map[string]any{
				repository.FieldDeliveredInPartial: true,
				repository.FieldPartialDeliveryAt:  deliveredAt,
			},
		})
	}
	itemResult := applyItemWrites(ctx, s.itemRepo, writes)

	orderFields := map[string]any{
		repository.FieldDistributionStatus: string(entity.DistributionDelivered),
		repository.FieldDeliveredAt:        deliveredAt,
	}
	if incomplete || wasPartiallyDelivered {
		// The distributor relationship is closed for the batch that shipped;
		// the order returns to the unassigned pool for its remainder.
		orderFields[repository.FieldDistributedBy] = nil
		orderFields[repository.FieldDistributedByName] = nil
		orderFields[repository.FieldDistributedAt] = nil
	}

	if err := s.orderRepo.UpdateOrderFields(ctx, orderID, orderFields); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if len(itemResult.Failed) > 0 {
		return fmt.Errorf("%d of %d item updates failed; reload and retry the failed items",
			len(itemResult.Failed), len(writes))
	}

	return nil
}

// MarkOrderFailed records a distribution failure on one order.
func (s *distributionService) MarkOrderFailed(ctx context.Context, orderID, reason, notes string) error {
	err := s.orderRepo.UpdateOrderFields(ctx, orderID, map[string]any{
		repository.FieldDistributionStatus: string(entity.DistributionFailed),
		repository.FieldOrderFailureReason: reason,
		repository.FieldOrderFailureNotes:  notes,
		repository.FieldOrderFailedAt:      s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domainerrors.ErrOrderNotFound.WithDetails(orderID)
		}

		return fmt.Errorf("failed to mark order failed: %w", err)
	}

	return nil
}

// SetWarehouseNote annotates one order. Empty text removes the note.
func (s *distributionService) SetWarehouseNote(ctx context.Context, orderID, note string) error {
	return setOrderNote(ctx, s.orderRepo, orderID, note)
}

// unionOrders runs each query and deduplicates the results by order ID.
func (s *distributionService) unionOrders(ctx context.Context, queries ...func(context.Context) ([]*entity.Order, error)) ([]*entity.Order, error) {
	var union []*entity.Order
	seen := make(map[string]bool)

	for _, query := range queries {
		orders, err := query(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query orders: %w", err)
		}
		for _, order := range orders {
			if !seen[order.ID] {
				seen[order.ID] = true
				union = append(union, order)
			}
		}
	}

	return union, nil
}

// combineAndFilter attaches items to each order and keeps those matching the
// inclusion predicate, newest first.
func (s *distributionService) combineAndFilter(ctx context.Context, orders []*entity.Order, include func(*entity.CombinedOrder) bool) ([]*entity.CombinedOrder, error) {
	var combined []*entity.CombinedOrder
	for _, order := range orders {
		items, err := s.itemRepo.FindItemsByOrder(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to find items for order %s: %w", order.ID, err)
		}

		c := &entity.CombinedOrder{Order: order, Items: items}
		if include(c) {
			combined = append(combined, c)
		}
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Order.Timestamp.After(combined[j].Order.Timestamp)
	})

	return combined, nil
}

// loadCombined reads one order and its items fresh from the store.
func (s *distributionService) loadCombined(ctx context.Context, orderID string) (*entity.CombinedOrder, error) {
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

	return &entity.CombinedOrder{Order: order, Items: items}, nil
}

// loadCombinedOrders loads every order before any precondition decision.
func (s *distributionService) loadCombinedOrders(ctx context.Context, orderIDs []string) ([]*entity.CombinedOrder, error) {
	combined := make([]*entity.CombinedOrder, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		c, err := s.loadCombined(ctx, orderID)
		if err != nil {
			return nil, err
		}
		combined = append(combined, c)
	}

	return combined, nil
}

// applyOrderWrites dispatches one partial-field merge per order concurrently.
func (s *distributionService) applyOrderWrites(ctx context.Context, orderIDs []string, fields map[string]any) *usecase.OrderBulkResult {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result usecase.OrderBulkResult
	)
	for _, orderID := range orderIDs {
		wg.Add(1)
		go func(orderID string) {
			defer wg.Done()

			err := s.orderRepo.UpdateOrderFields(ctx, orderID, fields)

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

	return &result
}

// describeIncomplete builds the operator-facing detail listing, per incomplete
// order, which items are missing and which are staged. Empty when every order
// is complete.
func describeIncomplete(combined []*entity.CombinedOrder) string {
	var parts []string
	for _, c := range combined {
		if !c.IsIncomplete() {
			continue
		}

		missing := make([]string, 0, len(c.Items))
		for _, item := range c.MissingItems() {
			missing = append(missing, item.ProductName)
		}
		staged := make([]string, 0, len(c.Items))
		for _, item := range c.StagedItems() {
			staged = append(staged, item.ProductName)
		}

		parts = append(parts, fmt.Sprintf("order %s missing: [%s], at warehouse: [%s]",
			c.Order.ID, strings.Join(missing, ", "), strings.Join(staged, ", ")))
	}

	return strings.Join(parts, "; ")
}
