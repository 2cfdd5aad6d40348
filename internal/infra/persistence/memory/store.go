// Package memory provides an in-memory document store implementing the
// repository interfaces. It backs the use case tests and local development;
// production runs on Firestore.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"fulfillment/internal/domain/entity"
	"fulfillment/internal/domain/repository"

	"github.com/pkg/errors"
)

// Store holds orders and their item sub-collections behind one mutex,
// mimicking the document store's per-document update semantics.
type Store struct {
	mu     sync.RWMutex
	orders map[string]*entity.Order
	items  map[string]map[string]*entity.Item // orderID -> itemID -> item

	itemWriteErrs  map[entity.ItemKey]error
	orderWriteErrs map[string]error
}

var (
	_ repository.OrderRepository = (*Store)(nil)
	_ repository.ItemRepository  = (*Store)(nil)
)

// New creates an empty store.
func New() *Store {
	return &Store{
		orders:         make(map[string]*entity.Order),
		items:          make(map[string]map[string]*entity.Item),
		itemWriteErrs:  make(map[entity.ItemKey]error),
		orderWriteErrs: make(map[string]error),
	}
}

// PutOrder seeds or replaces an order header.
func (s *Store) PutOrder(order *entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = cloneOrder(order)
}

// PutItem seeds or replaces an item under its order.
func (s *Store) PutItem(item *entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.items[item.Key.OrderID]
	if !ok {
		byID = make(map[string]*entity.Item)
		s.items[item.Key.OrderID] = byID
	}
	byID[item.Key.ItemID] = cloneItem(item)
}

// SetItemWriteError makes every subsequent write to the item fail, for
// exercising partial bulk failures.
func (s *Store) SetItemWriteError(key entity.ItemKey, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.itemWriteErrs, key)

		return
	}
	s.itemWriteErrs[key] = err
}

// SetOrderWriteError makes every subsequent write to the order fail.
func (s *Store) SetOrderWriteError(orderID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.orderWriteErrs, orderID)

		return
	}
	s.orderWriteErrs[orderID] = err
}

// FindOrderByID retrieves one order header.
func (s *Store) FindOrderByID(ctx context.Context, orderID string) (*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}

	return cloneOrder(order), nil
}

// FindOrdersByGathered retrieves orders matching the aggregate flag and any of
// the given distribution statuses.
func (s *Store) FindOrdersByGathered(ctx context.Context, allGathered bool, statuses ...entity.DistributionStatus) ([]*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*entity.Order
	for _, order := range s.orders {
		if order.AllItemsGathered == allGathered && statusIn(order.DistributionStatus, statuses) {
			matched = append(matched, cloneOrder(order))
		}
	}
	sortOrdersNewestFirst(matched)

	return matched, nil
}

// FindOrdersByStatus retrieves orders with any of the given distribution
// statuses regardless of the aggregate flag.
func (s *Store) FindOrdersByStatus(ctx context.Context, statuses ...entity.DistributionStatus) ([]*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*entity.Order
	for _, order := range s.orders {
		if statusIn(order.DistributionStatus, statuses) {
			matched = append(matched, cloneOrder(order))
		}
	}
	sortOrdersNewestFirst(matched)

	return matched, nil
}

// FindDeliveredSince retrieves orders with a non-null deliveredAt, optionally
// bounded below.
func (s *Store) FindDeliveredSince(ctx context.Context, since *time.Time) ([]*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*entity.Order
	for _, order := range s.orders {
		if order.DeliveredAt == nil {
			continue
		}
		if since != nil && order.DeliveredAt.Before(*since) {
			continue
		}
		matched = append(matched, cloneOrder(order))
	}
	sortOrdersNewestFirst(matched)

	return matched, nil
}

// UpdateOrderFields merges the given fields into the order document.
func (s *Store) UpdateOrderFields(ctx context.Context, orderID string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.orderWriteErrs[orderID]; ok {
		return err
	}
	order, ok := s.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}

	for name, value := range fields {
		if err := applyOrderField(order, name, value); err != nil {
			return err
		}
	}

	return nil
}

// FindItemByKey retrieves one item.
func (s *Store) FindItemByKey(ctx context.Context, key entity.ItemKey) (*entity.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[key.OrderID][key.ItemID]
	if !ok {
		return nil, repository.ErrItemNotFound
	}

	return cloneItem(item), nil
}

// FindItemsByOrder retrieves every item under an order, newest first.
func (s *Store) FindItemsByOrder(ctx context.Context, orderID string) ([]*entity.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*entity.Item
	for _, item := range s.items[orderID] {
		matched = append(matched, cloneItem(item))
	}
	sortItemsNewestFirst(matched)

	return matched, nil
}

// FindItemsByGatheringStatus retrieves items across all orders whose gathering
// status matches any of the given values, newest first.
func (s *Store) FindItemsByGatheringStatus(ctx context.Context, statuses ...entity.GatheringStatus) ([]*entity.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*entity.Item
	for _, byID := range s.items {
		for _, item := range byID {
			for _, status := range statuses {
				if item.GatheringStatus == status {
					matched = append(matched, cloneItem(item))

					break
				}
			}
		}
	}
	sortItemsNewestFirst(matched)

	return matched, nil
}

// UpdateItemFields merges the given fields into the item document.
func (s *Store) UpdateItemFields(ctx context.Context, key entity.ItemKey, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.itemWriteErrs[key]; ok {
		return err
	}
	item, ok := s.items[key.OrderID][key.ItemID]
	if !ok {
		return repository.ErrItemNotFound
	}

	for name, value := range fields {
		if err := applyItemField(item, name, value); err != nil {
			return err
		}
	}

	return nil
}

func applyOrderField(order *entity.Order, name string, value any) error {
	switch name {
	case repository.FieldAllItemsGathered:
		order.AllItemsGathered = value == true
	case repository.FieldDistributionStatus:
		order.DistributionStatus = entity.DistributionStatus(asString(value))
	case repository.FieldDistributedBy:
		order.DistributedBy = asString(value)
	case repository.FieldDistributedByName:
		order.DistributedByName = asString(value)
	case repository.FieldDistributedAt:
		order.DistributedAt = asTime(value)
	case repository.FieldDeliveredAt:
		order.DeliveredAt = asTime(value)
	case repository.FieldWarehouseNote:
		order.WarehouseNote = asString(value)
	case repository.FieldOrderFailureReason:
		order.FailureReason = asString(value)
	case repository.FieldOrderFailureNotes:
		order.FailureNotes = asString(value)
	case repository.FieldOrderFailedAt:
		order.FailedAt = asTime(value)
	default:
		return errors.Errorf("unknown order field: %s", name)
	}

	return nil
}

func applyItemField(item *entity.Item, name string, value any) error {
	switch name {
	case repository.FieldGatheringStatus:
		item.GatheringStatus = entity.GatheringStatus(asString(value))
	case repository.FieldGatheredBy:
		item.GatheredBy = asString(value)
	case repository.FieldGatheredByName:
		item.GatheredByName = asString(value)
	case repository.FieldGatheredAt:
		item.GatheredAt = asTime(value)
	case repository.FieldArrivedAt:
		item.ArrivedAt = asTime(value)
	case repository.FieldDeliveredInPartial:
		item.DeliveredInPartial = value == true
	case repository.FieldPartialDeliveryAt:
		item.PartialDeliveryAt = asTime(value)
	case repository.FieldItemFailureReason:
		item.FailureReason = asString(value)
	case repository.FieldItemFailureNotes:
		item.FailureNotes = asString(value)
	case repository.FieldItemFailedAt:
		item.FailedAt = asTime(value)
	default:
		return errors.Errorf("unknown item field: %s", name)
	}

	return nil
}

func asString(value any) string {
	if value == nil {
		return ""
	}
	s, _ := value.(string)

	return s
}

func asTime(value any) *time.Time {
	switch v := value.(type) {
	case time.Time:
		return &v
	case *time.Time:
		return v
	default:
		return nil
	}
}

func statusIn(status entity.DistributionStatus, statuses []entity.DistributionStatus) bool {
	for _, candidate := range statuses {
		if status == candidate {
			return true
		}
	}

	return false
}

func sortOrdersNewestFirst(orders []*entity.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Timestamp.After(orders[j].Timestamp)
	})
}

func sortItemsNewestFirst(items []*entity.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
}

func cloneOrder(order *entity.Order) *entity.Order {
	clone := *order
	if order.ShippingAddress != nil {
		addr := *order.ShippingAddress
		clone.ShippingAddress = &addr
	}
	if order.PickupPoint != nil {
		point := *order.PickupPoint
		clone.PickupPoint = &point
	}
	clone.DistributedAt = cloneTime(order.DistributedAt)
	clone.DeliveredAt = cloneTime(order.DeliveredAt)
	clone.FailedAt = cloneTime(order.FailedAt)

	return &clone
}

func cloneItem(item *entity.Item) *entity.Item {
	clone := *item
	clone.GatheredAt = cloneTime(item.GatheredAt)
	clone.ArrivedAt = cloneTime(item.ArrivedAt)
	clone.PartialDeliveryAt = cloneTime(item.PartialDeliveryAt)
	clone.FailedAt = cloneTime(item.FailedAt)

	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := *t

	return &clone
}
