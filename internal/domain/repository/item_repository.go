package repository

import (
	"context"

	"fulfillment/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for item persistence.
var (
	// ErrItemNotFound is returned when an item is not found.
	ErrItemNotFound = errors.New("item not found")
)

// Item document field names.
const (
	FieldGatheringStatus    = "gatheringStatus"
	FieldGatheredBy         = "gatheredBy"
	FieldGatheredByName     = "gatheredByName"
	FieldGatheredAt         = "gatheredAt"
	FieldArrivedAt          = "arrivedAt"
	FieldDeliveredInPartial = "deliveredInPartial"
	FieldPartialDeliveryAt  = "partialDeliveryAt"
	FieldItemFailureReason  = "failureReason"
	FieldItemFailureNotes   = "failureNotes"
	FieldItemFailedAt       = "failedAt"
)

// ItemRepository defines the interface for item sub-collection operations.
// Items are addressable as orders/{orderId}/items/{itemId} and queryable
// collection-wide across all orders.
type ItemRepository interface {
	// FindItemByKey retrieves one item.
	FindItemByKey(ctx context.Context, key entity.ItemKey) (*entity.Item, error)

	// FindItemsByOrder retrieves every item under an order, newest first.
	FindItemsByOrder(ctx context.Context, orderID string) ([]*entity.Item, error)

	// FindItemsByGatheringStatus retrieves items across all orders whose
	// gathering status matches any of the given values, newest first.
	FindItemsByGatheringStatus(ctx context.Context, statuses ...entity.GatheringStatus) ([]*entity.Item, error)

	// UpdateItemFields merges the given fields into the item document.
	// A nil value deletes the field.
	UpdateItemFields(ctx context.Context, key entity.ItemKey, fields map[string]any) error
}
