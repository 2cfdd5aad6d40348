// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"fulfillment/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
)

// Order document field names. Updates are partial-field merges keyed by these
// names; a nil value clears the field in the document.
const (
	FieldAllItemsGathered   = "allItemsGathered"
	FieldDistributionStatus = "distributionStatus"
	FieldDistributedBy      = "distributedBy"
	FieldDistributedByName  = "distributedByName"
	FieldDistributedAt      = "distributedAt"
	FieldDeliveredAt        = "deliveredAt"
	FieldWarehouseNote      = "warehouseNote"
	FieldOrderFailureReason = "failureReason"
	FieldOrderFailureNotes  = "failureNotes"
	FieldOrderFailedAt      = "failedAt"
)

// OrderRepository defines the interface for order-header document operations.
type OrderRepository interface {
	// FindOrderByID retrieves one order header.
	FindOrderByID(ctx context.Context, orderID string) (*entity.Order, error)

	// FindOrdersByGathered retrieves orders matching the aggregate flag and
	// any of the given distribution statuses. DistributionNone matches orders
	// whose status field is null/absent.
	FindOrdersByGathered(ctx context.Context, allGathered bool, statuses ...entity.DistributionStatus) ([]*entity.Order, error)

	// FindOrdersByStatus retrieves orders with any of the given distribution
	// statuses regardless of the aggregate flag.
	FindOrdersByStatus(ctx context.Context, statuses ...entity.DistributionStatus) ([]*entity.Order, error)

	// FindDeliveredSince retrieves orders with a non-null deliveredAt. A nil
	// since means the whole history; otherwise deliveredAt >= since.
	FindDeliveredSince(ctx context.Context, since *time.Time) ([]*entity.Order, error)

	// UpdateOrderFields merges the given fields into the order document.
	// A nil value deletes the field.
	UpdateOrderFields(ctx context.Context, orderID string, fields map[string]any) error
}
