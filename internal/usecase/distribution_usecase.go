package usecase

import (
	"context"

	"fulfillment/internal/domain/entity"
)

// DistributorInfo identifies the distributor a batch of orders is assigned to.
type DistributorInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DistributionUsecase manages distributor assignment at order granularity and
// records deliveries, including partial ones.
type DistributionUsecase interface {
	// ListUnassignedOrders returns orders in the unassigned column: fully
	// ready orders, incomplete orders with at least one staged item, and
	// partially delivered orders whose remaining items have since been
	// gathered.
	ListUnassignedOrders(ctx context.Context) ([]*entity.CombinedOrder, error)

	// ListAssignedOrders returns orders in the assigned/history column:
	// in-transit, failed, and incomplete-but-delivered orders.
	ListAssignedOrders(ctx context.Context) ([]*entity.CombinedOrder, error)

	// AssignOrdersToDistributor assigns whole orders to a distributor. If any
	// selected order is incomplete and confirmIncomplete is false it fails
	// with ErrIncompleteOrderRequiresConfirmation before any write, detailing
	// the missing versus staged items.
	AssignOrdersToDistributor(ctx context.Context, orderIDs []string, distributor DistributorInfo, confirmIncomplete bool) (*OrderBulkResult, error)

	// UnassignDistributor reverts one order to ready and clears its
	// distributor.
	UnassignDistributor(ctx context.Context, orderID string) error

	// MarkOrdersDelivered records a delivery for each order. Items at the
	// warehouse are marked physically delivered; incomplete or returning
	// orders have their distributor relationship closed so they re-enter the
	// unassigned pool once the remainder is gathered.
	MarkOrdersDelivered(ctx context.Context, orderIDs []string) (*OrderBulkResult, error)

	// MarkOrderFailed records a distribution failure on one order.
	MarkOrderFailed(ctx context.Context, orderID, reason, notes string) error

	// SetWarehouseNote annotates one order. Empty text removes the note.
	SetWarehouseNote(ctx context.Context, orderID, note string) error
}
