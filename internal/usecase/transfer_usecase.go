package usecase

import (
	"context"

	"fulfillment/internal/domain/entity"
)

// TransferUsecase implements the two bulk transitions crossing the
// gathering/distribution boundary. Both preserve the invariant that an
// order's allItemsGathered flag matches the true state of its items.
type TransferUsecase interface {
	// TransferItemsToDistribution promotes items to the warehouse, crediting
	// the system pseudo-gatherer where no real picker ever handled the item,
	// then recomputes readiness for every touched order from fresh reads.
	TransferItemsToDistribution(ctx context.Context, keys []entity.ItemKey) (*ItemBulkResult, error)

	// TransferOrdersToGathering sends whole orders back to gathering. Orders
	// that are incomplete and already carry a delivery are rejected with
	// ErrCannotReverseDeliveredPartial before any write: reversing them would
	// erase the record of units the buyer already received.
	TransferOrdersToGathering(ctx context.Context, orderIDs []string) (*OrderBulkResult, error)
}
