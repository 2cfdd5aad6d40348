package usecase

import (
	"context"

	"fulfillment/internal/domain/entity"
)

// GathererInfo identifies the picker a batch of items is assigned to.
type GathererInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GatheringUsecase manages the picker-assignment lifecycle of items that have
// not yet reached the warehouse.
type GatheringUsecase interface {
	// ListUnassignedGroups returns pending items grouped by seller.
	ListUnassignedGroups(ctx context.Context) ([]*entity.SellerGroup, error)

	// ListAssignedGroups returns assigned, gathered and failed items grouped
	// by seller. Items at the warehouse leave this view entirely.
	ListAssignedGroups(ctx context.Context) ([]*entity.SellerGroup, error)

	// AssignItemsToGatherer assigns every pending or already-assigned item to
	// the gatherer. Writes are per item; partial success is reported, never
	// hidden.
	AssignItemsToGatherer(ctx context.Context, keys []entity.ItemKey, gatherer GathererInfo) (*ItemBulkResult, error)

	// UnassignGatherer reverts one item to pending and clears its gatherer.
	UnassignGatherer(ctx context.Context, key entity.ItemKey) error

	// MarkItemsArrived promotes items to the warehouse and recomputes the
	// parent orders' aggregate readiness.
	MarkItemsArrived(ctx context.Context, keys []entity.ItemKey) (*ItemBulkResult, error)

	// MarkItemFailed records a gathering failure on one item.
	MarkItemFailed(ctx context.Context, key entity.ItemKey, reason, notes string) error

	// SetWarehouseNote annotates the item's parent order. Empty text removes
	// the note.
	SetWarehouseNote(ctx context.Context, key entity.ItemKey, note string) error
}
