package service

import "context"

// BoostItem identifies one product to boost for visibility.
type BoostItem struct {
	ProductID string `json:"productId"`
	ShopID    string `json:"shopId,omitempty"`
}

// ArchiveToggle is the payload for flipping a product's archive status.
type ArchiveToggle struct {
	ProductID     string `json:"productId"`
	ShopID        string `json:"shopId,omitempty"`
	ArchiveStatus bool   `json:"archiveStatus"`
	Collection    string `json:"collection"`
	NeedsUpdate   bool   `json:"needsUpdate,omitempty"`
	ArchiveReason string `json:"archiveReason,omitempty"`
}

// CatalogFunctions is the callable-backend surface of the product catalog.
// These operations are invoked, never implemented, by this core.
type CatalogFunctions interface {
	// BoostProducts boosts the given products for boostDuration hours.
	BoostProducts(ctx context.Context, items []BoostItem, boostDuration int) error

	// ToggleProductArchiveStatus archives or unarchives a product.
	ToggleProductArchiveStatus(ctx context.Context, toggle ArchiveToggle) error
}
