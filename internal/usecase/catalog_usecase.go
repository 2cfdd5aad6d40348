package usecase

import (
	"context"

	"fulfillment/internal/domain/service"
)

// CatalogUsecase forwards product-catalog actions to the callable backend.
type CatalogUsecase interface {
	// BoostProducts boosts the given products for boostDuration hours.
	BoostProducts(ctx context.Context, items []service.BoostItem, boostDuration int) error

	// ToggleProductArchiveStatus archives or unarchives a product.
	ToggleProductArchiveStatus(ctx context.Context, toggle service.ArchiveToggle) error
}
