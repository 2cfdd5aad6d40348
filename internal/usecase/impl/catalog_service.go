package impl

import (
	"context"
	"fmt"
	"log/slog"

	domainerrors "fulfillment/internal/domain/errors"
	"fulfillment/internal/domain/service"
	"fulfillment/internal/usecase"
)

type catalogService struct {
	functions service.CatalogFunctions
	logger    *slog.Logger
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(functions service.CatalogFunctions, logger *slog.Logger) usecase.CatalogUsecase {
	return &catalogService{
		functions: functions,
		logger:    logger,
	}
}

// BoostProducts boosts the given products for boostDuration hours.
func (s *catalogService) BoostProducts(ctx context.Context, items []service.BoostItem, boostDuration int) error {
	if len(items) == 0 {
		return domainerrors.ErrNoItemsSelected
	}

	if err := s.functions.BoostProducts(ctx, items, boostDuration); err != nil {
		s.logger.Error("boost products call failed",
			slog.Int("item_count", len(items)),
			slog.Any("error", err),
		)

		return domainerrors.ErrCatalogCallFailed.WithDetails(err.Error())
	}

	return nil
}

// ToggleProductArchiveStatus archives or unarchives a product.
func (s *catalogService) ToggleProductArchiveStatus(ctx context.Context, toggle service.ArchiveToggle) error {
	if toggle.ProductID == "" {
		return domainerrors.ErrValidationFailed.WithDetails("productId is required")
	}

	if err := s.functions.ToggleProductArchiveStatus(ctx, toggle); err != nil {
		s.logger.Error("archive toggle call failed",
			slog.String("product_id", toggle.ProductID),
			slog.Any("error", err),
		)

		return domainerrors.ErrCatalogCallFailed.WithDetails(
			fmt.Sprintf("product %s: %s", toggle.ProductID, err))
	}

	return nil
}
