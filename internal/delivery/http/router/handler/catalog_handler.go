package handler

import (
	"log/slog"
	"net/http"

	"fulfillment/internal/delivery/http/response"
	"fulfillment/internal/domain/service"
	"fulfillment/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CatalogHandler holds dependencies for catalog callable forwarding.
type CatalogHandler struct {
	uc     usecase.CatalogUsecase
	logger *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler, injected by Fx.
func NewCatalogHandler(uc usecase.CatalogUsecase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: logger,
	}
}

// BoostProducts forwards a product boost request to the catalog backend.
func (h *CatalogHandler) BoostProducts(c echo.Context) error {
	var input struct {
		Items []struct {
			ProductID string `json:"product_id" validate:"required"`
			ShopID    string `json:"shop_id"`
		} `json:"items" validate:"required,min=1,dive"`
		BoostDuration int `json:"boost_duration" validate:"required,gt=0"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid boost input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	items := make([]service.BoostItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, service.BoostItem{ProductID: item.ProductID, ShopID: item.ShopID})
	}

	if err := h.uc.BoostProducts(c.Request().Context(), items, input.BoostDuration); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Products boosted")
}

// ToggleArchiveStatus forwards an archive toggle to the catalog backend.
func (h *CatalogHandler) ToggleArchiveStatus(c echo.Context) error {
	var input struct {
		ProductID     string `json:"product_id" validate:"required"`
		ShopID        string `json:"shop_id"`
		ArchiveStatus bool   `json:"archive_status"`
		Collection    string `json:"collection" validate:"required"`
		NeedsUpdate   bool   `json:"needs_update"`
		ArchiveReason string `json:"archive_reason"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid archive toggle input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	err := h.uc.ToggleProductArchiveStatus(c.Request().Context(), service.ArchiveToggle{
		ProductID:     input.ProductID,
		ShopID:        input.ShopID,
		ArchiveStatus: input.ArchiveStatus,
		Collection:    input.Collection,
		NeedsUpdate:   input.NeedsUpdate,
		ArchiveReason: input.ArchiveReason,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Archive status updated")
}
