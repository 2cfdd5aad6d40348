package handler

import (
	"log/slog"
	"net/http"

	"fulfillment/internal/delivery/http/response"
	"fulfillment/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// TransferHandler holds dependencies for the boundary-crossing transitions.
type TransferHandler struct {
	uc     usecase.TransferUsecase
	logger *slog.Logger
}

// NewTransferHandler is the constructor for TransferHandler, injected by Fx.
func NewTransferHandler(uc usecase.TransferUsecase, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		uc:     uc,
		logger: logger,
	}
}

// ToDistribution promotes the selected items straight to the warehouse.
func (h *TransferHandler) ToDistribution(c echo.Context) error {
	var input struct {
		Items []itemKeyInput `json:"items" validate:"required,min=1,dive"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid transfer input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	result, err := h.uc.TransferItemsToDistribution(c.Request().Context(), toItemKeys(input.Items))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Items transferred to distribution")
}

// ToGathering sends the selected orders back to gathering.
func (h *TransferHandler) ToGathering(c echo.Context) error {
	var input struct {
		OrderIDs []string `json:"order_ids" validate:"required,min=1,dive,required"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid transfer input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	result, err := h.uc.TransferOrdersToGathering(c.Request().Context(), input.OrderIDs)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Orders transferred to gathering")
}
