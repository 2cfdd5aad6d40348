package handler

import (
	"log/slog"
	"net/http"

	"fulfillment/internal/delivery/http/response"
	"fulfillment/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// DistributionHandler holds dependencies for distribution-related handlers.
type DistributionHandler struct {
	uc     usecase.DistributionUsecase
	logger *slog.Logger
}

// NewDistributionHandler is the constructor for DistributionHandler, injected by Fx.
func NewDistributionHandler(uc usecase.DistributionUsecase, logger *slog.Logger) *DistributionHandler {
	return &DistributionHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListUnassigned returns the unassigned order column.
func (h *DistributionHandler) ListUnassigned(c echo.Context) error {
	combined, err := h.uc.ListUnassignedOrders(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, combined, "")
}

// ListAssigned returns the assigned/history order column.
func (h *DistributionHandler) ListAssigned(c echo.Context) error {
	combined, err := h.uc.ListAssignedOrders(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, combined, "")
}

// AssignOrders assigns the selected orders to a distributor. Incomplete
// orders are rejected unless confirm_incomplete is set.
func (h *DistributionHandler) AssignOrders(c echo.Context) error {
	var input struct {
		OrderIDs    []string `json:"order_ids" validate:"required,min=1,dive,required"`
		Distributor struct {
			ID   string `json:"id" validate:"required"`
			Name string `json:"name" validate:"required"`
		} `json:"distributor" validate:"required"`
		ConfirmIncomplete bool `json:"confirm_incomplete"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid assignment input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	result, err := h.uc.AssignOrdersToDistributor(c.Request().Context(), input.OrderIDs,
		usecase.DistributorInfo{ID: input.Distributor.ID, Name: input.Distributor.Name},
		input.ConfirmIncomplete)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Orders assigned")
}

// UnassignOrder reverts one order to ready.
func (h *DistributionHandler) UnassignOrder(c echo.Context) error {
	orderID := c.Param("orderId")

	if err := h.uc.UnassignDistributor(c.Request().Context(), orderID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Distributor unassigned")
}

// MarkDelivered records a delivery for each selected order.
func (h *DistributionHandler) MarkDelivered(c echo.Context) error {
	var input struct {
		OrderIDs []string `json:"order_ids" validate:"required,min=1,dive,required"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid delivery input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	result, err := h.uc.MarkOrdersDelivered(c.Request().Context(), input.OrderIDs)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Orders marked delivered")
}

// MarkFailed records a distribution failure on one order.
func (h *DistributionHandler) MarkFailed(c echo.Context) error {
	orderID := c.Param("orderId")

	var input struct {
		Reason string `json:"reason" validate:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid failure input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	if err := h.uc.MarkOrderFailed(c.Request().Context(), orderID, input.Reason, input.Notes); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Order marked failed")
}

// SetNote annotates one order. Empty text removes the note.
func (h *DistributionHandler) SetNote(c echo.Context) error {
	orderID := c.Param("orderId")

	var input struct {
		Note string `json:"note"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid note input")
	}

	if err := h.uc.SetWarehouseNote(c.Request().Context(), orderID, input.Note); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Warehouse note updated")
}
