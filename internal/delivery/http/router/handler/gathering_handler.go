package handler

import (
	"log/slog"
	"net/http"

	"fulfillment/internal/delivery/http/response"
	"fulfillment/internal/domain/entity"
	"fulfillment/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// GatheringHandler holds dependencies for gathering-related handlers.
type GatheringHandler struct {
	uc     usecase.GatheringUsecase
	logger *slog.Logger
}

// NewGatheringHandler is the constructor for GatheringHandler, injected by Fx.
func NewGatheringHandler(uc usecase.GatheringUsecase, logger *slog.Logger) *GatheringHandler {
	return &GatheringHandler{
		uc:     uc,
		logger: logger,
	}
}

// itemKeyInput mirrors entity.ItemKey with validation tags.
type itemKeyInput struct {
	OrderID string `json:"order_id" validate:"required"`
	ItemID  string `json:"item_id" validate:"required"`
}

func toItemKeys(inputs []itemKeyInput) []entity.ItemKey {
	keys := make([]entity.ItemKey, 0, len(inputs))
	for _, in := range inputs {
		keys = append(keys, entity.ItemKey{OrderID: in.OrderID, ItemID: in.ItemID})
	}

	return keys
}

// ListUnassigned returns pending items grouped by seller.
func (h *GatheringHandler) ListUnassigned(c echo.Context) error {
	groups, err := h.uc.ListUnassignedGroups(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, groups, "")
}

// ListAssigned returns assigned, gathered and failed items grouped by seller.
func (h *GatheringHandler) ListAssigned(c echo.Context) error {
	groups, err := h.uc.ListAssignedGroups(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, groups, "")
}

// AssignItems assigns the selected items to a gatherer.
func (h *GatheringHandler) AssignItems(c echo.Context) error {
	var input struct {
		Items    []itemKeyInput `json:"items" validate:"required,min=1,dive"`
		Gatherer struct {
			ID   string `json:"id" validate:"required"`
			Name string `json:"name" validate:"required"`
		} `json:"gatherer" validate:"required"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid assignment input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	result, err := h.uc.AssignItemsToGatherer(c.Request().Context(), toItemKeys(input.Items),
		usecase.GathererInfo{ID: input.Gatherer.ID, Name: input.Gatherer.Name})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Items assigned")
}

// UnassignItem reverts one item to pending.
func (h *GatheringHandler) UnassignItem(c echo.Context) error {
	var input itemKeyInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid item key")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	err := h.uc.UnassignGatherer(c.Request().Context(),
		entity.ItemKey{OrderID: input.OrderID, ItemID: input.ItemID})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Gatherer unassigned")
}

// MarkArrived promotes the selected items to the warehouse.
func (h *GatheringHandler) MarkArrived(c echo.Context) error {
	var input struct {
		Items []itemKeyInput `json:"items" validate:"required,min=1,dive"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid arrival input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	result, err := h.uc.MarkItemsArrived(c.Request().Context(), toItemKeys(input.Items))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Items marked arrived")
}

// MarkFailed records a gathering failure on one item.
func (h *GatheringHandler) MarkFailed(c echo.Context) error {
	var input struct {
		itemKeyInput
		Reason string `json:"reason" validate:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid failure input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	err := h.uc.MarkItemFailed(c.Request().Context(),
		entity.ItemKey{OrderID: input.OrderID, ItemID: input.ItemID}, input.Reason, input.Notes)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Item marked failed")
}

// SetNote annotates the item's parent order. Empty text removes the note.
func (h *GatheringHandler) SetNote(c echo.Context) error {
	var input struct {
		itemKeyInput
		Note string `json:"note"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid note input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	err := h.uc.SetWarehouseNote(c.Request().Context(),
		entity.ItemKey{OrderID: input.OrderID, ItemID: input.ItemID}, input.Note)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Warehouse note updated")
}
