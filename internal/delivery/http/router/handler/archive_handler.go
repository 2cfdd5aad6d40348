package handler

import (
	"log/slog"
	"net/http"

	"fulfillment/internal/delivery/http/response"
	"fulfillment/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ArchiveHandler holds dependencies for the delivered-archive read model.
type ArchiveHandler struct {
	uc     usecase.ArchiveUsecase
	logger *slog.Logger
}

// NewArchiveHandler is the constructor for ArchiveHandler, injected by Fx.
func NewArchiveHandler(uc usecase.ArchiveUsecase, logger *slog.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListDelivered returns the delivered archive for the requested window.
// Defaults to today.
func (h *ArchiveHandler) ListDelivered(c echo.Context) error {
	window := usecase.Window(c.QueryParam("window"))
	switch window {
	case "":
		window = usecase.WindowToday
	case usecase.WindowToday, usecase.WindowWeek, usecase.WindowMonth, usecase.WindowAll:
	default:
		return response.BindingError(c, "INVALID_WINDOW", "window must be today, week, month or all")
	}

	summary, err := h.uc.ListDelivered(c.Request().Context(), window)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, summary, "")
}
