// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"fulfillment/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	GatheringHandler    *handler.GatheringHandler
	DistributionHandler *handler.DistributionHandler
	TransferHandler     *handler.TransferHandler
	ArchiveHandler      *handler.ArchiveHandler
	CatalogHandler      *handler.CatalogHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	gathering    *handler.GatheringHandler
	distribution *handler.DistributionHandler
	transfer     *handler.TransferHandler
	archive      *handler.ArchiveHandler
	catalog      *handler.CatalogHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		gathering:    params.GatheringHandler,
		distribution: params.DistributionHandler,
		transfer:     params.TransferHandler,
		archive:      params.ArchiveHandler,
		catalog:      params.CatalogHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	gatheringGroup := e.Group("/gathering")
	{
		gatheringGroup.GET("/unassigned", r.gathering.ListUnassigned)
		gatheringGroup.GET("/assigned", r.gathering.ListAssigned)
		gatheringGroup.POST("/assign", r.gathering.AssignItems)
		gatheringGroup.POST("/unassign", r.gathering.UnassignItem)
		gatheringGroup.POST("/arrived", r.gathering.MarkArrived)
		gatheringGroup.POST("/failed", r.gathering.MarkFailed)
		gatheringGroup.PUT("/note", r.gathering.SetNote)
	}

	distributionGroup := e.Group("/distribution")
	{
		distributionGroup.GET("/unassigned", r.distribution.ListUnassigned)
		distributionGroup.GET("/assigned", r.distribution.ListAssigned)
		distributionGroup.POST("/assign", r.distribution.AssignOrders)
		distributionGroup.POST("/orders/:orderId/unassign", r.distribution.UnassignOrder)
		distributionGroup.POST("/delivered", r.distribution.MarkDelivered)
		distributionGroup.POST("/orders/:orderId/failed", r.distribution.MarkFailed)
		distributionGroup.PUT("/orders/:orderId/note", r.distribution.SetNote)
	}

	transferGroup := e.Group("/transfer")
	{
		transferGroup.POST("/to-distribution", r.transfer.ToDistribution)
		transferGroup.POST("/to-gathering", r.transfer.ToGathering)
	}

	e.GET("/archive/delivered", r.archive.ListDelivered)

	catalogGroup := e.Group("/catalog")
	{
		catalogGroup.POST("/boost", r.catalog.BoostProducts)
		catalogGroup.POST("/archive-toggle", r.catalog.ToggleArchiveStatus)
	}
}
