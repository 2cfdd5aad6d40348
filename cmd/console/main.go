package main

import (
	"context"
	"log/slog"
	"os"

	"fulfillment/config"
	"fulfillment/internal/delivery"
	"fulfillment/internal/delivery/http"
	"fulfillment/internal/delivery/http/middleware"
	"fulfillment/internal/delivery/http/router/handler"
	"fulfillment/internal/infra/functions"
	logs "fulfillment/internal/infra/log"
	"fulfillment/internal/infra/persistence/firestoredb"
	"fulfillment/internal/infra/pubsub"
	"fulfillment/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		firestoredb.NewClient,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			firestoredb.NewOrderRepository,
			firestoredb.NewItemRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			pubsub.NewEventPublisher,
			functions.NewCatalogFunctions,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewGatheringService,
			impl.NewDistributionService,
			impl.NewTransferService,
			impl.NewArchiveService,
			impl.NewCatalogService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewGatheringHandler,
			handler.NewDistributionHandler,
			handler.NewTransferHandler,
			handler.NewArchiveHandler,
			handler.NewCatalogHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
