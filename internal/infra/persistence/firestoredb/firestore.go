// Package firestoredb implements the repository interfaces on Cloud
// Firestore. Orders live at {ordersCollection}/{orderId}; items live in the
// "items" subcollection under each order and are queried across orders with a
// collection-group query.
package firestoredb

import (
	"context"
	"log/slog"

	"fulfillment/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

const (
	defaultOrdersCollection = "orders"
	itemsSubcollection      = "items"
)

// ClientParams holds dependencies for the Firestore client, injected by Fx
type ClientParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewClient creates the Firestore client from configuration and registers its
// shutdown hook.
func NewClient(params ClientParams) (*firestore.Client, error) {
	cfg := params.Config.Firestore
	if cfg == nil || cfg.ProjectID == "" {
		return nil, errors.New("firestore project ID is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(params.Ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Firestore(params.Ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Firestore client")
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing Firestore client")

			return client.Close()
		},
	})

	params.Logger.Info("Firestore client initialized",
		slog.String("project_id", cfg.ProjectID),
	)

	return client, nil
}

// ordersCollection resolves the configured top-level collection name.
func ordersCollection(cfg *config.Config) string {
	if cfg.Firestore != nil && cfg.Firestore.OrdersCollection != "" {
		return cfg.Firestore.OrdersCollection
	}

	return defaultOrdersCollection
}

// mergeFields converts a partial-field map into Firestore update operations;
// nil values become field deletes.
func mergeFields(fields map[string]any) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		if value == nil {
			updates = append(updates, firestore.Update{Path: path, Value: firestore.Delete})

			continue
		}
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	return updates
}

// Module provides the Firestore persistence FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewClient),
	fx.Provide(NewOrderRepository),
	fx.Provide(NewItemRepository),
)
