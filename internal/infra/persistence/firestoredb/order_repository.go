package firestoredb

import (
	"context"
	"time"

	"fulfillment/config"
	"fulfillment/internal/domain/entity"
	domainerrors "fulfillment/internal/domain/errors"
	"fulfillment/internal/domain/repository"
	"fulfillment/internal/infra/persistence/model"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	client     *firestore.Client
	collection string
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(client *firestore.Client, cfg *config.Config) repository.OrderRepository {
	return &orderRepository{
		client:     client,
		collection: ordersCollection(cfg),
	}
}

// FindOrderByID retrieves one order header.
func (repo *orderRepository) FindOrderByID(ctx context.Context, orderID string) (*entity.Order, error) {
	snap, err := repo.client.Collection(repo.collection).Doc(orderID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by ID")
	}

	return decodeOrder(snap)
}

// FindOrdersByGathered retrieves orders matching the aggregate flag and any of
// the given distribution statuses. Firestore has no OR across values of a
// bool-plus-status pair, so one equality query runs per status and the results
// are concatenated; callers deduplicate.
//
// The zero status cannot be an equality query: an equality match on null
// misses documents where the field was never written at all, and orders are
// created upstream without any distribution fields. Those are fetched by the
// flag alone and filtered after decoding, which treats null and absent the
// same way.
func (repo *orderRepository) FindOrdersByGathered(ctx context.Context, allGathered bool, statuses ...entity.DistributionStatus) ([]*entity.Order, error) {
	var orders []*entity.Order
	for _, st := range statuses {
		q := repo.client.Collection(repo.collection).
			Where(repository.FieldAllItemsGathered, "==", allGathered)
		if st != entity.DistributionNone {
			q = q.Where(repository.FieldDistributionStatus, "==", string(st))
		}

		batch, err := repo.collectOrders(ctx, q)
		if err != nil {
			return nil, err
		}
		if st == entity.DistributionNone {
			batch = ordersWithNoStatus(batch)
		}
		orders = append(orders, batch...)
	}

	return orders, nil
}

// FindOrdersByStatus retrieves orders with any of the given distribution
// statuses regardless of the aggregate flag.
func (repo *orderRepository) FindOrdersByStatus(ctx context.Context, statuses ...entity.DistributionStatus) ([]*entity.Order, error) {
	var orders []*entity.Order
	for _, st := range statuses {
		q := repo.client.Collection(repo.collection).
			Where(repository.FieldDistributionStatus, "==", statusQueryValue(st))

		batch, err := repo.collectOrders(ctx, q)
		if err != nil {
			return nil, err
		}
		orders = append(orders, batch...)
	}

	return orders, nil
}

// FindDeliveredSince retrieves delivered orders, newest delivery first. The
// deliveredAt ordering doubles as the existence filter: documents without the
// field never carried a delivery.
func (repo *orderRepository) FindDeliveredSince(ctx context.Context, since *time.Time) ([]*entity.Order, error) {
	q := repo.client.Collection(repo.collection).
		OrderBy(repository.FieldDeliveredAt, firestore.Desc)
	if since != nil {
		q = q.Where(repository.FieldDeliveredAt, ">=", *since)
	}

	return repo.collectOrders(ctx, q)
}

// UpdateOrderFields merges the given fields into the order document. A nil
// value deletes the field, except distributionStatus, which is written as an
// explicit null so a cleared status stays distinguishable in the raw
// document from one that was never set. Readers treat both as no status.
func (repo *orderRepository) UpdateOrderFields(ctx context.Context, orderID string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		switch {
		case value == nil && path == repository.FieldDistributionStatus:
			updates = append(updates, firestore.Update{Path: path, Value: nil})
		case value == nil:
			updates = append(updates, firestore.Update{Path: path, Value: firestore.Delete})
		default:
			updates = append(updates, firestore.Update{Path: path, Value: value})
		}
	}

	_, err := repo.client.Collection(repo.collection).Doc(orderID).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return repository.ErrOrderNotFound
		}

		return domainerrors.NewStoreExecuteError(err, "failed to update order "+orderID)
	}

	return nil
}

// collectOrders drains a query into decoded entities.
func (repo *orderRepository) collectOrders(ctx context.Context, q firestore.Query) ([]*entity.Order, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var orders []*entity.Order
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to iterate orders")
		}

		order, err := decodeOrder(snap)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func decodeOrder(snap *firestore.DocumentSnapshot) (*entity.Order, error) {
	var m model.OrderModel
	if err := snap.DataTo(&m); err != nil {
		return nil, errors.Wrapf(err, "failed to decode order %s", snap.Ref.ID)
	}

	return m.ToEntity(snap.Ref.ID), nil
}

// statusQueryValue maps the zero status to the stored null.
func statusQueryValue(st entity.DistributionStatus) any {
	if st == entity.DistributionNone {
		return nil
	}

	return string(st)
}

// ordersWithNoStatus keeps the orders that decoded to the zero distribution
// status, whether the document held an explicit null or no field at all.
func ordersWithNoStatus(batch []*entity.Order) []*entity.Order {
	var matched []*entity.Order
	for _, order := range batch {
		if order.DistributionStatus == entity.DistributionNone {
			matched = append(matched, order)
		}
	}

	return matched
}
