package firestoredb

import (
	"context"

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

// itemRepository implements the repository.ItemRepository interface.
type itemRepository struct {
	client     *firestore.Client
	collection string
}

// NewItemRepository is the constructor for itemRepository.
func NewItemRepository(client *firestore.Client, cfg *config.Config) repository.ItemRepository {
	return &itemRepository{
		client:     client,
		collection: ordersCollection(cfg),
	}
}

// itemDoc resolves the document reference for one item key.
func (repo *itemRepository) itemDoc(key entity.ItemKey) *firestore.DocumentRef {
	return repo.client.Collection(repo.collection).
		Doc(key.OrderID).
		Collection(itemsSubcollection).
		Doc(key.ItemID)
}

// FindItemByKey retrieves one item.
func (repo *itemRepository) FindItemByKey(ctx context.Context, key entity.ItemKey) (*entity.Item, error) {
	snap, err := repo.itemDoc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, repository.ErrItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find item by key")
	}

	return decodeItem(snap)
}

// FindItemsByOrder retrieves every item under an order, newest first.
func (repo *itemRepository) FindItemsByOrder(ctx context.Context, orderID string) ([]*entity.Item, error) {
	q := repo.client.Collection(repo.collection).
		Doc(orderID).
		Collection(itemsSubcollection).
		OrderBy("timestamp", firestore.Desc)

	return repo.collectItems(ctx, q)
}

// FindItemsByGatheringStatus retrieves items across all orders whose gathering
// status matches any of the given values, newest first, via a collection-group
// query over every "items" subcollection.
func (repo *itemRepository) FindItemsByGatheringStatus(ctx context.Context, statuses ...entity.GatheringStatus) ([]*entity.Item, error) {
	values := make([]string, 0, len(statuses))
	for _, st := range statuses {
		values = append(values, string(st))
	}

	q := repo.client.CollectionGroup(itemsSubcollection).
		Where(repository.FieldGatheringStatus, "in", values).
		OrderBy("timestamp", firestore.Desc)

	return repo.collectItems(ctx, q)
}

// UpdateItemFields merges the given fields into the item document. A nil
// value deletes the field.
func (repo *itemRepository) UpdateItemFields(ctx context.Context, key entity.ItemKey, fields map[string]any) error {
	_, err := repo.itemDoc(key).Update(ctx, mergeFields(fields))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return repository.ErrItemNotFound
		}

		return domainerrors.NewStoreExecuteError(err, "failed to update item "+key.String())
	}

	return nil
}

// collectItems drains a query into decoded entities.
func (repo *itemRepository) collectItems(ctx context.Context, q firestore.Query) ([]*entity.Item, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var items []*entity.Item
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to iterate items")
		}

		item, err := decodeItem(snap)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func decodeItem(snap *firestore.DocumentSnapshot) (*entity.Item, error) {
	var m model.ItemModel
	if err := snap.DataTo(&m); err != nil {
		return nil, errors.Wrapf(err, "failed to decode item %s", snap.Ref.ID)
	}
	if m.OrderID == "" {
		// Older documents may predate the duplicated orderId field; the
		// parent of the items subcollection is the order document.
		m.OrderID = snap.Ref.Parent.Parent.ID
	}

	return m.ToEntity(snap.Ref.ID), nil
}
