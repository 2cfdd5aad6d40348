package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulfillment/internal/domain/entity"
	domainerrors "fulfillment/internal/domain/errors"
	"fulfillment/internal/infra/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transferFixtures struct {
	service *transferService
	store   *memory.Store
}

func createTestTransferService(t *testing.T) transferFixtures {
	t.Helper()
	store := memory.New()
	service := NewTransferService(store, store, nil, testLogger()).(*transferService)
	service.now = testClock

	return transferFixtures{service: service, store: store}
}

func TestTransferService_TransferItems_BackfillsSystemGatherer(t *testing.T) {
	fx := createTestTransferService(t)
	ctx := context.Background()

	seedOrder(fx.store, "order-1")
	seedItem(fx.store, "order-1", "item-a", "seller-1")
	seedItem(fx.store, "order-1", "item-b", "seller-1")

	result, err := fx.service.TransferItemsToDistribution(ctx, []entity.ItemKey{
		{OrderID: "order-1", ItemID: "item-a"},
		{OrderID: "order-1", ItemID: "item-b"},
	})
	require.NoError(t, err)
	assert.Len(t, result.Succeeded, 2)
	assert.Empty(t, result.Failed)

	for _, itemID := range []string{"item-a", "item-b"} {
		item, err := fx.store.FindItemByKey(ctx, entity.ItemKey{OrderID: "order-1", ItemID: itemID})
		require.NoError(t, err)
		assert.Equal(t, entity.GatheringAtWarehouse, item.GatheringStatus)
		assert.Equal(t, entity.SystemGathererID, item.GatheredBy)
		assert.Equal(t, entity.SystemGathererName, item.GatheredByName)
		require.NotNil(t, item.GatheredAt)
		assert.Equal(t, testNow, *item.GatheredAt)
		require.NotNil(t, item.ArrivedAt)
		assert.Equal(t, testNow, *item.ArrivedAt)
	}
}

func TestTransferService_TransferItems_KeepsRealGatherer(t *testing.T) {
	fx := createTestTransferService(t)
	ctx := context.Background()

	gathered := testNow.Add(-3 * time.Hour)
	seedOrder(fx.store, "order-1")
	seedItem(fx.store, "order-1", "item-a", "seller-1", func(i *entity.Item) {
		i.GatheringStatus = entity.GatheringAssigned
		i.GatheredBy = "gatherer-1"
		i.GatheredByName = "Gail"
		i.GatheredAt = &gathered
	})

	_, err := fx.service.TransferItemsToDistribution(ctx, []entity.ItemKey{{OrderID: "order-1", ItemID: "item-a"}})
	require.NoError(t, err)

	item, err := fx.store.FindItemByKey(ctx, entity.ItemKey{OrderID: "order-1", ItemID: "item-a"})
	require.NoError(t, err)
	assert.Equal(t, entity.GatheringAtWarehouse, item.GatheringStatus)
	assert.Equal(t, "gatherer-1", item.GatheredBy)
	assert.Equal(t, "Gail", item.GatheredByName)
	require.NotNil(t, item.GatheredAt)
	assert.Equal(t, gathered, *item.GatheredAt)
}

func TestTransferService_TransferItems_FlipsOrderAggregate(t *testing.T) {
	fx := createTestTransferService(t)
	ctx := context.Background()

	seedOrder(fx.store, "order-1")
	seedItem(fx.store, "order-1", "item-a", "seller-1", atWarehouse("gatherer-1", "Gail"))
	seedItem(fx.store, "order-1", "item-b", "seller-1")

	_, err := fx.service.TransferItemsToDistribution(ctx, []entity.ItemKey{{OrderID: "order-1", ItemID: "item-b"}})
	require.NoError(t, err)

	order, err := fx.store.FindOrderByID(ctx, "order-1")
	require.NoError(t, err)
	assert.True(t, order.AllItemsGathered)
	assert.Equal(t, entity.DistributionReady, order.DistributionStatus)
}

func TestTransferService_TransferItems_PartialFailureStillRecomputes(t *testing.T) {
	fx := createTestTransferService(t)
	ctx := context.Background()

	seedOrder(fx.store, "order-1")
	seedItem(fx.store, "order-1", "item-a", "seller-1")
	seedItem(fx.store, "order-1", "item-b", "seller-1", atWarehouse("gatherer-1", "Gail"))

	seedOrder(fx.store, "order-2")
	seedItem(fx.store, "order-2", "item-a", "seller-1")
	fx.store.SetItemWriteError(entity.ItemKey{OrderID: "order-2", ItemID: "item-a"}, errors.New("connection reset"))

	result, err := fx.service.TransferItemsToDistribution(ctx, []entity.ItemKey{
		{OrderID: "order-1", ItemID: "item-a"},
		{OrderID: "order-2", ItemID: "item-a"},
	})
	require.NoError(t, err)
	assert.Equal(t, []entity.ItemKey{{OrderID: "order-1", ItemID: "item-a"}}, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, entity.ItemKey{OrderID: "order-2", ItemID: "item-a"}, result.Failed[0].Key)

	// The order with the successful write still had its aggregate recomputed.
	order, err := fx.store.FindOrderByID(ctx, "order-1")
	require.NoError(t, err)
	assert.True(t, order.AllItemsGathered)

	// The failed order stays untouched.
	order, err = fx.store.FindOrderByID(ctx, "order-2")
	require.NoError(t, err)
	assert.False(t, order.AllItemsGathered)
	assert.Equal(t, entity.DistributionNone, order.DistributionStatus)
}

func TestTransferService_TransferItems_NoItems(t *testing.T) {
	fx := createTestTransferService(t)

	_, err := fx.service.TransferItemsToDistribution(context.Background(), nil)
	assert.ErrorIs(t, err, domainerrors.ErrNoItemsSelected)
}

func TestTransferService_ReverseOrder_ResetsOrderAndItems(t *testing.T) {
	fx := createTestTransferService(t)
	ctx := context.Background()

	at := testNow.Add(-1 * time.Hour)
	seedOrder(fx.store, "order-1", func(o *entity.Order) {
		o.AllItemsGathered = true
		o.DistributionStatus = entity.DistributionAssigned
		o.DistributedBy = "distributor-1"
		o.DistributedByName = "Dana"
		o.DistributedAt = &at
	})
	// Picked by a real gatherer: keeps the association, back to assigned.
	seedItem(fx.store, "order-1", "item-a", "seller-1", atWarehouse("gatherer-1", "Gail"))
	// Fast-tracked via the system pseudo-gatherer: back to pending, cleared.
	seedItem(fx.store, "order-1", "item-b", "seller-1", atWarehouse(entity.SystemGathererID, entity.SystemGathererName))

	result, err := fx.service.TransferOrdersToGathering(ctx, []string{"order-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"order-1"}, result.Succeeded)

	order, err := fx.store.FindOrderByID(ctx, "order-1")
	require.NoError(t, err)
	assert.False(t, order.AllItemsGathered)
	assert.Equal(t, entity.DistributionNone, order.DistributionStatus)
	assert.Empty(t, order.DistributedBy)
	assert.Empty(t, order.DistributedByName)
	assert.Nil(t, order.DistributedAt)
	assert.Nil(t, order.DeliveredAt)

	real, err := fx.store.FindItemByKey(ctx, entity.ItemKey{OrderID: "order-1", ItemID: "item-a"})
	require.NoError(t, err)
	assert.Equal(t, entity.GatheringAssigned, real.GatheringStatus)
	assert.Equal(t, "gatherer-1", real.GatheredBy)
	assert.Equal(t, "Gail", real.GatheredByName)
	assert.NotNil(t, real.GatheredAt)
	assert.Nil(t, real.ArrivedAt)

	system, err := fx.store.FindItemByKey(ctx, entity.ItemKey{OrderID: "order-1", ItemID: "item-b"})
	require.NoError(t, err)
	assert.Equal(t, entity.GatheringPending, system.GatheringStatus)
	assert.Empty(t, system.GatheredBy)
	assert.Empty(t, system.GatheredByName)
	assert.Nil(t, system.GatheredAt)
	assert.Nil(t, system.ArrivedAt)
}

func TestTransferService_ReverseOrder_ClearsPartialDeliveryRecord(t *testing.T) {
	fx := createTestTransferService(t)
	ctx := context.Background()

	earlier := testNow.Add(-48 * time.Hour)
	// Fully gathered after a partial delivery: reversal is allowed, and the
	// recall clears the item-level delivery markers.
	seedOrder(fx.store, "order-1", func(o *entity.Order) {
		o.AllItemsGathered = true
		o.DistributionStatus = entity.DistributionDelivered
		o.DeliveredAt = &earlier
	})
	seedItem(fx.store, "order-1", "item-a", "seller-1", func(i *entity.Item) {
		atWarehouse("gatherer-1", "Gail")(i)
		i.DeliveredInPartial = true
		i.PartialDeliveryAt = &earlier
	})

	result, err := fx.service.TransferOrdersToGathering(ctx, []string{"order-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"order-1"}, result.Succeeded)

	item, err := fx.store.FindItemByKey(ctx, entity.ItemKey{OrderID: "order-1", ItemID: "item-a"})
	require.NoError(t, err)
	assert.False(t, item.DeliveredInPartial)
	assert.Nil(t, item.PartialDeliveryAt)
}

func TestTransferService_ReverseOrder_BlocksDeliveredPartialWithoutWrites(t *testing.T) {
	fx := createTestTransferService(t)
	ctx := context.Background()

	delivered := testNow.Add(-24 * time.Hour)

	// Incomplete and partially delivered: reversal must be refused.
	seedOrder(fx.store, "order-blocked", func(o *entity.Order) {
		o.DistributionStatus = entity.DistributionDelivered
		o.DeliveredAt = &delivered
	})
	seedItem(fx.store, "order-blocked", "item-a", "seller-1", func(i *entity.Item) {
		atWarehouse("gatherer-1", "Gail")(i)
		i.DeliveredInPartial = true
		i.PartialDeliveryAt = &delivered
	})
	seedItem(fx.store, "order-blocked", "item-b", "seller-1")

	// A reversible order batched alongside it must not be touched either.
	at := testNow.Add(-1 * time.Hour)
	seedOrder(fx.store, "order-ok", func(o *entity.Order) {
		o.AllItemsGathered = true
		o.DistributionStatus = entity.DistributionAssigned
		o.DistributedBy = "distributor-1"
		o.DistributedAt = &at
	})
	seedItem(fx.store, "order-ok", "item-a", "seller-1", atWarehouse("gatherer-1", "Gail"))

	_, err := fx.service.TransferOrdersToGathering(ctx, []string{"order-ok", "order-blocked"})
	require.ErrorIs(t, err, domainerrors.ErrCannotReverseDeliveredPartial)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details(), "order-blocked")

	// Zero writes: both orders and their items are exactly as seeded.
	blocked, err := fx.store.FindOrderByID(ctx, "order-blocked")
	require.NoError(t, err)
	assert.Equal(t, entity.DistributionDelivered, blocked.DistributionStatus)
	require.NotNil(t, blocked.DeliveredAt)

	ok, err := fx.store.FindOrderByID(ctx, "order-ok")
	require.NoError(t, err)
	assert.Equal(t, entity.DistributionAssigned, ok.DistributionStatus)
	assert.Equal(t, "distributor-1", ok.DistributedBy)

	item, err := fx.store.FindItemByKey(ctx, entity.ItemKey{OrderID: "order-ok", ItemID: "item-a"})
	require.NoError(t, err)
	assert.Equal(t, entity.GatheringAtWarehouse, item.GatheringStatus)
	assert.NotNil(t, item.ArrivedAt)
}

func TestTransferService_ReverseOrder_NotFound(t *testing.T) {
	fx := createTestTransferService(t)

	_, err := fx.service.TransferOrdersToGathering(context.Background(), []string{"missing"})
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestTransferService_ReverseOrder_NoOrders(t *testing.T) {
	fx := createTestTransferService(t)

	_, err := fx.service.TransferOrdersToGathering(context.Background(), nil)
	assert.ErrorIs(t, err, domainerrors.ErrNoOrdersSelected)
}
