package impl

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/domain/entity"
	"fulfillment/internal/infra/persistence/memory"
	"fulfillment/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type archiveFixtures struct {
	service *archiveService
	store   *memory.Store
}

func createTestArchiveService(t *testing.T) archiveFixtures {
	t.Helper()
	store := memory.New()
	service := NewArchiveService(store, store, testLogger()).(*archiveService)
	service.now = testClock

	return archiveFixtures{service: service, store: store}
}

// seedDelivered puts a delivered order with one fully delivered item.
func seedDelivered(store *memory.Store, id string, deliveredAt time.Time) {
	seedOrder(store, id, func(o *entity.Order) {
		o.AllItemsGathered = true
		o.DistributionStatus = entity.DistributionDelivered
		o.DistributedBy = "distributor-1"
		o.DeliveredAt = &deliveredAt
	})
	seedItem(store, id, "item-a", "seller-1", func(i *entity.Item) {
		atWarehouse("gatherer-1", "Gail")(i)
		i.DeliveredInPartial = true
		i.PartialDeliveryAt = &deliveredAt
	})
}

func TestArchiveService_ListDelivered_Windows(t *testing.T) {
	fx := createTestArchiveService(t)
	ctx := context.Background()

	seedDelivered(fx.store, "order-today", testNow.Add(-2*time.Hour))
	seedDelivered(fx.store, "order-week", testNow.AddDate(0, 0, -3))
	seedDelivered(fx.store, "order-month", testNow.AddDate(0, 0, -20))
	seedDelivered(fx.store, "order-old", testNow.AddDate(0, -3, 0))

	tests := []struct {
		window usecase.Window
		want   []string
	}{
		{usecase.WindowToday, []string{"order-today"}},
		{usecase.WindowWeek, []string{"order-today", "order-week"}},
		{usecase.WindowMonth, []string{"order-today", "order-week", "order-month"}},
		{usecase.WindowAll, []string{"order-today", "order-week", "order-month", "order-old"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.window), func(t *testing.T) {
			summary, err := fx.service.ListDelivered(ctx, tt.window)
			require.NoError(t, err)

			got := make([]string, 0, len(summary.Orders))
			for _, d := range summary.Orders {
				got = append(got, d.Order.ID)
			}
			assert.ElementsMatch(t, tt.want, got)
			assert.Equal(t, len(tt.want), summary.TotalInWindow)
		})
	}
}

func TestArchiveService_ListDelivered_Counts(t *testing.T) {
	fx := createTestArchiveService(t)
	ctx := context.Background()

	seedDelivered(fx.store, "order-today", testNow.Add(-1*time.Hour))
	seedDelivered(fx.store, "order-yesterday", testNow.AddDate(0, 0, -1))
	seedDelivered(fx.store, "order-old", testNow.AddDate(0, 0, -10))

	summary, err := fx.service.ListDelivered(ctx, usecase.WindowAll)
	require.NoError(t, err)

	// The counts are against fixed boundaries, independent of the window.
	assert.Equal(t, 1, summary.DeliveredToday)
	assert.Equal(t, 2, summary.DeliveredWeek)
	assert.Equal(t, 3, summary.TotalInWindow)
}

func TestArchiveService_ListDelivered_SortedNewestFirst(t *testing.T) {
	fx := createTestArchiveService(t)
	ctx := context.Background()

	seedDelivered(fx.store, "order-oldest", testNow.AddDate(0, 0, -6))
	seedDelivered(fx.store, "order-newest", testNow.Add(-1*time.Hour))
	seedDelivered(fx.store, "order-middle", testNow.AddDate(0, 0, -2))

	summary, err := fx.service.ListDelivered(ctx, usecase.WindowWeek)
	require.NoError(t, err)
	require.Len(t, summary.Orders, 3)
	assert.Equal(t, "order-newest", summary.Orders[0].Order.ID)
	assert.Equal(t, "order-middle", summary.Orders[1].Order.ID)
	assert.Equal(t, "order-oldest", summary.Orders[2].Order.ID)
}

func TestArchiveService_ListDelivered_PartialClassification(t *testing.T) {
	fx := createTestArchiveService(t)
	ctx := context.Background()

	deliveredAt := testNow.Add(-1 * time.Hour)

	// Every item went out: a full delivery.
	seedDelivered(fx.store, "order-full", deliveredAt)

	// One item went out, one never did: a partial delivery.
	seedOrder(fx.store, "order-partial", func(o *entity.Order) {
		o.DistributionStatus = entity.DistributionDelivered
		o.DeliveredAt = &deliveredAt
	})
	seedItem(fx.store, "order-partial", "item-a", "seller-1", func(i *entity.Item) {
		atWarehouse("gatherer-1", "Gail")(i)
		i.DeliveredInPartial = true
		i.PartialDeliveryAt = &deliveredAt
	})
	seedItem(fx.store, "order-partial", "item-b", "seller-1")

	summary, err := fx.service.ListDelivered(ctx, usecase.WindowToday)
	require.NoError(t, err)
	require.Len(t, summary.Orders, 2)

	partial := make(map[string]bool, 2)
	for _, d := range summary.Orders {
		partial[d.Order.ID] = d.Partial
	}
	assert.False(t, partial["order-full"])
	assert.True(t, partial["order-partial"])
}

func TestArchiveService_ListDelivered_Empty(t *testing.T) {
	fx := createTestArchiveService(t)

	summary, err := fx.service.ListDelivered(context.Background(), usecase.WindowAll)
	require.NoError(t, err)
	assert.Empty(t, summary.Orders)
	assert.Zero(t, summary.TotalInWindow)
	assert.Zero(t, summary.DeliveredToday)
	assert.Zero(t, summary.DeliveredWeek)
}
