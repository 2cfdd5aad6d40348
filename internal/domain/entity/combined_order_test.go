package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var baseTime = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func itemAtWarehouse(id string, arrivedAt time.Time) *Item {
	return &Item{
		Key:             ItemKey{OrderID: "order-1", ItemID: id},
		GatheringStatus: GatheringAtWarehouse,
		GatheredBy:      "gatherer-1",
		ArrivedAt:       &arrivedAt,
	}
}

func itemPending(id string) *Item {
	return &Item{
		Key:             ItemKey{OrderID: "order-1", ItemID: id},
		GatheringStatus: GatheringPending,
	}
}

func TestCombinedOrder_IsIncomplete(t *testing.T) {
	arrived := baseTime.Add(-time.Hour)

	complete := &CombinedOrder{
		Order: &Order{ID: "order-1", AllItemsGathered: true},
		Items: []*Item{itemAtWarehouse("item-a", arrived)},
	}
	assert.False(t, complete.IsIncomplete())

	incomplete := &CombinedOrder{
		Order: &Order{ID: "order-1"},
		Items: []*Item{itemAtWarehouse("item-a", arrived), itemPending("item-b")},
	}
	assert.True(t, incomplete.IsIncomplete())

	// A stale aggregate with every item actually staged is not incomplete.
	staleAggregate := &CombinedOrder{
		Order: &Order{ID: "order-1"},
		Items: []*Item{itemAtWarehouse("item-a", arrived)},
	}
	assert.False(t, staleAggregate.IsIncomplete())
}

func TestCombinedOrder_Condition_Priority(t *testing.T) {
	delivered := baseTime.Add(-24 * time.Hour)
	arrivedAfter := delivered.Add(2 * time.Hour)

	tests := []struct {
		name string
		c    *CombinedOrder
		want OrderCondition
	}{
		{
			name: "incomplete wins over needs completion",
			c: &CombinedOrder{
				Order: &Order{ID: "order-1", DeliveredAt: &delivered},
				Items: []*Item{itemPending("item-a")},
			},
			want: ConditionIncomplete,
		},
		{
			name: "needs completion wins over partial history",
			c: &CombinedOrder{
				Order: &Order{ID: "order-1", AllItemsGathered: true, DeliveredAt: &delivered},
				Items: []*Item{itemAtWarehouse("item-a", arrivedAfter)},
			},
			want: ConditionNeedsCompletion,
		},
		{
			name: "partial history when a distributor holds the order",
			c: &CombinedOrder{
				Order: &Order{
					ID:               "order-1",
					AllItemsGathered: true,
					DistributedBy:    "distributor-2",
					DeliveredAt:      &delivered,
				},
				Items: []*Item{itemAtWarehouse("item-a", arrivedAfter)},
			},
			want: ConditionPartialHistory,
		},
		{
			name: "normal",
			c: &CombinedOrder{
				Order: &Order{ID: "order-1", AllItemsGathered: true},
				Items: []*Item{itemAtWarehouse("item-a", baseTime)},
			},
			want: ConditionNormal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Condition())
		})
	}
}

func TestCombinedOrder_StagedAndMissingItems(t *testing.T) {
	arrived := baseTime.Add(-time.Hour)
	c := &CombinedOrder{
		Order: &Order{ID: "order-1"},
		Items: []*Item{
			itemAtWarehouse("item-a", arrived),
			itemPending("item-b"),
			itemAtWarehouse("item-c", arrived),
		},
	}

	staged := c.StagedItems()
	assert.Len(t, staged, 2)
	assert.Equal(t, "item-a", staged[0].Key.ItemID)
	assert.Equal(t, "item-c", staged[1].Key.ItemID)

	missing := c.MissingItems()
	assert.Len(t, missing, 1)
	assert.Equal(t, "item-b", missing[0].Key.ItemID)
}

func TestCombinedOrder_IsPartialDelivery(t *testing.T) {
	arrived := baseTime.Add(-time.Hour)

	someDelivered := itemAtWarehouse("item-a", arrived)
	someDelivered.DeliveredInPartial = true

	partial := &CombinedOrder{
		Order: &Order{ID: "order-1"},
		Items: []*Item{someDelivered, itemPending("item-b")},
	}
	assert.True(t, partial.IsPartialDelivery())

	allDelivered := itemAtWarehouse("item-a", arrived)
	allDelivered.DeliveredInPartial = true
	full := &CombinedOrder{
		Order: &Order{ID: "order-1"},
		Items: []*Item{allDelivered},
	}
	assert.False(t, full.IsPartialDelivery())

	none := &CombinedOrder{Order: &Order{ID: "order-1"}}
	assert.False(t, none.IsPartialDelivery())
}

func TestItem_HasRealGatherer(t *testing.T) {
	assert.False(t, (&Item{}).HasRealGatherer())
	assert.False(t, (&Item{GatheredBy: SystemGathererID}).HasRealGatherer())
	assert.True(t, (&Item{GatheredBy: "gatherer-1"}).HasRealGatherer())
}

func TestGroupItemsBySeller(t *testing.T) {
	items := []*Item{
		{Key: ItemKey{OrderID: "order-1", ItemID: "item-a"}, SellerID: "seller-1", SellerName: "Alpha"},
		{Key: ItemKey{OrderID: "order-2", ItemID: "item-b"}, SellerID: "seller-2", SellerName: "Beta"},
		{Key: ItemKey{OrderID: "order-3", ItemID: "item-c"}, SellerID: "seller-1", SellerName: "Alpha"},
	}

	groups := GroupItemsBySeller(items)
	assert.Len(t, groups, 2)

	// First-seen seller order is preserved.
	assert.Equal(t, "seller-1", groups[0].SellerID)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, "seller-2", groups[1].SellerID)
	assert.Len(t, groups[1].Items, 1)

	keys := groups[0].Keys()
	assert.Equal(t, []ItemKey{
		{OrderID: "order-1", ItemID: "item-a"},
		{OrderID: "order-3", ItemID: "item-c"},
	}, keys)
}
