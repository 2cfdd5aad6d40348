package impl

import (
	"io"
	"log/slog"
	"time"

	"fulfillment/internal/domain/entity"
	"fulfillment/internal/infra/persistence/memory"
)

// Fixed clock for deterministic assertions.
var testNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func testClock() time.Time {
	return testNow
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedOrder puts a minimal order header in the store and returns it.
func seedOrder(store *memory.Store, id string, mutate ...func(*entity.Order)) *entity.Order {
	order := &entity.Order{
		ID:        id,
		BuyerID:   "buyer-1",
		BuyerName: "Test Buyer",
		ShippingAddress: &entity.ShippingAddress{
			Line1: "12 Harbor Rd",
			City:  "Centerville",
			Phone: "555-0101",
		},
		DeliveryOption: entity.DeliveryNormal,
		Timestamp:      testNow.Add(-24 * time.Hour),
	}
	for _, m := range mutate {
		m(order)
	}
	store.PutOrder(order)

	return order
}

// seedItem puts a minimal item under the order and returns it.
func seedItem(store *memory.Store, orderID, itemID, sellerID string, mutate ...func(*entity.Item)) *entity.Item {
	item := &entity.Item{
		Key:             entity.ItemKey{OrderID: orderID, ItemID: itemID},
		BuyerID:         "buyer-1",
		SellerID:        sellerID,
		SellerName:      "Seller " + sellerID,
		ProductID:       "product-" + itemID,
		ProductName:     "Product " + itemID,
		Quantity:        1,
		DeliveryOption:  entity.DeliveryNormal,
		Timestamp:       testNow.Add(-24 * time.Hour),
		GatheringStatus: entity.GatheringPending,
	}
	for _, m := range mutate {
		m(item)
	}
	store.PutItem(item)

	return item
}

func atWarehouse(gathererID, gathererName string) func(*entity.Item) {
	return func(item *entity.Item) {
		arrived := testNow.Add(-2 * time.Hour)
		gathered := testNow.Add(-4 * time.Hour)
		item.GatheringStatus = entity.GatheringAtWarehouse
		item.GatheredBy = gathererID
		item.GatheredByName = gathererName
		item.GatheredAt = &gathered
		item.ArrivedAt = &arrived
	}
}
