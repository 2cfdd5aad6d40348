// Package usecase defines the application use case interfaces.
package usecase

import "fulfillment/internal/domain/entity"

// ItemFailure records one item write that did not take effect in a bulk
// operation.
type ItemFailure struct {
	Key    entity.ItemKey `json:"key"`
	Reason string         `json:"reason"`
}

// ItemBulkResult reports the outcome of a bulk item operation. Bulk writes
// are dispatched per document; succeeded keys stay committed even when
// others fail, and nothing is retried automatically.
type ItemBulkResult struct {
	Succeeded []entity.ItemKey `json:"succeeded"`
	Failed    []ItemFailure    `json:"failed"`
}

// OrderFailure records one order write that did not take effect in a bulk
// operation.
type OrderFailure struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// OrderBulkResult reports the outcome of a bulk order operation.
type OrderBulkResult struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []OrderFailure `json:"failed"`
}
