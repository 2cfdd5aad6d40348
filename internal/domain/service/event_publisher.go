// Package service declares collaborator contracts consumed by the use cases.
package service

import (
	"context"
	"time"
)

// Fulfillment event types, one per operator-driven state transition.
const (
	EventGathererAssigned       = "gatherer_assigned"
	EventGathererUnassigned     = "gatherer_unassigned"
	EventItemsArrived           = "items_arrived"
	EventDistributorAssigned    = "distributor_assigned"
	EventDistributorUnassigned  = "distributor_unassigned"
	EventOrdersDelivered        = "orders_delivered"
	EventTransferToDistribution = "transfer_to_distribution"
	EventTransferToGathering    = "transfer_to_gathering"
)

// FulfillmentEvent describes one completed state transition for downstream
// consumers (audit, analytics). Published best-effort after the writes.
type FulfillmentEvent struct {
	EventID    string    `json:"event_id"`
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	EventType  string    `json:"event_type"`
	OrderIDs   []string  `json:"order_ids,omitempty"`
	ItemIDs    []string  `json:"item_ids,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"` // Gatherer or distributor involved
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishFulfillmentEvent publishes a fulfillment event for async processing
	PublishFulfillmentEvent(ctx context.Context, event *FulfillmentEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
