// Package entity contains the core business objects of the project.
package entity

import "time"

// GatheringStatus tracks an item through the gathering phase.
type GatheringStatus string

const (
	GatheringPending     GatheringStatus = "pending"
	GatheringAssigned    GatheringStatus = "assigned"
	GatheringGathered    GatheringStatus = "gathered"
	GatheringAtWarehouse GatheringStatus = "at_warehouse"
	GatheringFailed      GatheringStatus = "failed"
)

// Pseudo-gatherer credited on items promoted to the warehouse without a real
// picker. Must stay distinguishable from genuine assignments.
const (
	SystemGathererID   = "SYSTEM"
	SystemGathererName = "Admin Transfer"
)

// ItemKey uniquely addresses a line item: items live in a sub-collection under
// their order, so both components are required.
type ItemKey struct {
	OrderID string `json:"order_id"`
	ItemID  string `json:"item_id"`
}

// String renders the key as a document path fragment.
func (k ItemKey) String() string {
	return k.OrderID + "/" + k.ItemID
}

// SellerContact is a snapshot of the seller's routing details captured when
// the item was created. It is never re-fetched from the seller record.
type SellerContact struct {
	AddressLine   string    `json:"address_line"`
	Location      *GeoPoint `json:"location,omitempty"`
	ContactNumber string    `json:"contact_number,omitempty"`
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Item is one line item within an order.
type Item struct {
	Key ItemKey `json:"key"`

	BuyerID       string `json:"buyer_id"`
	SellerID      string `json:"seller_id"`
	SellerName    string `json:"seller_name"`
	IsShopProduct bool   `json:"is_shop_product"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Quantity      int    `json:"quantity"`

	DeliveryOption DeliveryOption `json:"delivery_option"`
	Timestamp      time.Time      `json:"timestamp"`

	GatheringStatus GatheringStatus `json:"gathering_status"`
	GatheredBy      string          `json:"gathered_by,omitempty"`
	GatheredByName  string          `json:"gathered_by_name,omitempty"`
	GatheredAt      *time.Time      `json:"gathered_at,omitempty"`
	ArrivedAt       *time.Time      `json:"arrived_at,omitempty"`

	// DeliveredInPartial records that this specific item was physically
	// handed to the buyer, independent of order-level bookkeeping. Only the
	// reversal transition may clear it.
	DeliveredInPartial bool       `json:"delivered_in_partial"`
	PartialDeliveryAt  *time.Time `json:"partial_delivery_at,omitempty"`

	FailureReason string     `json:"failure_reason,omitempty"`
	FailureNotes  string     `json:"failure_notes,omitempty"`
	FailedAt      *time.Time `json:"failed_at,omitempty"`

	SellerContact SellerContact `json:"seller_contact"`
}

// HasRealGatherer reports whether the item was assigned to an actual picker,
// as opposed to being unassigned or fast-tracked by the system.
func (i *Item) HasRealGatherer() bool {
	return i.GatheredBy != "" && i.GatheredBy != SystemGathererID
}

// AtWarehouse reports whether the item has reached the central warehouse.
func (i *Item) AtWarehouse() bool {
	return i.GatheringStatus == GatheringAtWarehouse
}
