package entity

import "time"

// DeliveryOption selects the shipping speed chosen at purchase time.
type DeliveryOption string

const (
	DeliveryNormal  DeliveryOption = "normal"
	DeliveryExpress DeliveryOption = "express"
)

// DistributionStatus tracks an order through the distribution phase. The zero
// value means the order has not entered distribution yet (stored as a null
// field in the document).
type DistributionStatus string

const (
	DistributionNone        DistributionStatus = ""
	DistributionPending     DistributionStatus = "pending"
	DistributionReady       DistributionStatus = "ready"
	DistributionAssigned    DistributionStatus = "assigned"
	DistributionDistributed DistributionStatus = "distributed"
	DistributionDelivered   DistributionStatus = "delivered"
	DistributionFailed      DistributionStatus = "failed"
)

// ShippingAddress is a buyer-entered delivery address.
type ShippingAddress struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2,omitempty"`
	City  string `json:"city"`
	Phone string `json:"phone"`
}

// PickupPoint is a named collection point the buyer selected instead of a
// shipping address.
type PickupPoint struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Address  string    `json:"address"`
	Phone    string    `json:"phone,omitempty"`
	Hours    string    `json:"hours,omitempty"`
	Contact  string    `json:"contact,omitempty"`
	Notes    string    `json:"notes,omitempty"`
	Location *GeoPoint `json:"location,omitempty"`
}

// Order is the header document of one purchase transaction. Exactly one of
// ShippingAddress and PickupPoint is populated.
type Order struct {
	ID        string `json:"id"`
	BuyerID   string `json:"buyer_id"`
	BuyerName string `json:"buyer_name"`

	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
	PickupPoint     *PickupPoint     `json:"pickup_point,omitempty"`

	DeliveryOption DeliveryOption `json:"delivery_option"`
	Timestamp      time.Time      `json:"timestamp"`

	// AllItemsGathered is a derived aggregate: true iff every item under this
	// order is at the warehouse. Maintained by the transfer protocol.
	AllItemsGathered bool `json:"all_items_gathered"`

	DistributionStatus DistributionStatus `json:"distribution_status,omitempty"`
	DistributedBy      string             `json:"distributed_by,omitempty"`
	DistributedByName  string             `json:"distributed_by_name,omitempty"`
	DistributedAt      *time.Time         `json:"distributed_at,omitempty"`
	DeliveredAt        *time.Time         `json:"delivered_at,omitempty"`

	FailureReason string     `json:"failure_reason,omitempty"`
	FailureNotes  string     `json:"failure_notes,omitempty"`
	FailedAt      *time.Time `json:"failed_at,omitempty"`

	WarehouseNote string `json:"warehouse_note,omitempty"`
}
