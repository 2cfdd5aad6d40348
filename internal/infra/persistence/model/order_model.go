// Package model contains the Firestore-specific document structs. Field tag
// names must stay in sync with the field constants in the repository package:
// partial updates address documents by those names.
package model

import (
	"time"

	"fulfillment/internal/domain/entity"
)

// ShippingAddressModel is the embedded shipping address document.
type ShippingAddressModel struct {
	Line1 string `firestore:"line1"`
	Line2 string `firestore:"line2,omitempty"`
	City  string `firestore:"city"`
	Phone string `firestore:"phone"`
}

// PickupPointModel is the embedded pickup point document.
type PickupPointModel struct {
	ID       string         `firestore:"id"`
	Name     string         `firestore:"name"`
	Address  string         `firestore:"address"`
	Phone    string         `firestore:"phone,omitempty"`
	Hours    string         `firestore:"hours,omitempty"`
	Contact  string         `firestore:"contact,omitempty"`
	Notes    string         `firestore:"notes,omitempty"`
	Location *GeoPointModel `firestore:"location,omitempty"`
}

// GeoPointModel is an embedded latitude/longitude pair.
type GeoPointModel struct {
	Latitude  float64 `firestore:"latitude"`
	Longitude float64 `firestore:"longitude"`
}

// OrderModel is the Firestore document for one order header. The document ID
// is the order ID and is not stored as a field.
type OrderModel struct {
	BuyerID   string `firestore:"buyerId"`
	BuyerName string `firestore:"buyerName"`

	ShippingAddress *ShippingAddressModel `firestore:"shippingAddress,omitempty"`
	PickupPoint     *PickupPointModel     `firestore:"pickupPoint,omitempty"`

	DeliveryOption string    `firestore:"deliveryOption"`
	Timestamp      time.Time `firestore:"timestamp"`

	AllItemsGathered bool `firestore:"allItemsGathered"`

	DistributionStatus string     `firestore:"distributionStatus,omitempty"`
	DistributedBy      string     `firestore:"distributedBy,omitempty"`
	DistributedByName  string     `firestore:"distributedByName,omitempty"`
	DistributedAt      *time.Time `firestore:"distributedAt,omitempty"`
	DeliveredAt        *time.Time `firestore:"deliveredAt,omitempty"`

	FailureReason string     `firestore:"failureReason,omitempty"`
	FailureNotes  string     `firestore:"failureNotes,omitempty"`
	FailedAt      *time.Time `firestore:"failedAt,omitempty"`

	WarehouseNote string `firestore:"warehouseNote,omitempty"`
}

// ToEntity converts the document into the domain entity.
func (m *OrderModel) ToEntity(orderID string) *entity.Order {
	order := &entity.Order{
		ID:                 orderID,
		BuyerID:            m.BuyerID,
		BuyerName:          m.BuyerName,
		DeliveryOption:     entity.DeliveryOption(m.DeliveryOption),
		Timestamp:          m.Timestamp,
		AllItemsGathered:   m.AllItemsGathered,
		DistributionStatus: entity.DistributionStatus(m.DistributionStatus),
		DistributedBy:      m.DistributedBy,
		DistributedByName:  m.DistributedByName,
		DistributedAt:      m.DistributedAt,
		DeliveredAt:        m.DeliveredAt,
		FailureReason:      m.FailureReason,
		FailureNotes:       m.FailureNotes,
		FailedAt:           m.FailedAt,
		WarehouseNote:      m.WarehouseNote,
	}
	if m.ShippingAddress != nil {
		order.ShippingAddress = &entity.ShippingAddress{
			Line1: m.ShippingAddress.Line1,
			Line2: m.ShippingAddress.Line2,
			City:  m.ShippingAddress.City,
			Phone: m.ShippingAddress.Phone,
		}
	}
	if m.PickupPoint != nil {
		order.PickupPoint = &entity.PickupPoint{
			ID:      m.PickupPoint.ID,
			Name:    m.PickupPoint.Name,
			Address: m.PickupPoint.Address,
			Phone:   m.PickupPoint.Phone,
			Hours:   m.PickupPoint.Hours,
			Contact: m.PickupPoint.Contact,
			Notes:   m.PickupPoint.Notes,
		}
		if m.PickupPoint.Location != nil {
			order.PickupPoint.Location = &entity.GeoPoint{
				Latitude:  m.PickupPoint.Location.Latitude,
				Longitude: m.PickupPoint.Location.Longitude,
			}
		}
	}

	return order
}
