package model

import (
	"time"

	"fulfillment/internal/domain/entity"
)

// SellerContactModel is the embedded seller routing snapshot.
type SellerContactModel struct {
	AddressLine   string         `firestore:"addressLine"`
	Location      *GeoPointModel `firestore:"location,omitempty"`
	ContactNumber string         `firestore:"contactNumber,omitempty"`
}

// ItemModel is the Firestore document for one line item, stored in the
// "items" subcollection under its order. The document ID is the item ID; the
// order ID is duplicated as a field so collection-group queries can rebuild
// the full key without walking document references.
type ItemModel struct {
	OrderID string `firestore:"orderId"`

	BuyerID       string `firestore:"buyerId"`
	SellerID      string `firestore:"sellerId"`
	SellerName    string `firestore:"sellerName"`
	IsShopProduct bool   `firestore:"isShopProduct"`
	ProductID     string `firestore:"productId"`
	ProductName   string `firestore:"productName"`
	Quantity      int    `firestore:"quantity"`

	DeliveryOption string    `firestore:"deliveryOption"`
	Timestamp      time.Time `firestore:"timestamp"`

	GatheringStatus string     `firestore:"gatheringStatus"`
	GatheredBy      string     `firestore:"gatheredBy,omitempty"`
	GatheredByName  string     `firestore:"gatheredByName,omitempty"`
	GatheredAt      *time.Time `firestore:"gatheredAt,omitempty"`
	ArrivedAt       *time.Time `firestore:"arrivedAt,omitempty"`

	DeliveredInPartial bool       `firestore:"deliveredInPartial"`
	PartialDeliveryAt  *time.Time `firestore:"partialDeliveryAt,omitempty"`

	FailureReason string     `firestore:"failureReason,omitempty"`
	FailureNotes  string     `firestore:"failureNotes,omitempty"`
	FailedAt      *time.Time `firestore:"failedAt,omitempty"`

	SellerContact SellerContactModel `firestore:"sellerContact"`
}

// ToEntity converts the document into the domain entity.
func (m *ItemModel) ToEntity(itemID string) *entity.Item {
	item := &entity.Item{
		Key:                entity.ItemKey{OrderID: m.OrderID, ItemID: itemID},
		BuyerID:            m.BuyerID,
		SellerID:           m.SellerID,
		SellerName:         m.SellerName,
		IsShopProduct:      m.IsShopProduct,
		ProductID:          m.ProductID,
		ProductName:        m.ProductName,
		Quantity:           m.Quantity,
		DeliveryOption:     entity.DeliveryOption(m.DeliveryOption),
		Timestamp:          m.Timestamp,
		GatheringStatus:    entity.GatheringStatus(m.GatheringStatus),
		GatheredBy:         m.GatheredBy,
		GatheredByName:     m.GatheredByName,
		GatheredAt:         m.GatheredAt,
		ArrivedAt:          m.ArrivedAt,
		DeliveredInPartial: m.DeliveredInPartial,
		PartialDeliveryAt:  m.PartialDeliveryAt,
		FailureReason:      m.FailureReason,
		FailureNotes:       m.FailureNotes,
		FailedAt:           m.FailedAt,
		SellerContact: entity.SellerContact{
			AddressLine:   m.SellerContact.AddressLine,
			ContactNumber: m.SellerContact.ContactNumber,
		},
	}
	if m.SellerContact.Location != nil {
		item.SellerContact.Location = &entity.GeoPoint{
			Latitude:  m.SellerContact.Location.Latitude,
			Longitude: m.SellerContact.Location.Longitude,
		}
	}

	return item
}
