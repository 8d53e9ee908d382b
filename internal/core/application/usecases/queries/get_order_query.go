// Package queries contains read-side operations in the CQRS architecture.
// Query handlers read the database directly with raw SQL and return plain
// response structs; they never load or mutate domain aggregates.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its line items and shipment state.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query to retrieve one order by its identifier.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the identifier of the order to retrieve.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse represents the full order read model.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	OrderNumber   string
	Status        string
	PaymentStatus string
	PaymentMethod string
	CouponCode    string
	Charges       ChargesResponse
	ShipTo        AddressResponse
	Items         []LineItemResponse
	Shipment      *ShipmentResponse
	CreatedAt     time.Time
	Archived      bool
}

// ChargesResponse represents the order money breakdown in integer cents.
type ChargesResponse struct {
	SubtotalCents     int64
	ShippingCostCents int64
	TaxCents          int64
	DiscountCents     int64
	TotalCents        int64
}

// AddressResponse represents a shipping destination.
type AddressResponse struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// LineItemResponse represents one purchased product line.
type LineItemResponse struct {
	ProductID      kernel.UUID
	Name           string
	Quantity       int
	UnitPriceCents int64
	LineTotalCents int64
}

// ShipmentResponse represents the shipment attached to an order, without its
// event history. Use GetTrackingHistoryQuery for the full event list.
type ShipmentResponse struct {
	TrackingNumber    string
	Carrier           string
	ServiceType       string
	Status            string
	LabelURL          string
	EstimatedDelivery *time.Time
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
	ReceivedBy        string
	NeedsAttention    bool
}
