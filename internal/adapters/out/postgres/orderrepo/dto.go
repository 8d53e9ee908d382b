// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, including its owned shipment and tracking history, handling the
// conversion between domain entities and database rows.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Line items and the optional shipment live in their own tables and are
// loaded through GORM associations.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderNumber   string     `gorm:"uniqueIndex"`
	Status        int        `gorm:"index"`
	PaymentStatus int
	PaymentMethod string
	CouponCode    string
	Charges       ChargesDTO `gorm:"embedded"`
	ShipTo        AddressDTO `gorm:"embedded;embeddedPrefix:ship_to_"`
	CreatedAt     time.Time
	Archived      bool `gorm:"index"`

	Items    []LineItemDTO `gorm:"foreignKey:OrderID;references:ID"`
	Shipment *ShipmentDTO  `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName overrides GORM's default naming convention.
func (OrderDTO) TableName() string {
	return "orders"
}

// ChargesDTO stores the order money breakdown as integer cents.
type ChargesDTO struct {
	SubtotalCents     int64
	ShippingCostCents int64
	TaxCents          int64
	DiscountCents     int64
	TotalCents        int64
}

// AddressDTO represents the embedded destination address within the order table.
type AddressDTO struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// LineItemDTO represents one purchased product line within an order.
// Line items are immutable after the order is created.
type LineItemDTO struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	ProductID      uuid.UUID `gorm:"type:uuid"`
	Name           string
	Quantity       int
	UnitPriceCents int64
	LineTotalCents int64
}

// TableName overrides GORM's default naming convention.
func (LineItemDTO) TableName() string {
	return "line_items"
}

// ShipmentDTO represents the database structure for an order's shipment.
// One shipment per order; LastUpdated drives the reconciliation staleness cut.
type ShipmentDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	TrackingNumber    string    `gorm:"index"`
	Carrier           string
	ServiceType       string
	Status            int `gorm:"index"`
	LabelURL          string
	EstimatedDelivery *time.Time
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
	ReceivedBy        string
	Signature         string
	LastUpdated       time.Time `gorm:"index"`
	NeedsAttention    bool
	Package           PackageDTO `gorm:"embedded;embeddedPrefix:package_"`

	Events []TrackingEventDTO `gorm:"foreignKey:ShipmentID;references:ID"`
}

// TableName overrides GORM's default naming convention.
func (ShipmentDTO) TableName() string {
	return "shipments"
}

// PackageDTO stores the declared package characteristics. All-zero columns
// mean the package details were never provided.
type PackageDTO struct {
	WeightGrams int
	LengthCm    int
	WidthCm     int
	HeightCm    int
	Type        string
	Count       int
}

// TrackingEventDTO represents one carrier tracking event.
// The composite unique index makes re-inserting an already merged event a
// no-op, which keeps snapshot merges idempotent at the storage level too.
type TrackingEventDTO struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	ShipmentID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uq_tracking_events_dedup"`
	Timestamp     time.Time `gorm:"uniqueIndex:uq_tracking_events_dedup"`
	Status        string    `gorm:"uniqueIndex:uq_tracking_events_dedup"`
	StatusDetails string
	Location      string `gorm:"uniqueIndex:uq_tracking_events_dedup"`
	IsException   bool
}

// TableName overrides GORM's default naming convention.
func (TrackingEventDTO) TableName() string {
	return "tracking_events"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]LineItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, LineItemDTO{
			OrderID:        aggregate.ID().Bytes(),
			ProductID:      item.ProductID().Bytes(),
			Name:           item.Name(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPrice().Cents(),
			LineTotalCents: item.LineTotal().Cents(),
		})
	}

	charges := aggregate.Charges()
	shipTo := aggregate.ShipTo()

	dto := OrderDTO{
		ID:            aggregate.ID().Bytes(),
		OrderNumber:   aggregate.OrderNumber(),
		Status:        int(aggregate.Status()),
		PaymentStatus: int(aggregate.PaymentStatus()),
		PaymentMethod: aggregate.PaymentMethod(),
		CouponCode:    aggregate.CouponCode(),
		Charges: ChargesDTO{
			SubtotalCents:     charges.Subtotal.Cents(),
			ShippingCostCents: charges.ShippingCost.Cents(),
			TaxCents:          charges.Tax.Cents(),
			DiscountCents:     charges.Discount.Cents(),
			TotalCents:        charges.Total.Cents(),
		},
		ShipTo: AddressDTO{
			Name:       shipTo.Name(),
			Line1:      shipTo.Line1(),
			Line2:      shipTo.Line2(),
			City:       shipTo.City(),
			State:      shipTo.State(),
			PostalCode: shipTo.PostalCode(),
			Country:    shipTo.Country(),
			Phone:      shipTo.Phone(),
		},
		CreatedAt: aggregate.CreatedAt(),
		Archived:  aggregate.IsArchived(),
		Items:     items,
	}

	if s := aggregate.Shipment(); s != nil {
		shipmentDTO := shipmentFromDomain(aggregate.ID(), s)
		dto.Shipment = &shipmentDTO
	}

	return dto
}

func shipmentFromDomain(orderID kernel.UUID, s *shipment.Shipment) ShipmentDTO {
	events := make([]TrackingEventDTO, 0, len(s.TrackingHistory()))
	for _, event := range s.TrackingHistory() {
		events = append(events, TrackingEventDTO{
			ShipmentID:    s.ID().Bytes(),
			Timestamp:     event.Timestamp(),
			Status:        event.Status(),
			StatusDetails: event.StatusDetails(),
			Location:      event.Location(),
			IsException:   event.IsException(),
		})
	}

	details := s.PackageDetails()

	return ShipmentDTO{
		ID:                s.ID().Bytes(),
		OrderID:           orderID.Bytes(),
		TrackingNumber:    s.TrackingNumber(),
		Carrier:           s.Carrier(),
		ServiceType:       s.ServiceType(),
		Status:            int(s.Status()),
		LabelURL:          s.LabelURL(),
		EstimatedDelivery: s.EstimatedDelivery(),
		ShippedAt:         s.ShippedAt(),
		DeliveredAt:       s.DeliveredAt(),
		ReceivedBy:        s.ReceivedBy(),
		Signature:         s.Signature(),
		LastUpdated:       s.LastUpdated(),
		NeedsAttention:    s.NeedsAttention(),
		Package: PackageDTO{
			WeightGrams: details.WeightGrams(),
			LengthCm:    details.LengthCm(),
			WidthCm:     details.WidthCm(),
			HeightCm:    details.HeightCm(),
			Type:        details.PackageType(),
			Count:       details.PackageCount(),
		},
		Events: events,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := lineItemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	shipTo, err := order.NewAddress(
		dto.ShipTo.Name,
		dto.ShipTo.Line1,
		dto.ShipTo.Line2,
		dto.ShipTo.City,
		dto.ShipTo.State,
		dto.ShipTo.PostalCode,
		dto.ShipTo.Country,
		dto.ShipTo.Phone,
	)
	if err != nil {
		return nil, err
	}

	charges, err := chargesToDomain(dto.Charges)
	if err != nil {
		return nil, err
	}

	var orderShipment *shipment.Shipment
	if dto.Shipment != nil {
		orderShipment, err = shipmentToDomain(*dto.Shipment)
		if err != nil {
			return nil, err
		}
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		order.Status(dto.Status),
		order.PaymentStatus(dto.PaymentStatus),
		dto.PaymentMethod,
		items,
		shipTo,
		charges,
		dto.CouponCode,
		dto.CreatedAt,
		dto.Archived,
		orderShipment,
	)
}

func lineItemToDomain(dto LineItemDTO) (order.LineItem, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.LineItem{}, err
	}
	unitPrice, err := kernel.NewMoney(dto.UnitPriceCents)
	if err != nil {
		return order.LineItem{}, err
	}
	lineTotal, err := kernel.NewMoney(dto.LineTotalCents)
	if err != nil {
		return order.LineItem{}, err
	}

	return order.NewLineItem(productID, dto.Name, dto.Quantity, unitPrice, lineTotal)
}

func chargesToDomain(dto ChargesDTO) (order.Charges, error) {
	subtotal, err := kernel.NewMoney(dto.SubtotalCents)
	if err != nil {
		return order.Charges{}, err
	}
	shipping, err := kernel.NewMoney(dto.ShippingCostCents)
	if err != nil {
		return order.Charges{}, err
	}
	tax, err := kernel.NewMoney(dto.TaxCents)
	if err != nil {
		return order.Charges{}, err
	}
	discount, err := kernel.NewMoney(dto.DiscountCents)
	if err != nil {
		return order.Charges{}, err
	}
	total, err := kernel.NewMoney(dto.TotalCents)
	if err != nil {
		return order.Charges{}, err
	}

	return order.Charges{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Tax:          tax,
		Discount:     discount,
		Total:        total,
	}, nil
}

func shipmentToDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var details shipment.PackageDetails
	if dto.Package != (PackageDTO{}) {
		details, err = shipment.NewPackageDetails(
			dto.Package.WeightGrams,
			dto.Package.LengthCm,
			dto.Package.WidthCm,
			dto.Package.HeightCm,
			dto.Package.Type,
			dto.Package.Count,
		)
		if err != nil {
			return nil, err
		}
	}

	history := make([]shipment.TrackingEvent, 0, len(dto.Events))
	for _, eventDTO := range dto.Events {
		event, eventErr := shipment.NewTrackingEvent(
			eventDTO.Timestamp,
			eventDTO.Status,
			eventDTO.StatusDetails,
			eventDTO.Location,
			eventDTO.IsException,
		)
		if eventErr != nil {
			return nil, eventErr
		}
		history = append(history, event)
	}

	return shipment.RestoreShipment(
		id,
		dto.TrackingNumber,
		dto.Carrier,
		dto.ServiceType,
		shipment.Status(dto.Status),
		dto.LabelURL,
		dto.EstimatedDelivery,
		dto.ShippedAt,
		dto.DeliveredAt,
		dto.ReceivedBy,
		dto.Signature,
		dto.LastUpdated,
		dto.NeedsAttention,
		details,
		history,
	)
}
