package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves one order read model from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Archived orders remain addressable by id.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp, err := h.loadOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.Items, err = h.loadItems(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.Shipment, err = h.loadShipment(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) loadOrder(ctx context.Context, orderID kernel.UUID) (GetOrderQueryResponse, error) {
	var row struct {
		ID               uuid.UUID
		OrderNumber      string
		Status           int
		PaymentStatus    int
		PaymentMethod    string
		CouponCode       string
		SubtotalCents    int64
		ShippingCents    int64
		TaxCents         int64
		DiscountCents    int64
		TotalCents       int64
		ShipToName       string
		ShipToLine1      string
		ShipToLine2      string
		ShipToCity       string
		ShipToState      string
		ShipToPostalCode string
		ShipToCountry    string
		ShipToPhone      string
		Archived         bool
	}

	resp := GetOrderQueryResponse{}
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			status,
			payment_status,
			payment_method,
			coupon_code,
			subtotal_cents,
			shipping_cost_cents,
			tax_cents,
			discount_cents,
			total_cents,
			ship_to_name,
			ship_to_line1,
			ship_to_line2,
			ship_to_city,
			ship_to_state,
			ship_to_postal_code,
			ship_to_country,
			ship_to_phone,
			created_at,
			archived
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row().Scan(
		&row.ID,
		&row.OrderNumber,
		&row.Status,
		&row.PaymentStatus,
		&row.PaymentMethod,
		&row.CouponCode,
		&row.SubtotalCents,
		&row.ShippingCents,
		&row.TaxCents,
		&row.DiscountCents,
		&row.TotalCents,
		&row.ShipToName,
		&row.ShipToLine1,
		&row.ShipToLine2,
		&row.ShipToCity,
		&row.ShipToState,
		&row.ShipToPostalCode,
		&row.ShipToCountry,
		&row.ShipToPhone,
		&resp.CreatedAt,
		&row.Archived,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return GetOrderQueryResponse{}, err
	}

	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.ID = id
	resp.OrderNumber = row.OrderNumber
	resp.Status = order.Status(row.Status).String()
	resp.PaymentStatus = order.PaymentStatus(row.PaymentStatus).String()
	resp.PaymentMethod = row.PaymentMethod
	resp.CouponCode = row.CouponCode
	resp.Charges = ChargesResponse{
		SubtotalCents:     row.SubtotalCents,
		ShippingCostCents: row.ShippingCents,
		TaxCents:          row.TaxCents,
		DiscountCents:     row.DiscountCents,
		TotalCents:        row.TotalCents,
	}
	resp.ShipTo = AddressResponse{
		Name:       row.ShipToName,
		Line1:      row.ShipToLine1,
		Line2:      row.ShipToLine2,
		City:       row.ShipToCity,
		State:      row.ShipToState,
		PostalCode: row.ShipToPostalCode,
		Country:    row.ShipToCountry,
		Phone:      row.ShipToPhone,
	}
	resp.Archived = row.Archived
	return resp, nil
}

func (h GetOrderQueryHandler) loadItems(ctx context.Context, orderID kernel.UUID) ([]LineItemResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			product_id,
			name,
			quantity,
			unit_price_cents,
			line_total_cents
		FROM line_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]LineItemResponse, 0)
	for rows.Next() {
		var item LineItemResponse
		var productID uuid.UUID

		err = rows.Scan(&productID, &item.Name, &item.Quantity, &item.UnitPriceCents, &item.LineTotalCents)
		if err != nil {
			return nil, err
		}

		item.ProductID, err = kernel.UUIDFromBytes(productID[:])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (h GetOrderQueryHandler) loadShipment(ctx context.Context, orderID kernel.UUID) (*ShipmentResponse, error) {
	var resp ShipmentResponse
	var status int

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			tracking_number,
			carrier,
			service_type,
			status,
			label_url,
			estimated_delivery,
			shipped_at,
			delivered_at,
			received_by,
			needs_attention
		FROM shipments
		WHERE order_id = ?
	`, orderID.Bytes()).Row().Scan(
		&resp.TrackingNumber,
		&resp.Carrier,
		&resp.ServiceType,
		&status,
		&resp.LabelURL,
		&resp.EstimatedDelivery,
		&resp.ShippedAt,
		&resp.DeliveredAt,
		&resp.ReceivedBy,
		&resp.NeedsAttention,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	resp.Status = shipment.Status(status).String()
	return &resp, nil
}
