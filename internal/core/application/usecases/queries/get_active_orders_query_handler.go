package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler retrieves the active order work queue from the
// database. Orders leave the queue when they are delivered, cancelled, or
// archived.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order queries.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query. Results are ordered oldest first so the orders
// waiting longest surface at the top of the queue.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			orders.id,
			orders.order_number,
			orders.status,
			orders.payment_status,
			orders.total_cents,
			shipments.tracking_number,
			shipments.needs_attention,
			orders.created_at
		FROM orders
		LEFT JOIN shipments ON shipments.order_id = orders.id
		WHERE orders.status NOT IN (?, ?)
		  AND orders.archived = false
		ORDER BY orders.created_at
	`, order.Delivered, order.Cancelled).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetActiveOrdersQueryResponse, 0)
	for rows.Next() {
		var resp GetActiveOrdersQueryResponse
		var id uuid.UUID
		var status, paymentStatus int
		var trackingNumber sql.NullString
		var needsAttention sql.NullBool

		err = rows.Scan(
			&id,
			&resp.OrderNumber,
			&status,
			&paymentStatus,
			&resp.TotalCents,
			&trackingNumber,
			&needsAttention,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		resp.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		resp.Status = order.Status(status).String()
		resp.PaymentStatus = order.PaymentStatus(paymentStatus).String()
		resp.TrackingNumber = trackingNumber.String
		resp.NeedsAttention = needsAttention.Bool
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
