package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTrackingHistoryQueryHandler retrieves a shipment's tracking timeline
// from the database.
type GetTrackingHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetTrackingHistoryQueryHandler creates a handler for tracking history queries.
func NewGetTrackingHistoryQueryHandler(db *gorm.DB) GetTrackingHistoryQueryHandler {
	return GetTrackingHistoryQueryHandler{db: db}
}

// Handle executes the query. Fails with an object-not-found error when the
// order has no shipment yet.
func (h GetTrackingHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetTrackingHistoryQuery,
) (GetTrackingHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTrackingHistoryQueryResponse{}, err
	}

	var resp GetTrackingHistoryQueryResponse
	var shipmentID uuid.UUID
	var status int

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tracking_number,
			carrier,
			status,
			needs_attention,
			estimated_delivery
		FROM shipments
		WHERE order_id = ?
	`, query.OrderID().Bytes()).Row().Scan(
		&shipmentID,
		&resp.TrackingNumber,
		&resp.Carrier,
		&status,
		&resp.NeedsAttention,
		&resp.EstimatedDelivery,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetTrackingHistoryQueryResponse{}, errs.NewObjectNotFoundError(
				"shipment", query.OrderID().String())
		}
		return GetTrackingHistoryQueryResponse{}, err
	}

	resp.Status = shipment.Status(status).String()

	resp.Events, err = h.loadEvents(ctx, shipmentID)
	if err != nil {
		return GetTrackingHistoryQueryResponse{}, err
	}

	return resp, nil
}

func (h GetTrackingHistoryQueryHandler) loadEvents(
	ctx context.Context,
	shipmentID uuid.UUID,
) ([]TrackingEventResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			timestamp,
			status,
			status_details,
			location,
			is_exception
		FROM tracking_events
		WHERE shipment_id = ?
		ORDER BY timestamp
	`, shipmentID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]TrackingEventResponse, 0)
	for rows.Next() {
		var event TrackingEventResponse

		err = rows.Scan(
			&event.Timestamp,
			&event.Status,
			&event.StatusDetails,
			&event.Location,
			&event.IsException,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
