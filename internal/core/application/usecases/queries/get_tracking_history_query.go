package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetTrackingHistoryQueryIsNotConstructed = errors.New(
	"GetTrackingHistoryQuery must be created via NewGetTrackingHistoryQuery constructor",
)

// GetTrackingHistoryQuery retrieves the carrier event history of one order's
// shipment, oldest event first.
type GetTrackingHistoryQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetTrackingHistoryQuery creates a query to retrieve tracking history.
func NewGetTrackingHistoryQuery(orderID kernel.UUID) (GetTrackingHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetTrackingHistoryQuery{}, err
	}

	return GetTrackingHistoryQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTrackingHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingHistoryQueryIsNotConstructed)
}

// OrderID returns the identifier of the order whose history is requested.
func (q GetTrackingHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetTrackingHistoryQueryResponse represents a shipment's tracking timeline.
type GetTrackingHistoryQueryResponse struct {
	TrackingNumber    string
	Carrier           string
	Status            string
	NeedsAttention    bool
	EstimatedDelivery *time.Time
	Events            []TrackingEventResponse
}

// TrackingEventResponse represents one carrier tracking event.
type TrackingEventResponse struct {
	Timestamp     time.Time
	Status        string
	StatusDetails string
	Location      string
	IsException   bool
}
