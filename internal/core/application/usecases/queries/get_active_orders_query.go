package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
	"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
)

// GetActiveOrdersQuery retrieves all orders still moving through fulfillment:
// not delivered, not cancelled, not archived. This is the admin panel's
// default work queue.
type GetActiveOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a query to retrieve the active order list.
func NewGetActiveOrdersQuery() GetActiveOrdersQuery {
	return GetActiveOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// GetActiveOrdersQueryResponse represents one row of the active order list.
// TrackingNumber is empty when no shipment exists yet.
type GetActiveOrdersQueryResponse struct {
	ID             kernel.UUID
	OrderNumber    string
	Status         string
	PaymentStatus  string
	TotalCents     int64
	TrackingNumber string
	NeedsAttention bool
	CreatedAt      time.Time
}
