// Package ports defines the contracts between the fulfillment core and its
// adapters: persistence, the carrier gateway, and the document renderer.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates,
// including their owned shipment and tracking history.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, including
	// shipment state and newly appended tracking events.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its internal identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllAwaitingTrackingRefresh retrieves orders whose shipments are
	// eligible for scheduled reconciliation: shipment present, not in a
	// settled status, and last updated before the given cutoff.
	GetAllAwaitingTrackingRefresh(ctx context.Context, updatedBefore time.Time) ([]*order.Order, error)
}
