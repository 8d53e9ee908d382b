package ports

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
)

var (
	// ErrCarrierUnavailable indicates a transient carrier failure (outage,
	// network error, timeout). Safe to retry with backoff; the caller must
	// not change local state on this error.
	ErrCarrierUnavailable = errors.New("carrier is unavailable")

	// ErrCarrierRejected indicates the carrier permanently rejected a label
	// request (for example an invalid address). Not retryable as-is; an
	// operator must correct the input first.
	ErrCarrierRejected = errors.New("carrier rejected the request")

	// ErrTrackingNotFound indicates the carrier does not recognize the
	// tracking number. Permanent; the shipment is flagged for operator
	// attention instead of being retried.
	ErrTrackingNotFound = errors.New("tracking number not found at carrier")
)

// CreateLabelRequest carries everything a carrier needs to produce a
// shipping label for an order.
type CreateLabelRequest struct {
	OrderID     kernel.UUID
	OrderNumber string
	ServiceType string
	ShipFrom    order.Address
	ShipTo      order.Address
	Package     shipment.PackageDetails
}

// CreateLabelResponse is the carrier's answer to a label request.
// RawResponse preserves the carrier payload for audit purposes.
type CreateLabelResponse struct {
	TrackingNumber    string
	Carrier           string
	LabelURL          string
	EstimatedDelivery *time.Time
	RawResponse       json.RawMessage
}

// CarrierGateway isolates carrier-specific protocol behind two operations,
// so a second carrier can be added without touching the shipment logic.
// Implementations perform no local persistence; one call in, one call out.
//
// Both operations are blocking network calls and must honor ctx cancellation.
// Implementations apply their own request timeout and report it as
// ErrCarrierUnavailable.
type CarrierGateway interface {
	// CreateLabel purchases a shipping label.
	// Fails with ErrCarrierUnavailable (transient) or ErrCarrierRejected
	// (permanent) so the caller can decide retry policy.
	CreateLabel(ctx context.Context, req CreateLabelRequest) (CreateLabelResponse, error)

	// FetchTracking retrieves the carrier's current view of a shipment.
	// Fails with ErrCarrierUnavailable (transient) or ErrTrackingNotFound
	// (permanent). Read-only against the carrier.
	FetchTracking(ctx context.Context, trackingNumber, carrier string) (shipment.TrackingSnapshot, error)
}
