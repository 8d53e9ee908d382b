package shipment

import (
	"errors"
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrShipmentIsNotConstructed is returned when a Shipment instance was not
// created through NewShipment or RestoreShipment.
var ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment or RestoreShipment constructor")

// TrackingSnapshot is the carrier's current view of a shipment, as returned
// by the carrier gateway. It is a transient input to ApplyCarrierSnapshot,
// not a persisted object.
type TrackingSnapshot struct {
	Status            Status
	Events            []TrackingEvent
	EstimatedDelivery *time.Time
	DeliveredAt       *time.Time
	ReceivedBy        string
	Signature         string
}

// Shipment is the carrier-facing record owned by a single order.
//
// Shipment maintains these invariants:
//   - Tracking number, carrier, and service type are always set
//   - Tracking history is append-only and holds no duplicate carrier events
//   - History is kept in chronological order as perceived by the system
//   - Can only be created through NewShipment or RestoreShipment
type Shipment struct {
	id             kernel.UUID
	trackingNumber string
	carrier        string
	serviceType    string
	status         Status
	labelURL       string

	estimatedDelivery *time.Time
	shippedAt         *time.Time
	deliveredAt       *time.Time
	receivedBy        string
	signature         string
	lastUpdated       time.Time

	// needsAttention is set when the carrier no longer recognizes the
	// tracking number. It is independent of status and surfaced to operators.
	needsAttention bool

	details PackageDetails
	history []TrackingEvent

	isConstructed bool
}

// NewShipment creates a shipment in Pending status.
//
// Both creation paths go through here: label purchase via the carrier gateway
// (labelURL set) and manually recorded out-of-band tracking (labelURL empty).
// Package details are optional; pass the zero value when unknown.
func NewShipment(
	id kernel.UUID,
	trackingNumber string,
	carrier string,
	serviceType string,
	labelURL string,
	estimatedDelivery *time.Time,
	details PackageDetails,
	now time.Time,
) (*Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if trackingNumber == "" {
		return nil, errs.NewValueIsRequiredError("tracking number")
	}
	if carrier == "" {
		return nil, errs.NewValueIsRequiredError("carrier")
	}
	if serviceType == "" {
		return nil, errs.NewValueIsRequiredError("service type")
	}

	return &Shipment{
		id:                id,
		trackingNumber:    trackingNumber,
		carrier:           carrier,
		serviceType:       serviceType,
		status:            Pending,
		labelURL:          labelURL,
		estimatedDelivery: estimatedDelivery,
		lastUpdated:       now,
		details:           details,
		history:           make([]TrackingEvent, 0),
		isConstructed:     true,
	}, nil
}

// RestoreShipment reconstructs a shipment from persistence.
// The stored status must be valid; history is re-sorted defensively in case
// rows were returned out of order.
func RestoreShipment(
	id kernel.UUID,
	trackingNumber string,
	carrier string,
	serviceType string,
	status Status,
	labelURL string,
	estimatedDelivery *time.Time,
	shippedAt *time.Time,
	deliveredAt *time.Time,
	receivedBy string,
	signature string,
	lastUpdated time.Time,
	needsAttention bool,
	details PackageDetails,
	history []TrackingEvent,
) (*Shipment, error) {
	s, err := NewShipment(id, trackingNumber, carrier, serviceType, labelURL, estimatedDelivery, details, lastUpdated)
	if err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	s.status = status
	s.shippedAt = shippedAt
	s.deliveredAt = deliveredAt
	s.receivedBy = receivedBy
	s.signature = signature
	s.needsAttention = needsAttention
	s.history = append(s.history, history...)
	sortHistory(s.history)
	return s, nil
}

// Validate ensures the Shipment instance was properly constructed.
func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

// ID returns the shipment's unique identifier.
func (s *Shipment) ID() kernel.UUID {
	return s.id
}

// TrackingNumber returns the carrier tracking number.
func (s *Shipment) TrackingNumber() string {
	return s.trackingNumber
}

// Carrier returns the carrier code, e.g. "ups".
func (s *Shipment) Carrier() string {
	return s.carrier
}

// ServiceType returns the purchased service level, e.g. "GROUND".
func (s *Shipment) ServiceType() string {
	return s.serviceType
}

// Status returns the last carrier-reported status.
func (s *Shipment) Status() Status {
	return s.status
}

// LabelURL returns the shipping label location, empty for manual shipments.
func (s *Shipment) LabelURL() string {
	return s.labelURL
}

// EstimatedDelivery returns the carrier's delivery estimate, if any.
func (s *Shipment) EstimatedDelivery() *time.Time {
	return s.estimatedDelivery
}

// ShippedAt returns when the order was handed to the carrier, if recorded.
func (s *Shipment) ShippedAt() *time.Time {
	return s.shippedAt
}

// DeliveredAt returns when the carrier delivered the package, if delivered.
func (s *Shipment) DeliveredAt() *time.Time {
	return s.deliveredAt
}

// ReceivedBy returns who accepted the delivery, if reported.
func (s *Shipment) ReceivedBy() string {
	return s.receivedBy
}

// Signature returns the delivery signature reference, if reported.
func (s *Shipment) Signature() string {
	return s.signature
}

// LastUpdated returns when the shipment state was last written.
func (s *Shipment) LastUpdated() time.Time {
	return s.lastUpdated
}

// NeedsAttention reports whether an operator must review this shipment
// (the carrier no longer recognizes the tracking number).
func (s *Shipment) NeedsAttention() bool {
	return s.needsAttention
}

// PackageDetails returns the physical package description.
func (s *Shipment) PackageDetails() PackageDetails {
	return s.details
}

// TrackingHistory returns a copy of the chronological event history.
func (s *Shipment) TrackingHistory() []TrackingEvent {
	history := make([]TrackingEvent, len(s.history))
	copy(history, s.history)
	return history
}

// MarkShipped records the carrier hand-off time.
// Subsequent calls keep the first recorded time.
func (s *Shipment) MarkShipped(now time.Time) {
	if s.shippedAt == nil {
		t := now
		s.shippedAt = &t
	}
	s.lastUpdated = now
}

// FlagForAttention marks the shipment for operator review without touching
// its carrier-reported status. Set when the carrier reports the tracking
// number as unknown; cleared by the next successful snapshot merge.
func (s *Shipment) FlagForAttention(now time.Time) {
	s.needsAttention = true
	s.lastUpdated = now
}

// ApplyCarrierSnapshot merges a carrier snapshot into the shipment.
// This is the single mutation path for carrier-reported state.
//
// Events already present in the history, identified by their
// (timestamp, status, location) tuple, are skipped; new events are appended
// and the history is kept in chronological order. Applying the same snapshot
// twice therefore yields an identical history and status.
//
// Derived fields follow the snapshot: status, lastUpdated, and on first
// delivery deliveredAt/receivedBy/signature. Returns the number of events
// actually appended.
func (s *Shipment) ApplyCarrierSnapshot(snapshot TrackingSnapshot, now time.Time) (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if err := snapshot.Status.Validate(); err != nil {
		return 0, err
	}

	appended := 0
	for _, event := range snapshot.Events {
		if s.containsEvent(event) {
			continue
		}
		s.history = append(s.history, event)
		appended++
	}
	if appended > 0 {
		sortHistory(s.history)
	}

	s.status = snapshot.Status
	s.lastUpdated = now
	s.needsAttention = false

	if snapshot.EstimatedDelivery != nil {
		est := *snapshot.EstimatedDelivery
		s.estimatedDelivery = &est
	}

	if snapshot.Status == Delivered && s.deliveredAt == nil {
		deliveredAt := now
		if snapshot.DeliveredAt != nil {
			deliveredAt = *snapshot.DeliveredAt
		}
		s.deliveredAt = &deliveredAt
		s.receivedBy = snapshot.ReceivedBy
		s.signature = snapshot.Signature
	}

	return appended, nil
}

func (s *Shipment) containsEvent(event TrackingEvent) bool {
	for _, existing := range s.history {
		if existing.Matches(event) {
			return true
		}
	}
	return false
}

func sortHistory(history []TrackingEvent) {
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp().Before(history[j].Timestamp())
	})
}
