package shipment

import (
	"time"

	"fulfillment/internal/pkg/errs"
)

// TrackingEvent is a single carrier-reported scan in a shipment's history.
// Events are immutable once appended to the tracking history.
//
// The carrier does not expose stable event identifiers, so an event's
// identity for deduplication purposes is its (timestamp, status, location)
// tuple, compared with Matches.
type TrackingEvent struct {
	timestamp     time.Time
	status        string
	statusDetails string
	location      string
	isException   bool
}

// NewTrackingEvent creates a tracking event.
// Timestamp and status text are required; location and details are optional.
func NewTrackingEvent(
	timestamp time.Time,
	status string,
	statusDetails string,
	location string,
	isException bool,
) (TrackingEvent, error) {
	if timestamp.IsZero() {
		return TrackingEvent{}, errs.NewValueIsRequiredError("tracking event timestamp")
	}
	if status == "" {
		return TrackingEvent{}, errs.NewValueIsRequiredError("tracking event status")
	}

	return TrackingEvent{
		timestamp:     timestamp,
		status:        status,
		statusDetails: statusDetails,
		location:      location,
		isException:   isException,
	}, nil
}

// Timestamp returns when the event occurred according to the carrier.
func (e TrackingEvent) Timestamp() time.Time {
	return e.timestamp
}

// Status returns the carrier's status text for the event.
func (e TrackingEvent) Status() string {
	return e.status
}

// StatusDetails returns the carrier's free-form detail text, if any.
func (e TrackingEvent) StatusDetails() string {
	return e.statusDetails
}

// Location returns where the event occurred, if reported.
func (e TrackingEvent) Location() string {
	return e.location
}

// IsException reports whether the carrier flagged the event as a problem.
func (e TrackingEvent) IsException() bool {
	return e.isException
}

// Matches reports whether two events describe the same carrier-reported
// occurrence. Used to deduplicate events on snapshot re-ingestion.
func (e TrackingEvent) Matches(other TrackingEvent) bool {
	return e.timestamp.Equal(other.timestamp) &&
		e.status == other.status &&
		e.location == other.location
}
