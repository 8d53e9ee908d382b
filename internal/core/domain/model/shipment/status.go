package shipment

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the carrier-reported state of a shipment.
//
// Unlike the order status machine, shipment statuses do not form a strict
// transition graph: the carrier is the source of truth and may report any
// status at any time (including regressions after a misscan). The system
// records whatever the carrier last reported.
//
// Delivered and Exception are settled states: shipments in these states are
// excluded from scheduled reconciliation but remain reachable by manual refresh.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status after a label is created,
	// before the carrier first scans the package.
	Pending

	// InTransit indicates the package is moving through the carrier network.
	InTransit

	// OutForDelivery indicates the package is on a vehicle for final delivery.
	OutForDelivery

	// Delivered indicates the carrier has delivered the package.
	Delivered

	// Exception indicates a carrier-reported problem (damaged, lost,
	// address issue) requiring operator attention.
	Exception
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		InTransit:      "in_transit",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Exception:      "exception",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:        "pending",
		InTransit:      "in_transit",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Exception:      "exception",
	}
}

// StatusFromString parses the wire representation of a shipment status.
// Returns an error for unrecognized values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("shipment status",
		fmt.Errorf("%q is not a valid shipment status", s))
}

// Validate checks if the Status value is one of the defined shipment statuses.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("shipment status",
			fmt.Errorf("%d is not a valid shipment status", s))
	}
	return nil
}

// String returns the wire representation of the status.
// Implements fmt.Stringer and is safe to call on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsSettled reports whether the shipment has reached a settled state
// (Delivered or Exception). Settled shipments are skipped by scheduled
// reconciliation so the system does not poll the carrier indefinitely.
func (s Status) IsSettled() bool {
	return s == Delivered || s == Exception
}
