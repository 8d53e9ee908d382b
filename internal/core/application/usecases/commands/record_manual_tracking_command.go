package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrRecordManualTrackingCommandIsNotConstructed = errors.New(
		"RecordManualTrackingCommand must be created via NewRecordManualTrackingCommand constructor",
	)
	ErrTrackingNumberIsRequired = errors.New("tracking number is required")
	ErrCarrierIsRequired        = errors.New("carrier is required")
)

// RecordManualTrackingCommand attaches externally obtained tracking
// information to an order without calling the carrier. Covers labels
// purchased out-of-band (carrier web portal, drop-off counter).
type RecordManualTrackingCommand struct { //nolint:recvcheck //using for validation
	orderID           kernel.UUID
	trackingNumber    string
	serviceType       string
	carrier           string
	estimatedDelivery *time.Time
	details           shipment.PackageDetails

	guard guard.ConstructorGuard
}

// NewRecordManualTrackingCommand creates a command to record out-of-band tracking.
// Estimated delivery and package details are optional.
func NewRecordManualTrackingCommand(
	orderID kernel.UUID,
	trackingNumber string,
	serviceType string,
	carrier string,
	estimatedDelivery *time.Time,
	details shipment.PackageDetails,
) (RecordManualTrackingCommand, error) {
	cmd := RecordManualTrackingCommand{
		estimatedDelivery: estimatedDelivery,
		details:           details,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTrackingNumber(trackingNumber),
		cmd.setServiceType(serviceType),
		cmd.setCarrier(carrier),
	); err != nil {
		return RecordManualTrackingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordManualTrackingCommand) Validate() error {
	return c.guard.Validate(ErrRecordManualTrackingCommandIsNotConstructed)
}

// OrderID returns the identifier of the order.
func (c RecordManualTrackingCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TrackingNumber returns the externally obtained tracking number.
func (c RecordManualTrackingCommand) TrackingNumber() string {
	return c.trackingNumber
}

// ServiceType returns the purchased service level.
func (c RecordManualTrackingCommand) ServiceType() string {
	return c.serviceType
}

// Carrier returns the carrier code the tracking number belongs to.
func (c RecordManualTrackingCommand) Carrier() string {
	return c.carrier
}

// EstimatedDelivery returns the expected delivery date, if known.
func (c RecordManualTrackingCommand) EstimatedDelivery() *time.Time {
	return c.estimatedDelivery
}

// PackageDetails returns the optional package description.
func (c RecordManualTrackingCommand) PackageDetails() shipment.PackageDetails {
	return c.details
}

func (c *RecordManualTrackingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RecordManualTrackingCommand) setTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return ErrTrackingNumberIsRequired
	}
	c.trackingNumber = trackingNumber
	return nil
}

func (c *RecordManualTrackingCommand) setServiceType(serviceType string) error {
	if serviceType == "" {
		return ErrServiceTypeIsRequired
	}
	c.serviceType = serviceType
	return nil
}

func (c *RecordManualTrackingCommand) setCarrier(carrier string) error {
	if carrier == "" {
		return ErrCarrierIsRequired
	}
	c.carrier = carrier
	return nil
}
