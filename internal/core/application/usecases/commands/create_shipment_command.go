package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateShipmentCommandIsNotConstructed = errors.New(
		"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor",
	)
	ErrServiceTypeIsRequired = errors.New("service type is required")
)

// CreateShipmentCommand represents a request to purchase a shipping label
// from the carrier for an order and attach the resulting shipment.
//
// Package details are optional; when omitted the carrier's defaults apply.
type CreateShipmentCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	serviceType string
	details     shipment.PackageDetails

	guard guard.ConstructorGuard
}

// NewCreateShipmentCommand creates a command to purchase a label.
// Pass the zero PackageDetails when package information is not known.
func NewCreateShipmentCommand(
	orderID kernel.UUID,
	serviceType string,
	details shipment.PackageDetails,
) (CreateShipmentCommand, error) {
	cmd := CreateShipmentCommand{
		details: details,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setServiceType(serviceType),
	); err != nil {
		return CreateShipmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to ship.
func (c CreateShipmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ServiceType returns the requested carrier service level.
func (c CreateShipmentCommand) ServiceType() string {
	return c.serviceType
}

// PackageDetails returns the optional package description.
func (c CreateShipmentCommand) PackageDetails() shipment.PackageDetails {
	return c.details
}

func (c *CreateShipmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateShipmentCommand) setServiceType(serviceType string) error {
	if serviceType == "" {
		return ErrServiceTypeIsRequired
	}
	c.serviceType = serviceType
	return nil
}
