package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRefreshTrackingCommandIsNotConstructed = errors.New(
	"RefreshTrackingCommand must be created via NewRefreshTrackingCommand constructor",
)

// RefreshTrackingCommand requests a reconciliation of one order's shipment
// against the carrier's current tracking state. Safe to issue repeatedly:
// the snapshot merge is idempotent.
type RefreshTrackingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRefreshTrackingCommand creates a command to refresh one order's tracking.
func NewRefreshTrackingCommand(orderID kernel.UUID) (RefreshTrackingCommand, error) {
	cmd := RefreshTrackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return RefreshTrackingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RefreshTrackingCommand) Validate() error {
	return c.guard.Validate(ErrRefreshTrackingCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to refresh.
func (c RefreshTrackingCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *RefreshTrackingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}
