package commands

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrReconcileTrackingCommandIsNotConstructed = errors.New(
		"ReconcileTrackingCommand must be created via NewReconcileTrackingCommand constructor",
	)
	ErrStalenessIsRequired = errors.New("staleness is required")
)

// ReconcileTrackingCommand requests a tracking refresh for every order whose
// shipment state has not been updated within the staleness window.
type ReconcileTrackingCommand struct { //nolint:recvcheck //using for validation
	staleness time.Duration
	workers   int

	guard guard.ConstructorGuard
}

// NewReconcileTrackingCommand creates a batch reconciliation command.
// Staleness must be positive; workers caps concurrent carrier fetches,
// zero means the handler default.
func NewReconcileTrackingCommand(staleness time.Duration, workers int) (ReconcileTrackingCommand, error) {
	cmd := ReconcileTrackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setStaleness(staleness),
		cmd.setWorkers(workers),
	); err != nil {
		return ReconcileTrackingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReconcileTrackingCommand) Validate() error {
	return c.guard.Validate(ErrReconcileTrackingCommandIsNotConstructed)
}

// Staleness returns the age after which shipment state is considered stale.
func (c ReconcileTrackingCommand) Staleness() time.Duration {
	return c.staleness
}

// Workers returns the requested carrier fetch concurrency.
func (c ReconcileTrackingCommand) Workers() int {
	return c.workers
}

func (c *ReconcileTrackingCommand) setStaleness(staleness time.Duration) error {
	if staleness <= 0 {
		return ErrStalenessIsRequired
	}
	c.staleness = staleness
	return nil
}

func (c *ReconcileTrackingCommand) setWorkers(workers int) error {
	if workers < 0 {
		return errs.NewValueIsOutOfRangeError("workers", workers, 0, maxReconcileWorkers)
	}
	if workers > maxReconcileWorkers {
		return errs.NewValueIsOutOfRangeError("workers", workers, 0, maxReconcileWorkers)
	}
	c.workers = workers
	return nil
}

const maxReconcileWorkers = 64
