package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/keymutex"
)

// TransitionOrderStatusCommandHandler guards and executes order lifecycle
// transitions. The transition itself is validated by the aggregate; the
// handler contributes serialization, transaction scope, and the shipped-at
// side effect.
type TransitionOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	locks      *keymutex.KeyMutex
}

// NewTransitionOrderStatusCommandHandler creates a handler for status transitions.
// Requires a UoWFactory for transactional persistence and the shared per-order
// lock registry.
func NewTransitionOrderStatusCommandHandler(
	uowFactory UoWFactory,
	locks *keymutex.KeyMutex,
) TransitionOrderStatusCommandHandler {
	return TransitionOrderStatusCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle processes the transition command.
// The order is loaded, transitioned, and persisted under the per-order lock
// in a single transaction, so a failed transition leaves no partial writes.
// Transitioning to the order's current status succeeds without changes.
func (h *TransitionOrderStatusCommandHandler) Handle(ctx context.Context, cmd TransitionOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	key := cmd.OrderID().String()
	h.locks.Lock(key)
	defer h.locks.Unlock(key)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	aggregate, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.TransitionTo(cmd.Target()); err != nil {
		return err
	}

	if cmd.Target() == order.Shipped && aggregate.Shipment() != nil {
		aggregate.Shipment().MarkShipped(time.Now().UTC())
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
