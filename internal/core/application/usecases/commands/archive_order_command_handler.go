package commands

import (
	"context"

	"fulfillment/internal/pkg/keymutex"
)

// ArchiveOrderCommandHandler marks an order as archived. Archiving an
// already archived order succeeds without changes.
type ArchiveOrderCommandHandler struct {
	uowFactory UoWFactory
	locks      *keymutex.KeyMutex
}

// NewArchiveOrderCommandHandler creates a handler for order archival.
func NewArchiveOrderCommandHandler(
	uowFactory UoWFactory,
	locks *keymutex.KeyMutex,
) ArchiveOrderCommandHandler {
	return ArchiveOrderCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle processes the archive command.
func (h *ArchiveOrderCommandHandler) Handle(ctx context.Context, cmd ArchiveOrderCommand) error {
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

	aggregate.Archive()

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
