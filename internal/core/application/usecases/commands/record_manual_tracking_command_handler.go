package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/keymutex"
)

// RecordManualTrackingCommandHandler attaches out-of-band tracking
// information as a pending shipment. No carrier call is made; the next
// tracking refresh validates the number against the carrier.
type RecordManualTrackingCommandHandler struct {
	uowFactory UoWFactory
	locks      *keymutex.KeyMutex
}

// NewRecordManualTrackingCommandHandler creates a handler for manual tracking entry.
func NewRecordManualTrackingCommandHandler(
	uowFactory UoWFactory,
	locks *keymutex.KeyMutex,
) RecordManualTrackingCommandHandler {
	return RecordManualTrackingCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle processes the manual tracking command.
// Fails with order.ErrShipmentAlreadyExists when the order already carries a
// tracking number; callers must use the refresh path for updates.
func (h *RecordManualTrackingCommandHandler) Handle(ctx context.Context, cmd RecordManualTrackingCommand) error {
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

	newShipment, err := shipment.NewShipment(
		kernel.NewUUID(),
		cmd.TrackingNumber(),
		cmd.Carrier(),
		cmd.ServiceType(),
		"", // no label document for out-of-band shipments
		cmd.EstimatedDelivery(),
		cmd.PackageDetails(),
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	if err = aggregate.AttachShipment(newShipment); err != nil {
		return err
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
