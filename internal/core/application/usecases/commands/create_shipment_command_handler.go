package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/keymutex"
)

// CreateShipmentCommandHandler purchases a label from the carrier and
// attaches the resulting shipment to the order.
//
// The duplicate guard runs twice: once before the carrier call, so an order
// that already has a tracking number never triggers a second label purchase,
// and once again inside the locked transaction to cover a concurrent create.
// The carrier call itself happens without holding the per-order lock.
type CreateShipmentCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.CarrierGateway
	locks      *keymutex.KeyMutex
	shipFrom   order.Address
}

// NewCreateShipmentCommandHandler creates a handler for label purchases.
// shipFrom is the warehouse origin address stamped on every label request.
func NewCreateShipmentCommandHandler(
	uowFactory UoWFactory,
	gateway ports.CarrierGateway,
	locks *keymutex.KeyMutex,
	shipFrom order.Address,
) CreateShipmentCommandHandler {
	return CreateShipmentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		locks:      locks,
		shipFrom:   shipFrom,
	}
}

// Handle processes the shipment creation command.
//
// Fails with order.ErrShipmentAlreadyExists when the order already carries a
// tracking number, ports.ErrCarrierUnavailable on transient carrier failures
// (retryable, no state written), and ports.ErrCarrierRejected on permanent
// ones. The order status is not changed; shipping remains an explicit
// transition.
func (h *CreateShipmentCommandHandler) Handle(ctx context.Context, cmd CreateShipmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	shipTo, err := h.loadShipTo(ctx, cmd)
	if err != nil {
		return err
	}

	resp, err := h.gateway.CreateLabel(ctx, ports.CreateLabelRequest{
		OrderID:     cmd.OrderID(),
		OrderNumber: shipTo.orderNumber,
		ServiceType: cmd.ServiceType(),
		ShipFrom:    h.shipFrom,
		ShipTo:      shipTo.address,
		Package:     cmd.PackageDetails(),
	})
	if err != nil {
		return err
	}

	return h.attach(ctx, cmd, resp)
}

type shipToInfo struct {
	orderNumber string
	address     order.Address
}

// loadShipTo reads the order's destination and runs the duplicate guard
// before any carrier money is spent.
func (h *CreateShipmentCommandHandler) loadShipTo(ctx context.Context, cmd CreateShipmentCommand) (shipToInfo, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return shipToInfo{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return shipToInfo{}, err
	}

	if aggregate.HasTrackedShipment() {
		return shipToInfo{}, order.ErrShipmentAlreadyExists
	}

	return shipToInfo{
		orderNumber: aggregate.OrderNumber(),
		address:     aggregate.ShipTo(),
	}, nil
}

// attach persists the purchased label under the per-order lock.
func (h *CreateShipmentCommandHandler) attach(
	ctx context.Context,
	cmd CreateShipmentCommand,
	resp ports.CreateLabelResponse,
) error {
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
		resp.TrackingNumber,
		resp.Carrier,
		cmd.ServiceType(),
		resp.LabelURL,
		resp.EstimatedDelivery,
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
