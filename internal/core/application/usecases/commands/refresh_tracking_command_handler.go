package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/keymutex"
)

// RefreshTrackingResult reports the outcome of a tracking refresh.
//
// CascadeErr carries a rejected shipped-to-delivered cascade on the owning
// order (for example, the order was cancelled while the package was in
// flight). The shipment update itself has been committed in that case:
// shipment state is carrier ground truth and is never rolled back because
// the order state machine refused the cascading transition. Callers surface
// CascadeErr to operators instead of treating the refresh as failed.
type RefreshTrackingResult struct {
	EventsAppended int
	ShipmentStatus shipment.Status
	OrderStatus    order.Status
	CascadeErr     error
}

// RefreshTrackingCommandHandler pulls the carrier's current tracking state
// for one order and merges it into the shipment history.
//
// The carrier fetch happens before the per-order lock is taken; the lock
// covers only the local read-modify-write. On ports.ErrCarrierUnavailable
// no local state changes. On ports.ErrTrackingNotFound the shipment is
// flagged for operator attention and the error is still returned.
type RefreshTrackingCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.CarrierGateway
	locks      *keymutex.KeyMutex
}

// NewRefreshTrackingCommandHandler creates a handler for tracking refreshes.
func NewRefreshTrackingCommandHandler(
	uowFactory UoWFactory,
	gateway ports.CarrierGateway,
	locks *keymutex.KeyMutex,
) RefreshTrackingCommandHandler {
	return RefreshTrackingCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		locks:      locks,
	}
}

// Handle processes the refresh command.
func (h *RefreshTrackingCommandHandler) Handle(
	ctx context.Context,
	cmd RefreshTrackingCommand,
) (RefreshTrackingResult, error) {
	if err := cmd.Validate(); err != nil {
		return RefreshTrackingResult{}, err
	}

	trackingNumber, carrier, err := h.loadTrackingRef(ctx, cmd)
	if err != nil {
		return RefreshTrackingResult{}, err
	}

	snapshot, err := h.gateway.FetchTracking(ctx, trackingNumber, carrier)
	if err != nil {
		if errors.Is(err, ports.ErrTrackingNotFound) {
			if flagErr := h.flagForAttention(ctx, cmd); flagErr != nil {
				return RefreshTrackingResult{}, flagErr
			}
		}
		return RefreshTrackingResult{}, err
	}

	return h.apply(ctx, cmd, snapshot)
}

// loadTrackingRef reads the shipment's tracking reference without mutating
// anything and without holding the per-order lock.
func (h *RefreshTrackingCommandHandler) loadTrackingRef(
	ctx context.Context,
	cmd RefreshTrackingCommand,
) (trackingNumber, carrier string, err error) {
	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return "", "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return "", "", err
	}

	s := aggregate.Shipment()
	if s == nil || s.TrackingNumber() == "" {
		return "", "", errs.NewObjectNotFoundError("shipment", cmd.OrderID().String())
	}

	return s.TrackingNumber(), s.Carrier(), nil
}

// apply merges the snapshot under the per-order lock and, when the carrier
// reports delivery, attempts the cascading order transition.
func (h *RefreshTrackingCommandHandler) apply(
	ctx context.Context,
	cmd RefreshTrackingCommand,
	snapshot shipment.TrackingSnapshot,
) (RefreshTrackingResult, error) {
	key := cmd.OrderID().String()
	h.locks.Lock(key)
	defer h.locks.Unlock(key)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RefreshTrackingResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	aggregate, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return RefreshTrackingResult{}, err
	}

	s := aggregate.Shipment()
	if s == nil {
		return RefreshTrackingResult{}, errs.NewObjectNotFoundError("shipment", cmd.OrderID().String())
	}

	appended, err := s.ApplyCarrierSnapshot(snapshot, time.Now().UTC())
	if err != nil {
		return RefreshTrackingResult{}, err
	}

	// A delivered shipment cascades into the order lifecycle. The cascade
	// may be rejected (order cancelled, for instance); the shipment update
	// is committed regardless and the rejection is reported, not returned.
	var cascadeErr error
	if s.Status() == shipment.Delivered {
		cascadeErr = aggregate.TransitionTo(order.Delivered)
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return RefreshTrackingResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RefreshTrackingResult{}, err
	}

	return RefreshTrackingResult{
		EventsAppended: appended,
		ShipmentStatus: s.Status(),
		OrderStatus:    aggregate.Status(),
		CascadeErr:     cascadeErr,
	}, nil
}

// flagForAttention records that the carrier no longer recognizes the
// tracking number so operators can fix it; the shipment is not discarded.
func (h *RefreshTrackingCommandHandler) flagForAttention(ctx context.Context, cmd RefreshTrackingCommand) error {
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

	s := aggregate.Shipment()
	if s == nil {
		return errs.NewObjectNotFoundError("shipment", cmd.OrderID().String())
	}

	s.FlagForAttention(time.Now().UTC())

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
