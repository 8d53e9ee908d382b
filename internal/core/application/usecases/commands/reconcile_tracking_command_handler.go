package commands

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fulfillment/internal/core/domain/model/kernel"
)

const defaultReconcileWorkers = 4

// ReconcileFailure records one order whose refresh failed during a batch run.
type ReconcileFailure struct {
	OrderID kernel.UUID
	Err     error
}

// ReconcileTrackingResult summarizes a batch reconciliation run.
type ReconcileTrackingResult struct {
	Checked   int
	Refreshed int
	Failures  []ReconcileFailure
}

// ReconcileTrackingCommandHandler refreshes tracking for every stale,
// unsettled shipment. Each order is refreshed independently through the
// single-order refresh handler: one carrier outage or bad tracking number
// never aborts the rest of the batch.
type ReconcileTrackingCommandHandler struct {
	uowFactory UoWFactory
	refresher  RefreshTrackingCommandHandler
}

// NewReconcileTrackingCommandHandler creates a handler for batch
// reconciliation runs.
func NewReconcileTrackingCommandHandler(
	uowFactory UoWFactory,
	refresher RefreshTrackingCommandHandler,
) ReconcileTrackingCommandHandler {
	return ReconcileTrackingCommandHandler{
		uowFactory: uowFactory,
		refresher:  refresher,
	}
}

// Handle processes the batch reconciliation command.
func (h *ReconcileTrackingCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcileTrackingCommand,
) (ReconcileTrackingResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileTrackingResult{}, err
	}

	cutoff := time.Now().UTC().Add(-cmd.Staleness())

	stale, err := h.loadStale(ctx, cutoff)
	if err != nil {
		return ReconcileTrackingResult{}, err
	}

	workers := cmd.Workers()
	if workers == 0 {
		workers = defaultReconcileWorkers
	}

	result := ReconcileTrackingResult{Checked: len(stale)}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for _, orderID := range stale {
		group.Go(func() error {
			refreshCmd, cmdErr := NewRefreshTrackingCommand(orderID)
			if cmdErr != nil {
				mu.Lock()
				result.Failures = append(result.Failures, ReconcileFailure{OrderID: orderID, Err: cmdErr})
				mu.Unlock()

				return nil
			}

			_, refreshErr := h.refresher.Handle(groupCtx, refreshCmd)

			mu.Lock()
			defer mu.Unlock()

			if refreshErr != nil {
				result.Failures = append(result.Failures, ReconcileFailure{OrderID: orderID, Err: refreshErr})
				return nil
			}
			result.Refreshed++

			return nil
		})
	}

	// Workers never return errors; Wait only propagates context cancellation.
	if err = group.Wait(); err != nil {
		return result, err
	}

	return result, nil
}

func (h *ReconcileTrackingCommandHandler) loadStale(ctx context.Context, cutoff time.Time) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregates, err := uow.OrderRepository().GetAllAwaitingTrackingRefresh(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(aggregates))
	for _, aggregate := range aggregates {
		ids = append(ids, aggregate.ID())
	}

	return ids, nil
}
