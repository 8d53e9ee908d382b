package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// TrackingReconciliationJob periodically refreshes carrier tracking state
// for every stale, unsettled shipment.
type TrackingReconciliationJob struct {
	handler   commands.ReconcileTrackingCommandHandler
	schedule  string
	staleness time.Duration
	workers   int
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewTrackingReconciliationJob creates the reconciliation job.
// The schedule is a six-field cron expression (with seconds); staleness
// controls which shipments are considered due for a refresh and workers
// bounds concurrent carrier calls per run.
func NewTrackingReconciliationJob(
	handler commands.ReconcileTrackingCommandHandler,
	schedule string,
	staleness time.Duration,
	workers int,
	logger *slog.Logger,
) *TrackingReconciliationJob {
	return &TrackingReconciliationJob{
		handler:   handler,
		schedule:  schedule,
		staleness: staleness,
		workers:   workers,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "tracking_reconciliation_job"),
	}
}

// Start begins the reconciliation job on its configured schedule.
func (j *TrackingReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Tracking reconciliation job started",
		"schedule", j.schedule, "staleness", j.staleness.String())
	return nil
}

// Stop stops the reconciliation job.
func (j *TrackingReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Tracking reconciliation job stopped")
}

func (j *TrackingReconciliationJob) run() {
	ctx := context.Background()

	cmd, err := commands.NewReconcileTrackingCommand(j.staleness, j.workers)
	if err != nil {
		j.logger.ErrorContext(ctx, "Tracking reconciliation job misconfigured", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Tracking reconciliation run failed", "error", err)
		return
	}

	for _, failure := range result.Failures {
		j.logger.WarnContext(ctx, "Tracking refresh failed for order",
			"order_id", failure.OrderID.String(), "error", failure.Err)
	}

	if result.Checked > 0 {
		j.logger.InfoContext(ctx, "Tracking reconciliation run completed",
			"checked", result.Checked,
			"refreshed", result.Refreshed,
			"failed", len(result.Failures))
	}
}
