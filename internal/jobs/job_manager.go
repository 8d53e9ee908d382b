package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	trackingReconciliationJob *TrackingReconciliationJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	reconcileHandler commands.ReconcileTrackingCommandHandler,
	schedule string,
	staleness time.Duration,
	workers int,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		trackingReconciliationJob: NewTrackingReconciliationJob(
			reconcileHandler, schedule, staleness, workers, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.trackingReconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start tracking reconciliation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.trackingReconciliationJob.Stop()
}
