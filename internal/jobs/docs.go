// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for shipment tracking.
//
// # Available Jobs
//
// 1. TrackingReconciliationJob - Periodically refreshes tracking state for
// every shipment whose carrier data has gone stale
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(reconcileHandler, schedule, staleness, workers, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The reconciliation schedule is configured through TRACKING_RECONCILE_CRON;
// the expression uses the six-field form with a seconds column. The default
// "0 */5 * * * *" runs every five minutes, which keeps tracking data fresh
// without exhausting carrier API quotas.
//
// # Error Handling
//
// A reconciliation run never aborts on individual order failures; the job
// logs per-order failures reported in the batch result and a summary of
// each run.
package jobs
