// Package jobs provides scheduled background tasks for the group-order
// coordination service.
//
// It implements cron-based jobs using github.com/robfig/cron/v3. The one
// job currently scheduled is BatchCutoffJob, which runs every minute and
// batches orders for every program slot whose cutoff has passed. The sweep
// complements the event-driven path: order confirmation enqueues a
// batch-lock job for immediate processing, while the sweep catches slots
// whose cutoff arrived without a confirmation trigger.
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(batchOrdersHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// Each run processes every due slot in its own transaction, so a failing
// slot never blocks the others and the sweep stays safe to re-run.
package jobs
