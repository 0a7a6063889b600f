package jobs

import (
	"fmt"
	"log/slog"

	"localoffice/internal/core/application/usecases/commands"
)

// JobManager coordinates the scheduled jobs in the application.
type JobManager struct {
	batchCutoffJob *BatchCutoffJob
}

// NewJobManager creates a job manager with all required jobs.
func NewJobManager(
	batchOrdersHandler commands.BatchOrdersCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		batchCutoffJob: NewBatchCutoffJob(batchOrdersHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.batchCutoffJob.Start(); err != nil {
		return fmt.Errorf("failed to start batch cutoff job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.batchCutoffJob.Stop()
}
