package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"localoffice/internal/core/application/usecases/commands"
)

// BatchCutoffJob runs the cutoff sweep every minute: it discovers program
// slots whose cutoff has passed with orders still waiting, locks those
// orders and assigns them to the slot's batch.
type BatchCutoffJob struct {
	handler commands.BatchOrdersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewBatchCutoffJob creates the minutely cutoff sweep job.
func NewBatchCutoffJob(handler commands.BatchOrdersCommandHandler, logger *slog.Logger) *BatchCutoffJob {
	return &BatchCutoffJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "batch_cutoff_job"),
	}
}

// Start schedules the sweep to run every minute.
func (j *BatchCutoffJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewBatchOrdersCommand()
		if err != nil {
			j.logger.ErrorContext(ctx, "Batch cutoff job failed to build command", "error", err)
			return
		}

		summaries, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Batch cutoff job failed", "error", err)
			return
		}

		for _, summary := range summaries {
			j.logger.InfoContext(ctx, "Slot batched",
				"program_slot_id", summary.ProgramSlotID.String(),
				"batch_id", summary.BatchID.String(),
				"locked", summary.LockedCount,
				"batched", summary.BatchedCount)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Batch cutoff job started (running every minute)")
	return nil
}

// Stop stops the cutoff sweep.
func (j *BatchCutoffJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Batch cutoff job stopped")
}
