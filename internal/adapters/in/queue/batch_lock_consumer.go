package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"localoffice/internal/adapters/out/rabbitmq"
	"localoffice/internal/core/application/usecases/commands"
	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/ports"
)

// NewBatchLockConsumer feeds the batch-lock queue into the batching
// handler, scoped to the slot named by the job.
func NewBatchLockConsumer(
	client *rabbitmq.Client,
	handler *commands.BatchOrdersCommandHandler,
	logger *slog.Logger,
) *Consumer {
	workerLogger := logger.With("component", "batch_lock_consumer")

	return NewConsumer(client, ports.QueueBatchLock, "batch-lock-worker",
		func(ctx context.Context, payload []byte) error {
			var job commands.BatchLockJobData
			if err := json.Unmarshal(payload, &job); err != nil {
				return err
			}

			programSlotID, err := kernel.UUIDFromString(job.ProgramSlotID)
			if err != nil {
				return err
			}

			cmd, err := commands.NewBatchOrdersCommandForSlot(programSlotID)
			if err != nil {
				return err
			}

			summaries, err := handler.Handle(ctx, cmd)
			if err != nil {
				workerLogger.Error("failed to batch slot",
					"programSlotId", job.ProgramSlotID, "orderId", job.OrderID, "error", err)
				return err
			}

			for _, summary := range summaries {
				workerLogger.Info("slot batched",
					"programSlotId", summary.ProgramSlotID.String(),
					"batchId", summary.BatchID.String(),
					"locked", summary.LockedCount,
					"batched", summary.BatchedCount)
			}
			return nil
		}, logger)
}
