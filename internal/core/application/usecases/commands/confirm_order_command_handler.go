package commands

import (
	"context"
	"encoding/json"
	"time"

	"localoffice/internal/core/domain/model/order"
	"localoffice/internal/core/ports"
	"localoffice/internal/pkg/idempotency"
)

// BatchLockJobData is the payload of a batch-lock queue job. The job asks
// the batching worker to run the lock sequence for one program slot.
type BatchLockJobData struct {
	OrderID        string `json:"orderId"`
	ProgramSlotID  string `json:"programSlotId"`
	CutoffAt       string `json:"cutoffAt"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// BatchLockEnqueueOptions are the retry settings for batch-lock jobs.
func BatchLockEnqueueOptions(jobID string) ports.EnqueueOptions {
	return ports.EnqueueOptions{
		JobID:    jobID,
		Attempts: 3,
		Backoff:  ports.BackoffSpec{Type: ports.BackoffFixed, Delay: 60 * time.Second},
	}
}

// ConfirmOrderCommandHandler locks a pending order before cutoff and
// enqueues a batch-lock job for its slot. Confirming an order that is no
// longer pending returns it unchanged, so repeated confirmations are safe.
type ConfirmOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	queue      ports.JobQueue
}

// NewConfirmOrderCommandHandler creates a handler for order confirmation.
func NewConfirmOrderCommandHandler(
	uowFactory OrderUoWFactory, queue ports.JobQueue,
) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
	}
}

// Handle processes the confirmation and returns the locked order.
func (h *ConfirmOrderCommandHandler) Handle(
	ctx context.Context, cmd ConfirmOrderCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if aggregate.Status() != order.Pending {
		return aggregate, nil
	}

	programSlot, err := uow.ProgramSlotRepository().Get(ctx, aggregate.ProgramSlotID())
	if err != nil {
		return nil, err
	}

	if err = programSlot.AssertBeforeCutoff(time.Now()); err != nil {
		return nil, err
	}

	if cmd.TipOverride() != nil {
		if err = aggregate.OverrideTip(*cmd.TipOverride()); err != nil {
			return nil, err
		}
	}

	if err = aggregate.Lock(); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	jobID := cmd.IdempotencyKey()
	if jobID == "" {
		jobID = idempotency.NewKey("batch-lock")
	}

	payload, err := json.Marshal(BatchLockJobData{
		OrderID:        aggregate.ID().String(),
		ProgramSlotID:  aggregate.ProgramSlotID().String(),
		CutoffAt:       programSlot.CutoffAt().Format(time.RFC3339),
		IdempotencyKey: jobID,
	})
	if err != nil {
		return nil, err
	}

	if err = h.queue.Enqueue(ctx, ports.QueueBatchLock, payload, BatchLockEnqueueOptions(jobID)); err != nil {
		return nil, err
	}

	return aggregate, nil
}
