package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/core/ports"
)

// CancelDeliveryCommandHandler withdraws a batch's delivery from its courier
// network, marks the job canceled and enqueues a canceled status update so
// downstream consumers observe the cancellation through the same channel as
// every other status change.
type CancelDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
	adapters   ports.AdapterRegistry
	queue      ports.JobQueue
}

// NewCancelDeliveryCommandHandler creates a handler for delivery cancellation.
func NewCancelDeliveryCommandHandler(
	uowFactory DispatchUoWFactory,
	adapters ports.AdapterRegistry,
	queue ports.JobQueue,
) CancelDeliveryCommandHandler {
	return CancelDeliveryCommandHandler{
		uowFactory: uowFactory,
		adapters:   adapters,
		queue:      queue,
	}
}

// Handle processes the cancellation and returns the canceled delivery job.
func (h *CancelDeliveryCommandHandler) Handle(
	ctx context.Context, cmd CancelDeliveryCommand,
) (*delivery.Job, error) {
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

	deliveryRepo := uow.DeliveryJobRepository()

	job, err := deliveryRepo.GetByBatchID(ctx, cmd.BatchID())
	if err != nil {
		return nil, err
	}

	adapter, err := h.adapters.Resolve(job.Adapter())
	if err != nil {
		return nil, err
	}

	if err = adapter.Cancel(ctx, job.ExternalJobID()); err != nil {
		return nil, err
	}

	if err = job.Cancel(time.Now()); err != nil {
		return nil, err
	}

	if err = deliveryRepo.Update(ctx, job); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	update := delivery.Update{
		Provider:      job.Adapter(),
		ExternalJobID: job.ExternalJobID(),
		Status:        "canceled",
		RawPayload: json.RawMessage(fmt.Sprintf(
			`{"source":"deliveries.cancel","batchId":%q}`, cmd.BatchID().String(),
		)),
		ReceivedAt: time.Now(),
	}

	payload, err := json.Marshal(update)
	if err != nil {
		return nil, err
	}

	jobID := ports.DeliveryCancelJobID(job.ExternalJobID())
	if err = h.queue.Enqueue(ctx, ports.QueueDeliveryUpdates, payload, DeliveryUpdateEnqueueOptions(jobID)); err != nil {
		return nil, err
	}

	return job, nil
}
