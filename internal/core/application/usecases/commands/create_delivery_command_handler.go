package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/ports"
	"localoffice/internal/pkg/errs"
)

// DeliveryUpdateEnqueueOptions are the retry settings for delivery-update
// jobs.
func DeliveryUpdateEnqueueOptions(jobID string) ports.EnqueueOptions {
	return ports.EnqueueOptions{
		JobID:    jobID,
		Attempts: 5,
		Backoff:  ports.BackoffSpec{Type: ports.BackoffExponential, Delay: 15 * time.Second},
	}
}

// CreateDeliveryCommandHandler books a batch's delivery with a courier
// network, upserts the batch's delivery job and enqueues a requested status
// update for the reconciler. Re-dispatching a batch overwrites the job's
// adapter and external identity and resets its status.
type CreateDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
	adapters   ports.AdapterRegistry
	queue      ports.JobQueue
}

// NewCreateDeliveryCommandHandler creates a handler for delivery dispatch.
func NewCreateDeliveryCommandHandler(
	uowFactory DispatchUoWFactory,
	adapters ports.AdapterRegistry,
	queue ports.JobQueue,
) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory: uowFactory,
		adapters:   adapters,
		queue:      queue,
	}
}

// Handle processes the dispatch and returns the delivery job.
func (h *CreateDeliveryCommandHandler) Handle(
	ctx context.Context, cmd CreateDeliveryCommand,
) (*delivery.Job, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	adapter, err := h.adapters.Resolve(cmd.AdapterName())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.BatchRepository().Get(ctx, cmd.BatchID())
	if err != nil {
		return nil, err
	}

	result, err := adapter.Create(ctx, cmd.CreateJobRequest())
	if err != nil {
		return nil, err
	}

	if result.ExternalJobID == "" {
		return nil, errs.NewMissingExternalIDError(cmd.AdapterName())
	}

	job, err := delivery.NewJob(
		kernel.NewUUID(), aggregate.ID(),
		cmd.AdapterName(), result.ExternalJobID, result.TrackingURL,
	)
	if err != nil {
		return nil, err
	}

	persisted, err := uow.DeliveryJobRepository().Upsert(ctx, job)
	if err != nil {
		return nil, err
	}

	// A batch that is already Sent (re-dispatch) keeps its status.
	if sendErr := aggregate.Send(); sendErr == nil {
		if err = uow.BatchRepository().Update(ctx, aggregate); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	update := delivery.Update{
		Provider:      cmd.AdapterName(),
		ExternalJobID: result.ExternalJobID,
		Status:        "requested",
		TrackingURL:   result.TrackingURL,
		RawPayload: json.RawMessage(fmt.Sprintf(
			`{"source":"deliveries.create","batchId":%q}`, aggregate.ID().String(),
		)),
		ReceivedAt: time.Now(),
	}

	payload, err := json.Marshal(update)
	if err != nil {
		return nil, err
	}

	jobID := ports.DeliveryUpdateJobID(result.ExternalJobID)
	if err = h.queue.Enqueue(ctx, ports.QueueDeliveryUpdates, payload, DeliveryUpdateEnqueueOptions(jobID)); err != nil {
		return nil, err
	}

	return persisted, nil
}
