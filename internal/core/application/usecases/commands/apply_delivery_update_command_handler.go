package commands

import (
	"context"
)

// ApplyDeliveryUpdateCommandHandler is the status reconciler. It looks up
// the delivery job by external identifier and merges the update under the
// monotonic promotion rule, all in one transaction. A missing job is a hard
// failure so the update is retried or dead-lettered instead of silently
// dropped.
type ApplyDeliveryUpdateCommandHandler struct {
	uowFactory ReconcileUoWFactory
}

// NewApplyDeliveryUpdateCommandHandler creates a handler for delivery
// status reconciliation.
func NewApplyDeliveryUpdateCommandHandler(
	uowFactory ReconcileUoWFactory,
) ApplyDeliveryUpdateCommandHandler {
	return ApplyDeliveryUpdateCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes one delivery update.
func (h *ApplyDeliveryUpdateCommandHandler) Handle(
	ctx context.Context, cmd ApplyDeliveryUpdateCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	update := cmd.Update()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryJobRepository()

	job, err := deliveryRepo.GetByExternalJobID(ctx, update.ExternalJobID)
	if err != nil {
		return err
	}

	if err = job.ApplyUpdate(update); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, job); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
