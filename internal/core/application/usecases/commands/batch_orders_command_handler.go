package commands

import (
	"context"
	"log/slog"
	"time"

	"localoffice/internal/core/domain/model/batch"
	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/slot"
)

// BatchOrdersCommandHandler runs the cutoff batching sequence: for every due
// slot it locks pending orders, upserts the slot's batch and assigns the
// locked orders to it. Each slot is processed in its own transaction, so a
// failing slot aborts only its own work and the run stays re-runnable.
type BatchOrdersCommandHandler struct {
	uowFactory BatchUoWFactory
	logger     *slog.Logger
}

// NewBatchOrdersCommandHandler creates a handler for batching runs.
func NewBatchOrdersCommandHandler(
	uowFactory BatchUoWFactory, logger *slog.Logger,
) BatchOrdersCommandHandler {
	return BatchOrdersCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "batch_orders"),
	}
}

// Handle processes the batching run and returns one summary per slot that
// was batched. Slots that fail are logged and skipped.
func (h *BatchOrdersCommandHandler) Handle(
	ctx context.Context, cmd BatchOrdersCommand,
) ([]BatchSummary, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	slots, err := h.discoverSlots(ctx, cmd)
	if err != nil {
		return nil, err
	}

	summaries := make([]BatchSummary, 0, len(slots))

	for _, programSlot := range slots {
		summary, err := h.processSlot(ctx, programSlot)
		if err != nil {
			h.logger.Error("slot batching failed",
				"program_slot_id", programSlot.ID().String(),
				"error", err)
			continue
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (h *BatchOrdersCommandHandler) discoverSlots(
	ctx context.Context, cmd BatchOrdersCommand,
) ([]*slot.ProgramSlot, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	slotRepo := uow.ProgramSlotRepository()

	if slotID := cmd.ProgramSlotID(); slotID != nil {
		programSlot, err := slotRepo.Get(ctx, *slotID)
		if err != nil {
			return nil, err
		}
		return []*slot.ProgramSlot{programSlot}, nil
	}

	return slotRepo.GetDueWithUnbatchedOrders(ctx, time.Now())
}

// processSlot runs the lock, upsert and assign steps for one slot as a
// single atomic unit.
func (h *BatchOrdersCommandHandler) processSlot(
	ctx context.Context, programSlot *slot.ProgramSlot,
) (BatchSummary, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return BatchSummary{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	lockedCount, err := orderRepo.LockPendingBySlot(ctx, programSlot.ID())
	if err != nil {
		return BatchSummary{}, err
	}

	aggregate, err := batch.NewBatch(kernel.NewUUID(), batch.Key{
		SiteID:        programSlot.SiteID(),
		ProviderID:    programSlot.ProviderID(),
		ProgramSlotID: programSlot.ID(),
	})
	if err != nil {
		return BatchSummary{}, err
	}

	if err = aggregate.Lock(); err != nil {
		return BatchSummary{}, err
	}

	persisted, err := uow.BatchRepository().Upsert(ctx, aggregate)
	if err != nil {
		return BatchSummary{}, err
	}

	batchedCount, err := orderRepo.AssignLockedToBatch(ctx, programSlot.ID(), persisted.ID())
	if err != nil {
		return BatchSummary{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return BatchSummary{}, err
	}

	return BatchSummary{
		ProgramSlotID: programSlot.ID(),
		BatchID:       persisted.ID(),
		LockedCount:   lockedCount,
		BatchedCount:  batchedCount,
	}, nil
}
