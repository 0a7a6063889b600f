package commands

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"localoffice/internal/core/domain/model/order"
	"localoffice/internal/pkg/errs"
)

// SubmitOrderCommandHandler handles order submission against a program slot.
// Submissions after the slot's cutoff are rejected; submissions reusing an
// idempotency key return the originally created order.
type SubmitOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewSubmitOrderCommandHandler creates a handler for order submission.
func NewSubmitOrderCommandHandler(uowFactory OrderUoWFactory) SubmitOrderCommandHandler {
	return SubmitOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the submission. Returns the created order, or the
// existing one when the idempotency key was seen before.
func (h *SubmitOrderCommandHandler) Handle(
	ctx context.Context, cmd SubmitOrderCommand,
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

	if cmd.IdempotencyKey() != "" {
		existing, err := orderRepo.GetByIdempotencyKey(ctx, cmd.IdempotencyKey())
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return nil, err
		}
	}

	programSlot, err := uow.ProgramSlotRepository().Get(ctx, cmd.ProgramSlotID())
	if err != nil {
		return nil, err
	}

	if err = programSlot.AssertBeforeCutoff(time.Now()); err != nil {
		return nil, err
	}

	totals, err := order.NewTotals(
		order.SumLineItems(cmd.Items()),
		cmd.Tip(),
		decimal.Zero, decimal.Zero, decimal.Zero,
	)
	if err != nil {
		return nil, err
	}

	aggregate, err := order.NewOrder(cmd.OrderID(), cmd.ProgramSlotID(), totals, cmd.IdempotencyKey())
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
