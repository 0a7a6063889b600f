package commands_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"localoffice/internal/core/application/usecases/commands"
	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/order"
	"localoffice/internal/core/ports"
	"localoffice/internal/pkg/errs"
)

func TestConfirmOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	programSlot := slotWithCutoff(t, time.Hour)
	pending := pendingOrder(t, programSlot.ID(), "")
	tip := decimal.NewFromFloat(5.00)
	cmd, err := commands.NewConfirmOrderCommand(pending.ID(), &tip, "confirm-key-1")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	slotRepo := new(MockSlotRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, pending.ID()).Return(pending, nil).Once(),
		uow.On("ProgramSlotRepository").Return(slotRepo).Once(),
		slotRepo.On("Get", mock.Anything, programSlot.ID()).Return(programSlot, nil).Once(),
		orderRepo.On("Update", mock.Anything, pending).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	queue := new(MockJobQueue)
	queue.On("Enqueue", mock.Anything, ports.QueueBatchLock, mock.Anything,
		commands.BatchLockEnqueueOptions("confirm-key-1")).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewConfirmOrderCommandHandler(factory, queue)
	confirmed, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Equal(t, order.Locked, confirmed.Status())
	// 16.00 subtotal + 5.00 tip override.
	require.True(t, confirmed.Totals().Total.Equal(decimal.NewFromFloat(21.00)))

	var payload commands.BatchLockJobData
	raw := queue.Calls[0].Arguments.Get(2).([]byte)
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.Equal(t, pending.ID().String(), payload.OrderID)
	require.Equal(t, programSlot.ID().String(), payload.ProgramSlotID)
	require.Equal(t, "confirm-key-1", payload.IdempotencyKey)

	queue.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestConfirmOrderCommandHandler_Handle_GeneratesIdempotencyKey(t *testing.T) {
	ctx := t.Context()
	programSlot := slotWithCutoff(t, time.Hour)
	pending := pendingOrder(t, programSlot.ID(), "")
	cmd, err := commands.NewConfirmOrderCommand(pending.ID(), nil, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	slotRepo := new(MockSlotRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, pending.ID()).Return(pending, nil).Once(),
		uow.On("ProgramSlotRepository").Return(slotRepo).Once(),
		slotRepo.On("Get", mock.Anything, programSlot.ID()).Return(programSlot, nil).Once(),
		orderRepo.On("Update", mock.Anything, pending).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	queue := new(MockJobQueue)
	queue.On("Enqueue", mock.Anything, ports.QueueBatchLock, mock.Anything, mock.Anything).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewConfirmOrderCommandHandler(factory, queue)
	_, err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	opts := queue.Calls[0].Arguments.Get(3).(ports.EnqueueOptions)
	require.Regexp(t, `^batch-lock_[A-Z0-9]{24}$`, opts.JobID)
	require.Equal(t, 3, opts.Attempts)
	require.Equal(t, ports.BackoffFixed, opts.Backoff.Type)
	require.Equal(t, 60*time.Second, opts.Backoff.Delay)
}

func TestConfirmOrderCommandHandler_Handle_AlreadyLockedIsNoOp(t *testing.T) {
	ctx := t.Context()
	programSlot := slotWithCutoff(t, time.Hour)
	locked := pendingOrder(t, programSlot.ID(), "")
	require.NoError(t, locked.Lock())
	cmd, err := commands.NewConfirmOrderCommand(locked.ID(), nil, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, locked.ID()).Return(locked, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	queue := new(MockJobQueue)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewConfirmOrderCommandHandler(factory, queue)
	got, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.True(t, got.IsEqual(locked))
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestConfirmOrderCommandHandler_Handle_CutoffPassed(t *testing.T) {
	ctx := t.Context()
	programSlot := slotWithCutoff(t, -time.Minute)
	pending := pendingOrder(t, programSlot.ID(), "")
	cmd, err := commands.NewConfirmOrderCommand(pending.ID(), nil, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	slotRepo := new(MockSlotRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, pending.ID()).Return(pending, nil).Once(),
		uow.On("ProgramSlotRepository").Return(slotRepo).Once(),
		slotRepo.On("Get", mock.Anything, programSlot.ID()).Return(programSlot, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	queue := new(MockJobQueue)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewConfirmOrderCommandHandler(factory, queue)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertExpectations(t)
}

func TestNewConfirmOrderCommand_NegativeTip(t *testing.T) {
	tip := decimal.NewFromInt(-1)
	_, err := commands.NewConfirmOrderCommand(kernel.NewUUID(), &tip, "")
	require.ErrorIs(t, err, commands.ErrNegativeTipIsNotAllowed)
}
