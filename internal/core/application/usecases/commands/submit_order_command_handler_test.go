package commands_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"localoffice/internal/core/application/usecases/commands"
	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/order"
	"localoffice/internal/core/domain/model/slot"
	"localoffice/internal/pkg/errs"
)

func slotWithCutoff(t *testing.T, cutoffIn time.Duration) *slot.ProgramSlot {
	t.Helper()
	serviceAt := time.Now().Add(cutoffIn + 2*time.Hour)
	s, err := slot.NewProgramSlot(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		serviceAt, serviceAt.Add(-48*time.Hour), serviceAt.Add(-time.Hour),
		time.Now().Add(cutoffIn),
	)
	require.NoError(t, err)
	return s
}

func pendingOrder(t *testing.T, slotID kernel.UUID, key string) *order.Order {
	t.Helper()
	totals, err := order.NewTotals(
		decimal.NewFromFloat(16.00), decimal.NewFromFloat(2.00),
		decimal.Zero, decimal.Zero, decimal.Zero,
	)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), slotID, totals, key)
	require.NoError(t, err)
	return o
}

func TestSubmitOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	programSlot := slotWithCutoff(t, time.Hour)
	cmd, err := commands.NewSubmitOrderCommand(
		kernel.NewUUID(), programSlot.ID(), someItems(2),
		decimal.NewFromFloat(2.00), "",
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	slotRepo := new(MockSlotRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("ProgramSlotRepository").Return(slotRepo).Once(),
		slotRepo.On("Get", mock.Anything, programSlot.ID()).Return(programSlot, nil).Once(),
		orderRepo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSubmitOrderCommandHandler(factory)
	created, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Equal(t, order.Pending, created.Status())
	require.True(t, created.Totals().Total.Equal(decimal.NewFromFloat(34.00)))
	require.Equal(t, "order_"+created.ID().String(), created.IdempotencyKey())
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestSubmitOrderCommandHandler_Handle_IdempotentReplay(t *testing.T) {
	ctx := t.Context()
	programSlot := slotWithCutoff(t, time.Hour)
	existing := pendingOrder(t, programSlot.ID(), "order-key-1")
	cmd, err := commands.NewSubmitOrderCommand(
		kernel.NewUUID(), programSlot.ID(), someItems(1),
		decimal.Zero, "order-key-1",
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetByIdempotencyKey", mock.Anything, "order-key-1").Return(existing, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSubmitOrderCommandHandler(factory)
	got, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.True(t, got.IsEqual(existing))
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestSubmitOrderCommandHandler_Handle_CutoffPassed(t *testing.T) {
	ctx := t.Context()
	programSlot := slotWithCutoff(t, -time.Minute)
	cmd, err := commands.NewSubmitOrderCommand(
		kernel.NewUUID(), programSlot.ID(), someItems(1), decimal.Zero, "",
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	slotRepo := new(MockSlotRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("ProgramSlotRepository").Return(slotRepo).Once(),
		slotRepo.On("Get", mock.Anything, programSlot.ID()).Return(programSlot, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSubmitOrderCommandHandler(factory)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertExpectations(t)
}

func TestSubmitOrderCommandHandler_Handle_SlotNotFound(t *testing.T) {
	ctx := t.Context()
	slotID := kernel.NewUUID()
	cmd, err := commands.NewSubmitOrderCommand(
		kernel.NewUUID(), slotID, someItems(1), decimal.Zero, "",
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	slotRepo := new(MockSlotRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("ProgramSlotRepository").Return(slotRepo).Once(),
		slotRepo.On("Get", mock.Anything, slotID).
			Return(nil, errs.NewObjectNotFoundError("programSlot", slotID)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSubmitOrderCommandHandler(factory)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertExpectations(t)
}
