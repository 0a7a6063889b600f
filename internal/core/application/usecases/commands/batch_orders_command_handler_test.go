package commands_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"localoffice/internal/core/application/usecases/commands"
	"localoffice/internal/core/domain/model/batch"
	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/slot"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func lockedBatchFor(t *testing.T, s *slot.ProgramSlot) *batch.Batch {
	t.Helper()
	b, err := batch.NewBatch(kernel.NewUUID(), batch.Key{
		SiteID:        s.SiteID(),
		ProviderID:    s.ProviderID(),
		ProgramSlotID: s.ID(),
	})
	require.NoError(t, err)
	require.NoError(t, b.Lock())
	return b
}

func TestBatchOrdersCommandHandler_Handle_DiscoveryMode(t *testing.T) {
	ctx := t.Context()
	dueSlot := slotWithCutoff(t, -time.Hour)
	persisted := lockedBatchFor(t, dueSlot)
	cmd, err := commands.NewBatchOrdersCommand()
	require.NoError(t, err)

	slotRepo := new(MockSlotRepository)
	orderRepo := new(MockOrderRepository)
	batchRepo := new(MockBatchRepository)

	discoveryUoW := new(MockUoW)
	mock.InOrder(
		discoveryUoW.On("Begin", ctx).Return(nil).Once(),
		discoveryUoW.On("ProgramSlotRepository").Return(slotRepo).Once(),
		slotRepo.On("GetDueWithUnbatchedOrders", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]*slot.ProgramSlot{dueSlot}, nil).Once(),
		discoveryUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	slotUoW := new(MockUoW)
	mock.InOrder(
		slotUoW.On("Begin", ctx).Return(nil).Once(),
		slotUoW.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("LockPendingBySlot", mock.Anything, dueSlot.ID()).Return(int64(3), nil).Once(),
		slotUoW.On("BatchRepository").Return(batchRepo).Once(),
		batchRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*batch.Batch")).
			Return(persisted, nil).Once(),
		orderRepo.On("AssignLockedToBatch", mock.Anything, dueSlot.ID(), persisted.ID()).
			Return(int64(3), nil).Once(),
		slotUoW.On("Commit", ctx).Return(nil).Once(),
		slotUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockBatchUoWFactory)
	factory.On("Create").Return(discoveryUoW).Once()
	factory.On("Create").Return(slotUoW).Once()

	h := commands.NewBatchOrdersCommandHandler(factory, discardLogger())
	summaries, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, dueSlot.ID(), summaries[0].ProgramSlotID)
	require.Equal(t, persisted.ID(), summaries[0].BatchID)
	require.EqualValues(t, 3, summaries[0].LockedCount)
	require.EqualValues(t, 3, summaries[0].BatchedCount)

	slotRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	batchRepo.AssertExpectations(t)
}

func TestBatchOrdersCommandHandler_Handle_ManualSlot(t *testing.T) {
	ctx := t.Context()
	dueSlot := slotWithCutoff(t, -time.Hour)
	persisted := lockedBatchFor(t, dueSlot)
	cmd, err := commands.NewBatchOrdersCommandForSlot(dueSlot.ID())
	require.NoError(t, err)

	slotRepo := new(MockSlotRepository)
	orderRepo := new(MockOrderRepository)
	batchRepo := new(MockBatchRepository)

	discoveryUoW := new(MockUoW)
	mock.InOrder(
		discoveryUoW.On("Begin", ctx).Return(nil).Once(),
		discoveryUoW.On("ProgramSlotRepository").Return(slotRepo).Once(),
		slotRepo.On("Get", mock.Anything, dueSlot.ID()).Return(dueSlot, nil).Once(),
		discoveryUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	slotUoW := new(MockUoW)
	mock.InOrder(
		slotUoW.On("Begin", ctx).Return(nil).Once(),
		slotUoW.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("LockPendingBySlot", mock.Anything, dueSlot.ID()).Return(int64(0), nil).Once(),
		slotUoW.On("BatchRepository").Return(batchRepo).Once(),
		batchRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*batch.Batch")).
			Return(persisted, nil).Once(),
		orderRepo.On("AssignLockedToBatch", mock.Anything, dueSlot.ID(), persisted.ID()).
			Return(int64(0), nil).Once(),
		slotUoW.On("Commit", ctx).Return(nil).Once(),
		slotUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockBatchUoWFactory)
	factory.On("Create").Return(discoveryUoW).Once()
	factory.On("Create").Return(slotUoW).Once()

	h := commands.NewBatchOrdersCommandHandler(factory, discardLogger())
	summaries, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.EqualValues(t, 0, summaries[0].LockedCount)
}

func TestBatchOrdersCommandHandler_Handle_FailingSlotIsSkipped(t *testing.T) {
	ctx := t.Context()
	badSlot := slotWithCutoff(t, -2*time.Hour)
	goodSlot := slotWithCutoff(t, -time.Hour)
	persisted := lockedBatchFor(t, goodSlot)
	cmd, err := commands.NewBatchOrdersCommand()
	require.NoError(t, err)

	slotRepo := new(MockSlotRepository)
	orderRepo := new(MockOrderRepository)
	batchRepo := new(MockBatchRepository)

	discoveryUoW := new(MockUoW)
	mock.InOrder(
		discoveryUoW.On("Begin", ctx).Return(nil).Once(),
		discoveryUoW.On("ProgramSlotRepository").Return(slotRepo).Once(),
		slotRepo.On("GetDueWithUnbatchedOrders", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]*slot.ProgramSlot{badSlot, goodSlot}, nil).Once(),
		discoveryUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	badUoW := new(MockUoW)
	mock.InOrder(
		badUoW.On("Begin", ctx).Return(nil).Once(),
		badUoW.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("LockPendingBySlot", mock.Anything, badSlot.ID()).
			Return(int64(0), errors.New("deadlock detected")).Once(),
		badUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	goodUoW := new(MockUoW)
	mock.InOrder(
		goodUoW.On("Begin", ctx).Return(nil).Once(),
		goodUoW.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("LockPendingBySlot", mock.Anything, goodSlot.ID()).Return(int64(2), nil).Once(),
		goodUoW.On("BatchRepository").Return(batchRepo).Once(),
		batchRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*batch.Batch")).
			Return(persisted, nil).Once(),
		orderRepo.On("AssignLockedToBatch", mock.Anything, goodSlot.ID(), persisted.ID()).
			Return(int64(2), nil).Once(),
		goodUoW.On("Commit", ctx).Return(nil).Once(),
		goodUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockBatchUoWFactory)
	factory.On("Create").Return(discoveryUoW).Once()
	factory.On("Create").Return(badUoW).Once()
	factory.On("Create").Return(goodUoW).Once()

	h := commands.NewBatchOrdersCommandHandler(factory, discardLogger())
	summaries, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, goodSlot.ID(), summaries[0].ProgramSlotID)
}
