package commands_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"localoffice/internal/core/application/usecases/commands"
	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/ports"
	"localoffice/internal/pkg/errs"
)

func TestCancelDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	batchID := kernel.NewUUID()
	job, err := delivery.NewJob(kernel.NewUUID(), batchID, "dispatch", "ext-1", "")
	require.NoError(t, err)
	cmd, err := commands.NewCancelDeliveryCommand(batchID)
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryJobRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("GetByBatchID", mock.Anything, batchID).Return(job, nil).Once(),
		deliveryRepo.On("Update", mock.Anything, job).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	adapter := new(MockCourierAdapter)
	adapter.On("Cancel", mock.Anything, "ext-1").Return(nil).Once()

	queue := new(MockJobQueue)
	queue.On("Enqueue", mock.Anything, ports.QueueDeliveryUpdates, mock.Anything,
		commands.DeliveryUpdateEnqueueOptions("delivery:ext-1:cancel")).Return(nil).Once()

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelDeliveryCommandHandler(
		factory, ports.AdapterRegistry{"dispatch": adapter}, queue,
	)
	canceled, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Equal(t, delivery.Canceled, canceled.Status())
	require.NotNil(t, canceled.CanceledAt())

	var update delivery.Update
	raw := queue.Calls[0].Arguments.Get(2).([]byte)
	require.NoError(t, json.Unmarshal(raw, &update))
	require.Equal(t, "canceled", update.Status)
	require.Equal(t, "ext-1", update.ExternalJobID)

	adapter.AssertExpectations(t)
	queue.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCancelDeliveryCommandHandler_Handle_JobNotFound(t *testing.T) {
	ctx := t.Context()
	batchID := kernel.NewUUID()
	cmd, err := commands.NewCancelDeliveryCommand(batchID)
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryJobRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("GetByBatchID", mock.Anything, batchID).
			Return(nil, errs.NewObjectNotFoundError("deliveryJob", batchID)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	adapter := new(MockCourierAdapter)
	queue := new(MockJobQueue)
	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelDeliveryCommandHandler(
		factory, ports.AdapterRegistry{"dispatch": adapter}, queue,
	)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	adapter.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestCancelDeliveryCommandHandler_Handle_AdapterFailureAbortsCancellation(t *testing.T) {
	ctx := t.Context()
	batchID := kernel.NewUUID()
	job, err := delivery.NewJob(kernel.NewUUID(), batchID, "dispatch", "ext-1", "")
	require.NoError(t, err)
	cmd, err := commands.NewCancelDeliveryCommand(batchID)
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryJobRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("GetByBatchID", mock.Anything, batchID).Return(job, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	adapter := new(MockCourierAdapter)
	adapter.On("Cancel", mock.Anything, "ext-1").
		Return(errs.NewAdapterHTTPError("dispatch", "cancel failed", 500, true)).Once()

	queue := new(MockJobQueue)
	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelDeliveryCommandHandler(
		factory, ports.AdapterRegistry{"dispatch": adapter}, queue,
	)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrAdapterHTTPRequestError)
	require.Equal(t, delivery.Requested, job.Status())
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
