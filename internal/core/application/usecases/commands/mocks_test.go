package commands_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"localoffice/internal/core/application/usecases/commands"
	"localoffice/internal/core/domain/model/batch"
	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/order"
	"localoffice/internal/core/domain/model/slot"
	"localoffice/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) LockPendingBySlot(ctx context.Context, slotID kernel.UUID) (int64, error) {
	args := m.Called(ctx, slotID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) AssignLockedToBatch(ctx context.Context, slotID, batchID kernel.UUID) (int64, error) {
	args := m.Called(ctx, slotID, batchID)
	return args.Get(0).(int64), args.Error(1)
}

type MockSlotRepository struct{ mock.Mock }

func (m *MockSlotRepository) Add(ctx context.Context, s *slot.ProgramSlot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSlotRepository) Get(ctx context.Context, id kernel.UUID) (*slot.ProgramSlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*slot.ProgramSlot), args.Error(1)
}

func (m *MockSlotRepository) GetDueWithUnbatchedOrders(ctx context.Context, now time.Time) ([]*slot.ProgramSlot, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*slot.ProgramSlot), args.Error(1)
}

type MockBatchRepository struct{ mock.Mock }

func (m *MockBatchRepository) Upsert(ctx context.Context, b *batch.Batch) (*batch.Batch, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.Batch), args.Error(1)
}

func (m *MockBatchRepository) Update(ctx context.Context, b *batch.Batch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBatchRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.Batch), args.Error(1)
}

func (m *MockBatchRepository) GetByKey(ctx context.Context, key batch.Key) (*batch.Batch, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.Batch), args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Upsert(ctx context.Context, j *delivery.Job) (*delivery.Job, error) {
	args := m.Called(ctx, j)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Job), args.Error(1)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, j *delivery.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Job), args.Error(1)
}

func (m *MockDeliveryRepository) GetByBatchID(ctx context.Context, batchID kernel.UUID) (*delivery.Job, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Job), args.Error(1)
}

func (m *MockDeliveryRepository) GetByExternalJobID(ctx context.Context, externalJobID string) (*delivery.Job, error) {
	args := m.Called(ctx, externalJobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Job), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ProgramSlotRepository() ports.ProgramSlotRepository {
	args := m.Called()
	return args.Get(0).(ports.ProgramSlotRepository)
}

func (m *MockUoW) BatchRepository() ports.BatchRepository {
	args := m.Called()
	return args.Get(0).(ports.BatchRepository)
}

func (m *MockUoW) DeliveryJobRepository() ports.DeliveryJobRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryJobRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockBatchUoWFactory struct{ mock.Mock }

func (m *MockBatchUoWFactory) Create() commands.BatchUoW {
	args := m.Called()
	return args.Get(0).(commands.BatchUoW)
}

type MockDispatchUoWFactory struct{ mock.Mock }

func (m *MockDispatchUoWFactory) Create() commands.DispatchUoW {
	args := m.Called()
	return args.Get(0).(commands.DispatchUoW)
}

type MockReconcileUoWFactory struct{ mock.Mock }

func (m *MockReconcileUoWFactory) Create() commands.ReconcileUoW {
	args := m.Called()
	return args.Get(0).(commands.ReconcileUoW)
}

type MockJobQueue struct{ mock.Mock }

func (m *MockJobQueue) Enqueue(ctx context.Context, queue string, payload []byte, opts ports.EnqueueOptions) error {
	args := m.Called(ctx, queue, payload, opts)
	return args.Error(0)
}

type MockCourierAdapter struct{ mock.Mock }

func (m *MockCourierAdapter) Quote(ctx context.Context, req ports.QuoteRequest) (ports.QuoteResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.QuoteResponse), args.Error(1)
}

func (m *MockCourierAdapter) Create(ctx context.Context, req ports.CreateJobRequest) (ports.CreateJobResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.CreateJobResponse), args.Error(1)
}

func (m *MockCourierAdapter) Cancel(ctx context.Context, externalJobID string) error {
	args := m.Called(ctx, externalJobID)
	return args.Error(0)
}

func (m *MockCourierAdapter) ParseWebhook(ctx context.Context, req ports.WebhookRequest) (delivery.Update, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(delivery.Update), args.Error(1)
}
