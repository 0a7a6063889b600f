package orderrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/order"
	"localoffice/internal/pkg/errs"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByIdempotencyKey retrieves the order submitted with the given key.
func (r *GormOrderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	if key == "" {
		return nil, errs.NewValueIsRequiredError("idempotencyKey")
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "idempotency_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", key)
		}
		return nil, err
	}

	return toDomain(dto)
}

// LockPendingBySlot transitions every Pending order of the slot to Locked in
// a single statement.
func (r *GormOrderRepository) LockPendingBySlot(
	ctx context.Context,
	programSlotID kernel.UUID,
) (int64, error) {
	if err := programSlotID.Validate(); err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("program_slot_id = ? AND status = ?", programSlotID.Bytes(), order.Pending).
		Update("status", order.Locked)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// AssignLockedToBatch stamps the batch reference on every Locked order of
// the slot that does not carry one yet, moving them to Batched.
func (r *GormOrderRepository) AssignLockedToBatch(
	ctx context.Context,
	programSlotID, batchID kernel.UUID,
) (int64, error) {
	if err := errors.Join(programSlotID.Validate(), batchID.Validate()); err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("program_slot_id = ? AND status = ? AND batch_id IS NULL",
			programSlotID.Bytes(), order.Locked).
		Updates(map[string]any{
			"status":   order.Batched,
			"batch_id": batchID.Bytes(),
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
