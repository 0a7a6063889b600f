package slotrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/order"
	"localoffice/internal/core/domain/model/slot"
	"localoffice/internal/pkg/errs"
)

// GormProgramSlotRepository implements ProgramSlotRepository using GORM.
type GormProgramSlotRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormProgramSlotRepository creates a new GORM program slot repository.
func NewGormProgramSlotRepository(db *gorm.DB, tracker aggregateTracker) *GormProgramSlotRepository {
	return &GormProgramSlotRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new program slot to the database.
func (r *GormProgramSlotRepository) Add(ctx context.Context, aggregate *slot.ProgramSlot) error {
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

// Get retrieves a program slot by ID.
func (r *GormProgramSlotRepository) Get(ctx context.Context, id kernel.UUID) (*slot.ProgramSlot, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProgramSlotDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("programSlot", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetDueWithUnbatchedOrders retrieves every slot whose cutoff has passed and
// that still has Pending or Locked orders without a batch reference.
func (r *GormProgramSlotRepository) GetDueWithUnbatchedOrders(
	ctx context.Context,
	now time.Time,
) ([]*slot.ProgramSlot, error) {
	var dtos []ProgramSlotDTO
	err := r.db.WithContext(ctx).
		Where(`cutoff_at <= ? AND EXISTS (
			SELECT 1 FROM orders
			WHERE orders.program_slot_id = program_slots.id
			  AND orders.status IN (?, ?)
			  AND orders.batch_id IS NULL
		)`, now, order.Pending, order.Locked).
		Order("cutoff_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	slots := make([]*slot.ProgramSlot, 0, len(dtos))
	for _, dto := range dtos {
		s, restoreErr := toDomain(dto)
		if restoreErr != nil {
			return nil, restoreErr
		}
		slots = append(slots, s)
	}

	return slots, nil
}
