package batchrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"localoffice/internal/core/domain/model/batch"
	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/pkg/errs"
)

// GormBatchRepository implements BatchRepository using GORM.
type GormBatchRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormBatchRepository creates a new GORM batch repository.
func NewGormBatchRepository(db *gorm.DB, tracker aggregateTracker) *GormBatchRepository {
	return &GormBatchRepository{
		db:      db,
		tracker: tracker,
	}
}

// Upsert inserts the batch or updates the existing row for the same (site,
// provider, slot) triple in one statement, then returns the persisted
// aggregate. On conflict the stored id wins, so the caller must use the
// returned batch rather than its argument.
func (r *GormBatchRepository) Upsert(ctx context.Context, aggregate *batch.Batch) (*batch.Batch, error) {
	if err := aggregate.Validate(); err != nil {
		return nil, err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "site_id"}, {Name: "provider_id"}, {Name: "program_slot_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"status"}),
		}).
		Create(&dto).Error
	if err != nil {
		return nil, err
	}

	persisted, err := r.GetByKey(ctx, aggregate.Key())
	if err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(persisted.ID(), persisted)
	return persisted, nil
}

// Update saves an existing batch to the database.
func (r *GormBatchRepository) Update(ctx context.Context, aggregate *batch.Batch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&BatchDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a batch by ID.
func (r *GormBatchRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BatchDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("batch", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByKey retrieves the batch for the (site, provider, slot) triple.
func (r *GormBatchRepository) GetByKey(ctx context.Context, key batch.Key) (*batch.Batch, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	var dto BatchDTO
	err := r.db.WithContext(ctx).
		First(&dto, "site_id = ? AND provider_id = ? AND program_slot_id = ?",
			key.SiteID.Bytes(), key.ProviderID.Bytes(), key.ProgramSlotID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("batch", key.ProgramSlotID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
