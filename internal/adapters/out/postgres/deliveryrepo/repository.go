package deliveryrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/pkg/errs"
)

// GormDeliveryJobRepository implements DeliveryJobRepository using GORM.
type GormDeliveryJobRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDeliveryJobRepository creates a new GORM delivery job repository.
func NewGormDeliveryJobRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryJobRepository {
	return &GormDeliveryJobRepository{
		db:      db,
		tracker: tracker,
	}
}

// Upsert inserts the job or overwrites the dispatch identity of the existing
// row for the same batch in one statement. On conflict the stored id wins
// and the phase timestamps reset, so a re-dispatch starts a fresh tracking
// cycle. The caller must use the returned job rather than its argument.
func (r *GormDeliveryJobRepository) Upsert(ctx context.Context, aggregate *delivery.Job) (*delivery.Job, error) {
	if err := aggregate.Validate(); err != nil {
		return nil, err
	}

	dto, proofs, err := fromDomain(aggregate)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "batch_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"adapter", "external_job_id", "tracking_url", "status",
				"accepted_at", "picked_up_at", "delivered_at", "canceled_at", "failed_at",
				"metadata",
			}),
		}).
		Create(&dto).Error
	if err != nil {
		return nil, err
	}

	persisted, err := r.GetByBatchID(ctx, aggregate.BatchID())
	if err != nil {
		return nil, err
	}

	// On conflict the stored row keeps its id; attach proofs to that row.
	if err = r.insertProofs(ctx, persisted.ID().Bytes(), proofs); err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(persisted.ID(), persisted)
	return persisted, nil
}

// Update saves an existing delivery job, inserting any proof records the
// aggregate accumulated since it was loaded.
func (r *GormDeliveryJobRepository) Update(ctx context.Context, aggregate *delivery.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, proofs, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&DeliveryJobDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err = r.insertProofs(ctx, dto.ID, proofs); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a delivery job by ID.
func (r *GormDeliveryJobRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return r.getByCondition(ctx, "id = ?", id.Bytes(), id.String())
}

// GetByBatchID retrieves the delivery job for a batch.
func (r *GormDeliveryJobRepository) GetByBatchID(ctx context.Context, batchID kernel.UUID) (*delivery.Job, error) {
	if err := batchID.Validate(); err != nil {
		return nil, err
	}

	return r.getByCondition(ctx, "batch_id = ?", batchID.Bytes(), batchID.String())
}

// GetByExternalJobID retrieves the job by the courier network's identifier.
func (r *GormDeliveryJobRepository) GetByExternalJobID(ctx context.Context, externalJobID string) (*delivery.Job, error) {
	if externalJobID == "" {
		return nil, errs.NewValueIsRequiredError("externalJobID")
	}

	return r.getByCondition(ctx, "external_job_id = ?", externalJobID, externalJobID)
}

func (r *GormDeliveryJobRepository) getByCondition(
	ctx context.Context,
	condition string,
	value any,
	label string,
) (*delivery.Job, error) {
	var dto DeliveryJobDTO
	if err := r.db.WithContext(ctx).First(&dto, condition, value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("deliveryJob", label)
		}
		return nil, err
	}

	var proofs []ProofDTO
	err := r.db.WithContext(ctx).
		Order("url").
		Find(&proofs, "delivery_job_id = ?", dto.ID).Error
	if err != nil {
		return nil, err
	}

	return toDomain(dto, proofs)
}

// insertProofs appends proof rows, silently skipping URLs already recorded
// for the job.
func (r *GormDeliveryJobRepository) insertProofs(ctx context.Context, jobID uuid.UUID, proofs []ProofDTO) error {
	if len(proofs) == 0 {
		return nil
	}

	for i := range proofs {
		proofs[i].DeliveryJobID = jobID
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "delivery_job_id"}, {Name: "url"}},
			DoNothing: true,
		}).
		Create(&proofs).Error
}
