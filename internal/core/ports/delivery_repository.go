package ports

import (
	"context"

	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/core/domain/model/kernel"
)

// DeliveryJobRepository defines the persistence contract for delivery jobs
// and their proof records.
type DeliveryJobRepository interface {
	// Upsert inserts the job or, when one already exists for the same
	// batch, overwrites its dispatch identity with the aggregate's fields.
	// The insert-or-update must be a single conditional statement keyed on
	// the unique batch reference.
	Upsert(ctx context.Context, aggregate *delivery.Job) (*delivery.Job, error)

	// Update persists changes to an existing delivery job, including newly
	// appended proof records.
	Update(ctx context.Context, aggregate *delivery.Job) error

	// Get retrieves a delivery job by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Job, error)

	// GetByBatchID retrieves the delivery job for a batch.
	GetByBatchID(ctx context.Context, batchID kernel.UUID) (*delivery.Job, error)

	// GetByExternalJobID retrieves the job by the courier network's
	// identifier. Returns an ObjectNotFoundError when no job matches; the
	// reconciler treats that as a hard failure.
	GetByExternalJobID(ctx context.Context, externalJobID string) (*delivery.Job, error)
}
