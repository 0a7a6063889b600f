package ports

import (
	"context"

	"localoffice/internal/core/domain/model/batch"
	"localoffice/internal/core/domain/model/kernel"
)

// BatchRepository defines the persistence contract for batch aggregates.
type BatchRepository interface {
	// Upsert inserts the batch or, when one already exists for the same
	// (site, provider, slot) triple, returns the existing row updated with
	// the aggregate's mutable fields. The insert-or-update must be a single
	// conditional statement so concurrent batching runs for the same slot
	// converge on one row.
	Upsert(ctx context.Context, aggregate *batch.Batch) (*batch.Batch, error)

	// Update persists changes to an existing batch aggregate.
	Update(ctx context.Context, aggregate *batch.Batch) error

	// Get retrieves a batch by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error)

	// GetByKey retrieves the batch for the (site, provider, slot) triple.
	GetByKey(ctx context.Context, key batch.Key) (*batch.Batch, error)
}
