package ports

import (
	"context"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Besides single-aggregate operations it exposes the two set-based
// transitions the batching job performs, so the lock and assign steps run as
// single statements instead of row-by-row updates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByIdempotencyKey retrieves the order submitted with the given key.
	// Returns an ObjectNotFoundError when no such order exists.
	GetByIdempotencyKey(ctx context.Context, key string) (*order.Order, error)

	// LockPendingBySlot transitions every Pending order of the slot to
	// Locked and returns the number of rows affected.
	LockPendingBySlot(ctx context.Context, programSlotID kernel.UUID) (int64, error)

	// AssignLockedToBatch transitions every Locked order of the slot that
	// has no batch reference to Batched, stamping the batch reference, and
	// returns the number of rows affected.
	AssignLockedToBatch(ctx context.Context, programSlotID, batchID kernel.UUID) (int64, error)
}
