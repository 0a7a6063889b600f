package ports

import (
	"context"
	"time"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/slot"
)

// ProgramSlotRepository defines the persistence contract for program slots.
type ProgramSlotRepository interface {
	// Add persists a new program slot.
	Add(ctx context.Context, aggregate *slot.ProgramSlot) error

	// Get retrieves a program slot by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*slot.ProgramSlot, error)

	// GetDueWithUnbatchedOrders retrieves every slot whose cutoff has
	// passed at the given time and that still has Pending or Locked orders
	// without a batch reference. This is the batching job's discovery query.
	GetDueWithUnbatchedOrders(ctx context.Context, now time.Time) ([]*slot.ProgramSlot, error)
}
