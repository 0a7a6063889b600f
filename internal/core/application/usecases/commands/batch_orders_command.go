package commands

import (
	"errors"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/pkg/guard"
)

var (
	ErrBatchOrdersCommandIsNotConstructed = errors.New(
		"BatchOrdersCommand must be created via NewBatchOrdersCommand constructor",
	)
)

// BatchSummary reports the outcome of the batching sequence for one slot.
type BatchSummary struct {
	ProgramSlotID kernel.UUID
	BatchID       kernel.UUID
	LockedCount   int64
	BatchedCount  int64
}

// BatchOrdersCommand requests a batching run. Without a slot identifier the
// handler discovers every slot whose cutoff has passed and that still has
// unbatched orders; with one, only that slot is processed (manual trigger).
type BatchOrdersCommand struct { //nolint:recvcheck //using for validation
	programSlotID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewBatchOrdersCommand creates a discovery-mode batching command.
func NewBatchOrdersCommand() (BatchOrdersCommand, error) {
	return BatchOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}, nil
}

// NewBatchOrdersCommandForSlot creates a batching command targeting one slot.
func NewBatchOrdersCommandForSlot(programSlotID kernel.UUID) (BatchOrdersCommand, error) {
	if err := programSlotID.Validate(); err != nil {
		return BatchOrdersCommand{}, err
	}

	return BatchOrdersCommand{
		programSlotID: &programSlotID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through a constructor.
func (c BatchOrdersCommand) Validate() error {
	return c.guard.Validate(ErrBatchOrdersCommandIsNotConstructed)
}

// ProgramSlotID returns the targeted slot, nil in discovery mode.
func (c BatchOrdersCommand) ProgramSlotID() *kernel.UUID {
	return c.programSlotID
}
