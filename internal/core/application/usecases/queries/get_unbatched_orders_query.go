// Package queries contains read-only operations over the storage model.
// Query handlers bypass the aggregate layer and read projections directly.
package queries

import (
	"errors"

	"github.com/shopspring/decimal"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/pkg/guard"
)

var (
	ErrGetUnbatchedOrdersQueryIsNotConstructed = errors.New(
		"GetUnbatchedOrdersQuery must be created via NewGetUnbatchedOrdersQuery constructor",
	)
)

// GetUnbatchedOrdersQuery retrieves orders that have not been assigned to a
// batch yet, optionally narrowed to one program slot. Used by operators to
// inspect what the next batching run would pick up.
type GetUnbatchedOrdersQuery struct {
	programSlotID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetUnbatchedOrdersQuery creates a query across all slots.
func NewGetUnbatchedOrdersQuery() GetUnbatchedOrdersQuery {
	return GetUnbatchedOrdersQuery{guard: guard.NewConstructorGuard()}
}

// NewGetUnbatchedOrdersQueryForSlot narrows the query to one slot.
func NewGetUnbatchedOrdersQueryForSlot(programSlotID kernel.UUID) (GetUnbatchedOrdersQuery, error) {
	if err := programSlotID.Validate(); err != nil {
		return GetUnbatchedOrdersQuery{}, err
	}

	return GetUnbatchedOrdersQuery{
		programSlotID: &programSlotID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through a constructor.
func (q GetUnbatchedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUnbatchedOrdersQueryIsNotConstructed)
}

// ProgramSlotID returns the slot filter, nil when unfiltered.
func (q GetUnbatchedOrdersQuery) ProgramSlotID() *kernel.UUID {
	return q.programSlotID
}

// GetUnbatchedOrdersQueryResponse is one unbatched order row.
type GetUnbatchedOrdersQueryResponse struct {
	ID            kernel.UUID
	ProgramSlotID kernel.UUID
	Status        string
	Total         decimal.Decimal
}
