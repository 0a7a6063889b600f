package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// ProgramSlotRepository returns a ProgramSlotRepository bound to the current transaction.
	ProgramSlotRepository() ProgramSlotRepository

	// BatchRepository returns a BatchRepository bound to the current transaction.
	BatchRepository() BatchRepository

	// DeliveryJobRepository returns a DeliveryJobRepository bound to the current transaction.
	DeliveryJobRepository() DeliveryJobRepository
}
