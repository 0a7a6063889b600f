// Package postgres provides the GORM-based implementation of the Unit of
// Work pattern. A unit of work maintains the set of aggregates touched by
// one business transaction and coordinates writing them out atomically.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.OrderRepository().Add(ctx, order); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each instance carries its own transaction state; concurrent goroutines
// must use separate instances. Repository accessors return repositories
// bound to the active transaction, or to the base connection when no
// transaction was begun.
package postgres

import (
	"context"

	"gorm.io/gorm"

	"localoffice/internal/adapters/out/postgres/batchrepo"
	"localoffice/internal/adapters/out/postgres/deliveryrepo"
	"localoffice/internal/adapters/out/postgres/orderrepo"
	"localoffice/internal/adapters/out/postgres/slotrepo"
	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/ports"
)

// trackedAggregate represents an aggregate modified during the unit of work.
// Kept for post-commit processing such as an outbox pattern.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances over one GORM
// connection. Every business operation gets a fresh instance so transaction
// state never leaks between operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory bound to the given connection.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for one business transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates a database transaction across the order, slot,
// batch, and delivery repositories, and records every aggregate they touch.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts a transaction. Calling Begin again on an instance with an
// active transaction is a no-op, so nested transactions never occur.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes the active transaction. The transaction is closed
// afterwards regardless of outcome.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the active transaction. Safe to defer after a commit
// attempt only when the returned error is checked; returns
// gorm.ErrInvalidTransaction when no transaction is active.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository returns the order repository bound to the current
// transaction, or to the base connection when none is active.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.connection(), uow)
}

// ProgramSlotRepository returns the program slot repository bound to the
// current transaction.
func (uow *GormUnitOfWork) ProgramSlotRepository() ports.ProgramSlotRepository {
	return slotrepo.NewGormProgramSlotRepository(uow.connection(), uow)
}

// BatchRepository returns the batch repository bound to the current
// transaction.
func (uow *GormUnitOfWork) BatchRepository() ports.BatchRepository {
	return batchrepo.NewGormBatchRepository(uow.connection(), uow)
}

// DeliveryJobRepository returns the delivery job repository bound to the
// current transaction.
func (uow *GormUnitOfWork) DeliveryJobRepository() ports.DeliveryJobRepository {
	return deliveryrepo.NewGormDeliveryJobRepository(uow.connection(), uow)
}

// TrackAggregate registers a domain aggregate as modified within this unit
// of work. Called by the repository implementations on every write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) connection() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
