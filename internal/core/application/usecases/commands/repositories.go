// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"localoffice/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// SlotRepoFactory provides access to the program slot repository within a transaction.
	SlotRepoFactory interface {
		ProgramSlotRepository() ports.ProgramSlotRepository
	}

	// BatchRepoFactory provides access to the batch repository within a transaction.
	BatchRepoFactory interface {
		BatchRepository() ports.BatchRepository
	}

	// DeliveryRepoFactory provides access to the delivery job repository within a transaction.
	DeliveryRepoFactory interface {
		DeliveryJobRepository() ports.DeliveryJobRepository
	}

	// OrderUoW manages transactions for order submission and confirmation,
	// which read slots for cutoff checks and mutate orders.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		SlotRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// BatchUoW manages the per-slot atomic lock, upsert and assign sequence
	// of the batching job.
	BatchUoW interface {
		TxManager
		OrderRepoFactory
		SlotRepoFactory
		BatchRepoFactory
	}

	// BatchUoWFactory creates new batching unit of work instances.
	BatchUoWFactory interface {
		Create() BatchUoW
	}

	// DispatchUoW manages transactions for delivery dispatch operations,
	// which verify batches and upsert delivery jobs.
	DispatchUoW interface {
		TxManager
		BatchRepoFactory
		DeliveryRepoFactory
	}

	// DispatchUoWFactory creates new dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// ReconcileUoW manages transactions for the status reconciler, which
	// mutates delivery jobs and proofs only.
	ReconcileUoW interface {
		TxManager
		DeliveryRepoFactory
	}

	// ReconcileUoWFactory creates new reconciler unit of work instances.
	ReconcileUoWFactory interface {
		Create() ReconcileUoW
	}
)
