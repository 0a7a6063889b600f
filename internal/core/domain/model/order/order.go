package order

import (
	"errors"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is one employee's request against a single program slot. It is the
// aggregate root for the order lifecycle from submission through batching to
// fulfillment.
//
// Invariants:
//   - Valid unique identifier and program-slot reference
//   - Non-empty idempotency key (caller-supplied, unique)
//   - Batch reference is set if and only if status is at or past Batched
//   - Status transitions follow the one-directional machine in Status
//
// Orders are never deleted, only transitioned.
type Order struct {
	id             kernel.UUID
	programSlotID  kernel.UUID
	batchID        *kernel.UUID
	status         Status
	totals         Totals
	idempotencyKey string

	isConstructed bool
}

// NewOrder creates a submitted Order in Pending status. All invariants are
// validated; the batch reference starts empty. An empty idempotency key is
// defaulted to "order_<id>" so every stored order carries one.
func NewOrder(id, programSlotID kernel.UUID, totals Totals, idempotencyKey string) (*Order, error) {
	if idempotencyKey == "" {
		idempotencyKey = "order_" + id.String()
	}

	o := &Order{
		status:        Pending,
		totals:        totals,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setProgramSlotID(programSlotID),
		o.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rehydrates an Order from persistence, checking that the
// stored status, batch reference, and identifiers are mutually consistent.
func RestoreOrder(
	id, programSlotID kernel.UUID,
	status Status,
	totals Totals,
	idempotencyKey string,
	batchID *kernel.UUID,
) (*Order, error) {
	o := &Order{
		totals:        totals,
		batchID:       batchID,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setProgramSlotID(programSlotID),
		o.setIdempotencyKey(idempotencyKey),
		o.setStatus(status),
		status.ValidateCanHaveBatch(batchID != nil),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was constructed through NewOrder/RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// ProgramSlotID returns the owning program slot's identifier.
func (o *Order) ProgramSlotID() kernel.UUID {
	return o.programSlotID
}

// Batch returns the assigned batch's identifier, nil if unbatched.
func (o *Order) Batch() *kernel.UUID {
	return o.batchID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Totals returns the monetary breakdown.
func (o *Order) Totals() Totals {
	return o.totals
}

// IdempotencyKey returns the caller-supplied submission key.
func (o *Order) IdempotencyKey() string {
	return o.idempotencyKey
}

// Lock freezes the order for batching. Valid from Pending; locking an
// already Locked order is a no-op so concurrent batching runs stay safe.
func (o *Order) Lock() error {
	newStatus, err := o.status.Lock()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// AssignToBatch stamps the batch reference and promotes the order to
// Batched. Only Locked orders without a batch reference may be assigned.
func (o *Order) AssignToBatch(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}
	if o.batchID != nil {
		return errs.NewConflictError("order is already assigned to a batch")
	}

	newStatus, err := o.status.AssignBatch()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.batchID = &batchID
	return nil
}

// Fulfill marks the order delivered. Valid only from Batched.
func (o *Order) Fulfill() error {
	newStatus, err := o.status.Fulfill()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Cancel withdraws the order. Valid from Pending and Locked.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// OverrideTip replaces the tip and recomputes the total. Allowed only while
// the order is still Pending (confirmation-time tip adjustment).
func (o *Order) OverrideTip(tip decimal.Decimal) error {
	if o.status != Pending {
		return errs.NewConflictError("tip can only change before the order is locked")
	}

	totals, err := o.totals.WithTip(tip)
	if err != nil {
		return err
	}

	o.totals = totals
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setProgramSlotID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.programSlotID = id
	return nil
}

func (o *Order) setIdempotencyKey(key string) error {
	if key == "" {
		return errs.NewValueIsRequiredError("idempotencyKey")
	}
	o.idempotencyKey = key
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
