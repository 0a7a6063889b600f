package commands

import (
	"errors"

	"github.com/shopspring/decimal"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/order"
	"localoffice/internal/pkg/guard"
)

// MaxOrderQuantity caps the total item quantity of one submission.
const MaxOrderQuantity = 50

var (
	ErrSubmitOrderCommandIsNotConstructed = errors.New(
		"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
	)
	ErrItemsAreRequired        = errors.New("at least one line item is required")
	ErrMaxGroupSizeExceeded    = errors.New("maximum group size of 50 items exceeded")
	ErrItemQuantityIsInvalid   = errors.New("item quantity must be greater than 0")
	ErrNegativeTipIsNotAllowed = errors.New("tip must not be negative")
)

// SubmitOrderCommand represents a request to submit a group order against a
// program slot. Submission is idempotent when an idempotency key is given:
// resubmitting with the same key returns the original order.
type SubmitOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	programSlotID  kernel.UUID
	items          []order.LineItem
	tip            decimal.Decimal
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewSubmitOrderCommand creates a validated submission command. The total
// quantity across items must not exceed MaxOrderQuantity.
func NewSubmitOrderCommand(
	orderID, programSlotID kernel.UUID,
	items []order.LineItem,
	tip decimal.Decimal,
	idempotencyKey string,
) (SubmitOrderCommand, error) {
	cmd := SubmitOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setProgramSlotID(programSlotID),
		cmd.setItems(items),
		cmd.setTip(tip),
	); err != nil {
		return SubmitOrderCommand{}, err
	}

	cmd.idempotencyKey = idempotencyKey

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

// OrderID returns the identifier for the new order.
func (c SubmitOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ProgramSlotID returns the slot the order is submitted against.
func (c SubmitOrderCommand) ProgramSlotID() kernel.UUID {
	return c.programSlotID
}

// Items returns the submitted line items.
func (c SubmitOrderCommand) Items() []order.LineItem {
	return c.items
}

// Tip returns the tip amount.
func (c SubmitOrderCommand) Tip() decimal.Decimal {
	return c.tip
}

// IdempotencyKey returns the caller-supplied deduplication key, empty when
// none was given.
func (c SubmitOrderCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *SubmitOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *SubmitOrderCommand) setProgramSlotID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.programSlotID = id
	return nil
}

func (c *SubmitOrderCommand) setItems(items []order.LineItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	totalQuantity := 0
	for _, item := range items {
		if item.Quantity <= 0 {
			return ErrItemQuantityIsInvalid
		}
		totalQuantity += item.Quantity
	}

	if totalQuantity > MaxOrderQuantity {
		return ErrMaxGroupSizeExceeded
	}

	c.items = items
	return nil
}

func (c *SubmitOrderCommand) setTip(tip decimal.Decimal) error {
	if tip.IsNegative() {
		return ErrNegativeTipIsNotAllowed
	}
	c.tip = tip
	return nil
}
