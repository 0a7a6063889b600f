package commands

import (
	"errors"

	"github.com/shopspring/decimal"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/pkg/guard"
)

var (
	ErrConfirmOrderCommandIsNotConstructed = errors.New(
		"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
	)
)

// ConfirmOrderCommand represents a request to confirm (lock) a pending
// order before its slot cutoff, optionally overriding the tip.
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	tipOverride    *decimal.Decimal
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewConfirmOrderCommand creates a validated confirmation command. A nil
// tipOverride keeps the tip from submission. An empty idempotency key is
// allowed; the handler generates one for the batch-lock job.
func NewConfirmOrderCommand(
	orderID kernel.UUID,
	tipOverride *decimal.Decimal,
	idempotencyKey string,
) (ConfirmOrderCommand, error) {
	cmd := ConfirmOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return ConfirmOrderCommand{}, err
	}

	if tipOverride != nil && tipOverride.IsNegative() {
		return ConfirmOrderCommand{}, ErrNegativeTipIsNotAllowed
	}

	cmd.tipOverride = tipOverride
	cmd.idempotencyKey = idempotencyKey

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

// OrderID returns the order to confirm.
func (c ConfirmOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TipOverride returns the replacement tip, nil when unchanged.
func (c ConfirmOrderCommand) TipOverride() *decimal.Decimal {
	return c.tipOverride
}

// IdempotencyKey returns the caller-supplied key for the batch-lock job.
func (c ConfirmOrderCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *ConfirmOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}
