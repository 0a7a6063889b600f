package commands

import (
	"errors"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/pkg/guard"
)

var (
	ErrCancelDeliveryCommandIsNotConstructed = errors.New(
		"CancelDeliveryCommand must be created via NewCancelDeliveryCommand constructor",
	)
)

// CancelDeliveryCommand requests withdrawal of a batch's delivery job from
// its courier network.
type CancelDeliveryCommand struct { //nolint:recvcheck //using for validation
	batchID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelDeliveryCommand creates a validated cancellation command.
func NewCancelDeliveryCommand(batchID kernel.UUID) (CancelDeliveryCommand, error) {
	cmd := CancelDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setBatchID(batchID); err != nil {
		return CancelDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCancelDeliveryCommandIsNotConstructed)
}

// BatchID returns the batch whose delivery is withdrawn.
func (c CancelDeliveryCommand) BatchID() kernel.UUID {
	return c.batchID
}

func (c *CancelDeliveryCommand) setBatchID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.batchID = id
	return nil
}
