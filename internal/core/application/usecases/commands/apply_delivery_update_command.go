package commands

import (
	"errors"

	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/pkg/guard"
)

var (
	ErrApplyDeliveryUpdateCommandIsNotConstructed = errors.New(
		"ApplyDeliveryUpdateCommand must be created via NewApplyDeliveryUpdateCommand constructor",
	)
)

// ApplyDeliveryUpdateCommand carries one canonical courier update for the
// status reconciler.
type ApplyDeliveryUpdateCommand struct { //nolint:recvcheck //using for validation
	update delivery.Update

	guard guard.ConstructorGuard
}

// NewApplyDeliveryUpdateCommand creates a validated reconciliation command.
func NewApplyDeliveryUpdateCommand(update delivery.Update) (ApplyDeliveryUpdateCommand, error) {
	if err := update.Validate(); err != nil {
		return ApplyDeliveryUpdateCommand{}, err
	}

	return ApplyDeliveryUpdateCommand{
		update: update,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyDeliveryUpdateCommand) Validate() error {
	return c.guard.Validate(ErrApplyDeliveryUpdateCommandIsNotConstructed)
}

// Update returns the canonical update to apply.
func (c ApplyDeliveryUpdateCommand) Update() delivery.Update {
	return c.update
}
