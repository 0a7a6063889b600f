package commands

import (
	"errors"
	"strings"
	"time"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/ports"
	"localoffice/internal/pkg/guard"
)

var (
	ErrCreateDeliveryCommandIsNotConstructed = errors.New(
		"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
	)
)

// CreateDeliveryCommand requests booking a batch's delivery with a courier
// network through the named adapter.
type CreateDeliveryCommand struct { //nolint:recvcheck //using for validation
	batchID        kernel.UUID
	adapterName    string
	pickupAddress  string
	dropoffAddress string
	readyAt        time.Time
	reference      string
	contactEmail   string
	contactPhone   string

	guard guard.ConstructorGuard
}

// NewCreateDeliveryCommand creates a validated dispatch command. Contact
// email and phone are optional.
func NewCreateDeliveryCommand(
	batchID kernel.UUID,
	adapterName, pickupAddress, dropoffAddress string,
	readyAt time.Time,
	reference, contactEmail, contactPhone string,
) (CreateDeliveryCommand, error) {
	cmd := CreateDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBatchID(batchID),
		cmd.setAdapterName(adapterName),
		cmd.setRoute(pickupAddress, dropoffAddress, readyAt, reference),
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	cmd.contactEmail = contactEmail
	cmd.contactPhone = contactPhone

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

// BatchID returns the batch to dispatch.
func (c CreateDeliveryCommand) BatchID() kernel.UUID {
	return c.batchID
}

// AdapterName returns the courier adapter to book through.
func (c CreateDeliveryCommand) AdapterName() string {
	return c.adapterName
}

// CreateJobRequest maps the command onto the adapter request shape.
func (c CreateDeliveryCommand) CreateJobRequest() ports.CreateJobRequest {
	return ports.CreateJobRequest{
		PickupAddress:  c.pickupAddress,
		DropoffAddress: c.dropoffAddress,
		ReadyAt:        c.readyAt,
		Reference:      c.reference,
		ContactEmail:   c.contactEmail,
		ContactPhone:   c.contactPhone,
	}
}

func (c *CreateDeliveryCommand) setBatchID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.batchID = id
	return nil
}

func (c *CreateDeliveryCommand) setAdapterName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrAdapterNameIsRequired
	}
	c.adapterName = name
	return nil
}

func (c *CreateDeliveryCommand) setRoute(
	pickupAddress, dropoffAddress string, readyAt time.Time, reference string,
) error {
	if strings.TrimSpace(pickupAddress) == "" {
		return ErrPickupAddressIsRequired
	}
	if strings.TrimSpace(dropoffAddress) == "" {
		return ErrDropoffAddressIsRequired
	}
	if readyAt.IsZero() {
		return ErrReadyAtIsRequired
	}
	if strings.TrimSpace(reference) == "" {
		return ErrReferenceIsRequired
	}

	c.pickupAddress = pickupAddress
	c.dropoffAddress = dropoffAddress
	c.readyAt = readyAt
	c.reference = reference
	return nil
}
