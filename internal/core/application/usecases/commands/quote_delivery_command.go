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
	ErrQuoteDeliveryCommandIsNotConstructed = errors.New(
		"QuoteDeliveryCommand must be created via NewQuoteDeliveryCommand constructor",
	)
	ErrAdapterNameIsRequired    = errors.New("adapter name is required")
	ErrPickupAddressIsRequired  = errors.New("pickup address is required")
	ErrDropoffAddressIsRequired = errors.New("dropoff address is required")
	ErrReadyAtIsRequired        = errors.New("ready-by time is required")
	ErrReferenceIsRequired      = errors.New("reference is required")
)

// QuoteDeliveryCommand requests a courier fee estimate for a batch.
type QuoteDeliveryCommand struct { //nolint:recvcheck //using for validation
	batchID        kernel.UUID
	adapterName    string
	pickupAddress  string
	dropoffAddress string
	readyAt        time.Time
	reference      string

	guard guard.ConstructorGuard
}

// NewQuoteDeliveryCommand creates a validated quote command.
func NewQuoteDeliveryCommand(
	batchID kernel.UUID,
	adapterName, pickupAddress, dropoffAddress string,
	readyAt time.Time,
	reference string,
) (QuoteDeliveryCommand, error) {
	cmd := QuoteDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBatchID(batchID),
		cmd.setAdapterName(adapterName),
		cmd.setRoute(pickupAddress, dropoffAddress, readyAt, reference),
	); err != nil {
		return QuoteDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c QuoteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrQuoteDeliveryCommandIsNotConstructed)
}

// BatchID returns the batch to quote for.
func (c QuoteDeliveryCommand) BatchID() kernel.UUID {
	return c.batchID
}

// AdapterName returns the courier adapter to ask.
func (c QuoteDeliveryCommand) AdapterName() string {
	return c.adapterName
}

// QuoteRequest maps the command onto the adapter request shape.
func (c QuoteDeliveryCommand) QuoteRequest() ports.QuoteRequest {
	return ports.QuoteRequest{
		PickupAddress:  c.pickupAddress,
		DropoffAddress: c.dropoffAddress,
		ReadyAt:        c.readyAt,
		Reference:      c.reference,
	}
}

func (c *QuoteDeliveryCommand) setBatchID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.batchID = id
	return nil
}

func (c *QuoteDeliveryCommand) setAdapterName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrAdapterNameIsRequired
	}
	c.adapterName = name
	return nil
}

func (c *QuoteDeliveryCommand) setRoute(
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
