// Package batch models the consolidated delivery unit built from all locked
// orders of one program slot served by one provider at one site.
package batch

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/pkg/errs"
)

var (
	// ErrBatchIsNotConstructed is returned when a Batch was not created
	// through NewBatch or RestoreBatch.
	ErrBatchIsNotConstructed = errors.New("Batch must be created via NewBatch constructor")
)

// Key is the natural identity of a batch. At most one batch exists per key.
type Key struct {
	SiteID        kernel.UUID
	ProviderID    kernel.UUID
	ProgramSlotID kernel.UUID
}

// Validate checks that all three identifiers are set.
func (k Key) Validate() error {
	return errors.Join(
		k.SiteID.Validate(),
		k.ProviderID.Validate(),
		k.ProgramSlotID.Validate(),
	)
}

// Batch is the unit handed to a courier network.
type Batch struct {
	id          kernel.UUID
	key         Key
	status      Status
	deliveryFee *decimal.Decimal
	gratuity    *decimal.Decimal
	manifestURL string

	isConstructed bool
}

// NewBatch creates a Pending batch for the given key.
func NewBatch(id kernel.UUID, key Key) (*Batch, error) {
	b := &Batch{isConstructed: true}

	if err := errors.Join(
		b.setID(id),
		b.setKey(key),
		b.setStatus(Pending),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// RestoreBatch rehydrates a Batch from persistence.
func RestoreBatch(
	id kernel.UUID,
	key Key,
	status Status,
	deliveryFee, gratuity *decimal.Decimal,
	manifestURL string,
) (*Batch, error) {
	b := &Batch{isConstructed: true}

	if err := errors.Join(
		b.setID(id),
		b.setKey(key),
		b.setStatus(status),
	); err != nil {
		return nil, err
	}

	b.deliveryFee = deliveryFee
	b.gratuity = gratuity
	b.manifestURL = manifestURL

	return b, nil
}

// Validate ensures the batch was built through its constructor.
func (b *Batch) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBatchIsNotConstructed
	}
	return nil
}

// IsEqual compares batches by identity.
func (b *Batch) IsEqual(other *Batch) bool {
	return b.id.IsEqual(other.id)
}

// ID returns the batch identifier.
func (b *Batch) ID() kernel.UUID {
	return b.id
}

// Key returns the (site, provider, slot) identity triple.
func (b *Batch) Key() Key {
	return b.key
}

// SiteID returns the delivery site identifier.
func (b *Batch) SiteID() kernel.UUID {
	return b.key.SiteID
}

// ProviderID returns the provider identifier.
func (b *Batch) ProviderID() kernel.UUID {
	return b.key.ProviderID
}

// ProgramSlotID returns the program slot identifier.
func (b *Batch) ProgramSlotID() kernel.UUID {
	return b.key.ProgramSlotID
}

// Status returns the batch status.
func (b *Batch) Status() Status {
	return b.status
}

// DeliveryFee returns the courier fee, when known.
func (b *Batch) DeliveryFee() *decimal.Decimal {
	return b.deliveryFee
}

// Gratuity returns the tip passed to the courier, when known.
func (b *Batch) Gratuity() *decimal.Decimal {
	return b.gratuity
}

// ManifestURL returns the manifest reference, empty when not generated yet.
func (b *Batch) ManifestURL() string {
	return b.manifestURL
}

// Lock marks the batch locked. Re-locking is a no-op so the batching job
// stays idempotent.
func (b *Batch) Lock() error {
	next, err := b.status.Lock()
	if err != nil {
		return err
	}
	b.status = next
	return nil
}

// Send marks the batch as handed to a courier network.
func (b *Batch) Send() error {
	next, err := b.status.Send()
	if err != nil {
		return err
	}
	b.status = next
	return nil
}

// Deliver marks the batch delivered.
func (b *Batch) Deliver() error {
	next, err := b.status.Deliver()
	if err != nil {
		return err
	}
	b.status = next
	return nil
}

// Cancel withdraws the batch.
func (b *Batch) Cancel() error {
	next, err := b.status.Cancel()
	if err != nil {
		return err
	}
	b.status = next
	return nil
}

// SetFees records the courier fee and gratuity, typically from an accepted
// quote. Negative amounts are rejected.
func (b *Batch) SetFees(deliveryFee, gratuity decimal.Decimal) error {
	if deliveryFee.IsNegative() {
		return errs.NewValueIsInvalidError("deliveryFee")
	}
	if gratuity.IsNegative() {
		return errs.NewValueIsInvalidError("gratuity")
	}

	b.deliveryFee = &deliveryFee
	b.gratuity = &gratuity
	return nil
}

// SetManifestURL records the manifest reference.
func (b *Batch) SetManifestURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return errs.NewValueIsRequiredError("manifestURL")
	}
	b.manifestURL = url
	return nil
}

func (b *Batch) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Batch) setKey(key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	b.key = key
	return nil
}

func (b *Batch) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	b.status = status
	return nil
}
