// Package batchrepo persists batch aggregates with GORM. The (site,
// provider, slot) triple carries a unique index so concurrent batching runs
// converge on one row per slot.
package batchrepo

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"localoffice/internal/core/domain/model/batch"
	"localoffice/internal/core/domain/model/kernel"
)

// BatchDTO is the database row for a batch aggregate.
type BatchDTO struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	SiteID        uuid.UUID        `gorm:"type:uuid;uniqueIndex:idx_batches_key"`
	ProviderID    uuid.UUID        `gorm:"type:uuid;uniqueIndex:idx_batches_key"`
	ProgramSlotID uuid.UUID        `gorm:"type:uuid;uniqueIndex:idx_batches_key"`
	Status        int              `gorm:"index"`
	DeliveryFee   *decimal.Decimal `gorm:"type:numeric"`
	Gratuity      *decimal.Decimal `gorm:"type:numeric"`
	ManifestURL   string
}

// TableName overrides GORM's default naming to use "batches".
func (BatchDTO) TableName() string {
	return "batches"
}

func fromDomain(aggregate *batch.Batch) BatchDTO {
	return BatchDTO{
		ID:            aggregate.ID().Bytes(),
		SiteID:        aggregate.SiteID().Bytes(),
		ProviderID:    aggregate.ProviderID().Bytes(),
		ProgramSlotID: aggregate.ProgramSlotID().Bytes(),
		Status:        int(aggregate.Status()),
		DeliveryFee:   aggregate.DeliveryFee(),
		Gratuity:      aggregate.Gratuity(),
		ManifestURL:   aggregate.ManifestURL(),
	}
}

func toDomain(dto BatchDTO) (*batch.Batch, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	siteID, err := kernel.UUIDFromBytes(dto.SiteID[:])
	if err != nil {
		return nil, err
	}

	providerID, err := kernel.UUIDFromBytes(dto.ProviderID[:])
	if err != nil {
		return nil, err
	}

	slotID, err := kernel.UUIDFromBytes(dto.ProgramSlotID[:])
	if err != nil {
		return nil, err
	}

	key := batch.Key{
		SiteID:        siteID,
		ProviderID:    providerID,
		ProgramSlotID: slotID,
	}

	return batch.RestoreBatch(
		id, key, batch.Status(dto.Status), dto.DeliveryFee, dto.Gratuity, dto.ManifestURL)
}
