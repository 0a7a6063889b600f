// Package slotrepo persists program slots with GORM and hosts the discovery
// query the batching job runs against due slots.
package slotrepo

import (
	"time"

	"github.com/google/uuid"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/slot"
)

// ProgramSlotDTO is the database row for a program slot. The cutoff column
// is indexed because discovery filters on it every run.
type ProgramSlotDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProviderID     uuid.UUID `gorm:"type:uuid;index"`
	SiteID         uuid.UUID `gorm:"type:uuid;index"`
	ServiceAt      time.Time
	WindowStartsAt time.Time
	WindowEndsAt   time.Time
	CutoffAt       time.Time `gorm:"index"`
}

// TableName overrides GORM's default naming to use "program_slots".
func (ProgramSlotDTO) TableName() string {
	return "program_slots"
}

func fromDomain(aggregate *slot.ProgramSlot) ProgramSlotDTO {
	return ProgramSlotDTO{
		ID:             aggregate.ID().Bytes(),
		ProviderID:     aggregate.ProviderID().Bytes(),
		SiteID:         aggregate.SiteID().Bytes(),
		ServiceAt:      aggregate.ServiceAt(),
		WindowStartsAt: aggregate.WindowStartsAt(),
		WindowEndsAt:   aggregate.WindowEndsAt(),
		CutoffAt:       aggregate.CutoffAt(),
	}
}

func toDomain(dto ProgramSlotDTO) (*slot.ProgramSlot, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	providerID, err := kernel.UUIDFromBytes(dto.ProviderID[:])
	if err != nil {
		return nil, err
	}

	siteID, err := kernel.UUIDFromBytes(dto.SiteID[:])
	if err != nil {
		return nil, err
	}

	return slot.RestoreProgramSlot(
		id, providerID, siteID,
		dto.ServiceAt, dto.WindowStartsAt, dto.WindowEndsAt, dto.CutoffAt)
}
