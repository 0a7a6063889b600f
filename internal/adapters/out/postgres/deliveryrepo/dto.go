// Package deliveryrepo persists delivery jobs and their proof records with
// GORM. A job row is unique per batch; proofs live in a child table keyed by
// job and URL.
package deliveryrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/core/domain/model/kernel"
)

// DeliveryJobDTO is the database row for a delivery job aggregate. Metadata
// is the raw provider snapshot kept as jsonb for auditing.
type DeliveryJobDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID       uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Adapter       string    `gorm:"size:64"`
	ExternalJobID string    `gorm:"index;size:255"`
	TrackingURL   string
	Status        int `gorm:"index"`
	AcceptedAt    *time.Time
	PickedUpAt    *time.Time
	DeliveredAt   *time.Time
	CanceledAt    *time.Time
	FailedAt      *time.Time
	Metadata      string `gorm:"type:jsonb"`
}

// TableName overrides GORM's default naming to use "delivery_jobs".
func (DeliveryJobDTO) TableName() string {
	return "delivery_jobs"
}

// ProofDTO is one proof-of-delivery attachment row.
type ProofDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryJobID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_proofs_job_url"`
	URL           string    `gorm:"uniqueIndex:idx_proofs_job_url;size:1024"`
	Type          string    `gorm:"size:64"`
}

// TableName overrides GORM's default naming to use "delivery_proofs".
func (ProofDTO) TableName() string {
	return "delivery_proofs"
}

func fromDomain(aggregate *delivery.Job) (DeliveryJobDTO, []ProofDTO, error) {
	metadata := "{}"
	if len(aggregate.Metadata()) > 0 {
		raw, err := json.Marshal(aggregate.Metadata())
		if err != nil {
			return DeliveryJobDTO{}, nil, err
		}
		metadata = string(raw)
	}

	dto := DeliveryJobDTO{
		ID:            aggregate.ID().Bytes(),
		BatchID:       aggregate.BatchID().Bytes(),
		Adapter:       aggregate.Adapter(),
		ExternalJobID: aggregate.ExternalJobID(),
		TrackingURL:   aggregate.TrackingURL(),
		Status:        int(aggregate.Status()),
		AcceptedAt:    aggregate.AcceptedAt(),
		PickedUpAt:    aggregate.PickedUpAt(),
		DeliveredAt:   aggregate.DeliveredAt(),
		CanceledAt:    aggregate.CanceledAt(),
		FailedAt:      aggregate.FailedAt(),
		Metadata:      metadata,
	}

	proofs := make([]ProofDTO, 0, len(aggregate.Proofs()))
	for _, proof := range aggregate.Proofs() {
		proofs = append(proofs, ProofDTO{
			ID:            proof.ID.Bytes(),
			DeliveryJobID: dto.ID,
			URL:           proof.URL,
			Type:          proof.Type,
		})
	}

	return dto, proofs, nil
}

func toDomain(dto DeliveryJobDTO, proofDTOs []ProofDTO) (*delivery.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	batchID, err := kernel.UUIDFromBytes(dto.BatchID[:])
	if err != nil {
		return nil, err
	}

	var metadata map[string]any
	if dto.Metadata != "" {
		if err = json.Unmarshal([]byte(dto.Metadata), &metadata); err != nil {
			return nil, err
		}
	}

	proofs := make([]delivery.Proof, 0, len(proofDTOs))
	for _, proofDTO := range proofDTOs {
		proofID, proofErr := kernel.UUIDFromBytes(proofDTO.ID[:])
		if proofErr != nil {
			return nil, proofErr
		}

		proofs = append(proofs, delivery.Proof{
			ID:   proofID,
			URL:  proofDTO.URL,
			Type: proofDTO.Type,
		})
	}

	return delivery.RestoreJob(
		id, batchID,
		dto.Adapter, dto.ExternalJobID, dto.TrackingURL,
		delivery.Status(dto.Status),
		dto.AcceptedAt, dto.PickedUpAt, dto.DeliveredAt, dto.CanceledAt, dto.FailedAt,
		metadata, proofs)
}
