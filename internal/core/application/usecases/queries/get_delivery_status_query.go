package queries

import (
	"errors"
	"time"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/pkg/guard"
)

var (
	ErrGetDeliveryStatusQueryIsNotConstructed = errors.New(
		"GetDeliveryStatusQuery must be created via NewGetDeliveryStatusQuery constructor",
	)
)

// GetDeliveryStatusQuery retrieves the courier job attached to a batch along
// with its phase timestamps and proof attachments.
type GetDeliveryStatusQuery struct {
	batchID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetDeliveryStatusQuery(batchID kernel.UUID) (GetDeliveryStatusQuery, error) {
	if err := batchID.Validate(); err != nil {
		return GetDeliveryStatusQuery{}, err
	}

	return GetDeliveryStatusQuery{
		batchID: batchID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryStatusQueryIsNotConstructed)
}

func (q GetDeliveryStatusQuery) BatchID() kernel.UUID {
	return q.batchID
}

// GetDeliveryStatusQueryProof is one proof-of-delivery attachment.
type GetDeliveryStatusQueryProof struct {
	URL  string
	Type string
}

// GetDeliveryStatusQueryResponse is the courier job view for one batch.
type GetDeliveryStatusQueryResponse struct {
	ID            kernel.UUID
	BatchID       kernel.UUID
	Adapter       string
	ExternalJobID string
	TrackingURL   string
	Status        string
	AcceptedAt    *time.Time
	PickedUpAt    *time.Time
	DeliveredAt   *time.Time
	CanceledAt    *time.Time
	FailedAt      *time.Time
	Proofs        []GetDeliveryStatusQueryProof
}
