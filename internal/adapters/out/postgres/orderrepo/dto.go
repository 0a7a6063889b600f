// Package orderrepo persists order aggregates with GORM. It maps the
// aggregate to a flat row and implements the set-based lock and assign
// statements the batching job relies on.
package orderrepo

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/order"
)

// OrderDTO is the database row for an order aggregate. The monetary columns
// mirror the Totals breakdown; total stays denormalized for reporting
// queries but is always recomputed by the domain before writes.
type OrderDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProgramSlotID   uuid.UUID       `gorm:"type:uuid;index"`
	BatchID         *uuid.UUID      `gorm:"type:uuid;index"`
	Status          int             `gorm:"index"`
	Subtotal        decimal.Decimal `gorm:"type:numeric"`
	Tip             decimal.Decimal `gorm:"type:numeric"`
	LoyaltyDiscount decimal.Decimal `gorm:"type:numeric"`
	ReferralCredit  decimal.Decimal `gorm:"type:numeric"`
	PaymentFee      decimal.Decimal `gorm:"type:numeric"`
	Total           decimal.Decimal `gorm:"type:numeric"`
	IdempotencyKey  string          `gorm:"uniqueIndex;size:64"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var batchID *uuid.UUID
	if id := aggregate.Batch(); id != nil {
		raw := id.Bytes()
		batchID = &raw
	}

	totals := aggregate.Totals()

	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		ProgramSlotID:   aggregate.ProgramSlotID().Bytes(),
		BatchID:         batchID,
		Status:          int(aggregate.Status()),
		Subtotal:        totals.Subtotal,
		Tip:             totals.Tip,
		LoyaltyDiscount: totals.LoyaltyDiscount,
		ReferralCredit:  totals.ReferralCredit,
		PaymentFee:      totals.PaymentFee,
		Total:           totals.Total,
		IdempotencyKey:  aggregate.IdempotencyKey(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	slotID, err := kernel.UUIDFromBytes(dto.ProgramSlotID[:])
	if err != nil {
		return nil, err
	}

	var batchID *kernel.UUID
	if dto.BatchID != nil {
		bID, batchErr := kernel.UUIDFromBytes((*dto.BatchID)[:])
		if batchErr != nil {
			return nil, batchErr
		}

		batchID = &bID
	}

	totals, err := order.NewTotals(
		dto.Subtotal, dto.Tip, dto.LoyaltyDiscount, dto.ReferralCredit, dto.PaymentFee)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, slotID, order.Status(dto.Status), totals, dto.IdempotencyKey, batchID)
}
