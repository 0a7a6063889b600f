package queries

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/order"
)

// GetUnbatchedOrdersQueryHandler reads unbatched orders straight from the
// database.
type GetUnbatchedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUnbatchedOrdersQueryHandler creates a handler for unbatched order
// queries. Requires a GORM database connection.
func NewGetUnbatchedOrdersQueryHandler(db *gorm.DB) GetUnbatchedOrdersQueryHandler {
	return GetUnbatchedOrdersQueryHandler{db: db}
}

// Handle returns every Pending or Locked order without a batch reference,
// sorted by id for stable output.
func (h GetUnbatchedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUnbatchedOrdersQuery,
) ([]GetUnbatchedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			id,
			program_slot_id,
			status,
			total
		FROM orders
		WHERE status IN (?, ?)
		  AND batch_id IS NULL
	`
	args := []any{order.Pending, order.Locked}

	if slotID := query.ProgramSlotID(); slotID != nil {
		sql += " AND program_slot_id = ?"
		args = append(args, slotID.Bytes())
	}

	sql += " ORDER BY id"

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetUnbatchedOrdersQueryResponse, 0)

	for rows.Next() {
		var (
			id     uuid.UUID
			slotID uuid.UUID
			status int
			total  decimal.Decimal
		)

		if err = rows.Scan(&id, &slotID, &status, &total); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		programSlotID, idErr := kernel.UUIDFromBytes(slotID[:])
		if idErr != nil {
			return nil, idErr
		}

		orders = append(orders, GetUnbatchedOrdersQueryResponse{
			ID:            orderID,
			ProgramSlotID: programSlotID,
			Status:        order.Status(status).String(),
			Total:         total,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
