package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/pkg/errs"
)

// GetDeliveryStatusQueryHandler reads the delivery job projection for a
// batch, including proof attachments.
type GetDeliveryStatusQueryHandler struct {
	db *gorm.DB
}

func NewGetDeliveryStatusQueryHandler(db *gorm.DB) GetDeliveryStatusQueryHandler {
	return GetDeliveryStatusQueryHandler{db: db}
}

// Handle returns the courier job attached to the batch. Returns
// ObjectNotFoundError when no dispatch was created for it yet.
func (h GetDeliveryStatusQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryStatusQuery,
) (GetDeliveryStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDeliveryStatusQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			batch_id,
			adapter,
			external_job_id,
			tracking_url,
			status,
			accepted_at,
			picked_up_at,
			delivered_at,
			canceled_at,
			failed_at
		FROM delivery_jobs
		WHERE batch_id = ?
	`, query.BatchID().Bytes()).Row()

	var (
		id          uuid.UUID
		batchID     uuid.UUID
		adapter     string
		externalID  string
		trackingURL sql.NullString
		status      int
		acceptedAt  sql.NullTime
		pickedUpAt  sql.NullTime
		deliveredAt sql.NullTime
		canceledAt  sql.NullTime
		failedAt    sql.NullTime
	)

	err := row.Scan(&id, &batchID, &adapter, &externalID, &trackingURL, &status,
		&acceptedAt, &pickedUpAt, &deliveredAt, &canceledAt, &failedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDeliveryStatusQueryResponse{},
			errs.NewObjectNotFoundError("batchID", query.BatchID().String())
	}
	if err != nil {
		return GetDeliveryStatusQueryResponse{}, err
	}

	jobID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetDeliveryStatusQueryResponse{}, err
	}

	jobBatchID, err := kernel.UUIDFromBytes(batchID[:])
	if err != nil {
		return GetDeliveryStatusQueryResponse{}, err
	}

	proofs, err := h.loadProofs(ctx, id)
	if err != nil {
		return GetDeliveryStatusQueryResponse{}, err
	}

	return GetDeliveryStatusQueryResponse{
		ID:            jobID,
		BatchID:       jobBatchID,
		Adapter:       adapter,
		ExternalJobID: externalID,
		TrackingURL:   trackingURL.String,
		Status:        delivery.Status(status).String(),
		AcceptedAt:    nullableTime(acceptedAt),
		PickedUpAt:    nullableTime(pickedUpAt),
		DeliveredAt:   nullableTime(deliveredAt),
		CanceledAt:    nullableTime(canceledAt),
		FailedAt:      nullableTime(failedAt),
		Proofs:        proofs,
	}, nil
}

func (h GetDeliveryStatusQueryHandler) loadProofs(
	ctx context.Context,
	jobID uuid.UUID,
) ([]GetDeliveryStatusQueryProof, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT url, type
		FROM delivery_proofs
		WHERE delivery_job_id = ?
		ORDER BY url
	`, jobID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	proofs := make([]GetDeliveryStatusQueryProof, 0)

	for rows.Next() {
		var proof GetDeliveryStatusQueryProof
		if err = rows.Scan(&proof.URL, &proof.Type); err != nil {
			return nil, err
		}
		proofs = append(proofs, proof)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return proofs, nil
}

func nullableTime(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}
