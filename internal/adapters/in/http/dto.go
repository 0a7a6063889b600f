package http

import (
	"time"

	"github.com/shopspring/decimal"

	"localoffice/internal/core/application/usecases/commands"
	"localoffice/internal/core/application/usecases/queries"
	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/core/domain/model/order"
)

// Error is the JSON error body returned by every endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OrderItemRequest is one priced position of an order submission.
type OrderItemRequest struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// SubmitOrderRequest is the body of POST /api/v1/orders.
type SubmitOrderRequest struct {
	ProgramSlotID  string             `json:"programSlotId"`
	Items          []OrderItemRequest `json:"items"`
	Tip            decimal.Decimal    `json:"tip"`
	IdempotencyKey string             `json:"idempotencyKey"`
}

// ConfirmOrderRequest is the body of POST /api/v1/orders/:id/confirm.
type ConfirmOrderRequest struct {
	TipOverride    *decimal.Decimal `json:"tipOverride"`
	IdempotencyKey string           `json:"idempotencyKey"`
}

// RunBatchRequest is the optional body of POST /api/v1/batches/run. Without
// a slot id the run discovers every due slot with unbatched orders.
type RunBatchRequest struct {
	ProgramSlotID string `json:"programSlotId"`
}

// QuoteDeliveryRequest is the body of POST /api/v1/batches/:batchId/deliveries/quote.
type QuoteDeliveryRequest struct {
	Adapter        string `json:"adapter"`
	PickupAddress  string `json:"pickupAddress"`
	DropoffAddress string `json:"dropoffAddress"`
	ReadyAt        string `json:"readyAt"`
	Reference      string `json:"reference"`
}

// CreateDeliveryRequest is the body of POST /api/v1/batches/:batchId/deliveries.
type CreateDeliveryRequest struct {
	QuoteDeliveryRequest
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
}

// OrderResponse is the JSON view of an order aggregate.
type OrderResponse struct {
	ID             string          `json:"id"`
	ProgramSlotID  string          `json:"programSlotId"`
	BatchID        *string         `json:"batchId,omitempty"`
	Status         string          `json:"status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tip            decimal.Decimal `json:"tip"`
	Total          decimal.Decimal `json:"total"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
}

func orderResponseFromDomain(aggregate *order.Order) OrderResponse {
	response := OrderResponse{
		ID:             aggregate.ID().String(),
		ProgramSlotID:  aggregate.ProgramSlotID().String(),
		Status:         aggregate.Status().String(),
		Subtotal:       aggregate.Totals().Subtotal,
		Tip:            aggregate.Totals().Tip,
		Total:          aggregate.Totals().Total,
		IdempotencyKey: aggregate.IdempotencyKey(),
	}

	if batchID := aggregate.Batch(); batchID != nil {
		id := batchID.String()
		response.BatchID = &id
	}

	return response
}

// BatchSummaryResponse is one slot's outcome of a batching run.
type BatchSummaryResponse struct {
	ProgramSlotID string `json:"programSlotId"`
	BatchID       string `json:"batchId"`
	LockedCount   int64  `json:"lockedCount"`
	BatchedCount  int64  `json:"batchedCount"`
}

func batchSummariesFromDomain(summaries []commands.BatchSummary) []BatchSummaryResponse {
	response := make([]BatchSummaryResponse, len(summaries))
	for i, summary := range summaries {
		response[i] = BatchSummaryResponse{
			ProgramSlotID: summary.ProgramSlotID.String(),
			BatchID:       summary.BatchID.String(),
			LockedCount:   summary.LockedCount,
			BatchedCount:  summary.BatchedCount,
		}
	}
	return response
}

// QuoteResponse is a courier fee estimate.
type QuoteResponse struct {
	Fee        decimal.Decimal `json:"fee"`
	Currency   string          `json:"currency"`
	ETAMinutes int             `json:"etaMinutes"`
}

// ProofResponse is one proof-of-delivery attachment.
type ProofResponse struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// DeliveryJobResponse is the JSON view of a batch's courier job.
type DeliveryJobResponse struct {
	ID            string          `json:"id"`
	BatchID       string          `json:"batchId"`
	Adapter       string          `json:"adapter"`
	ExternalJobID string          `json:"externalJobId"`
	TrackingURL   string          `json:"trackingUrl,omitempty"`
	Status        string          `json:"status"`
	AcceptedAt    *time.Time      `json:"acceptedAt,omitempty"`
	PickedUpAt    *time.Time      `json:"pickedUpAt,omitempty"`
	DeliveredAt   *time.Time      `json:"deliveredAt,omitempty"`
	CanceledAt    *time.Time      `json:"canceledAt,omitempty"`
	FailedAt      *time.Time      `json:"failedAt,omitempty"`
	Proofs        []ProofResponse `json:"proofs,omitempty"`
}

func deliveryJobResponseFromDomain(job *delivery.Job) DeliveryJobResponse {
	response := DeliveryJobResponse{
		ID:            job.ID().String(),
		BatchID:       job.BatchID().String(),
		Adapter:       job.Adapter(),
		ExternalJobID: job.ExternalJobID(),
		TrackingURL:   job.TrackingURL(),
		Status:        job.Status().String(),
		AcceptedAt:    job.AcceptedAt(),
		PickedUpAt:    job.PickedUpAt(),
		DeliveredAt:   job.DeliveredAt(),
		CanceledAt:    job.CanceledAt(),
		FailedAt:      job.FailedAt(),
	}

	for _, proof := range job.Proofs() {
		response.Proofs = append(response.Proofs, ProofResponse{
			URL:  proof.URL,
			Type: proof.Type,
		})
	}

	return response
}

func deliveryJobResponseFromQuery(row queries.GetDeliveryStatusQueryResponse) DeliveryJobResponse {
	response := DeliveryJobResponse{
		ID:            row.ID.String(),
		BatchID:       row.BatchID.String(),
		Adapter:       row.Adapter,
		ExternalJobID: row.ExternalJobID,
		TrackingURL:   row.TrackingURL,
		Status:        row.Status,
		AcceptedAt:    row.AcceptedAt,
		PickedUpAt:    row.PickedUpAt,
		DeliveredAt:   row.DeliveredAt,
		CanceledAt:    row.CanceledAt,
		FailedAt:      row.FailedAt,
	}

	for _, proof := range row.Proofs {
		response.Proofs = append(response.Proofs, ProofResponse{
			URL:  proof.URL,
			Type: proof.Type,
		})
	}

	return response
}

// UnbatchedOrderResponse is one order still waiting for a batch.
type UnbatchedOrderResponse struct {
	ID            string          `json:"id"`
	ProgramSlotID string          `json:"programSlotId"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
}

// WebhookAcceptedResponse acknowledges an authenticated provider callback.
type WebhookAcceptedResponse struct {
	Provider      string `json:"provider"`
	ExternalJobID string `json:"externalJobId"`
	Status        string `json:"status"`
}
