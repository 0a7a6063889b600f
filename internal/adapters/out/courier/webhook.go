package courier

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/core/ports"
	"localoffice/internal/pkg/errs"
	"localoffice/internal/pkg/signature"
)

const (
	publishAttempts  = 5
	publishBaseDelay = 1 * time.Second
)

// VerifiedPayload authenticates a webhook request and parses its body. The
// HMAC is checked over the exact raw bytes before any parsing happens;
// requests without the provider's signature header or with a digest
// mismatch are rejected.
func VerifiedPayload(
	provider, header, secret string,
	req ports.WebhookRequest,
) (map[string]any, error) {
	received := req.Headers.Get(header)
	if received == "" {
		return nil, errs.NewMissingSignatureHeaderError(provider, header)
	}

	if !signature.Verify(req.Body, secret, received) {
		return nil, errs.NewInvalidSignatureError(provider)
	}

	payload := map[string]any{}
	if err := json.Unmarshal(req.Body, &payload); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("webhook body", err)
	}

	return payload, nil
}

// UpdatePublisher pushes parsed delivery updates onto the delivery-updates
// queue. Publishing happens before ParseWebhook returns so an update is
// never acknowledged to the provider without being durably queued.
type UpdatePublisher struct {
	queue  ports.JobQueue
	logger *slog.Logger
}

// NewUpdatePublisher creates a publisher over the given queue.
func NewUpdatePublisher(queue ports.JobQueue, logger *slog.Logger) *UpdatePublisher {
	return &UpdatePublisher{
		queue:  queue,
		logger: logger.With("component", "delivery_update_publisher"),
	}
}

// Publish stamps the receipt time and enqueues the update.
func (p *UpdatePublisher) Publish(ctx context.Context, update delivery.Update) error {
	if update.ReceivedAt.IsZero() {
		update.ReceivedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(update)
	if err != nil {
		return err
	}

	err = p.queue.Enqueue(ctx, ports.QueueDeliveryUpdates, payload, ports.EnqueueOptions{
		Attempts: publishAttempts,
		Backoff: ports.BackoffSpec{
			Type:  ports.BackoffExponential,
			Delay: publishBaseDelay,
		},
	})
	if err != nil {
		p.logger.Error("failed to publish delivery update",
			"provider", update.Provider, "externalJobId", update.ExternalJobID, "error", err)
		return err
	}

	return nil
}
