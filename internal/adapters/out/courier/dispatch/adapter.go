// Package dispatch integrates the Dispatch courier network.
package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	"localoffice/internal/adapters/out/courier"
	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/core/ports"
	"localoffice/internal/pkg/errs"
)

// ProviderName is the registry key and the provider tag on updates.
const ProviderName = "dispatch"

const signatureHeader = "x-dispatch-signature"

// Config holds the Dispatch API credentials.
type Config struct {
	APIKey        string
	BaseURL       string
	WebhookSecret string
}

// Adapter implements ports.CourierAdapter for Dispatch.
type Adapter struct {
	client    *courier.Client
	publisher *courier.UpdatePublisher
	config    Config
	logger    *slog.Logger
}

// NewAdapter creates a Dispatch adapter publishing parsed webhooks through
// the given queue.
func NewAdapter(config Config, queue ports.JobQueue, logger *slog.Logger) *Adapter {
	adapterLogger := logger.With("component", "dispatch_adapter")
	return &Adapter{
		client:    courier.NewClient(ProviderName, config.BaseURL),
		publisher: courier.NewUpdatePublisher(queue, logger),
		config:    config,
		logger:    adapterLogger,
	}
}

// Quote requests a fee estimate.
func (a *Adapter) Quote(ctx context.Context, req ports.QuoteRequest) (ports.QuoteResponse, error) {
	a.logger.Info("requesting quote", "reference", req.Reference)

	return courier.Retry(ctx, a.logger, "quote", func() (ports.QuoteResponse, error) {
		payload, err := a.client.PostJSON(ctx, "/delivery/quotes", map[string]any{
			"pickup":    map[string]any{"address": req.PickupAddress},
			"dropoff":   map[string]any{"address": req.DropoffAddress},
			"ready_at":  req.ReadyAt.Format(time.RFC3339),
			"reference": req.Reference,
		}, a.authHeaders())
		if err != nil {
			return ports.QuoteResponse{}, err
		}

		currency := courier.StringField(payload, "price.currency", "currency")
		if currency == "" {
			currency = "USD"
		}

		return ports.QuoteResponse{
			Fee:        courier.DecimalField(payload, "price.amount", "fee", "totalFee"),
			Currency:   currency,
			ETAMinutes: courier.IntField(payload, "eta.minutes", "etaMinutes"),
		}, nil
	})
}

// Create books the delivery.
func (a *Adapter) Create(ctx context.Context, req ports.CreateJobRequest) (ports.CreateJobResponse, error) {
	a.logger.Info("creating delivery", "reference", req.Reference)

	return courier.Retry(ctx, a.logger, "create", func() (ports.CreateJobResponse, error) {
		payload, err := a.client.PostJSON(ctx, "/delivery/jobs", map[string]any{
			"pickup":    map[string]any{"address": req.PickupAddress},
			"dropoff":   map[string]any{"address": req.DropoffAddress},
			"ready_at":  req.ReadyAt.Format(time.RFC3339),
			"reference": req.Reference,
			"contact": map[string]any{
				"email": req.ContactEmail,
				"phone": req.ContactPhone,
			},
		}, a.authHeaders())
		if err != nil {
			return ports.CreateJobResponse{}, err
		}

		return ports.CreateJobResponse{
			ExternalJobID: courier.StringField(payload, "id", "job_id"),
			TrackingURL:   courier.StringField(payload, "tracking_url", "trackingUrl"),
		}, nil
	})
}

// Cancel withdraws the job.
func (a *Adapter) Cancel(ctx context.Context, externalJobID string) error {
	a.logger.Info("canceling job", "externalJobId", externalJobID)

	_, err := courier.Retry(ctx, a.logger, "cancel", func() (struct{}, error) {
		_, callErr := a.client.PostJSON(ctx,
			"/delivery/jobs/"+url.PathEscape(externalJobID)+"/cancel", nil, a.authHeaders())
		return struct{}{}, callErr
	})
	return err
}

// ParseWebhook authenticates the callback, maps it to the canonical update
// shape, and publishes it before returning.
func (a *Adapter) ParseWebhook(ctx context.Context, req ports.WebhookRequest) (delivery.Update, error) {
	payload, err := courier.VerifiedPayload(ProviderName, signatureHeader, a.config.WebhookSecret, req)
	if err != nil {
		return delivery.Update{}, err
	}

	externalJobID := courier.StringField(payload, "job_id", "delivery_id", "id")
	if externalJobID == "" {
		return delivery.Update{}, errs.NewMissingExternalIDError(ProviderName)
	}

	status := courier.StringField(payload, "status", "state")
	if status == "" {
		status = "unknown"
	}

	update := delivery.Update{
		Provider:      ProviderName,
		ExternalJobID: externalJobID,
		Status:        status,
		Timestamps:    courier.Timestamps(courier.MapField(payload, "timestamps", "timeline")),
		Proof:         courier.Proof(courier.MapField(payload, "proof")),
		TrackingURL:   courier.StringField(payload, "tracking_url", "trackingUrl"),
		RawPayload:    json.RawMessage(req.Body),
		ReceivedAt:    time.Now().UTC(),
	}

	if err = a.publisher.Publish(ctx, update); err != nil {
		return delivery.Update{}, err
	}

	return update, nil
}

func (a *Adapter) authHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + a.config.APIKey}
}
