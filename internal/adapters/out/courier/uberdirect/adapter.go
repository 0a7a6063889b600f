// Package uberdirect integrates the Uber Direct courier network. Unlike the
// key-based providers it authenticates with OAuth client credentials; the
// token is cached and refreshed by tokenSource.
package uberdirect

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"localoffice/internal/adapters/out/courier"
	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/core/ports"
	"localoffice/internal/pkg/errs"
)

// ProviderName is the registry key and the provider tag on updates.
const ProviderName = "uber-direct"

const (
	authProviderName = "uber-direct-auth"
	signatureHeader  = "x-uber-signature"

	defaultBaseURL = "https://api.uber.com/v1/direct-deliveries"
	defaultAuthURL = "https://login.uber.com"
	defaultScope   = "delivery"
)

// Config holds the Uber Direct OAuth credentials. BaseURL, AuthURL, and
// Scope fall back to the production defaults when empty.
type Config struct {
	ClientID      string
	ClientSecret  string
	WebhookSecret string
	BaseURL       string
	AuthURL       string
	Scope         string
}

// Adapter implements ports.CourierAdapter for Uber Direct.
type Adapter struct {
	client    *courier.Client
	tokens    *tokenSource
	publisher *courier.UpdatePublisher
	config    Config
	logger    *slog.Logger
}

// NewAdapter creates an Uber Direct adapter publishing parsed webhooks
// through the given queue.
func NewAdapter(config Config, queue ports.JobQueue, logger *slog.Logger) *Adapter {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	authURL := config.AuthURL
	if authURL == "" {
		authURL = defaultAuthURL
	}
	scope := config.Scope
	if scope == "" {
		scope = defaultScope
	}

	return &Adapter{
		client:    courier.NewClient(ProviderName, baseURL),
		tokens:    newTokenSource(authURL, config.ClientID, config.ClientSecret, scope),
		publisher: courier.NewUpdatePublisher(queue, logger),
		config:    config,
		logger:    logger.With("component", "uber_direct_adapter"),
	}
}

// Quote requests a fee estimate.
func (a *Adapter) Quote(ctx context.Context, req ports.QuoteRequest) (ports.QuoteResponse, error) {
	a.logger.Info("requesting quote", "reference", req.Reference)

	return courier.Retry(ctx, a.logger, "quote", func() (ports.QuoteResponse, error) {
		payload, err := a.post(ctx, "/quotes", map[string]any{
			"pickup":    map[string]any{"address": req.PickupAddress},
			"dropoff":   map[string]any{"address": req.DropoffAddress},
			"ready_by":  req.ReadyAt.Format(time.RFC3339),
			"reference": req.Reference,
		})
		if err != nil {
			return ports.QuoteResponse{}, err
		}

		currency := courier.StringField(payload, "price.currency", "currency")
		if currency == "" {
			currency = "USD"
		}

		return ports.QuoteResponse{
			Fee:        courier.DecimalField(payload, "price.amount", "fee"),
			Currency:   currency,
			ETAMinutes: courier.IntField(payload, "eta.minutes", "etaMinutes"),
		}, nil
	})
}

// Create books the delivery.
func (a *Adapter) Create(ctx context.Context, req ports.CreateJobRequest) (ports.CreateJobResponse, error) {
	a.logger.Info("creating delivery", "reference", req.Reference)

	return courier.Retry(ctx, a.logger, "create", func() (ports.CreateJobResponse, error) {
		payload, err := a.post(ctx, "/deliveries", map[string]any{
			"pickup":    map[string]any{"address": req.PickupAddress},
			"dropoff":   map[string]any{"address": req.DropoffAddress},
			"ready_by":  req.ReadyAt.Format(time.RFC3339),
			"reference": req.Reference,
			"contact": map[string]any{
				"email": req.ContactEmail,
				"phone": req.ContactPhone,
			},
		})
		if err != nil {
			return ports.CreateJobResponse{}, err
		}

		return ports.CreateJobResponse{
			ExternalJobID: courier.StringField(payload, "delivery_id", "id"),
			TrackingURL:   courier.StringField(payload, "tracking_url", "trackingUrl"),
		}, nil
	})
}

// Cancel withdraws the delivery.
func (a *Adapter) Cancel(ctx context.Context, externalJobID string) error {
	a.logger.Info("canceling delivery", "externalJobId", externalJobID)

	_, err := courier.Retry(ctx, a.logger, "cancel", func() (struct{}, error) {
		_, callErr := a.post(ctx, "/deliveries/"+url.PathEscape(externalJobID)+"/cancel", map[string]any{})
		return struct{}{}, callErr
	})
	return err
}

// ParseWebhook authenticates the callback, maps it to the canonical update
// shape, and publishes it before returning. Uber wraps the delivery in a
// data envelope and signals status through the event name.
func (a *Adapter) ParseWebhook(ctx context.Context, req ports.WebhookRequest) (delivery.Update, error) {
	payload, err := courier.VerifiedPayload(ProviderName, signatureHeader, a.config.WebhookSecret, req)
	if err != nil {
		return delivery.Update{}, err
	}

	data := courier.MapField(payload, "data")
	if data == nil {
		data = payload
	}

	externalJobID := courier.StringField(data, "delivery_id", "id")
	if externalJobID == "" {
		return delivery.Update{}, errs.NewMissingExternalIDError(ProviderName)
	}

	status := courier.StringField(payload, "event", "event_type")
	if status == "" {
		status = courier.StringField(data, "status")
	}
	if status == "" {
		status = "unknown"
	}

	update := delivery.Update{
		Provider:      ProviderName,
		ExternalJobID: externalJobID,
		Status:        status,
		Timestamps:    courier.Timestamps(courier.MapField(data, "timestamps")),
		Proof:         courier.Proof(courier.MapField(data, "proof")),
		TrackingURL:   courier.StringField(data, "tracking_url", "trackingUrl"),
		RawPayload:    json.RawMessage(req.Body),
		ReceivedAt:    time.Now().UTC(),
	}

	if err = a.publisher.Publish(ctx, update); err != nil {
		return delivery.Update{}, err
	}

	return update, nil
}

// post acquires an access token, calls the API, and maps authentication
// rejections to a retryable failure after dropping the cached token, so the
// retry runs with a fresh one.
func (a *Adapter) post(ctx context.Context, path string, body any) (map[string]any, error) {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := a.client.PostJSON(ctx, path, body,
		map[string]string{"Authorization": "Bearer " + token})
	if err != nil {
		var httpErr *errs.AdapterHTTPError
		if errors.As(err, &httpErr) &&
			(httpErr.Status == http.StatusUnauthorized || httpErr.Status == http.StatusForbidden) {
			a.tokens.Invalidate()
			return nil, errs.NewAdapterHTTPError(ProviderName, "authentication failed", httpErr.Status, true)
		}
		return nil, err
	}

	return payload, nil
}
