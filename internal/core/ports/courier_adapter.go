package ports

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/pkg/errs"
)

// QuoteRequest describes a prospective delivery for fee estimation.
type QuoteRequest struct {
	PickupAddress  string
	DropoffAddress string
	ReadyAt        time.Time
	Reference      string
}

// QuoteResponse is a provider fee estimate.
type QuoteResponse struct {
	Fee        decimal.Decimal
	Currency   string
	ETAMinutes int
}

// CreateJobRequest describes the delivery to hand to a courier network.
type CreateJobRequest struct {
	PickupAddress  string
	DropoffAddress string
	ReadyAt        time.Time
	Reference      string
	ContactEmail   string
	ContactPhone   string
}

// CreateJobResponse carries the courier network's handle for the created
// job. ExternalJobID must be non-empty; an empty value is a provider
// contract violation.
type CreateJobResponse struct {
	ExternalJobID string
	TrackingURL   string
}

// WebhookRequest is an inbound provider callback. Body holds the exact raw
// bytes the sender signed; re-serializing a parsed object would not
// reproduce them.
type WebhookRequest struct {
	Headers http.Header
	Body    []byte
}

// CourierAdapter is the capability set every courier network integration
// implements. All outbound calls respect the context and wrap transport
// failures in AdapterHTTPError so upstream retry logic stays
// provider-agnostic.
type CourierAdapter interface {
	// Quote returns a fee/currency/ETA estimate without side effects.
	Quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error)

	// Create books the delivery with the courier network.
	Create(ctx context.Context, req CreateJobRequest) (CreateJobResponse, error)

	// Cancel withdraws the job identified by the courier network's id.
	Cancel(ctx context.Context, externalJobID string) error

	// ParseWebhook authenticates the raw callback, publishes the canonical
	// update to the delivery-updates queue and returns it. Authentication
	// failures abort before any business logic runs.
	ParseWebhook(ctx context.Context, req WebhookRequest) (delivery.Update, error)
}

// AdapterRegistry resolves adapter names to configured adapters.
type AdapterRegistry map[string]CourierAdapter

// Resolve returns the adapter registered under name or an
// UnsupportedAdapterError.
func (r AdapterRegistry) Resolve(name string) (CourierAdapter, error) {
	adapter, ok := r[name]
	if !ok {
		return nil, errs.NewUnsupportedAdapterError(name)
	}
	return adapter, nil
}
