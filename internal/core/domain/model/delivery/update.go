package delivery

import (
	"encoding/json"
	"strings"
	"time"

	"localoffice/internal/pkg/errs"
)

// ProofAttachment is a proof-of-delivery reference carried by an update.
type ProofAttachment struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// Update is the canonical delivery status update every courier adapter
// produces from a webhook. It is published to the delivery-updates queue and
// consumed by the reconciler.
type Update struct {
	Provider      string            `json:"provider"`
	ExternalJobID string            `json:"externalJobId"`
	Status        string            `json:"status,omitempty"`
	Timestamps    map[string]string `json:"timestamps,omitempty"`
	Proof         *ProofAttachment  `json:"proof,omitempty"`
	TrackingURL   string            `json:"trackingUrl,omitempty"`
	RawPayload    json.RawMessage   `json:"rawPayload,omitempty"`
	ReceivedAt    time.Time         `json:"receivedAt"`
}

// Validate checks the fields the reconciler cannot work without.
func (u Update) Validate() error {
	if strings.TrimSpace(u.Provider) == "" {
		return errs.NewValueIsRequiredError("provider")
	}
	if strings.TrimSpace(u.ExternalJobID) == "" {
		return errs.NewValueIsRequiredError("externalJobId")
	}
	return nil
}
