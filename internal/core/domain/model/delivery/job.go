// Package delivery models the dispatch-side tracking record for a batch that
// was handed to a courier network, plus the canonical status updates courier
// webhooks are normalized into.
package delivery

import (
	"errors"
	"strings"
	"time"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/pkg/errs"
)

var (
	// ErrJobIsNotConstructed is returned when a Job was not created through
	// NewJob or RestoreJob.
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob constructor")
)

// Proof is a proof-of-delivery record attached to a job. Proofs are
// append-only and deduplicated by URL.
type Proof struct {
	ID   kernel.UUID
	URL  string
	Type string
}

// Job tracks one batch's delivery with an external courier network. At most
// one job exists per batch; re-dispatching the same batch overwrites the
// adapter and external identity and resets the status to Requested.
type Job struct {
	id            kernel.UUID
	batchID       kernel.UUID
	adapter       string
	externalJobID string
	trackingURL   string
	status        Status

	acceptedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time
	canceledAt  *time.Time
	failedAt    *time.Time

	metadata map[string]any
	proofs   []Proof

	isConstructed bool
}

// NewJob creates a Requested delivery job for a batch. The external job
// identifier is the courier network's handle and must not be empty.
func NewJob(id, batchID kernel.UUID, adapter, externalJobID, trackingURL string) (*Job, error) {
	j := &Job{isConstructed: true, status: Requested}

	if err := errors.Join(
		j.setID(id),
		j.setBatchID(batchID),
		j.setDispatch(adapter, externalJobID, trackingURL),
	); err != nil {
		return nil, err
	}

	return j, nil
}

// RestoreJob rehydrates a Job from persistence.
func RestoreJob(
	id, batchID kernel.UUID,
	adapter, externalJobID, trackingURL string,
	status Status,
	acceptedAt, pickedUpAt, deliveredAt, canceledAt, failedAt *time.Time,
	metadata map[string]any,
	proofs []Proof,
) (*Job, error) {
	j := &Job{isConstructed: true}

	if err := errors.Join(
		j.setID(id),
		j.setBatchID(batchID),
		j.setDispatch(adapter, externalJobID, trackingURL),
		j.setStatus(status),
	); err != nil {
		return nil, err
	}

	j.acceptedAt = acceptedAt
	j.pickedUpAt = pickedUpAt
	j.deliveredAt = deliveredAt
	j.canceledAt = canceledAt
	j.failedAt = failedAt
	j.metadata = metadata
	j.proofs = proofs

	return j, nil
}

// Validate ensures the job was built through its constructor.
func (j *Job) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJobIsNotConstructed
	}
	return nil
}

// IsEqual compares jobs by identity.
func (j *Job) IsEqual(other *Job) bool {
	return j.id.IsEqual(other.id)
}

// ID returns the job identifier.
func (j *Job) ID() kernel.UUID {
	return j.id
}

// BatchID returns the owning batch identifier.
func (j *Job) BatchID() kernel.UUID {
	return j.batchID
}

// Adapter returns the name of the courier adapter handling this job.
func (j *Job) Adapter() string {
	return j.adapter
}

// ExternalJobID returns the courier network's job identifier.
func (j *Job) ExternalJobID() string {
	return j.externalJobID
}

// TrackingURL returns the courier tracking link, empty when not provided.
func (j *Job) TrackingURL() string {
	return j.trackingURL
}

// Status returns the canonical delivery status.
func (j *Job) Status() Status {
	return j.status
}

// AcceptedAt returns when a courier acknowledged the job, when known.
func (j *Job) AcceptedAt() *time.Time { return j.acceptedAt }

// PickedUpAt returns when the courier collected the batch, when known.
func (j *Job) PickedUpAt() *time.Time { return j.pickedUpAt }

// DeliveredAt returns when the batch was delivered, when known.
func (j *Job) DeliveredAt() *time.Time { return j.deliveredAt }

// CanceledAt returns when the job was canceled, when known.
func (j *Job) CanceledAt() *time.Time { return j.canceledAt }

// FailedAt returns when the courier network reported failure, when known.
func (j *Job) FailedAt() *time.Time { return j.failedAt }

// Metadata returns the audit blob merged from received updates.
func (j *Job) Metadata() map[string]any {
	return j.metadata
}

// Proofs returns the proof-of-delivery records for this job.
func (j *Job) Proofs() []Proof {
	return j.proofs
}

// Redispatch overwrites the adapter and external identity and resets the
// status to Requested, clearing phase timestamps. Used when a batch is
// handed to a courier network again.
func (j *Job) Redispatch(adapter, externalJobID, trackingURL string) error {
	if err := j.setDispatch(adapter, externalJobID, trackingURL); err != nil {
		return err
	}

	j.status = Requested
	j.acceptedAt = nil
	j.pickedUpAt = nil
	j.deliveredAt = nil
	j.canceledAt = nil
	j.failedAt = nil
	return nil
}

// Cancel marks the job canceled with the given cancellation time. Canceling
// an already canceled job is a no-op so retried cancel jobs stay idempotent.
func (j *Job) Cancel(at time.Time) error {
	if j.status == Canceled {
		return nil
	}
	if j.status.IsTerminal() {
		return errs.NewConflictError("delivery job is already in a terminal status")
	}

	j.status = Canceled
	j.canceledAt = &at
	return nil
}

// ApplyUpdate merges a canonical courier update into the job under the
// monotonic promotion rule. The status moves only forward; phase timestamps
// are merged when parseable; the metadata blob and tracking URL are always
// refreshed; proof attachments are inserted unless the URL already exists.
func (j *Job) ApplyUpdate(update Update) error {
	if err := update.Validate(); err != nil {
		return err
	}

	if next, ok := Classify(update.Status); ok && ShouldPromote(j.status, next) {
		j.status = next
	}

	for field, value := range BuildTimestampUpdates(update.Timestamps) {
		ts := value
		switch field {
		case FieldAcceptedAt:
			j.acceptedAt = &ts
		case FieldPickedUpAt:
			j.pickedUpAt = &ts
		case FieldDeliveredAt:
			j.deliveredAt = &ts
		case FieldCanceledAt:
			j.canceledAt = &ts
		case FieldFailedAt:
			j.failedAt = &ts
		}
	}

	j.mergeMetadata(update)

	if update.TrackingURL != "" {
		j.trackingURL = update.TrackingURL
	}

	if update.Proof != nil && update.Proof.URL != "" {
		j.addProof(*update.Proof)
	}

	return nil
}

func (j *Job) mergeMetadata(update Update) {
	if j.metadata == nil {
		j.metadata = make(map[string]any)
	}

	j.metadata["provider"] = update.Provider
	j.metadata["status"] = update.Status
	j.metadata["timestamps"] = update.Timestamps
	j.metadata["rawPayload"] = string(update.RawPayload)
	j.metadata["receivedAt"] = update.ReceivedAt.Format(time.RFC3339)
}

func (j *Job) addProof(attachment ProofAttachment) {
	for _, existing := range j.proofs {
		if existing.URL == attachment.URL {
			return
		}
	}

	proofType := attachment.Type
	if proofType == "" {
		proofType = "unknown"
	}

	j.proofs = append(j.proofs, Proof{
		ID:   kernel.NewUUID(),
		URL:  attachment.URL,
		Type: proofType,
	})
}

func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.id = id
	return nil
}

func (j *Job) setBatchID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.batchID = id
	return nil
}

func (j *Job) setDispatch(adapter, externalJobID, trackingURL string) error {
	if strings.TrimSpace(adapter) == "" {
		return errs.NewValueIsRequiredError("adapter")
	}
	if strings.TrimSpace(externalJobID) == "" {
		return errs.NewMissingExternalIDError(adapter)
	}

	j.adapter = adapter
	j.externalJobID = externalJobID
	j.trackingURL = trackingURL
	return nil
}

func (j *Job) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	j.status = status
	return nil
}
