package ports

import (
	"context"
	"fmt"
	"time"
)

// Queue names the core publishes to.
const (
	// QueueBatchLock carries cutoff batching jobs.
	QueueBatchLock = "batch-lock"

	// QueueDeliveryUpdates carries canonical delivery status updates for
	// the reconciler.
	QueueDeliveryUpdates = "delivery-updates"
)

// BackoffType selects the delay strategy between job retry attempts.
type BackoffType string

const (
	BackoffFixed       BackoffType = "fixed"
	BackoffExponential BackoffType = "exponential"
)

// BackoffSpec configures per-job retry delays.
type BackoffSpec struct {
	Type  BackoffType
	Delay time.Duration
}

// EnqueueOptions tune a single enqueue call. Jobs sharing a JobID within a
// queue are deduplicated, which makes enqueueing idempotent.
type EnqueueOptions struct {
	JobID    string
	Attempts int
	Backoff  BackoffSpec
}

// JobQueue is the durable queue collaborator the core publishes through.
// Delivery is at-least-once; consumers must tolerate duplicates.
type JobQueue interface {
	Enqueue(ctx context.Context, queue string, payload []byte, opts EnqueueOptions) error
}

// DeliveryUpdateJobID builds the deduplication id for a status update
// published on job creation, guaranteeing at most one in-flight duplicate
// per external id.
func DeliveryUpdateJobID(externalJobID string) string {
	return fmt.Sprintf("delivery:%s", externalJobID)
}

// DeliveryCancelJobID builds the deduplication id for a cancellation update.
func DeliveryCancelJobID(externalJobID string) string {
	return fmt.Sprintf("delivery:%s:cancel", externalJobID)
}
