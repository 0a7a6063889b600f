package rabbitmq

import (
	"context"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"localoffice/internal/core/ports"
)

// Message headers carrying the per-job retry policy to the consumer.
const (
	HeaderAttempts       = "x-attempts"
	HeaderBackoffType    = "x-backoff-type"
	HeaderBackoffDelayMs = "x-backoff-delay-ms"
	HeaderRetryCount     = "x-retry-count"
)

// JobQueue implements ports.JobQueue over one broker client. The enqueue
// options travel as message headers; the job id becomes the AMQP message id
// so consumers can deduplicate redeliveries.
type JobQueue struct {
	client *Client
	logger *slog.Logger
}

// NewJobQueue creates a queue producer. Queues must be declared by the
// caller before publishing.
func NewJobQueue(client *Client, logger *slog.Logger) *JobQueue {
	return &JobQueue{
		client: client,
		logger: logger.With("component", "job_queue"),
	}
}

// Enqueue publishes the payload as a persistent JSON message.
func (q *JobQueue) Enqueue(ctx context.Context, queue string, payload []byte, opts ports.EnqueueOptions) error {
	headers := amqp.Table{}
	if opts.Attempts > 0 {
		headers[HeaderAttempts] = int32(opts.Attempts)
	}
	if opts.Backoff.Type != "" {
		headers[HeaderBackoffType] = string(opts.Backoff.Type)
		headers[HeaderBackoffDelayMs] = opts.Backoff.Delay.Milliseconds()
	}

	err := q.client.Publish(ctx, queue, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   opts.JobID,
		Headers:     headers,
		Body:        payload,
	})
	if err != nil {
		q.logger.Error("failed to enqueue job", "queue", queue, "jobId", opts.JobID, "error", err)
		return err
	}

	q.logger.Debug("job enqueued", "queue", queue, "jobId", opts.JobID)
	return nil
}
