// Package queue contains the inbound queue consumers: the delivery update
// reconciler feed and the batch-lock worker feed. A consumer retries a
// failed message per the retry policy the producer attached as headers,
// then dead-letters it.
package queue

import (
	"context"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"localoffice/internal/adapters/out/rabbitmq"
	"localoffice/internal/core/ports"
)

const defaultPrefetch = 10

// Handler processes one message payload. A nil return acknowledges the
// message; an error triggers the retry policy.
type Handler func(ctx context.Context, payload []byte) error

// Consumer drains one queue into a Handler with manual acknowledgement.
type Consumer struct {
	client   *rabbitmq.Client
	queue    string
	tag      string
	prefetch int
	handler  Handler
	logger   *slog.Logger
}

// NewConsumer creates a consumer for the queue. The tag identifies this
// consumer to the broker.
func NewConsumer(
	client *rabbitmq.Client,
	queue, tag string,
	handler Handler,
	logger *slog.Logger,
) *Consumer {
	return &Consumer{
		client:   client,
		queue:    queue,
		tag:      tag,
		prefetch: defaultPrefetch,
		handler:  handler,
		logger:   logger.With("component", "queue_consumer", "queue", queue),
	}
}

// Run consumes until the context is canceled or the delivery channel
// closes.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.client.Consume(c.queue, c.tag, c.prefetch)
	if err != nil {
		return err
	}

	c.logger.Info("consumer started")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer stopping")
			return ctx.Err()
		case message, open := <-deliveries:
			if !open {
				c.logger.Warn("delivery channel closed")
				return nil
			}
			c.process(ctx, message)
		}
	}
}

func (c *Consumer) process(ctx context.Context, message amqp.Delivery) {
	err := c.handler(ctx, message.Body)
	if err == nil {
		if ackErr := message.Ack(false); ackErr != nil {
			c.logger.Error("failed to ack message", "messageId", message.MessageId, "error", ackErr)
		}
		return
	}

	attempts := headerInt(message.Headers, rabbitmq.HeaderAttempts, 1)
	retryCount := headerInt(message.Headers, rabbitmq.HeaderRetryCount, 0)

	if retryCount+1 >= attempts {
		c.logger.Error("message exhausted its attempts, dead-lettering",
			"messageId", message.MessageId, "retryCount", retryCount, "error", err)
		if nackErr := message.Nack(false, false); nackErr != nil {
			c.logger.Error("failed to nack message", "messageId", message.MessageId, "error", nackErr)
		}
		return
	}

	c.logger.Warn("message failed, scheduling retry",
		"messageId", message.MessageId, "retryCount", retryCount, "error", err)

	if requeueErr := c.requeue(ctx, message, retryCount); requeueErr != nil {
		c.logger.Error("failed to requeue message, returning it to the broker",
			"messageId", message.MessageId, "error", requeueErr)
		_ = message.Nack(false, true)
		return
	}

	_ = message.Ack(false)
}

// requeue republishes the message with an incremented retry counter after
// waiting out the producer-specified backoff.
func (c *Consumer) requeue(ctx context.Context, message amqp.Delivery, retryCount int) error {
	if err := sleep(ctx, backoffDelay(message.Headers, retryCount)); err != nil {
		return err
	}

	headers := amqp.Table{}
	for key, value := range message.Headers {
		headers[key] = value
	}
	headers[rabbitmq.HeaderRetryCount] = int32(retryCount + 1)

	return c.client.Publish(ctx, c.queue, amqp.Publishing{
		ContentType: message.ContentType,
		MessageId:   message.MessageId,
		Headers:     headers,
		Body:        message.Body,
	})
}

func backoffDelay(headers amqp.Table, retryCount int) time.Duration {
	delay := time.Duration(headerInt(headers, rabbitmq.HeaderBackoffDelayMs, 0)) * time.Millisecond
	if delay <= 0 {
		return 0
	}

	if headerString(headers, rabbitmq.HeaderBackoffType) == string(ports.BackoffExponential) {
		return delay << retryCount
	}
	return delay
}

func headerInt(headers amqp.Table, key string, fallback int) int {
	switch value := headers[key].(type) {
	case int32:
		return int(value)
	case int64:
		return int(value)
	case int:
		return value
	default:
		return fallback
	}
}

func headerString(headers amqp.Table, key string) string {
	if value, ok := headers[key].(string); ok {
		return value
	}
	return ""
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
