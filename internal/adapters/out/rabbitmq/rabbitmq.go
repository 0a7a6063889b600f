// Package rabbitmq implements the durable job queue over RabbitMQ. Queues
// are declared with a dead-letter companion; publishing is persistent and
// waits for broker confirms so an accepted enqueue is never lost.
package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DeadLetterExchange receives messages whose processing attempts were
// exhausted. Each queue gets a "<name>.dlq" bound to it.
const DeadLetterExchange = "local-office.dlx"

// Client wraps one AMQP connection and channel with publisher confirms
// enabled. Publish is serialized; concurrent producers share the mutex.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	acks <-chan amqp.Confirmation
	mu   sync.Mutex
}

// Dial connects to the broker at the given AMQP URL and enables publisher
// confirms on the channel.
func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err = ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &Client{conn: conn, ch: ch, acks: acks}, nil
}

// Close releases the channel and connection.
func (c *Client) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Ping reports whether the connection is still open.
func (c *Client) Ping() error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// DeclareQueue declares the durable queue together with its dead-letter
// companion "<name>.dlq".
func (c *Client) DeclareQueue(name string) error {
	if err := c.ch.ExchangeDeclare(DeadLetterExchange, "direct", true, false, false, false, nil); err != nil {
		return err
	}

	dlq := name + ".dlq"
	if _, err := c.ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.ch.QueueBind(dlq, name, DeadLetterExchange, false, nil); err != nil {
		return err
	}

	_, err := c.ch.QueueDeclare(name, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    DeadLetterExchange,
		"x-dead-letter-routing-key": name,
	})
	return err
}

// Publish sends a persistent message to the queue through the default
// exchange and waits for the broker confirm.
func (c *Client) Publish(ctx context.Context, queue string, publishing amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	publishing.DeliveryMode = amqp.Persistent
	publishing.Timestamp = time.Now().UTC()

	if err := c.ch.PublishWithContext(ctx, "", queue, false, false, publishing); err != nil {
		return err
	}

	select {
	case conf := <-c.acks:
		if conf.Ack {
			return nil
		}
		return errors.New("publish NACK from broker")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume starts delivering messages from the queue with the given prefetch
// window. Acknowledgement is manual.
func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(queue, consumer, false, false, false, false, nil)
}
