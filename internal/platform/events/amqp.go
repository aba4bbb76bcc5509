// Copyright (c) 2026 Vivi Sews. All rights reserved.

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// dialTimeout bounds the TCP connect and AMQP handshake.
	dialTimeout = 2 * time.Second

	// redialBackoff is how long publishes fail fast after a failed dial.
	redialBackoff = 30 * time.Second
)

// ErrBrokerBackoff is returned while the publisher waits out a failed dial.
var ErrBrokerBackoff = errors.New("events: broker unavailable, redial pending")

// AMQPPublisher publishes persistent JSON messages to a durable queue through
// the default exchange. The connection is opened lazily and reopened after
// the broker drops it. After a failed dial it stops trying for a backoff
// window, so an unreachable broker costs requests at most one short dial.
type AMQPPublisher struct {
	url    string
	queue  string
	logger *slog.Logger

	dialTimeout time.Duration
	backoff     time.Duration
	now         func() time.Time

	mu         sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
	retryAfter time.Time
}

// NewAMQPPublisher creates a publisher. No connection is made until the first event.
func NewAMQPPublisher(url, queue string, logger *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		url:         url,
		queue:       queue,
		logger:      logger,
		dialTimeout: dialTimeout,
		backoff:     redialBackoff,
		now:         time.Now,
	}
}

// Publish implements [Publisher].
func (publisher *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", event.Type, err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("events: publish %s: %w", event.Type, err)
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	channel, err := publisher.ensureChannel(ctx)
	if err != nil {
		return err
	}

	message := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         event.Type,
		Body:         body,
	}

	if err := channel.PublishWithContext(ctx, "", publisher.queue, false, false, message); err != nil {
		publisher.reset()
		return fmt.Errorf("events: publish %s: %w", event.Type, err)
	}
	return nil
}

// ensureChannel must be called with mu held.
func (publisher *AMQPPublisher) ensureChannel(ctx context.Context) (*amqp.Channel, error) {
	if publisher.channel != nil && !publisher.channel.IsClosed() {
		return publisher.channel, nil
	}
	publisher.reset()

	if publisher.now().Before(publisher.retryAfter) {
		return nil, ErrBrokerBackoff
	}

	timeout := publisher.dialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("events: dial broker: %w", context.DeadlineExceeded)
	}

	connection, err := amqp.DialConfig(publisher.url, amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		publisher.retryAfter = publisher.now().Add(publisher.backoff)
		publisher.logger.Warn("amqp_publisher_dial_failed",
			slog.String("queue", publisher.queue),
			slog.Duration("retry_in", publisher.backoff),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("events: dial broker: %w", err)
	}

	channel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("events: open channel: %w", err)
	}

	// Durable so messages survive broker restarts.
	if _, err := channel.QueueDeclare(publisher.queue, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = connection.Close()
		return nil, fmt.Errorf("events: declare queue %s: %w", publisher.queue, err)
	}

	publisher.connection = connection
	publisher.channel = channel
	publisher.retryAfter = time.Time{}
	publisher.logger.Info("amqp_publisher_connected", slog.String("queue", publisher.queue))

	return channel, nil
}

// reset must be called with mu held.
func (publisher *AMQPPublisher) reset() {
	if publisher.channel != nil {
		_ = publisher.channel.Close()
		publisher.channel = nil
	}
	if publisher.connection != nil {
		_ = publisher.connection.Close()
		publisher.connection = nil
	}
}

// Close releases the broker connection.
func (publisher *AMQPPublisher) Close() error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	publisher.reset()
	return nil
}
