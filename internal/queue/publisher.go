package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// dialTimeout bounds how long a request waits on an unreachable broker.
const dialTimeout = 3 * time.Second

// Publisher sends domain events to RabbitMQ. Each publish opens its own
// connection, which keeps the publisher stateless at the rate admins
// change booking statuses. Errors are logged and returned so callers can
// ignore failures without interrupting the request flow.
type Publisher struct {
	URL    string
	Logger *slog.Logger
}

// NewPublisher returns a Publisher for the given broker URL.
func NewPublisher(url string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{URL: url, Logger: logger}
}

// PublishBookingStatusChanged publishes ev to BookingStatusQueue as a
// persistent JSON message.
func (p *Publisher) PublishBookingStatusChanged(ctx context.Context, ev BookingStatusChangedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.publish(ctx, BookingStatusQueue, body)
}

func (p *Publisher) publish(ctx context.Context, queueName string, body []byte) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		p.Logger.Warn("rabbitmq dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Logger.Warn("rabbitmq channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	); err != nil {
		p.Logger.Warn("rabbitmq queue declare failed", "queue", queueName, "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		pub,
	); err != nil {
		p.Logger.Warn("rabbitmq publish failed", "queue", queueName, "error", err)
		return err
	}
	return nil
}
