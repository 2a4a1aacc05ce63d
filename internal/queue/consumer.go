package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// BookingLogFile is the file, inside the consumer's log directory, that
// status change lines are appended to.
const BookingLogFile = "booking.log"

// Consumer listens to BookingStatusQueue and appends one line per event
// to <LogDir>/booking.log.
type Consumer struct {
	URL    string
	LogDir string
	Logger *slog.Logger

	mu sync.Mutex // serializes writes to the log file
}

// NewConsumer returns a Consumer for the given broker URL and log directory.
func NewConsumer(url, logDir string, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{URL: url, LogDir: logDir, Logger: logger}
}

// Run connects to RabbitMQ, declares the queue (durable), and consumes
// messages until ctx is cancelled. Dial failures and dropped connections
// are retried with exponential backoff capped at 30s. Malformed messages
// are logged and rejected without requeue so the consumer keeps going.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Logger.Warn("booking consumer dial failed", "error", err, "retry_in", backoff.String())
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Logger.Warn("booking consumer loop ended, reconnecting", "error", err)
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Logger.Warn("booking consumer set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(BookingStatusQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(BookingStatusQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.HandleMessage(d.Body); err != nil {
				c.Logger.Error("booking consumer handle message failed", "error", err)
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one event and appends its line to the booking log.
func (c *Consumer) HandleMessage(body []byte) error {
	var ev BookingStatusChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == 0 || ev.NewStatus == "" {
		return errors.New("event missing booking_id or new_status")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.LogDir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.LogDir, BookingLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders an event as a single human-friendly log line.
func FormatLine(ev BookingStatusChangedEvent) string {
	car := ev.CarStatus
	if car == "" {
		car = "-"
	}
	return fmt.Sprintf("[%s] Booking %s -> %s | booking_id=%d | user_id=%d | car_id=%d | car_status=%s | total=%.2f | mpesa=%s | period=%s..%s | by=%s\n",
		ev.ChangedAt, ev.OldStatus, ev.NewStatus, ev.BookingID, ev.UserID, ev.CarID, car,
		ev.TotalPrice, ev.MpesaCode, ev.StartDate, ev.EndDate, ev.ChangedBy)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
