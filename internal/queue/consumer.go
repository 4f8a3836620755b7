package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer appends every ReceiptEvent to <Dir>/booking.log.
type Consumer struct {
	URL string
	Dir string
	Log *log.Logger
}

// Run connects, consumes and reconnects with backoff until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warnj(log.JSON{"event": "broker_dial_failed", "error": err.Error(), "retry_in": backoff.String()})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warnj(log.JSON{"event": "consume_loop_ended", "error": err.Error()})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warnj(log.JSON{"event": "qos_failed", "error": err.Error()})
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(QueueName, "", false, false, false, false, nil)
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
			if err := c.Handle(d.Body); err != nil {
				c.Log.Errorj(log.JSON{"event": "receipt_rejected", "error": err.Error()})
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one message and appends its line to booking.log.
func (c *Consumer) Handle(body []byte) error {
	var ev ReceiptEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.TicketID == "" {
		return errors.New("event without ticket id")
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.Dir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.Dir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	_, err = f.WriteString(FormatLine(ev))
	return err
}

// FormatLine renders ev as one log line.
func FormatLine(ev ReceiptEvent) string {
	return fmt.Sprintf("[%s] Booking confirmed | ticket=%s | visitor=%s | showtime=%s | cinema=%q | room=%q | movie=%q | total=%d VND | seats=[%s]\n",
		ev.BookedAt, ev.TicketID, ev.VisitorID, ev.ShowtimeID,
		strings.TrimSpace(ev.SystemName+" "+ev.ComplexName), ev.RoomName, ev.MovieTitle, ev.Total,
		strings.Join(ev.Seats, ","))
}
