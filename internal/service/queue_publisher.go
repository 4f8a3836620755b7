// Package service holds the outbound integrations of the booking flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/movie-booking-client/internal/model"
	"github.com/iliyamo/movie-booking-client/internal/queue"
)

// ReceiptPublisher sends confirmed bookings to the booking.confirmed queue.
// It dials per message.  Failures are logged and returned, never fatal.
type ReceiptPublisher struct {
	url string
	log *log.Logger
}

// NewReceiptPublisher returns a publisher for the broker at url.
func NewReceiptPublisher(url string, l *log.Logger) *ReceiptPublisher {
	return &ReceiptPublisher{url: url, log: l}
}

// ReceiptEvent maps a receipt to its queue payload.
func ReceiptEvent(visitorID string, r model.Receipt) queue.ReceiptEvent {
	seats := make([]string, 0, len(r.Seats))
	for _, s := range r.Seats {
		seats = append(seats, s.Name)
	}
	if len(seats) == 0 && r.SeatName != "" {
		seats = append(seats, r.SeatName)
	}
	return queue.ReceiptEvent{
		VisitorID:   visitorID,
		TicketID:    r.TicketID,
		ShowtimeID:  r.ShowtimeID,
		MovieTitle:  r.MovieTitle,
		SystemName:  r.SystemName,
		ComplexName: r.ComplexName,
		RoomName:    r.RoomName,
		Seats:       seats,
		Total:       r.Total,
		BookedAt:    r.BookedAt,
	}
}

// PublishReceipt publishes one persistent JSON message.
func (p *ReceiptPublisher) PublishReceipt(ctx context.Context, visitorID string, r model.Receipt) error {
	body, err := json.Marshal(ReceiptEvent(visitorID, r))
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warnj(log.JSON{"event": "rabbitmq_dial_failed", "error": err.Error()})
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warnj(log.JSON{"event": "rabbitmq_channel_failed", "error": err.Error()})
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.QueueName, true, false, false, false, nil); err != nil {
		p.log.Warnj(log.JSON{"event": "rabbitmq_declare_failed", "error": err.Error()})
		return err
	}

	return ch.PublishWithContext(ctx, "", queue.QueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    r.TicketID,
		Body:         body,
	})
}
