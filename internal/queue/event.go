// Package queue carries confirmed bookings over RabbitMQ: the event
// payload, and the consumer that writes them to logs/booking.log.
package queue

// QueueName is the durable queue receipts are published to.
const QueueName = "booking.confirmed"

// ReceiptEvent is published after the remote API confirmed a booking.  It
// repeats what the receipt holds so consumers never call back into the
// service.
type ReceiptEvent struct {
	VisitorID   string   `json:"visitor_id"`
	TicketID    string   `json:"ticket_id"`
	ShowtimeID  string   `json:"showtime_id"`
	MovieTitle  string   `json:"movie_title"`
	SystemName  string   `json:"system_name"`
	ComplexName string   `json:"complex_name"`
	RoomName    string   `json:"room_name"`
	Seats       []string `json:"seats"`
	Total       int      `json:"total"`
	BookedAt    string   `json:"booked_at"`
}
