package model

import "time"

// ShowtimeContext carries what the client knows about the showtime being
// booked.  It is filled from the seat-map response and later merged into
// receipts because the booking confirmation omits most of it.
type ShowtimeContext struct {
	ShowtimeID  string `json:"showtime_id"`
	MovieTitle  string `json:"movie_title"`
	Poster      string `json:"poster,omitempty"`
	ShowDate    string `json:"show_date"`
	ShowTime    string `json:"show_time"`
	Address     string `json:"address,omitempty"`
	RoomID      string `json:"room_id,omitempty"`
	RoomName    string `json:"room_name"`
	ComplexID   string `json:"complex_id,omitempty"`
	ComplexName string `json:"complex_name"`
	SystemID    string `json:"system_id,omitempty"`
	SystemName  string `json:"system_name,omitempty"`
}

// Ticket is one line of a booking request.
type Ticket struct {
	SeatID string `json:"seatId"`
	Price  int    `json:"price"`
}

// BookingRequest is what the booking endpoint receives: the showtime and
// the (seat, price) pairs drawn from the selection at submit time.
type BookingRequest struct {
	ShowtimeID string   `json:"showtimeId"`
	Tickets    []Ticket `json:"tickets"`
}

// Total sums the ticket prices of the request.
func (r BookingRequest) Total() int {
	total := 0
	for _, t := range r.Tickets {
		total += t.Price
	}
	return total
}

// Confirmation is the part of a booking response the server actually
// returned.  Every field is optional; Message holds the plain text the
// API sends when it answers with a string instead of an object.
type Confirmation struct {
	TicketID    string `json:"ticket_id,omitempty"`
	BookedAt    string `json:"booked_at,omitempty"`
	MovieTitle  string `json:"movie_title,omitempty"`
	Poster      string `json:"poster,omitempty"`
	Price       int    `json:"price,omitempty"`
	Duration    int    `json:"duration,omitempty"`
	RoomID      string `json:"room_id,omitempty"`
	RoomName    string `json:"room_name,omitempty"`
	SeatID      string `json:"seat_id,omitempty"`
	SeatName    string `json:"seat_name,omitempty"`
	SystemID    string `json:"system_id,omitempty"`
	SystemName  string `json:"system_name,omitempty"`
	ComplexID   string `json:"complex_id,omitempty"`
	ComplexName string `json:"complex_name,omitempty"`
	Message     string `json:"message,omitempty"`
}

// ReceiptSeat is a seat listed on a receipt.
type ReceiptSeat struct {
	SeatID string `json:"seat_id"`
	Name   string `json:"name"`
	Row    string `json:"row"`
	Column int    `json:"column"`
	Price  int    `json:"price,omitempty"`
}

// Receipt is the locally persisted record of a confirmed booking, used by
// the booking history view.
//
// Fields:
//
//	TicketID    – server ticket id, or a locally generated one when absent.
//	ShowtimeID  – showtime the booking belongs to.
//	BookedAt    – booking time as reported by the server (or local time).
//	MovieTitle  – movie name.
//	Total       – sum of ticket prices.
//	SeatID/Name – first seat of the booking, used for de-duplication.
//	Seats       – every seat in the booking.
//	Room/Complex/System – cinema context.
type Receipt struct {
	TicketID    string        `json:"ticket_id"`
	ShowtimeID  string        `json:"showtime_id,omitempty"`
	BookedAt    string        `json:"booked_at"`
	MovieTitle  string        `json:"movie_title"`
	Poster      string        `json:"poster,omitempty"`
	Duration    int           `json:"duration,omitempty"`
	Price       int           `json:"price,omitempty"`
	Total       int           `json:"total"`
	SeatID      string        `json:"seat_id"`
	SeatName    string        `json:"seat_name"`
	Seats       []ReceiptSeat `json:"seats,omitempty"`
	RoomID      string        `json:"room_id,omitempty"`
	RoomName    string        `json:"room_name,omitempty"`
	ComplexID   string        `json:"complex_id,omitempty"`
	ComplexName string        `json:"complex_name,omitempty"`
	SystemID    string        `json:"system_id,omitempty"`
	SystemName  string        `json:"system_name,omitempty"`
}

// PendingBooking is saved when an unauthenticated visitor tries to book.
// It lets the visitor pick up the same selection after logging in.
type PendingBooking struct {
	Request BookingRequest  `json:"request"`
	Total   int             `json:"total"`
	Seats   []SelectedSeat  `json:"seats"`
	Context ShowtimeContext `json:"context"`
	SavedAt time.Time       `json:"saved_at"`
}
