// Package seatmap turns the seat records of a showtime into the fixed
// 10 x 16 grid the booking page renders.
package seatmap

import (
	"strconv"

	"github.com/iliyamo/movie-booking-client/internal/model"
)

const (
	SeatsPerRow = 16
	VIPPrice    = 90000
	NormalPrice = 75000
)

// Rows lists the row letters front to back.
var Rows = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}

// GridSize is the number of seats every built grid contains.
var GridSize = len(Rows) * SeatsPerRow

// demoBooked and demoSelecting are fixed positions the original booking page
// always painted as taken.  They only apply with WithDemoOverlay.
var (
	demoBooked    = map[string]bool{"D3": true, "D4": true, "D5": true, "J15": true}
	demoSelecting = map[string]bool{"I12": true, "I13": true}
)

// Option tunes a Builder.
type Option func(*Builder)

// WithDemoOverlay forces the demonstration seats to booked/selecting
// regardless of what the seat map says.
func WithDemoOverlay() Option {
	return func(b *Builder) { b.overlay = true }
}

// Builder builds seat grids.  The zero value is ready to use.
type Builder struct {
	overlay bool
}

// NewBuilder returns a Builder configured with opts.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build returns the full grid in row-major order.  Position i takes raw[i]
// when present; missing or id-less records become placeholder seats.  Build
// never fails: empty input yields a grid of placeholders.
func (b *Builder) Build(raw []model.RawSeat) []model.Seat {
	seats := make([]model.Seat, 0, GridSize)
	for ri, row := range Rows {
		for col := 1; col <= SeatsPerRow; col++ {
			idx := ri*SeatsPerRow + (col - 1)
			var rs model.RawSeat
			if idx < len(raw) {
				rs = raw[idx]
			}
			seats = append(seats, b.seatAt(row, col, rs))
		}
	}
	return seats
}

// Build builds with the default Builder.
func Build(raw []model.RawSeat) []model.Seat {
	return (&Builder{}).Build(raw)
}

func (b *Builder) seatAt(row string, col int, rs model.RawSeat) model.Seat {
	label := row + strconv.Itoa(col)
	s := model.Seat{
		ID:     "seat_" + label,
		Name:   label,
		Row:    row,
		Column: col,
		Type:   defaultType(row, col),
		Status: model.SeatAvailable,
	}
	if rs.ID != "" {
		s.ID = rs.ID
		if rs.Name != "" {
			s.Name = rs.Name
		}
		if rs.Type != "" {
			s.Type = rs.Type
		}
		if rs.Booked {
			s.Status = model.SeatBooked
		}
	}
	s.Price = priceFor(s.Type, rs.Price)

	if b.overlay {
		switch {
		case demoBooked[label]:
			s.Status = model.SeatBooked
		case demoSelecting[label]:
			s.Status = model.SeatSelecting
		}
	}
	return s
}

// defaultType marks the center block (rows C–H, columns 3–14) as VIP.
func defaultType(row string, col int) model.SeatType {
	if row >= "C" && row <= "H" && col >= 3 && col <= 14 {
		return model.SeatVIP
	}
	return model.SeatNormal
}

func priceFor(t model.SeatType, raw int) int {
	if t == model.SeatVIP {
		return VIPPrice
	}
	if raw > 0 {
		return raw
	}
	return NormalPrice
}
