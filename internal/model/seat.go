package model

// SeatType classifies a seat for pricing and display.  The remote API
// labels VIP seats "Vip" and every other seat "Thuong"; both are folded
// into these two values at the boundary.
type SeatType string

const (
	SeatNormal SeatType = "normal"
	SeatVIP    SeatType = "vip"
)

// SeatStatus is the availability of a seat inside one reservation session.
// A seat has exactly one status at a time.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatSelected  SeatStatus = "selected"
	SeatBooked    SeatStatus = "booked"
	// SeatSelecting marks a seat that another visitor is currently choosing.
	SeatSelecting SeatStatus = "selecting"
)

// Seat is one position of the seat grid for a showtime.
//
// Fields:
//
//	ID     – seat id from the remote API, or seat_<row><col> for placeholders.
//	Name   – display label such as "C7".
//	Row    – row letter A–J.
//	Column – 1-based column within the row.
//	Type   – normal or vip.
//	Price  – ticket price in VND.
//	Status – availability inside the current session.
type Seat struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Row    string     `json:"row"`
	Column int        `json:"column"`
	Type   SeatType   `json:"type"`
	Price  int        `json:"price"`
	Status SeatStatus `json:"status"`
}

// Selectable reports whether a visitor may pick or release this seat.
func (s Seat) Selectable() bool {
	return s.Status != SeatBooked && s.Status != SeatSelecting
}

// RawSeat is a seat record as delivered by the seat-map endpoint after
// normalisation.  Any field may be zero when the remote payload omitted it;
// an empty Type means the API did not say.
type RawSeat struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Type   SeatType `json:"type,omitempty"`
	Booked bool     `json:"booked"`
	Price  int      `json:"price"`
}

// SelectedSeat is the snapshot of a seat taken at the moment it was chosen.
// The booking request and the running total are computed from snapshots,
// never from the live grid.
type SelectedSeat struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Row    string   `json:"row"`
	Column int      `json:"column"`
	Type   SeatType `json:"type"`
	Price  int      `json:"price"`
}
