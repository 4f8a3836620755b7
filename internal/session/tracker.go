package session

import "github.com/iliyamo/movie-booking-client/internal/model"

// Tracker holds the seat grid of one showtime and the set of seats the
// visitor has chosen.  It keeps two invariants after every call:
//
//   - a seat id is in the selection exactly when that seat is SeatSelected;
//   - Total equals the sum of the selection's snapshot prices.
//
// Tracker is not safe for concurrent use; Session serializes access.
type Tracker struct {
	seats    []model.Seat
	index    map[string]int
	selected []model.SelectedSeat
	total    int
}

// NewTracker copies seats into a fresh tracker with an empty selection.
// Seats that arrive already marked selected are reset to available.
func NewTracker(seats []model.Seat) *Tracker {
	t := &Tracker{
		seats: make([]model.Seat, len(seats)),
		index: make(map[string]int, len(seats)),
	}
	copy(t.seats, seats)
	for i := range t.seats {
		if t.seats[i].Status == model.SeatSelected {
			t.seats[i].Status = model.SeatAvailable
		}
		t.index[t.seats[i].ID] = i
	}
	return t
}

// Toggle flips a seat between available and selected.  Unknown, booked and
// being-selected seats are left alone and Toggle reports false.
func (t *Tracker) Toggle(seatID string) bool {
	i, ok := t.index[seatID]
	if !ok {
		return false
	}
	seat := &t.seats[i]
	switch seat.Status {
	case model.SeatAvailable:
		seat.Status = model.SeatSelected
		t.selected = append(t.selected, model.SelectedSeat{
			ID:     seat.ID,
			Name:   seat.Name,
			Row:    seat.Row,
			Column: seat.Column,
			Type:   seat.Type,
			Price:  seat.Price,
		})
	case model.SeatSelected:
		seat.Status = model.SeatAvailable
		for j := range t.selected {
			if t.selected[j].ID == seatID {
				t.selected = append(t.selected[:j], t.selected[j+1:]...)
				break
			}
		}
	default:
		return false
	}
	t.recompute()
	return true
}

// Clear empties the selection and returns every selected seat to available.
func (t *Tracker) Clear() {
	for i := range t.seats {
		if t.seats[i].Status == model.SeatSelected {
			t.seats[i].Status = model.SeatAvailable
		}
	}
	t.selected = nil
	t.recompute()
}

func (t *Tracker) recompute() {
	total := 0
	for _, s := range t.selected {
		total += s.Price
	}
	t.total = total
}

// Total is the running price of the selection.
func (t *Tracker) Total() int { return t.total }

// Len is the number of selected seats.
func (t *Tracker) Len() int { return len(t.selected) }

// Selected returns a copy of the selection snapshots in pick order.
func (t *Tracker) Selected() []model.SelectedSeat {
	out := make([]model.SelectedSeat, len(t.selected))
	copy(out, t.selected)
	return out
}

// Seats returns a copy of the grid.
func (t *Tracker) Seats() []model.Seat {
	out := make([]model.Seat, len(t.seats))
	copy(out, t.seats)
	return out
}

// Seat looks up one seat by id.
func (t *Tracker) Seat(seatID string) (model.Seat, bool) {
	i, ok := t.index[seatID]
	if !ok {
		return model.Seat{}, false
	}
	return t.seats[i], true
}
