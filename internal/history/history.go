// Package history builds the booking history shown on the profile page
// from the receipts kept locally and the bookings the remote API knows.
package history

import (
	"context"
	"regexp"
	"strconv"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/movie-booking-client/internal/model"
	"github.com/iliyamo/movie-booking-client/internal/seatmap"
	"github.com/iliyamo/movie-booking-client/internal/storage"
)

// AccountFetcher loads the remote account with its bookings.
type AccountFetcher interface {
	Account(ctx context.Context, accessToken string) (model.Account, error)
}

// Service lists booking history.
type Service struct {
	accounts AccountFetcher
	log      *log.Logger
}

// NewService returns a Service reading remote bookings from a.
func NewService(a AccountFetcher, l *log.Logger) *Service {
	if l == nil {
		l = log.New("history")
	}
	return &Service{accounts: a, log: l}
}

// List returns the merged history of the visitor.  When the remote call
// fails the local receipts are returned on their own together with the
// remote error, so callers can react to an expired login.
func (s *Service) List(ctx context.Context, store storage.Store, accessToken string) ([]model.Receipt, error) {
	local, err := storage.Receipts(ctx, store)
	if err != nil {
		return nil, err
	}
	if accessToken == "" {
		return Merge(local, nil), nil
	}
	acc, err := s.accounts.Account(ctx, accessToken)
	if err != nil {
		s.log.Warnj(log.JSON{"event": "remote_history_failed", "error": err.Error()})
		return Merge(local, nil), err
	}
	return Merge(local, acc.Bookings), nil
}

// Merge concatenates local then remote records, keeps the first record of
// every (ticket id, seat id) pair and drops records without a title,
// ticket id, booking date or seat.  Seat rows and columns missing from a
// record are derived from the seat name.
func Merge(local, remote []model.Receipt) []model.Receipt {
	out := make([]model.Receipt, 0, len(local)+len(remote))
	seen := make(map[[2]string]bool, len(local)+len(remote))
	for _, list := range [][]model.Receipt{local, remote} {
		for _, r := range list {
			key := [2]string{r.TicketID, r.SeatID}
			if seen[key] {
				continue
			}
			seen[key] = true
			if !complete(r) {
				continue
			}
			out = append(out, withSeatPositions(r))
		}
	}
	return out
}

func complete(r model.Receipt) bool {
	switch {
	case r.MovieTitle == "", r.MovieTitle == "Unknown Movie":
		return false
	case r.TicketID == "", r.TicketID == "Unknown":
		return false
	}
	return r.BookedAt != "" && r.SeatID != ""
}

func withSeatPositions(r model.Receipt) model.Receipt {
	if len(r.Seats) == 0 {
		return r
	}
	seats := make([]model.ReceiptSeat, len(r.Seats))
	copy(seats, r.Seats)
	for i := range seats {
		if seats[i].Row != "" && seats[i].Column != 0 {
			continue
		}
		row, col, ok := ParseSeatName(seats[i].Name)
		if !ok {
			row, col = "A", 1
		}
		seats[i].Row, seats[i].Column = row, col
	}
	r.Seats = seats
	return r
}

var lettered = regexp.MustCompile(`^([A-Z])(\d+)$`)

// ParseSeatName turns a seat label into a row and column.  "C7" is row C
// column 7; a bare number counts seats row by row, SeatsPerRow to a row,
// so "17" is B1.
func ParseSeatName(name string) (row string, column int, ok bool) {
	if m := lettered.FindStringSubmatch(name); m != nil {
		n, _ := strconv.Atoi(m[2])
		return m[1], n, true
	}
	n, err := strconv.Atoi(name)
	if err != nil || n <= 0 {
		return "", 0, false
	}
	idx := (n - 1) / seatmap.SeatsPerRow
	if idx > 25 {
		return "", 0, false
	}
	return string(rune('A' + idx)), (n-1)%seatmap.SeatsPerRow + 1, true
}
