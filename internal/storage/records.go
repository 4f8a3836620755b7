package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/movie-booking-client/internal/model"
)

// Fixed key names, kept identical to the ones the web client used so that
// stored data stays recognisable.
const (
	KeyPendingBooking = "pendingBooking"
	KeySelectedSeats  = "selectedSeats"
	KeyBookingInfo    = "bookingInfo"
	KeyBookings       = "userBookings"
	KeyAccessToken    = "accessToken"
	KeyAuthUser       = "auth_user"
	KeyLastActivity   = "lastActivity"
)

// GetJSON decodes the value at key into v.  It returns ErrNotFound when the
// key is empty.
func GetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	b, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, b)
}

// bookingInfo is the shape stored under KeyBookingInfo: the showtime
// context plus the seats the visitor had chosen.
type bookingInfo struct {
	model.ShowtimeContext
	Total int                  `json:"total"`
	Seats []model.SelectedSeat `json:"seats"`
}

// SavePending stores a deferred booking under the three pending keys.
func SavePending(ctx context.Context, s Store, p model.PendingBooking) error {
	if err := SetJSON(ctx, s, KeyPendingBooking, p); err != nil {
		return err
	}
	if err := SetJSON(ctx, s, KeySelectedSeats, p.Seats); err != nil {
		return err
	}
	return SetJSON(ctx, s, KeyBookingInfo, bookingInfo{ShowtimeContext: p.Context, Total: p.Total, Seats: p.Seats})
}

// LoadPending returns the deferred booking, or ErrNotFound.
func LoadPending(ctx context.Context, s Store) (model.PendingBooking, error) {
	var p model.PendingBooking
	err := GetJSON(ctx, s, KeyPendingBooking, &p)
	return p, err
}

// ClearPending removes every pending key.
func ClearPending(ctx context.Context, s Store) error {
	return s.Delete(ctx, KeyPendingBooking, KeySelectedSeats, KeyBookingInfo)
}

// Receipts returns the booking history, oldest first.  A missing history
// is an empty list, not an error.
func Receipts(ctx context.Context, s Store) ([]model.Receipt, error) {
	var list []model.Receipt
	err := GetJSON(ctx, s, KeyBookings, &list)
	if errors.Is(err, ErrNotFound) {
		return []model.Receipt{}, nil
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}

// AppendReceipt adds r to the end of the booking history in one atomic
// update, so concurrent bookings of a visitor all land.  The history is
// append-only; nothing in the service rewrites earlier entries.
func AppendReceipt(ctx context.Context, s Store, r model.Receipt) error {
	return s.Update(ctx, KeyBookings, func(old []byte, found bool) ([]byte, error) {
		list := []model.Receipt{}
		if found && len(old) > 0 {
			if err := json.Unmarshal(old, &list); err != nil {
				return nil, fmt.Errorf("decode %s: %w", KeyBookings, err)
			}
		}
		b, err := json.Marshal(append(list, r))
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", KeyBookings, err)
		}
		return b, nil
	})
}
