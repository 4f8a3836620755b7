package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/movie-booking-client/internal/model"
	"github.com/iliyamo/movie-booking-client/internal/storage"
)

// Redirect targets returned to the view layer.
const (
	RedirectLogin   = "/login"
	RedirectSuccess = "/booking-success"
)

// Booker submits a booking to the remote API.
type Booker interface {
	Book(ctx context.Context, accessToken string, req model.BookingRequest) (model.Confirmation, error)
}

// Authenticator resolves the remote access token of a visitor.  ok is false
// when the visitor is not logged in or the login went stale.
type Authenticator interface {
	AccessToken(ctx context.Context, store storage.Store) (token string, ok bool, err error)
}

// ReceiptPublisher announces confirmed bookings.  Publishing is best effort.
type ReceiptPublisher interface {
	PublishReceipt(ctx context.Context, visitorID string, r model.Receipt) error
}

// OutcomeStatus says how a submit ended when it did not fail.
type OutcomeStatus string

const (
	OutcomeBooked        OutcomeStatus = "booked"
	OutcomeLoginRequired OutcomeStatus = "login_required"
)

// Outcome is the result of a submit that did not fail.
type Outcome struct {
	Status   OutcomeStatus         `json:"status"`
	Redirect string                `json:"redirect"`
	Receipt  *model.Receipt        `json:"receipt,omitempty"`
	Pending  *model.PendingBooking `json:"pending,omitempty"`
	// Applied is false when the session had already been left by the time
	// the server confirmed; the receipt is still recorded.
	Applied bool `json:"applied"`
}

// UserMessager is implemented by errors that carry a message meant for the
// visitor, such as remote API rejections.
type UserMessager interface {
	UserMessage() string
}

// DefaultFailureMessage is shown when a failure carries no message.
const DefaultFailureMessage = "booking failed"

// BookingError is a remote rejection or transport failure of a submit.  The
// selection is left intact so the visitor can retry.
type BookingError struct {
	Message string
	Err     error
}

func (e *BookingError) Error() string { return "booking rejected: " + e.Message }
func (e *BookingError) Unwrap() error { return e.Err }

// Submitter turns the selection of a session into a booking.
type Submitter struct {
	booker    Booker
	auth      Authenticator
	publisher ReceiptPublisher
	log       *log.Logger
	now       func() time.Time
}

// NewSubmitter wires a Submitter.  publisher may be nil.
func NewSubmitter(b Booker, a Authenticator, p ReceiptPublisher, l *log.Logger) *Submitter {
	if b == nil || a == nil {
		panic("nil dependency passed to NewSubmitter")
	}
	if l == nil {
		l = log.New("submitter")
	}
	return &Submitter{booker: b, auth: a, publisher: p, log: l, now: time.Now}
}

// Submit books the current selection of sess on behalf of the visitor
// whose storage is store.
//
//   - empty selection: ErrEmptySelection, nothing else happens;
//   - not logged in: the pending booking is saved and the visitor is sent
//     to /login, the selection stays as it is;
//   - rejected: a *BookingError, the selection stays as it is;
//   - confirmed: the session is cleared and closed, a receipt is appended
//     to the booking history and the visitor is sent to /booking-success.
func (s *Submitter) Submit(ctx context.Context, sess *Session, store storage.Store) (Outcome, error) {
	co, err := sess.beginBooking()
	if err != nil {
		return Outcome{}, err
	}
	defer sess.endBooking()

	token, ok, err := s.auth.AccessToken(ctx, store)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve access token: %w", err)
	}
	if !ok {
		pending := model.PendingBooking{
			Request: co.request,
			Total:   co.total,
			Seats:   co.seats,
			Context: co.info,
			SavedAt: s.now().UTC(),
		}
		if err := storage.SavePending(ctx, store, pending); err != nil {
			return Outcome{}, fmt.Errorf("save pending booking: %w", err)
		}
		s.log.Infoj(log.JSON{
			"event":      "booking_deferred",
			"visitor_id": sess.VisitorID(),
			"showtime":   co.info.ShowtimeID,
			"seats":      len(co.seats),
			"total":      co.total,
		})
		return Outcome{Status: OutcomeLoginRequired, Redirect: RedirectLogin, Pending: &pending}, nil
	}

	conf, err := s.booker.Book(ctx, token, co.request)
	if err != nil {
		msg := DefaultFailureMessage
		var um UserMessager
		if errors.As(err, &um) && um.UserMessage() != "" {
			msg = um.UserMessage()
		}
		s.log.Warnj(log.JSON{
			"event":      "booking_rejected",
			"visitor_id": sess.VisitorID(),
			"showtime":   co.info.ShowtimeID,
			"error":      err.Error(),
		})
		return Outcome{}, &BookingError{Message: msg, Err: err}
	}

	receipt := MergeReceipt(conf, co.info, co.seats, co.total, s.now())
	applied := sess.completeBooking()

	if err := storage.AppendReceipt(ctx, store, receipt); err != nil {
		s.log.Errorj(log.JSON{"event": "receipt_store_failed", "visitor_id": sess.VisitorID(), "error": err.Error()})
	}
	if err := storage.ClearPending(ctx, store); err != nil {
		s.log.Warnj(log.JSON{"event": "pending_clear_failed", "visitor_id": sess.VisitorID(), "error": err.Error()})
	}
	if s.publisher != nil {
		if err := s.publisher.PublishReceipt(ctx, sess.VisitorID(), receipt); err != nil {
			s.log.Warnj(log.JSON{"event": "receipt_publish_failed", "ticket_id": receipt.TicketID, "error": err.Error()})
		}
	}
	s.log.Infoj(log.JSON{
		"event":      "booking_confirmed",
		"visitor_id": sess.VisitorID(),
		"showtime":   co.info.ShowtimeID,
		"ticket_id":  receipt.TicketID,
		"total":      receipt.Total,
		"applied":    applied,
	})
	return Outcome{Status: OutcomeBooked, Redirect: RedirectSuccess, Receipt: &receipt, Applied: applied}, nil
}

// Resume re-selects the seats of a pending booking when sess is on the
// same showtime.  It returns how many seats were selected again.
func Resume(ctx context.Context, sess *Session, store storage.Store) (int, error) {
	pending, err := storage.LoadPending(ctx, store)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if pending.Request.ShowtimeID != sess.Showtime().ShowtimeID {
		return 0, nil
	}
	ids := make([]string, 0, len(pending.Seats))
	for _, st := range pending.Seats {
		ids = append(ids, st.ID)
	}
	return sess.reselect(ids), nil
}

// MergeReceipt builds the history record of a confirmed booking.  Server
// fields win when present; the rest comes from what the client knew,
// because the confirmation payload leaves most of it out.
func MergeReceipt(conf model.Confirmation, info model.ShowtimeContext, seats []model.SelectedSeat, total int, now time.Time) model.Receipt {
	r := model.Receipt{
		TicketID:    first(conf.TicketID, uuid.NewString()),
		ShowtimeID:  info.ShowtimeID,
		BookedAt:    first(conf.BookedAt, now.UTC().Format(time.RFC3339)),
		MovieTitle:  first(conf.MovieTitle, info.MovieTitle),
		Poster:      first(conf.Poster, info.Poster),
		Duration:    conf.Duration,
		Price:       conf.Price,
		Total:       total,
		RoomID:      first(conf.RoomID, info.RoomID),
		RoomName:    first(conf.RoomName, info.RoomName),
		ComplexID:   first(conf.ComplexID, info.ComplexID),
		ComplexName: first(conf.ComplexName, info.ComplexName),
		SystemID:    first(conf.SystemID, info.SystemID),
		SystemName:  first(conf.SystemName, info.SystemName),
	}
	r.Seats = make([]model.ReceiptSeat, 0, len(seats))
	for _, st := range seats {
		r.Seats = append(r.Seats, model.ReceiptSeat{SeatID: st.ID, Name: st.Name, Row: st.Row, Column: st.Column, Price: st.Price})
	}
	var firstID, firstName string
	if len(seats) > 0 {
		firstID, firstName = seats[0].ID, seats[0].Name
	}
	r.SeatID = first(conf.SeatID, firstID)
	r.SeatName = first(conf.SeatName, firstName)
	return r
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
