// Package session implements the seat reservation session of one visitor on
// one showtime: the seat grid and selection, the five minute hold timer and
// the submission of the selection as a booking.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/movie-booking-client/internal/model"
)

var (
	// ErrEmptySelection rejects a booking with no seats before any network call.
	ErrEmptySelection = errors.New("please select at least one seat")
	// ErrSessionClosed is returned for any call on a session that was left,
	// replaced or completed by a successful booking.
	ErrSessionClosed = errors.New("reservation session is closed")
	// ErrHoldExpired is returned once the countdown has run out; the visitor
	// has to enter the showtime again.
	ErrHoldExpired = errors.New("seat hold expired")
	// ErrBookingInFlight rejects a second submit while one is pending.
	ErrBookingInFlight = errors.New("a booking for this session is already in progress")
)

// Option configures a Session.
type Option func(*Session)

// WithHoldDuration overrides HoldDuration.
func WithHoldDuration(d time.Duration) Option {
	return func(s *Session) { s.timer = NewTimer(d) }
}

// WithTickInterval changes how often Run advances the timer.  It exists
// for tests; production uses one second.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.tickEvery = d
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.log = l }
}

// Session is the state of one visitor on one showtime page.  Every method
// runs under one mutex, so a timer tick, a seat toggle and the result of a
// booking never interleave.
type Session struct {
	mu         sync.Mutex
	visitorID  string
	info       model.ShowtimeContext
	tracker    *Tracker
	timer      *Timer
	tickEvery  time.Duration
	closed     bool
	submitting bool
	done       chan struct{}
	log        *log.Logger
}

// New creates an idle session over seats.  Call Start to arm the timer.
func New(visitorID string, info model.ShowtimeContext, seats []model.Seat, opts ...Option) *Session {
	s := &Session{
		visitorID: visitorID,
		info:      info,
		tracker:   NewTracker(seats),
		timer:     NewTimer(HoldDuration),
		tickEvery: time.Second,
		done:      make(chan struct{}),
		log:       log.New("session"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// VisitorID returns the owner of the session.
func (s *Session) VisitorID() string { return s.visitorID }

// Showtime returns the showtime context.
func (s *Session) Showtime() model.ShowtimeContext { return s.info }

// Start arms the reservation timer.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.timer.Start()
}

// Toggle selects or releases a seat.  Booked and being-selected seats are
// ignored silently: the returned seat shows the unchanged status and the
// bool is false.
func (s *Session) Toggle(seatID string) (model.Seat, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Seat{}, false, ErrSessionClosed
	}
	if s.timer.State() == TimerExpired {
		return model.Seat{}, false, ErrHoldExpired
	}
	changed := s.tracker.Toggle(seatID)
	seat, _ := s.tracker.Seat(seatID)
	return seat, changed, nil
}

// ClearSelection releases every selected seat.
func (s *Session) ClearSelection() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.tracker.Clear()
	return nil
}

// Tick advances the timer by one second.  The tick that expires the timer
// clears the selection; it reports true in that case.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if !s.timer.Tick() {
		return false
	}
	released := s.tracker.Len()
	s.tracker.Clear()
	s.log.Infoj(log.JSON{
		"event":      "hold_expired",
		"visitor_id": s.visitorID,
		"showtime":   s.info.ShowtimeID,
		"released":   released,
	})
	return true
}

// Run ticks the timer every interval until the hold expires, the session
// is closed or ctx is done.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			if s.Tick() {
				return
			}
		}
	}
}

// Close ends the session: the timer stops and later calls fail with
// ErrSessionClosed.  Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	s.timer.Stop()
	close(s.done)
}

// Closed reports whether the session has ended.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// State is a point-in-time copy of the session for rendering.
type State struct {
	Showtime  model.ShowtimeContext `json:"showtime"`
	Seats     []model.Seat          `json:"seats"`
	Selection []model.SelectedSeat  `json:"selection"`
	Total     int                   `json:"total"`
	Timer     TimerView             `json:"timer"`
	Closed    bool                  `json:"closed"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Showtime:  s.info,
		Seats:     s.tracker.Seats(),
		Selection: s.tracker.Selected(),
		Total:     s.tracker.Total(),
		Timer:     s.timer.View(),
		Closed:    s.closed,
	}
}

// checkout is what a booking needs from the session, copied under the lock.
type checkout struct {
	request model.BookingRequest
	seats   []model.SelectedSeat
	total   int
	info    model.ShowtimeContext
}

// beginBooking validates the selection and marks a submit as in flight.
// The caller must call endBooking when the submit returns.
func (s *Session) beginBooking() (checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return checkout{}, ErrSessionClosed
	case s.submitting:
		return checkout{}, ErrBookingInFlight
	case s.tracker.Len() == 0:
		return checkout{}, ErrEmptySelection
	}
	seats := s.tracker.Selected()
	tickets := make([]model.Ticket, 0, len(seats))
	for _, st := range seats {
		tickets = append(tickets, model.Ticket{SeatID: st.ID, Price: st.Price})
	}
	s.submitting = true
	return checkout{
		request: model.BookingRequest{ShowtimeID: s.info.ShowtimeID, Tickets: tickets},
		seats:   seats,
		total:   s.tracker.Total(),
		info:    s.info,
	}, nil
}

func (s *Session) endBooking() {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()
}

// completeBooking applies a confirmed booking: the selection is cleared and
// the session ends.  It returns false when the session was already closed,
// in which case nothing changes.
func (s *Session) completeBooking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.tracker.Clear()
	s.closeLocked()
	return true
}

// reselect selects the given seats if they are still available.  Used to
// resume a pending booking after login.
func (s *Session) reselect(ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	n := 0
	for _, id := range ids {
		if seat, ok := s.tracker.Seat(id); ok && seat.Status == model.SeatAvailable {
			if s.tracker.Toggle(id) {
				n++
			}
		}
	}
	return n
}
