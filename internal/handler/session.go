package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/movie-booking-client/internal/auth"
	"github.com/iliyamo/movie-booking-client/internal/middleware"
	"github.com/iliyamo/movie-booking-client/internal/model"
	"github.com/iliyamo/movie-booking-client/internal/remote"
	"github.com/iliyamo/movie-booking-client/internal/session"
	"github.com/iliyamo/movie-booking-client/internal/storage"
)

// SessionHandler drives the seat reservation session of the calling
// visitor: entering a showtime, toggling seats, booking and leaving.
type SessionHandler struct {
	API       SeatMapAPI
	Registry  *session.Registry
	Submitter *session.Submitter
	Sessions  *auth.Sessions
	Store     storage.Store
	Log       *log.Logger
}

func NewSessionHandler(api SeatMapAPI, reg *session.Registry, sub *session.Submitter, s *auth.Sessions, store storage.Store, l *log.Logger) *SessionHandler {
	return &SessionHandler{API: api, Registry: reg, Submitter: sub, Sessions: s, Store: store, Log: l}
}

type enterResp struct {
	session.State
	// Resumed counts seats re-selected from a booking that waited for login.
	Resumed int `json:"resumed"`
}

type toggleResp struct {
	Seat      model.Seat           `json:"seat"`
	Changed   bool                 `json:"changed"`
	Selection []model.SelectedSeat `json:"selection"`
	Total     int                  `json:"total"`
	Timer     session.TimerView    `json:"timer"`
}

// sessionError maps the session sentinels to responses.
func sessionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, session.ErrSessionClosed):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no active reservation session"})
	case errors.Is(err, session.ErrHoldExpired):
		return c.JSON(http.StatusGone, echo.Map{"error": "seat hold expired, please choose your seats again"})
	case errors.Is(err, session.ErrEmptySelection):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, session.ErrBookingInFlight):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func (h *SessionHandler) current(c echo.Context) (*session.Session, error) {
	sess, ok := h.Registry.Get(middleware.VisitorID(c))
	if !ok {
		return nil, session.ErrSessionClosed
	}
	return sess, nil
}

// Enter loads the seat map of a showtime and opens a fresh session on it,
// replacing any session the visitor had.  A booking saved before login is
// picked up again when it is for the same showtime.
func (h *SessionHandler) Enter(c echo.Context) error {
	ctx := c.Request().Context()
	info, raw, err := h.API.SeatMap(ctx, c.Param("id"))
	if err != nil {
		return remoteFailure(c, err)
	}
	sess := h.Registry.Enter(middleware.VisitorID(c), info, raw)

	resumed, err := session.Resume(ctx, sess, visitorStore(h.Store, c))
	if err != nil {
		h.Log.Warnj(log.JSON{"event": "resume_failed", "visitor_id": middleware.VisitorID(c), "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, enterResp{State: sess.Snapshot(), Resumed: resumed})
}

// Show returns the session state: grid, selection, total and countdown.
func (h *SessionHandler) Show(c echo.Context) error {
	sess, err := h.current(c)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// Toggle selects or releases one seat.  Booked seats and seats another
// visitor is choosing come back unchanged with changed=false.
func (h *SessionHandler) Toggle(c echo.Context) error {
	sess, err := h.current(c)
	if err != nil {
		return sessionError(c, err)
	}
	seat, changed, err := sess.Toggle(c.Param("seatId"))
	if err != nil {
		return sessionError(c, err)
	}
	if seat.ID == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown seat"})
	}
	st := sess.Snapshot()
	return c.JSON(http.StatusOK, toggleResp{Seat: seat, Changed: changed, Selection: st.Selection, Total: st.Total, Timer: st.Timer})
}

// ClearSelection releases every selected seat.
func (h *SessionHandler) ClearSelection(c echo.Context) error {
	sess, err := h.current(c)
	if err != nil {
		return sessionError(c, err)
	}
	if err := sess.ClearSelection(); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// Book submits the selection.  202 means the visitor must log in first and
// the booking was saved; 201 carries the receipt.
func (h *SessionHandler) Book(c echo.Context) error {
	sess, err := h.current(c)
	if err != nil {
		return sessionError(c, err)
	}
	store := visitorStore(h.Store, c)
	out, err := h.Submitter.Submit(c.Request().Context(), sess, store)
	if err != nil {
		var be *session.BookingError
		if errors.As(err, &be) {
			if errors.Is(err, remote.ErrUnauthorized) {
				_ = h.Sessions.Logout(c.Request().Context(), store)
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": be.Message, "redirect": session.RedirectLogin})
			}
			if isTimeout(err) {
				return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "movie service timed out, please try again"})
			}
			return c.JSON(http.StatusBadGateway, echo.Map{"error": be.Message})
		}
		return sessionError(c, err)
	}
	if out.Status == session.OutcomeLoginRequired {
		return c.JSON(http.StatusAccepted, out)
	}
	return c.JSON(http.StatusCreated, out)
}

// Leave closes the session.  A booking still in flight is recorded when it
// lands but no longer touches the session.
func (h *SessionHandler) Leave(c echo.Context) error {
	h.Registry.Leave(middleware.VisitorID(c))
	return c.NoContent(http.StatusNoContent)
}
