package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/movie-booking-client/internal/auth"
	"github.com/iliyamo/movie-booking-client/internal/history"
	"github.com/iliyamo/movie-booking-client/internal/model"
	"github.com/iliyamo/movie-booking-client/internal/remote"
	"github.com/iliyamo/movie-booking-client/internal/storage"
)

// ProfileHandler serves the member pages: account details and booking
// history.
type ProfileHandler struct {
	API      AccountAPI
	Sessions *auth.Sessions
	History  *history.Service
	Store    storage.Store
	Log      *log.Logger
}

func NewProfileHandler(api AccountAPI, s *auth.Sessions, hs *history.Service, store storage.Store, l *log.Logger) *ProfileHandler {
	return &ProfileHandler{API: api, Sessions: s, History: hs, Store: store, Log: l}
}

// loginExpired answers 401 after dropping the remote login.
func (h *ProfileHandler) loginExpired(c echo.Context, store storage.Store) error {
	if err := h.Sessions.Logout(c.Request().Context(), store); err != nil {
		h.Log.Warnj(log.JSON{"event": "logout_failed", "error": err.Error()})
	}
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired, please log in again", "redirect": "/login"})
}

func (h *ProfileHandler) user(c echo.Context, store storage.Store) (model.AuthUser, error) {
	return h.Sessions.User(c.Request().Context(), store)
}

// Show returns the remote profile of the logged in member.
func (h *ProfileHandler) Show(c echo.Context) error {
	store := visitorStore(h.Store, c)
	u, err := h.user(c, store)
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return h.loginExpired(c, store)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	acc, err := h.API.Account(c.Request().Context(), u.AccessToken)
	if errors.Is(err, remote.ErrUnauthorized) {
		return h.loginExpired(c, store)
	}
	if err != nil {
		return remoteFailure(c, err)
	}
	return c.JSON(http.StatusOK, acc.Profile)
}

// Update saves profile changes.  The account name always comes from the
// login, never from the body.
func (h *ProfileHandler) Update(c echo.Context) error {
	store := visitorStore(h.Store, c)
	u, err := h.user(c, store)
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return h.loginExpired(c, store)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	var req model.Profile
	req.Account = u.Account
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	req.Account = u.Account
	if req.UserType == "" {
		req.UserType = u.UserType
	}

	p, err := h.API.UpdateProfile(c.Request().Context(), u.AccessToken, req)
	if errors.Is(err, remote.ErrUnauthorized) {
		return h.loginExpired(c, store)
	}
	if err != nil {
		return remoteFailure(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Bookings lists the booking history: local receipts merged with the
// server's records.  When the server cannot be reached the local receipts
// are still shown.
func (h *ProfileHandler) Bookings(c echo.Context) error {
	ctx := c.Request().Context()
	store := visitorStore(h.Store, c)
	token, _, err := h.Sessions.AccessToken(ctx, store)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	list, err := h.History.List(ctx, store, token)
	if errors.Is(err, remote.ErrUnauthorized) {
		_ = h.Sessions.Logout(ctx, store)
	}
	if list == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load booking history"})
	}
	return c.JSON(http.StatusOK, list)
}
