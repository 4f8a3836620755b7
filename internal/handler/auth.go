package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/movie-booking-client/internal/auth"
	"github.com/iliyamo/movie-booking-client/internal/middleware"
	"github.com/iliyamo/movie-booking-client/internal/model"
	"github.com/iliyamo/movie-booking-client/internal/storage"
	"github.com/iliyamo/movie-booking-client/internal/utils"
)

// AuthHandler issues visitor tokens and proxies login and registration to
// the movie API.
type AuthHandler struct {
	Secret   string
	TTL      time.Duration
	API      AccountAPI
	Sessions *auth.Sessions
	Store    storage.Store
	Log      *log.Logger
}

func NewAuthHandler(secret string, ttl time.Duration, api AccountAPI, s *auth.Sessions, store storage.Store, l *log.Logger) *AuthHandler {
	return &AuthHandler{Secret: secret, TTL: ttl, API: api, Sessions: s, Store: store, Log: l}
}

type loginResp struct {
	Visitor utils.VisitorToken `json:"visitor"`
	User    model.AuthUser     `json:"user"`
	// Redirect sends the visitor back to the booking page when a booking
	// was waiting for the login.
	Redirect string `json:"redirect"`
}

// NewVisitor issues a GUEST token for a fresh visitor id.
func (h *AuthHandler) NewVisitor(c echo.Context) error {
	tok, err := utils.NewVisitorToken(h.Secret, utils.NewVisitorID(), utils.RoleGuest, h.TTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusCreated, tok)
}

// Login authenticates against the movie API, stores the remote login for
// the visitor and upgrades the visitor token to MEMBER.  The visitor id is
// kept so the selection and pending booking survive the login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req model.Credentials
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	req.Account = strings.TrimSpace(req.Account)

	ctx := c.Request().Context()
	user, err := h.API.Login(ctx, req)
	if err != nil {
		return remoteFailure(c, err)
	}
	store := visitorStore(h.Store, c)
	if err := h.Sessions.Login(ctx, store, user); err != nil {
		h.Log.Errorj(log.JSON{"event": "login_store_failed", "error": err.Error()})
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "login failed"})
	}

	tok, err := utils.NewVisitorToken(h.Secret, middleware.VisitorID(c), utils.RoleMember, h.TTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	redirect := "/"
	if p, err := storage.LoadPending(ctx, store); err == nil && p.Request.ShowtimeID != "" {
		redirect = "/booking/" + p.Request.ShowtimeID
	} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.Log.Warnj(log.JSON{"event": "pending_load_failed", "error": err.Error()})
	}
	h.Log.Infoj(log.JSON{"event": "login", "visitor_id": middleware.VisitorID(c), "account": user.Account})
	return c.JSON(http.StatusOK, loginResp{Visitor: tok, User: user, Redirect: redirect})
}

// Register creates a remote account.  It does not log the visitor in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req model.Profile
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if req.Password == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": echo.Map{"Password": "required"}})
	}
	p, err := h.API.Register(c.Request().Context(), req)
	if err != nil {
		return remoteFailure(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Logout drops the remote login and hands back a GUEST token for the same
// visitor.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Sessions.Logout(c.Request().Context(), visitorStore(h.Store, c)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	tok, err := utils.NewVisitorToken(h.Secret, middleware.VisitorID(c), utils.RoleGuest, h.TTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{"visitor": tok})
}
