// Package auth keeps the remote login of a visitor: the access token the
// movie API issued, the account it belongs to and the time of the last
// activity.  A login that sat idle longer than the configured timeout is
// discarded on the next use.
package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/movie-booking-client/internal/model"
	"github.com/iliyamo/movie-booking-client/internal/storage"
)

// DefaultIdleTimeout is how long a login survives without activity.
const DefaultIdleTimeout = 5 * time.Minute

// ErrNotLoggedIn is returned by User when there is no live login.
var ErrNotLoggedIn = errors.New("not logged in")

// Sessions reads and writes login state in a visitor scoped store.
type Sessions struct {
	idle time.Duration
	now  func() time.Time
	log  *log.Logger
}

// NewSessions returns a Sessions with the given idle timeout.
func NewSessions(idle time.Duration, l *log.Logger) *Sessions {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	if l == nil {
		l = log.New("auth")
	}
	return &Sessions{idle: idle, now: time.Now, log: l}
}

// Login records a successful remote login.
func (s *Sessions) Login(ctx context.Context, store storage.Store, u model.AuthUser) error {
	if u.AccessToken == "" {
		return errors.New("login response carried no access token")
	}
	if err := store.Set(ctx, storage.KeyAccessToken, []byte(u.AccessToken)); err != nil {
		return err
	}
	if err := storage.SetJSON(ctx, store, storage.KeyAuthUser, u); err != nil {
		return err
	}
	return s.Touch(ctx, store)
}

// Logout forgets the remote login.  Pending bookings and the local booking
// history are kept.
func (s *Sessions) Logout(ctx context.Context, store storage.Store) error {
	return store.Delete(ctx, storage.KeyAccessToken, storage.KeyAuthUser, storage.KeyLastActivity)
}

// Touch records activity now.
func (s *Sessions) Touch(ctx context.Context, store storage.Store) error {
	ms := strconv.FormatInt(s.now().UnixMilli(), 10)
	return store.Set(ctx, storage.KeyLastActivity, []byte(ms))
}

// AccessToken returns the remote token when the login is live and marks
// the visitor active.  An idle login is cleared and reported as absent.
func (s *Sessions) AccessToken(ctx context.Context, store storage.Store) (string, bool, error) {
	tok, err := store.Get(ctx, storage.KeyAccessToken)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && len(tok) == 0) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	live, err := s.live(ctx, store)
	if err != nil {
		return "", false, err
	}
	if !live {
		s.log.Infoj(log.JSON{"event": "login_idle_expired"})
		if err := s.Logout(ctx, store); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	if err := s.Touch(ctx, store); err != nil {
		return "", false, err
	}
	return string(tok), true, nil
}

// User returns the logged in account, or ErrNotLoggedIn.
func (s *Sessions) User(ctx context.Context, store storage.Store) (model.AuthUser, error) {
	tok, ok, err := s.AccessToken(ctx, store)
	if err != nil {
		return model.AuthUser{}, err
	}
	if !ok {
		return model.AuthUser{}, ErrNotLoggedIn
	}
	var u model.AuthUser
	if err := storage.GetJSON(ctx, store, storage.KeyAuthUser, &u); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return model.AuthUser{}, err
	}
	u.AccessToken = tok
	return u, nil
}

func (s *Sessions) live(ctx context.Context, store storage.Store) (bool, error) {
	raw, err := store.Get(ctx, storage.KeyLastActivity)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	ms, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return false, nil
	}
	return s.now().Sub(time.UnixMilli(ms)) <= s.idle, nil
}
