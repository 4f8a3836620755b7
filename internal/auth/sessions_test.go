package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-booking-client/internal/logging"
	"github.com/iliyamo/movie-booking-client/internal/model"
	"github.com/iliyamo/movie-booking-client/internal/storage"
)

func newClocked(idle time.Duration) (*Sessions, *time.Time) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewSessions(idle, logging.Discard())
	s.now = func() time.Time { return now }
	return s, &now
}

func TestSessions_LoginAndUser(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	s, _ := newClocked(DefaultIdleTimeout)

	_, ok, err := s.AccessToken(ctx, store)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = s.User(ctx, store)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, s.Login(ctx, store, model.AuthUser{Account: "alice", FullName: "Alice", AccessToken: "jwt"}))
	u, err := s.User(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Account)
	assert.Equal(t, "jwt", u.AccessToken)

	raw, err := store.Get(ctx, storage.KeyAuthUser)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "jwt", "token is stored only under its own key")
}

func TestSessions_IdleLoginIsCleared(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	s, now := newClocked(5 * time.Minute)
	require.NoError(t, s.Login(ctx, store, model.AuthUser{Account: "alice", AccessToken: "jwt"}))

	*now = now.Add(4 * time.Minute)
	tok, ok, err := s.AccessToken(ctx, store)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jwt", tok)

	// The previous call touched activity, so another 4 minutes is fine too.
	*now = now.Add(4 * time.Minute)
	_, ok, err = s.AccessToken(ctx, store)
	require.NoError(t, err)
	assert.True(t, ok)

	*now = now.Add(6 * time.Minute)
	_, ok, err = s.AccessToken(ctx, store)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = store.Get(ctx, storage.KeyAccessToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSessions_LogoutKeepsPendingBooking(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	s, _ := newClocked(0)
	require.NoError(t, storage.SavePending(ctx, store, model.PendingBooking{Total: 75000}))
	require.NoError(t, s.Login(ctx, store, model.AuthUser{Account: "alice", AccessToken: "jwt"}))

	require.NoError(t, s.Logout(ctx, store))
	_, ok, err := s.AccessToken(ctx, store)
	require.NoError(t, err)
	assert.False(t, ok)

	p, err := storage.LoadPending(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 75000, p.Total)
}

func TestSessions_LoginRequiresToken(t *testing.T) {
	s, _ := newClocked(0)
	assert.Error(t, s.Login(context.Background(), storage.NewMemory(), model.AuthUser{Account: "alice"}))
}
