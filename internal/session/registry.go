package session

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/movie-booking-client/internal/model"
	"github.com/iliyamo/movie-booking-client/internal/seatmap"
)

// ExpiredLinger is how long an expired session stays readable before the
// registry closes and forgets it.
const ExpiredLinger = 2 * time.Minute

// Registry owns the active session of every visitor.  A visitor has at most
// one session; entering a showtime closes whatever session came before.
// Sessions whose hold expired are evicted after the linger period.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	linger   time.Duration
	builder  *seatmap.Builder
	opts     []Option
	log      *log.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewRegistry builds grids with b and passes opts to every new session.
func NewRegistry(b *seatmap.Builder, l *log.Logger, opts ...Option) *Registry {
	if b == nil {
		b = seatmap.NewBuilder()
	}
	if l == nil {
		l = log.New("registry")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		sessions: make(map[string]*Session),
		linger:   ExpiredLinger,
		builder:  b,
		opts:     append([]Option{WithLogger(l)}, opts...),
		log:      l,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Enter starts a session for visitorID on the showtime described by info
// and raw, arms its timer and starts ticking it.
func (r *Registry) Enter(visitorID string, info model.ShowtimeContext, raw []model.RawSeat) *Session {
	sess := New(visitorID, info, r.builder.Build(raw), r.opts...)
	sess.Start()

	r.mu.Lock()
	prev := r.sessions[visitorID]
	r.sessions[visitorID] = sess
	linger := r.linger
	r.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	go r.watch(visitorID, sess, linger)
	r.log.Infoj(log.JSON{"event": "session_entered", "visitor_id": visitorID, "showtime": info.ShowtimeID})
	return sess
}

// SetExpiredLinger changes the linger of sessions entered from now on.
func (r *Registry) SetExpiredLinger(d time.Duration) {
	r.mu.Lock()
	r.linger = d
	r.mu.Unlock()
}

// watch runs sess until it ends.  An expired session lingers so the visitor
// can still read its state, then it is closed and evicted.
func (r *Registry) watch(visitorID string, sess *Session, linger time.Duration) {
	sess.Run(r.ctx)
	if !sess.Closed() && r.ctx.Err() == nil {
		t := time.NewTimer(linger)
		select {
		case <-t.C:
		case <-sess.Done():
		case <-r.ctx.Done():
		}
		t.Stop()
	}
	sess.Close()
	r.forget(visitorID, sess)
}

// forget drops sess when it is still the visitor's current session.
func (r *Registry) forget(visitorID string, sess *Session) {
	r.mu.Lock()
	evicted := r.sessions[visitorID] == sess
	if evicted {
		delete(r.sessions, visitorID)
	}
	r.mu.Unlock()
	if evicted {
		r.log.Infoj(log.JSON{"event": "session_evicted", "visitor_id": visitorID})
	}
}

// Get returns the open session of visitorID.  Closed sessions are dropped
// on the way.
func (r *Registry) Get(visitorID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[visitorID]
	if !ok {
		return nil, false
	}
	if sess.Closed() {
		delete(r.sessions, visitorID)
		return nil, false
	}
	return sess, true
}

// Leave closes and forgets the session of visitorID.  It reports whether
// there was one.
func (r *Registry) Leave(visitorID string) bool {
	r.mu.Lock()
	sess, ok := r.sessions[visitorID]
	delete(r.sessions, visitorID)
	r.mu.Unlock()
	if !ok {
		return false
	}
	sess.Close()
	r.log.Infoj(log.JSON{"event": "session_left", "visitor_id": visitorID})
	return true
}

// Len is the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Shutdown closes every session and stops their tickers.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
	r.cancel()
}
