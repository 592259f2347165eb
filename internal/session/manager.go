package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/nguyentantai21042004/transcript-flow/internal/credential"
)

// Manager owns the live sessions. Idle sessions expire after the TTL and
// take their credential with them.
type Manager struct {
	sessions *cache.Cache
	deps     Deps
	opts     Options
}

// NewManager creates a Manager whose sessions expire after ttl of inactivity.
func NewManager(deps Deps, opts Options, ttl time.Duration) *Manager {
	m := &Manager{
		sessions: cache.New(ttl, ttl/2+time.Minute),
		deps:     deps,
		opts:     opts,
	}
	m.sessions.OnEvicted(func(id string, _ interface{}) {
		ctx := context.Background()
		if err := credential.NewGate(deps.Store, id).Clear(ctx); err != nil {
			deps.Logger.Warn(ctx, "Session %s: clear credential on expiry: %v", id, err)
		}
	})
	return m
}

// Create starts a new session with a random id.
func (m *Manager) Create() *Session {
	sess := New(uuid.NewString(), m.deps, m.opts)
	m.sessions.Set(sess.ID(), sess, cache.DefaultExpiration)
	return sess
}

// Get returns the session and refreshes its expiry.
func (m *Manager) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	x, ok := m.sessions.Get(id)
	if !ok {
		return nil, false
	}
	m.sessions.Set(id, x, cache.DefaultExpiration)
	return x.(*Session), true
}

// GetOrCreate returns the session for id, creating a new one when it is
// unknown or expired. created reports whether a new session was made.
func (m *Manager) GetOrCreate(id string) (sess *Session, created bool) {
	if sess, ok := m.Get(id); ok {
		return sess, false
	}
	return m.Create(), true
}

// End drops the session and its credential.
func (m *Manager) End(id string) {
	m.sessions.Delete(id)
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	return m.sessions.ItemCount()
}
