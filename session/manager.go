package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"roadtrip/metrics"
)

var ErrRevoked = errors.New("session revoked")

// Revoker shares logouts beyond this process.
type Revoker interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// Manager keeps sessions in memory by id.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	revoked  map[string]time.Time
	ttl      time.Duration
	revoker  Revoker
	now      func() time.Time
}

// NewManager returns a manager expiring sessions idle for longer than ttl.
// revoker may be nil.
func NewManager(ttl time.Duration, revoker Revoker) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		revoked:  make(map[string]time.Time),
		ttl:      ttl,
		revoker:  revoker,
		now:      time.Now,
	}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// NewID returns a fresh session id.
func (m *Manager) NewID() string {
	return uuid.NewString()
}

// Acquire returns the session for id, creating it if this process has not seen
// it yet (a restart drops in-memory sessions but not tokens).
func (m *Manager) Acquire(ctx context.Context, id string) (*Session, error) {
	if m.isRevoked(ctx, id) {
		return nil, ErrRevoked
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	s, ok := m.sessions[id]
	if !ok {
		s = newSession(id, now)
		m.sessions[id] = s
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
		slog.Debug("Session created", "session", id)
	}
	s.lastSeen = now
	return s, nil
}

func (m *Manager) isRevoked(ctx context.Context, id string) bool {
	m.mu.Lock()
	until, ok := m.revoked[id]
	m.mu.Unlock()
	if ok && m.now().Before(until) {
		return true
	}
	if m.revoker == nil {
		return false
	}
	revoked, err := m.revoker.IsRevoked(ctx, id)
	if err != nil {
		slog.Warn("Revocation check failed", "session", id, "error", err)
		return false
	}
	return revoked
}

// Revoke drops the session and refuses its id until the token would have
// expired anyway.
func (m *Manager) Revoke(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.revoked[id] = m.now().Add(m.ttl)
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	if m.revoker != nil {
		if err := m.revoker.Revoke(ctx, id, m.ttl); err != nil {
			return err
		}
	}
	return nil
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes idle sessions and expired revocations. Sessions in use are
// skipped.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) <= m.ttl {
			continue
		}
		if !s.mu.TryLock() {
			continue
		}
		delete(m.sessions, id)
		s.mu.Unlock()
		removed++
	}
	for id, until := range m.revoked {
		if !now.Before(until) {
			delete(m.revoked, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return removed
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				slog.Info("Expired idle sessions", "count", n)
			}
		}
	}
}
