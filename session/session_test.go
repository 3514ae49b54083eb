package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip/models"
)

func TestSlotLoadsOnce(t *testing.T) {
	var s Slot[[]models.Place]
	calls := 0
	load := func(context.Context) ([]models.Place, error) {
		calls++
		return []models.Place{{Name: "Zion"}}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := s.Get(context.Background(), load)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.Equal(t, 1, calls)
}

func TestSlotFailedLoadStaysUnseeded(t *testing.T) {
	var s Slot[models.Settings]
	_, err := s.Get(context.Background(), func(context.Context) (models.Settings, error) {
		return models.Settings{}, errors.New("store down")
	})
	require.Error(t, err)
	_, seeded := s.Peek()
	assert.False(t, seeded)

	got, err := s.Get(context.Background(), func(context.Context) (models.Settings, error) {
		return models.Settings{DepartureDate: "2026-05-01"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-05-01", got.DepartureDate)
}

func TestSlotSetAndReset(t *testing.T) {
	var s Slot[int]
	s.Set(7)
	v, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	s.Reset()
	_, ok = s.Peek()
	assert.False(t, ok)
}

func TestReloadDropsSeededSlots(t *testing.T) {
	s := newSession("id", time.Now())
	s.Places.Set([]models.Place{{Name: "Page"}})
	s.Budget.Set(models.Budget{})
	s.UI.Route = &models.RouteResult{}
	s.UI.ShowSegments = true

	s.Reload()

	_, ok := s.Places.Peek()
	assert.False(t, ok)
	_, ok = s.Budget.Peek()
	assert.False(t, ok)
	assert.Nil(t, s.UI.Route)
	assert.True(t, s.UI.ShowSegments)
}

type memRevoker struct {
	mu  sync.Mutex
	ids map[string]bool
}

func (r *memRevoker) Revoke(_ context.Context, id string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids[id] = true
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ids[id], nil
}

func TestAcquireCreatesOnDemandAndReuses(t *testing.T) {
	m := NewManager(time.Hour, nil)
	ctx := context.Background()

	a, err := m.Acquire(ctx, "abc")
	require.NoError(t, err)
	b, err := m.Acquire(ctx, "abc")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, m.Len())
}

func TestRevokeRefusesID(t *testing.T) {
	rev := &memRevoker{ids: map[string]bool{}}
	m := NewManager(time.Hour, rev)
	ctx := context.Background()

	_, err := m.Acquire(ctx, "abc")
	require.NoError(t, err)
	require.NoError(t, m.Revoke(ctx, "abc"))

	_, err = m.Acquire(ctx, "abc")
	assert.ErrorIs(t, err, ErrRevoked)
	assert.True(t, rev.ids["abc"])
	assert.Zero(t, m.Len())
}

func TestRevocationSharedThroughRevoker(t *testing.T) {
	rev := &memRevoker{ids: map[string]bool{"other-instance": true}}
	m := NewManager(time.Hour, rev)

	_, err := m.Acquire(context.Background(), "other-instance")
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	m := NewManager(time.Hour, nil)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = m.Acquire(ctx, "old")
	now = now.Add(50 * time.Minute)
	_, _ = m.Acquire(ctx, "fresh")
	now = now.Add(20 * time.Minute)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())
}

func TestSweepSkipsLockedSessions(t *testing.T) {
	m := NewManager(time.Minute, nil)
	now := time.Now()
	m.now = func() time.Time { return now }

	s, _ := m.Acquire(context.Background(), "busy")
	s.Lock()
	defer s.Unlock()
	now = now.Add(time.Hour)

	assert.Zero(t, m.Sweep())
	assert.Equal(t, 1, m.Len())
}

func TestSweepForgetsExpiredRevocations(t *testing.T) {
	m := NewManager(time.Minute, nil)
	now := time.Now()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Revoke(ctx, "gone"))
	now = now.Add(2 * time.Minute)
	m.Sweep()

	_, err := m.Acquire(ctx, "gone")
	assert.NoError(t, err)
}
