package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip/models"
)

type recordingPublisher struct {
	channel string
	events  []models.ChangeEvent
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, v any) error {
	p.channel = channel
	p.events = append(p.events, v.(models.ChangeEvent))
	return p.err
}

type recordingHub struct{ msgs [][]byte }

func (h *recordingHub) Broadcast(data []byte) { h.msgs = append(h.msgs, data) }

func TestEmitPublishesToRedis(t *testing.T) {
	pub := &recordingPublisher{}
	hub := &recordingHub{}
	e := NewEmitter(pub, hub)
	e.now = func() time.Time { return time.Unix(1700000000, 0) }

	e.Emit(context.Background(), "places", ActionSaved, "sess-1")

	assert.Equal(t, Channel, pub.channel)
	require.Len(t, pub.events, 1)
	evt := pub.events[0]
	assert.Equal(t, "places", evt.Collection)
	assert.Equal(t, ActionSaved, evt.Action)
	assert.Equal(t, "sess-1", evt.SessionID)
	assert.EqualValues(t, 1700000000, evt.Timestamp)
	assert.NotEmpty(t, evt.ID)
	// the worker delivers to the hub, not the emitter
	assert.Empty(t, hub.msgs)
}

func TestEmitWithoutRedisBroadcastsLocally(t *testing.T) {
	hub := &recordingHub{}
	e := NewEmitter(nil, hub)

	e.Emit(context.Background(), "budget", ActionDeleted, "sess-2")

	require.Len(t, hub.msgs, 1)
	var evt models.ChangeEvent
	require.NoError(t, json.Unmarshal(hub.msgs[0], &evt))
	assert.Equal(t, "budget", evt.Collection)
	assert.Equal(t, ActionDeleted, evt.Action)
}

func TestEmitPublishErrorIsNotFatal(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("redis down")}
	e := NewEmitter(pub, nil)
	assert.NotPanics(t, func() { e.Emit(context.Background(), "hotels", ActionSaved, "s") })
}
