// Package mq publishes collection-changed events so every open planner can
// reload what the other trip member saved.
package mq

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"roadtrip/models"
)

// Channel carries models.ChangeEvent as JSON.
const Channel = "trip-changes"

// Actions
const (
	ActionSaved   = "saved"
	ActionDeleted = "deleted"
)

// Notifier is what handlers call after a successful save.
type Notifier interface {
	Emit(ctx context.Context, collection, action, sessionID string)
}

type Publisher interface {
	Publish(ctx context.Context, channel string, v any) error
}

type Broadcaster interface {
	Broadcast(data []byte)
}

// Emitter publishes to Redis when it has a publisher, and straight to the
// local hub otherwise.
type Emitter struct {
	pub   Publisher
	local Broadcaster
	now   func() time.Time
}

func NewEmitter(pub Publisher, local Broadcaster) *Emitter {
	return &Emitter{pub: pub, local: local, now: time.Now}
}

func (e *Emitter) Emit(ctx context.Context, collection, action, sessionID string) {
	evt := models.ChangeEvent{
		ID:         uuid.NewString(),
		Collection: collection,
		Action:     action,
		SessionID:  sessionID,
		Timestamp:  e.now().Unix(),
	}

	if e.pub != nil {
		if err := e.pub.Publish(ctx, Channel, evt); err != nil {
			slog.Warn("Failed to publish change event", "collection", collection, "error", err)
		}
		return
	}
	if e.local == nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		slog.Warn("Failed to encode change event", "error", err)
		return
	}
	e.local.Broadcast(data)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Emit(context.Context, string, string, string) {}

// RunWorker forwards events from the Redis subscription to the hub until ctx
// is done.
func RunWorker(ctx context.Context, sub *redis.PubSub, hub Broadcaster) {
	defer sub.Close()
	ch := sub.Channel()
	slog.Info("Listening for change events", "channel", Channel)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var evt models.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				slog.Warn("Dropping malformed change event", "error", err)
				continue
			}
			slog.Debug("Change event", "collection", evt.Collection, "action", evt.Action)
			hub.Broadcast([]byte(msg.Payload))
		}
	}
}
