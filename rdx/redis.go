// Package rdx wraps the Redis connection: the maps lookup cache, session
// revocation keys and the change-feed channel.
package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "revoked:"

type Store struct {
	Conn *redis.Client
}

// Connect accepts either a redis:// URL or a host:port address.
func Connect(ctx context.Context, addr, password string) (*Store, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
		if password != "" {
			opts.Password = password
		}
	} else {
		opts = &redis.Options{Addr: addr, Password: password, DB: 0}
	}

	conn := redis.NewClient(opts)
	if err := conn.Ping(ctx).Err(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{Conn: conn}, nil
}

// New wraps an existing client.
func New(conn *redis.Client) *Store {
	return &Store{Conn: conn}
}

func (s *Store) Close() error {
	return s.Conn.Close()
}

// GetJSON decodes the value at key into out. It reports false when the key
// does not exist.
func (s *Store) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	b, err := s.Conn.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Conn.Set(ctx, key, b, ttl).Err()
}

func (s *Store) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	return s.Conn.Set(ctx, revokedPrefix+id, 1, ttl).Err()
}

func (s *Store) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := s.Conn.Exists(ctx, revokedPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Publish sends v as JSON on channel.
func (s *Store) Publish(ctx context.Context, channel string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Conn.Publish(ctx, channel, b).Err()
}

func (s *Store) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return s.Conn.Subscribe(ctx, channel)
}
