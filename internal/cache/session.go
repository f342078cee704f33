package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wanderlust/wanderlust/internal/auth"
	"github.com/wanderlust/wanderlust/internal/model"
)

// sessionPrefix is the Redis key prefix for sessions. The suffix is the
// SHA-256 of the session id, never the id itself.
const sessionPrefix = "session:"

var (
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when saving a session past its lifetime.
	ErrSessionExpired = errors.New("session expired")
)

func sessionKey(id string) string {
	return sessionPrefix + auth.StorageKey(id)
}

// GetSession loads a session by its cookie id.
func (c *Cache) GetSession(ctx context.Context, id string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Corrupted entry - treat as missing
		return nil, ErrSessionNotFound
	}
	sess.ID = id

	return &sess, nil
}

// SaveSession writes the session under its id. Existing keys keep their
// expiry; a key written for the first time expires ttl after the session
// was created, so rotated ids inherit the original deadline.
func (c *Cache) SaveSession(ctx context.Context, sess *model.Session, ttl time.Duration) error {
	if sess.ID == "" {
		return fmt.Errorf("save session: %w", auth.ErrInvalidSessionID)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := sessionKey(sess.ID)

	err = c.client.SetArgs(ctx, key, data, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, redis.Nil) {
		return fmt.Errorf("update session: %w", err)
	}

	remaining := remainingLifetime(sess.CreatedAt, ttl, time.Now())
	if remaining <= 0 {
		return ErrSessionExpired
	}

	if err := c.client.Set(ctx, key, data, remaining).Err(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// DeleteSession removes a session. Unknown ids are ignored.
func (c *Cache) DeleteSession(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// remainingLifetime returns how long a session created at createdAt has
// left to live at now. Sessions without a creation time get the full ttl.
func remainingLifetime(createdAt time.Time, ttl time.Duration, now time.Time) time.Duration {
	if createdAt.IsZero() {
		return ttl
	}
	return createdAt.Add(ttl).Sub(now)
}
