package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/wanderlust/wanderlust/internal/blob"
	"github.com/wanderlust/wanderlust/internal/cache"
	"github.com/wanderlust/wanderlust/internal/model"
)

// MemorySessions is an in-memory session store.
type MemorySessions struct {
	mu       sync.Mutex
	sessions map[string]model.Session
}

// NewMemorySessions creates an empty session store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]model.Session)}
}

// GetSession returns a copy of the stored session.
func (m *MemorySessions) GetSession(ctx context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, cache.ErrSessionNotFound
	}
	s.ID = id
	s.Flash = copyFlash(s.Flash)
	// A decoded session carries no change tracking.
	s.MarkSaved()
	return &s, nil
}

// SaveSession stores a copy of sess.
func (m *MemorySessions) SaveSession(ctx context.Context, sess *model.Session, ttl time.Duration) error {
	if sess.ID == "" {
		return errors.New("save session: empty id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *sess
	c.Flash = copyFlash(sess.Flash)
	m.sessions[sess.ID] = c
	return nil
}

// DeleteSession removes a session.
func (m *MemorySessions) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Put stores sess under id. Used to seed tests.
func (m *MemorySessions) Put(id string, sess *model.Session) {
	sess.ID = id
	_ = m.SaveSession(context.Background(), sess, time.Hour)
}

// Len returns the number of stored sessions.
func (m *MemorySessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func copyFlash(in map[model.FlashKind][]string) map[model.FlashKind][]string {
	if in == nil {
		return nil
	}
	out := make(map[model.FlashKind][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// MemoryBlobs is an in-memory blob store that records releases.
type MemoryBlobs struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	released []string
	next     int

	// ReleaseErr, when set, is returned by Release.
	ReleaseErr error
	// StoreErr, when set, is returned by Store.
	StoreErr error
}

var _ blob.Store = (*MemoryBlobs)(nil)

// NewMemoryBlobs creates an empty blob store.
func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{blobs: make(map[string][]byte)}
}

// Store keeps the bytes under a sequential filename.
func (m *MemoryBlobs) Store(ctx context.Context, r io.Reader, meta blob.Metadata) (model.Image, error) {
	if m.StoreErr != nil {
		return model.Image{}, m.StoreErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Image{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	name := fmt.Sprintf("blob-%d.%s", m.next, meta.Format)
	m.blobs[name] = data
	return model.Image{URL: "/uploads/" + name, Filename: name}, nil
}

// Release deletes the blob and records the call.
func (m *MemoryBlobs) Release(ctx context.Context, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = append(m.released, filename)
	if m.ReleaseErr != nil {
		return m.ReleaseErr
	}
	delete(m.blobs, filename)
	return nil
}

// Open returns the stored bytes.
func (m *MemoryBlobs) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[filename]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Released returns the filenames passed to Release, in order.
func (m *MemoryBlobs) Released() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.released...)
}

// Has reports whether filename is stored.
func (m *MemoryBlobs) Has(filename string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[filename]
	return ok
}

// StaticRateLimiter allows the first Allow calls per scope and ip, then denies.
type StaticRateLimiter struct {
	mu    sync.Mutex
	Allow int
	seen  map[string]int
}

// CheckIPRateLimit implements the rate limiter used by middleware.
func (l *StaticRateLimiter) CheckIPRateLimit(ctx context.Context, scope, ip string, ratePerMinute, burst int) (*cache.RateLimitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen == nil {
		l.seen = make(map[string]int)
	}
	key := scope + "|" + ip
	l.seen[key]++
	if l.seen[key] > l.Allow {
		return &cache.RateLimitResult{Allowed: false, RetryAfter: 30 * time.Second}, nil
	}
	return &cache.RateLimitResult{Allowed: true, Remaining: int64(l.Allow - l.seen[key])}, nil
}
