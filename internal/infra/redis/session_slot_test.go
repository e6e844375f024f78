//go:build !integration

package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pitwall-gateway/internal/domain"

	"github.com/go-redis/redis/v8"
)

// memRedis is a map-backed RedisClient that mimics go-redis' redis.Nil on misses.
type memRedis struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
}

func newMemRedis() *memRedis {
	return &memRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memRedis) Ping(ctx context.Context) error { return nil }
func (m *memRedis) Close() error                   { return nil }

func (m *memRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	m.ttls[key] = expiration
	return nil
}

func (m *memRedis) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return "", m.failGet
	}
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memRedis) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestSessionSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	rc := newMemRedis()
	slot := NewSessionSlot(rc)

	if _, err := slot.Load(ctx, "session_id:http://localhost:8000"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("empty slot: want ErrNotFound, got %v", err)
	}
	if err := slot.Save(ctx, "session_id:http://localhost:8000", "abc123"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if rc.ttls["session_id:http://localhost:8000"] != 0 {
		t.Fatal("session slot must not expire")
	}
	got, err := slot.Load(ctx, "session_id:http://localhost:8000")
	if err != nil || got != "abc123" {
		t.Fatalf("load = %q, %v", got, err)
	}
	if err := slot.Delete(ctx, "session_id:http://localhost:8000"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := slot.Delete(ctx, "session_id:http://localhost:8000"); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}
	if _, err := slot.Load(ctx, "session_id:http://localhost:8000"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("after delete: want ErrNotFound, got %v", err)
	}
}

func TestSessionSlotPropagatesBackendErrors(t *testing.T) {
	rc := newMemRedis()
	rc.failGet = errors.New("connection refused")
	_, err := NewSessionSlot(rc).Load(context.Background(), "k")
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want raw redis error, got %v", err)
	}
}
