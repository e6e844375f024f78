//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"pitwall-gateway/internal/domain/ports/adapter"
	"pitwall-gateway/internal/domain/ports/repository"
)

// =============================
// Adapters
// =============================

// ---- Mock BackendAdapter ----

type MockBackend struct {
	mu sync.Mutex

	// configurable behavior
	Sessions   []string // handed out in order; the last one repeats
	SessionErr error
	ChatReply  string
	ChatErr    error

	// Gate, when set, blocks RequestSession until it is closed or ctx is done.
	Gate chan struct{}

	sessionCalls atomic.Int32
	chatCalls    atomic.Int32
	LastChat     struct{ SessionID, Prompt string }
}

var _ adapter.BackendAdapter = (*MockBackend)(nil)

func (m *MockBackend) Origin() string { return "http://localhost:8000" }

func (m *MockBackend) RequestSession(ctx context.Context) (string, error) {
	n := int(m.sessionCalls.Add(1))
	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.SessionErr != nil {
		return "", m.SessionErr
	}
	if len(m.Sessions) == 0 {
		return "", errors.New("mock backend has no sessions configured")
	}
	if n > len(m.Sessions) {
		n = len(m.Sessions)
	}
	return m.Sessions[n-1], nil
}

func (m *MockBackend) Chat(ctx context.Context, sessionID, prompt string) (string, error) {
	m.chatCalls.Add(1)
	m.mu.Lock()
	m.LastChat.SessionID, m.LastChat.Prompt = sessionID, prompt
	m.mu.Unlock()
	if m.ChatErr != nil {
		return "", m.ChatErr
	}
	return m.ChatReply, nil
}

func (m *MockBackend) SessionCalls() int { return int(m.sessionCalls.Load()) }
func (m *MockBackend) ChatCalls() int    { return int(m.chatCalls.Load()) }

// =============================
// Repositories
// =============================

// brokenSlot fails every operation, like storage that is present but unusable.
type brokenSlot struct{ err error }

var _ repository.SessionSlot = brokenSlot{}

func (b brokenSlot) Load(ctx context.Context, key string) (string, error) { return "", b.err }
func (b brokenSlot) Save(ctx context.Context, key, value string) error    { return b.err }
func (b brokenSlot) Delete(ctx context.Context, key string) error         { return b.err }
