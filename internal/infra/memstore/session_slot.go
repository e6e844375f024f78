// Package memstore is a process-local SessionSlot for tests and throwaway runs.
package memstore

import (
	"context"
	"sync"

	"pitwall-gateway/internal/domain"
	"pitwall-gateway/internal/domain/ports/repository"
)

var _ repository.SessionSlot = (*SessionSlot)(nil)

type SessionSlot struct {
	mu   sync.Mutex
	data map[string]string
}

func NewSessionSlot() *SessionSlot {
	return &SessionSlot{data: map[string]string{}}
}

func (s *SessionSlot) Load(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok || v == "" {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (s *SessionSlot) Save(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
	return nil
}

func (s *SessionSlot) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
