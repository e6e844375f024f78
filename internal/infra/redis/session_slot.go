package redis

import (
	"context"
	"errors"

	"pitwall-gateway/internal/domain"
	"pitwall-gateway/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.SessionSlot = (*SessionSlot)(nil)

// SessionSlot keeps the session id in Redis so several gateway instances share it.
// Keys never expire; only Delete removes them.
type SessionSlot struct {
	client RedisClient
}

func NewSessionSlot(client RedisClient) *SessionSlot {
	return &SessionSlot{client: client}
}

func (s *SessionSlot) Load(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (s *SessionSlot) Save(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0)
}

func (s *SessionSlot) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key)
}
