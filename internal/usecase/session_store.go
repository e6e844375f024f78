// File: internal/usecase/session_store.go
package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"pitwall-gateway/internal/domain"
	"pitwall-gateway/internal/domain/model"
	"pitwall-gateway/internal/domain/ports/repository"
	"pitwall-gateway/internal/infra/logging"
	"pitwall-gateway/internal/infra/metrics"
)

// SessionStore is a best-effort cache of the current session id.
// A missing or broken slot never fails a caller; a new session can always be requested.
type SessionStore struct {
	slot repository.SessionSlot // nil: no storage context
	key  string
	log  *zerolog.Logger
	dev  bool
}

func NewSessionStore(slot repository.SessionSlot, origin string, logger *zerolog.Logger, devMode bool) *SessionStore {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &SessionStore{slot: slot, key: repository.SlotKey(origin), log: logger, dev: devMode}
}

var errNoStorage = errors.New("no storage context")

func (s *SessionStore) Get(ctx context.Context) model.SessionLookup {
	l := s.lookup(ctx)
	metrics.IncCacheRequest("session", l.Status.String())
	return l
}

func (s *SessionStore) lookup(ctx context.Context) model.SessionLookup {
	if s.slot == nil {
		s.log.Debug().Msg("no session storage available")
		return model.Unavailable(errNoStorage)
	}
	id, err := s.slot.Load(ctx, s.key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return model.Absent()
	case err != nil:
		s.log.Error().Err(err).Str("key", s.key).Msg("read session slot")
		return model.Unavailable(err)
	}
	s.log.Debug().Str("session_id", logging.Redact(id, s.dev)).Msg("session read from slot")
	return model.Found(id)
}

func (s *SessionStore) Set(ctx context.Context, id string) {
	if id == "" {
		s.Clear(ctx)
		return
	}
	if s.slot == nil {
		s.log.Debug().Msg("no session storage available, session not persisted")
		return
	}
	if err := s.slot.Save(ctx, s.key, id); err != nil {
		s.log.Error().Err(err).Str("key", s.key).Msg("persist session")
		return
	}
	s.log.Debug().Str("session_id", logging.Redact(id, s.dev)).Msg("session persisted")
}

func (s *SessionStore) Clear(ctx context.Context) {
	if s.slot == nil {
		return
	}
	if err := s.slot.Delete(ctx, s.key); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("clear session slot")
	}
}
