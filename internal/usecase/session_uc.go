// File: internal/usecase/session_uc.go
package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"pitwall-gateway/internal/domain"
	"pitwall-gateway/internal/domain/model"
	"pitwall-gateway/internal/domain/ports/adapter"
	"pitwall-gateway/internal/infra/logging"
	"pitwall-gateway/internal/infra/metrics"
)

// Compile-time check
var _ SessionUseCase = (*sessionUC)(nil)

type SessionUseCase interface {
	// EnsureSession returns the cached session, minting one only when none is stored.
	EnsureSession(ctx context.Context) (string, error)
	// RequestNewSession always mints and persists a session, overwriting any cached one.
	RequestNewSession(ctx context.Context) (string, error)
	// RefreshSession clears the cache, then mints a new session.
	RefreshSession(ctx context.Context) (string, error)
	CurrentSession(ctx context.Context) model.SessionLookup
	State() model.SessionState
}

type sessionUC struct {
	store   *SessionStore
	backend adapter.BackendAdapter
	log     *zerolog.Logger
	dev     bool

	// flight is nil unless single-flight is enabled; without it concurrent
	// issuance calls race and the last write to the store wins.
	flight *singleflight.Group

	mu    sync.Mutex
	state model.SessionState
}

func NewSessionUseCase(store *SessionStore, backend adapter.BackendAdapter, singleFlight bool, logger *zerolog.Logger, devMode bool) *sessionUC {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	s := &sessionUC{store: store, backend: backend, log: logger, dev: devMode, state: model.SessionNone}
	if singleFlight {
		s.flight = &singleflight.Group{}
	}
	if _, ok := store.Get(context.Background()).OK(); ok {
		s.state = model.SessionActive
	}
	return s
}

func (s *sessionUC) EnsureSession(ctx context.Context) (string, error) {
	defer logging.TraceDuration(s.log, "SessionUC.EnsureSession")()

	if id, ok := s.cached(ctx); ok {
		return id, nil
	}
	if s.flight == nil {
		return s.issue(ctx)
	}
	// Re-check inside the flight: a caller that missed the cache just before
	// another flight finished must not mint a second session.
	return s.shared(ctx, "ensure", func(fctx context.Context) (string, error) {
		if id, ok := s.cached(fctx); ok {
			return id, nil
		}
		return s.issue(fctx)
	})
}

func (s *sessionUC) RequestNewSession(ctx context.Context) (string, error) {
	defer logging.TraceDuration(s.log, "SessionUC.RequestNewSession")()
	if s.flight == nil {
		return s.issue(ctx)
	}
	return s.shared(ctx, "issue", s.issue)
}

func (s *sessionUC) RefreshSession(ctx context.Context) (string, error) {
	s.store.Clear(ctx)
	s.setState(model.SessionNone)
	s.log.Info().Msg("session cleared, requesting a new one")
	return s.RequestNewSession(ctx)
}

func (s *sessionUC) CurrentSession(ctx context.Context) model.SessionLookup {
	return s.store.Get(ctx)
}

func (s *sessionUC) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *sessionUC) cached(ctx context.Context) (string, bool) {
	id, ok := s.store.Get(ctx).OK()
	if ok {
		s.setState(model.SessionActive)
		s.log.Debug().Str("session_id", logging.Redact(id, s.dev)).Msg("reusing existing session")
	}
	return id, ok
}

// shared joins or starts the flight for key. The flight runs detached from the
// caller's cancellation, bounded by the backend client timeout, so one caller
// giving up cannot fail the others; each caller still stops waiting on its own ctx.
func (s *sessionUC) shared(ctx context.Context, key string, fn func(context.Context) (string, error)) (string, error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(key, func() (any, error) { return fn(flightCtx) })
	select {
	case <-ctx.Done():
		s.log.Debug().Err(ctx.Err()).Str("flight", key).Msg("caller left session flight")
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			metrics.IncSessionShared()
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// issue performs exactly one remote issuance call and persists the result.
// A failed call leaves the store untouched.
func (s *sessionUC) issue(ctx context.Context) (string, error) {
	s.setState(model.SessionPending)
	s.log.Info().Msg("requesting new session from backend")

	id, err := s.backend.RequestSession(ctx)
	if err != nil {
		s.setState(model.SessionNone)
		metrics.IncSessionIssuance(issuanceResult(err))
		s.log.Error().Err(err).Msg("session request failed")
		return "", err
	}
	metrics.IncSessionIssuance("ok")

	s.store.Set(ctx, id)
	s.setState(model.SessionActive)
	s.log.Info().Str("session_id", logging.Redact(id, s.dev)).Msg("new session created")
	return id, nil
}

func (s *sessionUC) setState(st model.SessionState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func issuanceResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrSessionRequestFailed):
		return "http_error"
	case errors.Is(err, domain.ErrInvalidSessionResponse):
		return "invalid"
	default:
		return "transport"
	}
}
