// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"pitwall-gateway/internal/domain"
	"pitwall-gateway/internal/domain/model"
	"pitwall-gateway/internal/domain/ports/adapter"
	"pitwall-gateway/internal/infra/logging"
	"pitwall-gateway/internal/infra/metrics"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

type ChatUseCase interface {
	// SendOrCreate sends prompt under sessionID, or under the ensured session when
	// sessionID is empty. It never returns an error; failures come back tagged.
	SendOrCreate(ctx context.Context, prompt, sessionID string) model.ChatResponse
}

type chatUC struct {
	backend  adapter.BackendAdapter
	sessions SessionUseCase
	log      *zerolog.Logger
	devMode  bool
}

func NewChatUseCase(backend adapter.BackendAdapter, sessions SessionUseCase, logger *zerolog.Logger, devMode bool) *chatUC {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &chatUC{backend: backend, sessions: sessions, log: logger, devMode: devMode}
}

func (c *chatUC) SendOrCreate(ctx context.Context, prompt, sessionID string) model.ChatResponse {
	defer logging.TraceDuration(c.log, "ChatUC.SendOrCreate")()
	start := time.Now()

	sid := sessionID
	if sid == "" {
		var err error
		if sid, err = c.sessions.EnsureSession(ctx); err != nil {
			c.log.Error().Err(err).Msg("resolve session")
			metrics.ObserveChat("session_error", time.Since(start))
			return model.Failure(err.Error())
		}
	}

	ctx = logging.WithSessID(ctx, logging.Redact(sid, c.devMode))
	l := logging.With(ctx, c.log)

	reply, err := c.backend.Chat(ctx, sid, prompt)
	if err != nil {
		l.Error().Err(err).Msg("send message")
		metrics.ObserveChat(chatOutcome(err), time.Since(start))
		return model.Failure(err.Error())
	}
	metrics.ObserveChat("ok", time.Since(start))
	l.Debug().Int("reply_len", len(reply)).Msg("reply received")
	return model.Reply(reply)
}

func chatOutcome(err error) string {
	if errors.Is(err, domain.ErrChatHTTP) {
		return "http_error"
	}
	return "transport"
}
