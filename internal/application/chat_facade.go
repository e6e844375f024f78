package application

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"pitwall-gateway/internal/domain"
	"pitwall-gateway/internal/domain/model"
	"pitwall-gateway/internal/infra/logging"
	"pitwall-gateway/internal/infra/metrics"
	"pitwall-gateway/internal/usecase"
)

// GenericFailure is returned when something unexpected breaks inside the facade.
const GenericFailure = "internal error - refresh the session"

// ChatFacade is the single entry point UIs and the HTTP shim call.
// It owns request validation; transport and session mechanics live in the usecases.
type ChatFacade struct {
	chat     usecase.ChatUseCase
	sessions usecase.SessionUseCase
	log      *zerolog.Logger
}

func NewChatFacade(chat usecase.ChatUseCase, sessions usecase.SessionUseCase, logger *zerolog.Logger) *ChatFacade {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &ChatFacade{chat: chat, sessions: sessions, log: logger}
}

// Handle is the strict path: it requires an explicit session id and never creates one.
func (f *ChatFacade) Handle(ctx context.Context, req model.ChatRequest) model.ChatResponse {
	return f.SendStrict(ctx, req)
}

func (f *ChatFacade) SendStrict(ctx context.Context, req model.ChatRequest) (resp model.ChatResponse) {
	defer f.recoverInto(ctx, &resp)

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		metrics.IncChatRejected()
		return model.Failure(domain.ErrEmptyPrompt.Error())
	}
	if req.SessionID == "" {
		metrics.IncChatRejected()
		return model.Failure(domain.ErrNoSession.Error())
	}
	return f.chat.SendOrCreate(ctx, prompt, req.SessionID)
}

// SendOrCreate is the lenient path: a missing session id is resolved through
// the session lifecycle, minting one if nothing is cached.
func (f *ChatFacade) SendOrCreate(ctx context.Context, req model.ChatRequest) (resp model.ChatResponse) {
	defer f.recoverInto(ctx, &resp)

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		metrics.IncChatRejected()
		return model.Failure(domain.ErrEmptyPrompt.Error())
	}
	return f.chat.SendOrCreate(ctx, prompt, req.SessionID)
}

func (f *ChatFacade) GetOrCreateSession(ctx context.Context) (string, error) {
	return f.sessions.EnsureSession(ctx)
}

func (f *ChatFacade) RefreshSession(ctx context.Context) (string, error) {
	return f.sessions.RefreshSession(ctx)
}

// GetCurrentSession reads the stored session without touching the network.
func (f *ChatFacade) GetCurrentSession(ctx context.Context) (string, bool) {
	return f.sessions.CurrentSession(ctx).OK()
}

func (f *ChatFacade) SessionState() model.SessionState {
	return f.sessions.State()
}

func (f *ChatFacade) recoverInto(ctx context.Context, resp *model.ChatResponse) {
	if rec := recover(); rec != nil {
		logging.With(ctx, f.log).Error().Interface("panic", rec).Msg("chat facade panic recovered")
		*resp = model.Failure(GenericFailure)
	}
}
