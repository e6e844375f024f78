package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"pitwall-gateway/internal/domain"
	"pitwall-gateway/internal/domain/model"
)

const (
	serverFailure = "server telemetry error"
	maxBodyBytes  = 1 << 20
)

// ChatService is the subset of the chat facade the HTTP shim needs.
type ChatService interface {
	Handle(ctx context.Context, req model.ChatRequest) model.ChatResponse
	GetOrCreateSession(ctx context.Context) (string, error)
	RefreshSession(ctx context.Context) (string, error)
	GetCurrentSession(ctx context.Context) (string, bool)
	SessionState() model.SessionState
}

type Options struct {
	RequestTimeout time.Duration
	// Auth guards /api routes when non-nil.
	Auth *BearerAuth
}

// Server exposes the chat facade over JSON.
type Server struct {
	chat ChatService
	log  *zerolog.Logger
	opts Options
}

func NewServer(chat ChatService, logger *zerolog.Logger, opts Options) *Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Server{chat: chat, log: logger, opts: opts}
}

type messageBody struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type errorBody struct {
	Error string `json:"error"`
}

type sessionBody struct {
	SessionID string             `json:"sessionId,omitempty"`
	State     model.SessionState `json:"state"`
	Error     string             `json:"error,omitempty"`
}

// Router builds the full handler tree including middlewares.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(Timeout(s.opts.RequestTimeout), s.opts.Auth.Middleware())
		r.Post("/chat", s.handleChat)
		r.Get("/session", s.handleCurrentSession)
		r.Post("/session", s.handleEnsureSession)
		r.Post("/session/refresh", s.handleRefreshSession)
	})
	return r
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.log.Warn().Err(err).Msg("chat: unreadable request body")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: serverFailure})
		return
	}
	resp := s.chat.Handle(r.Context(), req)
	if !resp.Success {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: resp.Error})
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: resp.Response, Success: true})
}

func (s *Server) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.chat.GetCurrentSession(r.Context())
	if !ok {
		writeJSON(w, http.StatusNotFound, sessionBody{State: s.chat.SessionState(), Error: domain.ErrNoSession.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessionBody{SessionID: id, State: s.chat.SessionState()})
}

func (s *Server) handleEnsureSession(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w, r, s.chat.GetOrCreateSession)
}

func (s *Server) handleRefreshSession(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w, r, s.chat.RefreshSession)
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, fn func(context.Context) (string, error)) {
	id, err := fn(r.Context())
	if err != nil {
		writeJSON(w, sessionErrorStatus(err), sessionBody{State: s.chat.SessionState(), Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessionBody{SessionID: id, State: s.chat.SessionState()})
}

// sessionErrorStatus maps upstream issuance failures to gateway statuses.
func sessionErrorStatus(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrSessionRequestFailed),
		errors.Is(err, domain.ErrInvalidSessionResponse),
		errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
