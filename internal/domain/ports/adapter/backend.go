package adapter

import "context"

// BackendAdapter is the port for the remote analytics backend.
type BackendAdapter interface {
	// RequestSession mints a new session id.
	RequestSession(ctx context.Context) (string, error)

	// Chat sends one prompt scoped to sessionID and returns the reply text.
	Chat(ctx context.Context, sessionID, prompt string) (string, error)

	// Origin identifies the backend (scheme://host[:port]) for scoping persisted state.
	Origin() string
}
