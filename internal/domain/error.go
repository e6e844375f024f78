package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound = errors.New("entity not found")

	// Local validation, never reaches the network.
	ErrEmptyPrompt = errors.New("empty prompt")
	ErrNoSession   = errors.New("no session")

	// Remote failures.
	ErrSessionRequestFailed   = errors.New("session request failed")
	ErrInvalidSessionResponse = errors.New("invalid session response from server")
	ErrChatHTTP               = errors.New("chat http error")
	ErrTransport              = errors.New("transport error")
)

// StatusError is a non-success HTTP status from the backend. Kind is one of
// ErrSessionRequestFailed or ErrChatHTTP and is what errors.Is matches.
type StatusError struct {
	Kind error
	Code int
}

func (e *StatusError) Error() string {
	if errors.Is(e.Kind, ErrChatHTTP) {
		return fmt.Sprintf("HTTP error! status: %d", e.Code)
	}
	return fmt.Sprintf("%v: status %d", e.Kind, e.Code)
}

func (e *StatusError) Unwrap() error { return e.Kind }

// Transport wraps a lower level network or decoding failure.
func Transport(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrTransport, op, err)
}
