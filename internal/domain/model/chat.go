package model

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry in a caller's transcript. Values are never mutated after NewMessage.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage stamps a message with a ULID, so IDs sort in creation order.
func NewMessage(role Role, content string) ChatMessage {
	return ChatMessage{
		ID:        ulid.Make().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

type ChatRequest struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse is the uniform result of every send. Success is true exactly when Error is empty.
type ChatResponse struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

func Reply(text string) ChatResponse {
	return ChatResponse{Response: text, Success: true}
}

func Failure(msg string) ChatResponse {
	return ChatResponse{Success: false, Error: msg}
}

// Conversation is an append-only, creation-ordered transcript.
type Conversation struct {
	mu       sync.Mutex
	messages []ChatMessage
}

func (c *Conversation) Append(role Role, content string) ChatMessage {
	m := NewMessage(role, content)
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()
	return m
}

// Record appends the assistant side of an exchange. Failures are kept in the log as
// "Error: ..." entries.
func (c *Conversation) Record(resp ChatResponse) ChatMessage {
	if !resp.Success {
		return c.Append(RoleAssistant, "Error: "+resp.Error)
	}
	return c.Append(RoleAssistant, resp.Response)
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Clear() {
	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()
}
