package repository

import "context"

// StorageKey is the fixed name of the persisted session slot.
const StorageKey = "session_id"

// SlotKey scopes StorageKey to one backend origin.
func SlotKey(origin string) string {
	return StorageKey + ":" + origin
}

// SessionSlot is a durable key-value slot holding at most one session id per key.
// Load returns domain.ErrNotFound when the key holds nothing.
type SessionSlot interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
