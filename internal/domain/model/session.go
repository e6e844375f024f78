package model

// SessionState tracks where the client is in obtaining a session.
type SessionState string

const (
	SessionNone    SessionState = "no_session"
	SessionPending SessionState = "pending"
	SessionActive  SessionState = "active"
)

type LookupStatus int

const (
	LookupAbsent LookupStatus = iota
	LookupFound
	LookupUnavailable
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "hit"
	case LookupUnavailable:
		return "unavailable"
	default:
		return "miss"
	}
}

// SessionLookup is the outcome of reading the persisted session slot.
// Unavailable means the storage itself failed, as opposed to holding nothing.
type SessionLookup struct {
	ID     string
	Status LookupStatus
	Err    error
}

func Found(id string) SessionLookup { return SessionLookup{ID: id, Status: LookupFound} }

func Absent() SessionLookup { return SessionLookup{Status: LookupAbsent} }

func Unavailable(err error) SessionLookup {
	return SessionLookup{Status: LookupUnavailable, Err: err}
}

// OK reports the cached id when one is present.
func (l SessionLookup) OK() (string, bool) {
	return l.ID, l.Status == LookupFound && l.ID != ""
}
