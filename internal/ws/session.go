package ws

import (
	"sync"
	"time"
)

// SessionState tracks a connection through its lifecycle. Disconnected is
// terminal; the transition into it fires exactly once per session no matter
// how many disconnect signals arrive.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateConnected
	StateSubscribed
	StateDisconnected
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateConnected:
		return "connected"
	case StateSubscribed:
		return "subscribed"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Session is the registry entry for one live connection. Live handles stay
// out of it; lookups go through the registry by id.
type Session struct {
	ID          string
	ChatroomID  int64
	MemberID    int64
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time

	mu    sync.Mutex
	state SessionState
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transition moves the session forward through the lifecycle. Returns false
// for an illegal move; in particular a second transition to Disconnected.
func (s *Session) Transition(to SessionState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch to {
	case StateConnected:
		if s.state != StateUnauthenticated {
			return false
		}
	case StateSubscribed:
		if s.state != StateConnected {
			return false
		}
	case StateDisconnected:
		if s.state == StateDisconnected {
			return false
		}
	default:
		return false
	}
	s.state = to
	return true
}

// Registry maps opaque session ids to session metadata.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register stores the session under its id.
func (r *Registry) Register(session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
}

// Get looks a session up by id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

// Remove drops a session from the registry.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports how many sessions are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
