// Package session maps connection ids to the identity a client declared in
// its authenticate handshake. A session is ephemeral: it lives exactly as
// long as its transport connection and is never persisted.
package session

import "sync"

// Session is the identity bound to one connection.
type Session struct {
	ConnID   string
	UserID   string
	UserName string
}

// Registry tracks sessions by connection id. Multiple read pumps touch the
// registry concurrently, so access is guarded by an RWMutex.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewRegistry creates an empty registry. It is created once at process start
// and passed by reference into each connection handler.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Session),
	}
}

// Authenticate stores the identity mapping unconditionally, overwriting any
// prior entry for the connection. No identity check happens here; validation
// is deferred to per-operation authorization.
func (r *Registry) Authenticate(connID, userID, userName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[connID] = Session{
		ConnID:   connID,
		UserID:   userID,
		UserName: userName,
	}
}

// Lookup returns the session for a connection. Callers must tolerate a
// missing session by omitting identity fields from broadcasts rather than
// failing.
func (r *Registry) Lookup(connID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	return s, ok
}

// Remove deletes the session for a connection. It runs only on disconnect;
// a new transport connection always starts unauthenticated.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, connID)
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
