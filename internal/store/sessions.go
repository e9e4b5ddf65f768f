package store

import "sync"

// SessionRegistry owns the binding between a live connection's session id
// and its user identity. All operations are total: binding an already-bound
// session overwrites, unbinding an unknown session is a no-op.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]string)}
}

func (r *SessionRegistry) Bind(sessionID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = userID
}

func (r *SessionRegistry) Lookup(sessionID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userID, ok := r.sessions[sessionID]
	return userID, ok
}

func (r *SessionRegistry) Unbind(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}
