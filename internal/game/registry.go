package game

import "sync"

// Registry maps a chat ID to its single active session. Entries are created
// on /new and removed on finalize-success or cancel; there is no expiry.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*Session)}
}

// Get returns the active session for a chat, if any.
func (r *Registry) Get(chatID int64) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[chatID]
	return s, ok
}

// Put installs the session for a chat and reports whether an existing session
// was replaced.
func (r *Registry) Put(chatID int64, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, replaced := r.sessions[chatID]
	r.sessions[chatID] = s
	return replaced
}

// Delete removes the session for a chat.
func (r *Registry) Delete(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, chatID)
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
