// Package runtime wires the conversation core together: the session
// registry, the logic loop driving the relationship tracker, and the
// supervised workers. It orchestrates without containing domain rules.
package runtime

import (
	"sync"

	"gridchat/domain"
	"gridchat/roster"
	"gridchat/speakers"
)

// Session bundles one live conversation's speaker manager and roster.
type Session struct {
	ID      domain.SessionID
	Type    domain.SessionType
	Manager *speakers.Manager
	Roster  *roster.Model
}

// Registry maps session IDs to their live Session. Unregistering
// closes the roster, so late async completions addressed at a dead
// session no-op instead of dereferencing freed state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[domain.SessionID]*Session)}
}

// Register adds a session. An existing session with the same ID is
// left untouched and reported.
func (r *Registry) Register(session *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; ok {
		return false
	}
	r.sessions[session.ID] = session
	return true
}

// Lookup returns the live session for id, if any.
func (r *Registry) Lookup(id domain.SessionID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

// Unregister tears a session down: the roster is closed (detaching it
// from the speaker manager) and the entry removed. Unknown IDs are a
// no-op.
func (r *Registry) Unregister(id domain.SessionID) {
	r.mu.Lock()
	session, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		session.Roster.Close()
	}
}

// Sessions returns a snapshot of the live sessions.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
