package services

import (
	"gridchat/domain"
	"gridchat/runtime"
)

// SessionService is the conversation panel's entry point for opening
// and closing chat sessions.
type SessionService struct {
	coordinator *runtime.Coordinator
}

func NewSessionService(coordinator *runtime.Coordinator) *SessionService {
	return &SessionService{coordinator: coordinator}
}

// Open creates a session of the given type and seeds its speaker set.
func (s *SessionService) Open(sessionType domain.SessionType, peers ...domain.PeerID) *runtime.Session {
	session := s.coordinator.OpenSession(sessionType)
	for _, peer := range peers {
		session.Manager.Add(peer)
	}
	return session
}

// Close tears the session down; unknown IDs are benign.
func (s *SessionService) Close(id domain.SessionID) {
	s.coordinator.CloseSession(id)
}

// Lookup returns a live session.
func (s *SessionService) Lookup(id domain.SessionID) (*runtime.Session, bool) {
	return s.coordinator.Session(id)
}
