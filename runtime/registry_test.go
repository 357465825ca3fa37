package runtime

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"gridchat/domain"
	"gridchat/resolver"
	"gridchat/roster"
	"gridchat/speakers"
)

func newTestSession(sessionType domain.SessionType) *Session {
	log := slog.Default()
	id := uuid.New()
	manager := speakers.NewManager(log, id)
	names := resolver.NewService(log, nil)
	model := roster.NewModel(log, manager, names, allAvatars{}, uuid.New(), false)
	return &Session{ID: id, Type: sessionType, Manager: manager, Roster: model}
}

type allAvatars struct{}

func (allAvatars) IsAvatar(domain.PeerID) bool { return true }

func TestRegistry_Register_And_Lookup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Given no session exists
	req.Zero(registry.Len())

	// When a session is registered
	session := newTestSession(domain.SessionP2P)
	req.True(registry.Register(session))

	// Then it is visible by ID and in the snapshot
	got, ok := registry.Lookup(session.ID)
	req.True(ok)
	req.Equal(session, got)
	req.Len(registry.Sessions(), 1)
}

func TestRegistry_Register_DuplicateIDKeepsOriginal(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	session := newTestSession(domain.SessionGroup)
	registry.Register(session)

	// When another session claims the same ID
	clone := newTestSession(domain.SessionGroup)
	clone.ID = session.ID
	req.False(registry.Register(clone))

	got, _ := registry.Lookup(session.ID)
	req.Equal(session, got)
}

func TestRegistry_Unregister_ClosesRoster(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	session := newTestSession(domain.SessionNearby)
	registry.Register(session)
	session.Manager.Add(uuid.New())
	req.Equal(1, session.Roster.Len())

	// When the session goes away
	registry.Unregister(session.ID)

	// Then it is gone and the roster detached from its manager
	_, ok := registry.Lookup(session.ID)
	req.False(ok)
	session.Manager.Add(uuid.New())
	req.Zero(session.Roster.Len())
}

func TestRegistry_Unregister_UnknownIDIsNoop(t *testing.T) {
	registry := NewRegistry()
	registry.Unregister(uuid.New())
}
