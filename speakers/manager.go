// Package speakers tracks who is present and audible in one
// conversation session and fans roster-affecting events out to
// listeners. One manager exists per live session.
package speakers

import (
	"log/slog"
	"time"

	"github.com/samber/lo"

	"gridchat/domain"
	"gridchat/domain/event"
)

// Speaker is the manager's live record for one participant.
type Speaker struct {
	Peer         domain.PeerID
	IsModerator  bool
	IsMutedVoice bool
	LastSpoke    time.Time
	Distance     float64
}

// Listener receives the manager's event stream. The roster implements
// it; voice indicators and chat panels subscribe the same way.
type Listener interface {
	OnSpeakerEvent(evt event.SpeakerEvent)
}

// ListenerHandle identifies one subscription.
type ListenerHandle int64

// Manager owns the speaker set for a single session. It lives on the
// logic goroutine; listener callbacks run inline over a snapshot, so a
// listener may unsubscribe itself mid-event.
type Manager struct {
	log     *slog.Logger
	session domain.SessionID

	speakers map[domain.PeerID]*Speaker

	nextHandle ListenerHandle
	listeners  map[ListenerHandle]Listener

	// moderators is the single authoritative set; SetModerators diffs
	// it against the incoming snapshot and emits one delta per change.
	moderators map[domain.PeerID]struct{}
}

func NewManager(log *slog.Logger, session domain.SessionID) *Manager {
	return &Manager{
		log:        log,
		session:    session,
		speakers:   make(map[domain.PeerID]*Speaker),
		listeners:  make(map[ListenerHandle]Listener),
		moderators: make(map[domain.PeerID]struct{}),
	}
}

func (m *Manager) Session() domain.SessionID {
	return m.session
}

func (m *Manager) Subscribe(l Listener) ListenerHandle {
	m.nextHandle++
	m.listeners[m.nextHandle] = l
	return m.nextHandle
}

func (m *Manager) Unsubscribe(h ListenerHandle) {
	delete(m.listeners, h)
}

// Add registers a speaker and announces it. Re-adding a known peer is
// a no-op.
func (m *Manager) Add(peer domain.PeerID) {
	if _, ok := m.speakers[peer]; ok {
		return
	}
	m.speakers[peer] = &Speaker{Peer: peer}
	if _, mod := m.moderators[peer]; mod {
		m.speakers[peer].IsModerator = true
	}
	m.emit(event.SpeakerEvent{Session: m.session, Peer: peer, Kind: event.SpeakerAdded})
}

// Remove drops a speaker. Unknown peers are ignored.
func (m *Manager) Remove(peer domain.PeerID) {
	if _, ok := m.speakers[peer]; !ok {
		return
	}
	delete(m.speakers, peer)
	m.emit(event.SpeakerEvent{Session: m.session, Peer: peer, Kind: event.SpeakerRemoved})
}

// Clear empties the speaker set, e.g. on session teardown.
func (m *Manager) Clear() {
	m.speakers = make(map[domain.PeerID]*Speaker)
	m.emit(event.SpeakerEvent{Session: m.session, Kind: event.SpeakersCleared})
}

// Speaker returns a copy of the current record for peer.
func (m *Manager) Speaker(peer domain.PeerID) (Speaker, bool) {
	s, ok := m.speakers[peer]
	if !ok {
		return Speaker{}, false
	}
	return *s, true
}

func (m *Manager) Peers() []domain.PeerID {
	return lo.Keys(m.speakers)
}

func (m *Manager) Len() int {
	return len(m.speakers)
}

// MarkSpoke records speech activity for peer and announces an update.
func (m *Manager) MarkSpoke(peer domain.PeerID, at time.Time) {
	s, ok := m.speakers[peer]
	if !ok {
		return
	}
	s.LastSpoke = at
	m.emit(event.SpeakerEvent{Session: m.session, Peer: peer, Kind: event.SpeakerUpdated})
}

// SetMuted flips the voice-mute flag for peer.
func (m *Manager) SetMuted(peer domain.PeerID, muted bool) {
	s, ok := m.speakers[peer]
	if !ok || s.IsMutedVoice == muted {
		return
	}
	s.IsMutedVoice = muted
	m.emit(event.SpeakerEvent{Session: m.session, Peer: peer, Kind: event.SpeakerUpdated})
}

// SetDistance updates the world-distance snapshot for peer, used by
// the nearby-chat sort.
func (m *Manager) SetDistance(peer domain.PeerID, metres float64) {
	s, ok := m.speakers[peer]
	if !ok {
		return
	}
	s.Distance = metres
	m.emit(event.SpeakerEvent{Session: m.session, Peer: peer, Kind: event.SpeakerUpdated})
}

// SetModerators replaces the authoritative moderator set. The new
// snapshot is diffed against the previous one and one ModeratorChanged
// event is emitted per delta, in either direction.
func (m *Manager) SetModerators(peers []domain.PeerID) {
	incoming := lo.SliceToMap(peers, func(p domain.PeerID) (domain.PeerID, struct{}) {
		return p, struct{}{}
	})

	for peer := range incoming {
		if _, had := m.moderators[peer]; !had {
			m.setModerator(peer, true)
		}
	}
	for peer := range m.moderators {
		if _, still := incoming[peer]; !still {
			m.setModerator(peer, false)
		}
	}
	m.moderators = incoming
}

func (m *Manager) setModerator(peer domain.PeerID, isModerator bool) {
	if s, ok := m.speakers[peer]; ok {
		s.IsModerator = isModerator
	}
	m.emit(event.SpeakerEvent{
		Session:     m.session,
		Peer:        peer,
		Kind:        event.ModeratorChanged,
		IsModerator: isModerator,
	})
}

func (m *Manager) emit(evt event.SpeakerEvent) {
	for _, l := range lo.Values(m.listeners) {
		l.OnSpeakerEvent(evt)
	}
}
