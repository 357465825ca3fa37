// Package roster maintains one conversation session's participant
// list, fed by the session's speaker manager, and exposes a sorted
// view for the conversation panel.
package roster

import (
	"log/slog"
	"time"

	"github.com/samber/lo"

	"gridchat/contract"
	"gridchat/domain"
	"gridchat/domain/event"
	"gridchat/speakers"
)

// Model is the roster for a single session. It tolerates out-of-order
// add/remove/update delivery: any event referencing an unknown peer is
// a silent no-op, never an error. It lives on the logic goroutine.
type Model struct {
	log       *slog.Logger
	session   domain.SessionID
	manager   *speakers.Manager
	resolver  contract.NameResolver
	avatars   contract.AvatarChecker
	localUser domain.PeerID

	participants map[domain.PeerID]*domain.Participant
	sorted       []domain.PeerID
	nextIndex    int

	order       domain.SortOrder
	pinLocalTop bool

	// suspended is consulted before any real reorder; while the view
	// reports active pointer interaction, resorting is deferred to
	// avoid rows jumping under the cursor.
	suspended   func() bool
	pendingSort bool

	closed bool
	handle speakers.ListenerHandle
}

// NewModel builds a roster bound to a session's speaker manager and
// subscribes to its event stream.
func NewModel(log *slog.Logger, manager *speakers.Manager, resolver contract.NameResolver,
	avatars contract.AvatarChecker, localUser domain.PeerID, pinLocalTop bool) *Model {
	m := &Model{
		log:          log,
		session:      manager.Session(),
		manager:      manager,
		resolver:     resolver,
		avatars:      avatars,
		localUser:    localUser,
		participants: make(map[domain.PeerID]*domain.Participant),
		order:        domain.SortByRecentSpeaker,
		pinLocalTop:  pinLocalTop,
		suspended:    func() bool { return false },
	}
	m.handle = manager.Subscribe(m)
	return m
}

// Close detaches the roster from its speaker manager. Late async
// completions (name resolution still in flight) find the model closed
// and no-op; there is no cancellation of the fetch itself.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.manager.Unsubscribe(m.handle)
	m.participants = make(map[domain.PeerID]*domain.Participant)
	m.sorted = nil
}

func (m *Model) Session() domain.SessionID {
	return m.session
}

func (m *Model) Len() int {
	return len(m.participants)
}

// Participant returns a copy of the record for peer.
func (m *Model) Participant(peer domain.PeerID) (domain.Participant, bool) {
	p, ok := m.participants[peer]
	if !ok {
		return domain.Participant{}, false
	}
	return *p, true
}

// Sorted returns the roster in display order.
func (m *Model) Sorted() []domain.Participant {
	return lo.Map(m.sorted, func(peer domain.PeerID, _ int) domain.Participant {
		return *m.participants[peer]
	})
}

// SetInteractionGuard installs the capability query consulted before
// any reorder. A nil guard lifts the suspension.
func (m *Model) SetInteractionGuard(guard func() bool) {
	if guard == nil {
		guard = func() bool { return false }
	}
	m.suspended = guard
}

// SetSortOrder switches the comparator and reorders immediately.
func (m *Model) SetSortOrder(order domain.SortOrder) {
	m.order = order
	m.Resort()
}

func (m *Model) SortOrder() domain.SortOrder {
	return m.order
}

// OnSpeakerEvent is the speaker manager's listener entry point.
func (m *Model) OnSpeakerEvent(evt event.SpeakerEvent) {
	if m.closed {
		return
	}
	switch evt.Kind {
	case event.SpeakerAdded:
		m.onAdded(evt.Peer)
	case event.SpeakerRemoved:
		m.onRemoved(evt.Peer)
	case event.SpeakersCleared:
		m.onCleared()
	case event.SpeakerUpdated:
		m.onUpdated(evt.Peer)
	case event.ModeratorChanged:
		m.onModeratorChanged(evt.Peer, evt.IsModerator)
	}
}

func (m *Model) onAdded(peer domain.PeerID) {
	if _, ok := m.participants[peer]; ok {
		return
	}

	kind := domain.KindBridge
	if m.avatars.IsAvatar(peer) {
		kind = domain.KindAvatar
	}

	m.nextIndex++
	p := &domain.Participant{
		ID:          peer,
		Kind:        kind,
		DisplayName: domain.NamePending,
		SortIndex:   m.nextIndex,
	}
	if s, ok := m.manager.Speaker(peer); ok {
		p.IsModerator = s.IsModerator
		p.IsMutedVoice = s.IsMutedVoice
		p.LastSpoke = s.LastSpoke
		p.Distance = s.Distance
	}
	m.participants[peer] = p
	m.sorted = append(m.sorted, peer)

	// Fire-and-forget: the row shows a placeholder until the name
	// lands, possibly synchronously if the resolver has it cached.
	m.resolver.ResolveDisplayName(peer, func(name string) {
		if m.closed {
			return
		}
		current, ok := m.participants[peer]
		if !ok {
			return // removed while resolution was in flight
		}
		current.DisplayName = name
		m.Resort()
	})

	m.Resort()
}

func (m *Model) onRemoved(peer domain.PeerID) {
	if _, ok := m.participants[peer]; !ok {
		return
	}
	delete(m.participants, peer)
	m.sorted = lo.Reject(m.sorted, func(p domain.PeerID, _ int) bool {
		return p == peer
	})
	m.Resort()
}

func (m *Model) onCleared() {
	m.participants = make(map[domain.PeerID]*domain.Participant)
	m.sorted = nil
}

// onUpdated refreshes the mutable fields from the speaker manager's
// current record.
func (m *Model) onUpdated(peer domain.PeerID) {
	p, ok := m.participants[peer]
	if !ok {
		return
	}
	s, ok := m.manager.Speaker(peer)
	if !ok {
		return
	}
	resortNeeded := !p.LastSpoke.Equal(s.LastSpoke) || p.Distance != s.Distance
	p.IsModerator = s.IsModerator
	p.IsMutedVoice = s.IsMutedVoice
	p.LastSpoke = s.LastSpoke
	p.Distance = s.Distance
	if resortNeeded {
		m.Resort()
	}
}

// onModeratorChanged flips the boolean attribute only. Display names
// are never mutated to encode moderator state; the presentation layer
// reads IsModerator and decorates the label itself.
func (m *Model) onModeratorChanged(peer domain.PeerID, isModerator bool) {
	p, ok := m.participants[peer]
	if !ok {
		return
	}
	p.IsModerator = isModerator
}

// LastSpokeFor is a convenience for panels rendering idle times.
func (m *Model) LastSpokeFor(peer domain.PeerID) (time.Time, bool) {
	p, ok := m.participants[peer]
	if !ok {
		return time.Time{}, false
	}
	return p.LastSpoke, true
}

// Resort reorders the view. Safe to call redundantly; the real work is
// skipped while interaction is suspended and replayed once it is not.
func (m *Model) Resort() {
	if m.suspended() {
		m.pendingSort = true
		return
	}
	m.pendingSort = false
	m.sortView()
}

// FlushPendingSort applies a sort deferred during interaction. The
// panel calls it when the pointer leaves the list.
func (m *Model) FlushPendingSort() {
	if m.pendingSort {
		m.Resort()
	}
}
