package relationship

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"gridchat/contract"
	"gridchat/domain"
)

// ObserverHandle identifies one observer registration. Removal goes
// through the handle so a destroyed observer can never be dereferenced
// by a later notification pass.
type ObserverHandle int64

// Tracker processes server-pushed presence and rights deltas, owns the
// relationship store, and drives one coalesced observer-notification
// pass per tick.
//
// The tracker lives on the application's single logic goroutine. All
// mutation comes from message handlers and UI calls on that goroutine;
// the only "concurrency" is interleaving of asynchronous completions
// arriving at later ticks. Observer callbacks may re-enter the tracker
// and add or remove observers: notification iterates a snapshot, so
// registration changes take effect on the next pass.
type Tracker struct {
	log   *slog.Logger
	store *Store

	// changed holds the peers mutated since the last notification
	// pass, with the accumulated per-peer change mask. Insertion is
	// idempotent per pass.
	changed map[domain.PeerID]domain.ChangeMask

	nextHandle    ObserverHandle
	observers     map[ObserverHandle]contract.RelationshipObserver
	peerObservers map[domain.PeerID]map[ObserverHandle]contract.RelationshipObserver
}

func NewTracker(log *slog.Logger) *Tracker {
	return &Tracker{
		log:           log,
		store:         NewStore(),
		changed:       make(map[domain.PeerID]domain.ChangeMask),
		observers:     make(map[ObserverHandle]contract.RelationshipObserver),
		peerObservers: make(map[domain.PeerID]map[ObserverHandle]contract.RelationshipObserver),
	}
}

// AddRelationships bulk-inserts an authoritative snapshot, typically
// the initial login payload. Duplicates by peer are overwrites and are
// counted once. Every affected peer is enqueued as added.
func (t *Tracker) AddRelationships(records []domain.Relationship) int {
	inserted := 0
	seen := make(map[domain.PeerID]struct{}, len(records))
	for _, rec := range records {
		if t.store.Upsert(rec) {
			if _, dup := seen[rec.Peer]; !dup {
				inserted++
			}
		}
		seen[rec.Peer] = struct{}{}
		t.enqueue(rec.Peer, domain.ChangeAdded)
	}
	t.log.Debug("Bulk relationship load", "received", len(records), "inserted", inserted)
	return inserted
}

// AddRelationship establishes a single relationship, e.g. after a
// mutual friend request is accepted.
func (t *Tracker) AddRelationship(rec domain.Relationship) {
	t.store.Upsert(rec)
	t.enqueue(rec.Peer, domain.ChangeAdded)
}

// RemoveRelationship deletes the record for peer. Absence is benign:
// the store is untouched and nothing is enqueued.
func (t *Tracker) RemoveRelationship(peer domain.PeerID) {
	if !t.store.Remove(peer) {
		return
	}
	t.enqueue(peer, domain.ChangeRemoved)
}

// SetOnline records the last known presence for peer. Setting the flag
// to its current value is a no-op, so redundant server pushes never
// cause observer churn.
func (t *Tracker) SetOnline(peer domain.PeerID, online bool) {
	rec := t.store.get(peer)
	if rec == nil || rec.Online == online {
		return
	}
	rec.Online = online
	t.enqueue(peer, domain.ChangeOnline)
}

// SetRightsGrantedToPeer replaces the rights the local user grants
// peer. The mask is trusted as-is; the message handler is the
// authority.
func (t *Tracker) SetRightsGrantedToPeer(peer domain.PeerID, granted domain.Rights) {
	rec := t.store.get(peer)
	if rec == nil {
		return
	}
	rec.GrantedToPeer = granted
	t.enqueue(peer, domain.ChangeRights)
}

// SetRightsGrantedByPeer replaces the rights peer grants the local
// user.
func (t *Tracker) SetRightsGrantedByPeer(peer domain.PeerID, granted domain.Rights) {
	rec := t.store.get(peer)
	if rec == nil {
		return
	}
	rec.GrantedByPeer = granted
	t.enqueue(peer, domain.ChangeRights)
}

// GetRelationship returns a copy of the record for peer.
func (t *Tracker) GetRelationship(peer domain.PeerID) (domain.Relationship, bool) {
	return t.store.Get(peer)
}

// IsFriend reports whether a relationship record exists for peer.
func (t *Tracker) IsFriend(peer domain.PeerID) bool {
	return t.store.Contains(peer)
}

// IsOnline reports the last known presence; an unknown peer is
// offline.
func (t *Tracker) IsOnline(peer domain.PeerID) bool {
	rec, ok := t.store.Get(peer)
	return ok && rec.Online
}

// Friends returns the peer IDs of every current relationship.
func (t *Tracker) Friends() []domain.PeerID {
	friends := make([]domain.PeerID, 0, t.store.Len())
	t.store.ForEach(func(rec domain.Relationship) {
		friends = append(friends, rec.Peer)
	})
	return friends
}

// ApplyToAll invokes visit for every relationship record. The visitor
// must not mutate the tracker during iteration.
func (t *Tracker) ApplyToAll(visit func(rec domain.Relationship)) {
	t.store.ForEach(visit)
}

func (t *Tracker) Len() int {
	return t.store.Len()
}

// AddObserver registers a global observer, notified on any
// relationship change.
func (t *Tracker) AddObserver(obs contract.RelationshipObserver) ObserverHandle {
	t.nextHandle++
	t.observers[t.nextHandle] = obs
	return t.nextHandle
}

// RemoveObserver unregisters a global observer. An unknown handle is a
// no-op.
func (t *Tracker) RemoveObserver(h ObserverHandle) {
	delete(t.observers, h)
}

// AddPeerObserver registers an observer notified only when peer
// changes.
func (t *Tracker) AddPeerObserver(peer domain.PeerID, obs contract.RelationshipObserver) ObserverHandle {
	t.nextHandle++
	scoped, ok := t.peerObservers[peer]
	if !ok {
		scoped = make(map[ObserverHandle]contract.RelationshipObserver)
		t.peerObservers[peer] = scoped
	}
	scoped[t.nextHandle] = obs
	return t.nextHandle
}

// RemovePeerObserver unregisters a peer-scoped observer and prunes the
// per-peer set once empty.
func (t *Tracker) RemovePeerObserver(peer domain.PeerID, h ObserverHandle) {
	scoped, ok := t.peerObservers[peer]
	if !ok {
		return
	}
	delete(scoped, h)
	if len(scoped) == 0 {
		delete(t.peerObservers, peer)
	}
}

// EnqueueExternalChange marks peer dirty without going through a typed
// setter. Used when the mutation already happened on a different path
// (e.g. a UI-driven rights grant already sent to the server) and only
// notification is owed.
func (t *Tracker) EnqueueExternalChange(mask domain.ChangeMask, peer domain.PeerID) {
	t.enqueue(peer, mask)
}

// HasPendingChanges reports whether a notification pass would fire.
func (t *Tracker) HasPendingChanges() bool {
	return len(t.changed) > 0
}

// PendingChanges returns the peers currently queued for the next pass.
func (t *Tracker) PendingChanges() []domain.PeerID {
	return lo.Keys(t.changed)
}

// NotifyIfDirty runs one observer-notification pass; the coordinator
// calls it once per tick. Every global observer fires exactly once
// with the union of all pending change masks, peer-scoped observers
// fire once per changed peer with that peer's mask, and the changed
// set is cleared. Observer lists are snapshotted first, so callbacks
// that re-register or unregister observers cannot corrupt iteration.
func (t *Tracker) NotifyIfDirty() {
	if len(t.changed) == 0 {
		return
	}

	changed := t.changed
	t.changed = make(map[domain.PeerID]domain.ChangeMask)

	union := domain.ChangeNone
	for _, mask := range changed {
		union |= mask
	}

	for _, obs := range lo.Values(t.observers) {
		obs.Changed(union)
	}

	for peer, mask := range changed {
		scoped, ok := t.peerObservers[peer]
		if !ok {
			continue
		}
		for _, obs := range lo.Values(scoped) {
			obs.Changed(mask)
		}
	}

	t.log.Debug(fmt.Sprintf("Notified observers for %d changed peers", len(changed)),
		"mask", uint32(union))
}

// enqueue is the single entry point into the changed set; repeated
// enqueues for the same peer within a pass OR their masks together.
func (t *Tracker) enqueue(peer domain.PeerID, mask domain.ChangeMask) {
	t.changed[peer] |= mask
}
