package relationship

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"gridchat/contract"
	"gridchat/domain"
)

func newTestTracker() *Tracker {
	return NewTracker(slog.Default())
}

func friend(online bool) domain.Relationship {
	return domain.Relationship{Peer: uuid.New(), Online: online}
}

func TestTracker_AddRelationships_CountsDuplicatesOnce(t *testing.T) {
	req := require.New(t)
	tracker := newTestTracker()
	peer := uuid.New()

	// Given a snapshot carrying the same peer twice
	records := []domain.Relationship{
		{Peer: peer, Online: true},
		{Peer: peer, Online: false},
		friend(false),
	}

	// When the snapshot is loaded
	inserted := tracker.AddRelationships(records)

	// Then the duplicate counts once and the last write wins
	req.Equal(2, inserted)
	req.Equal(2, tracker.Len())
	rec, ok := tracker.GetRelationship(peer)
	req.True(ok)
	req.False(rec.Online)
}

func TestTracker_SetOnline_Idempotent(t *testing.T) {
	req := require.New(t)
	tracker := newTestTracker()
	rec := friend(false)
	tracker.AddRelationship(rec)
	tracker.NotifyIfDirty() // drain the add

	// When presence flips once but is pushed twice
	tracker.SetOnline(rec.Peer, true)
	tracker.SetOnline(rec.Peer, true)

	// Then the peer is enqueued exactly once
	req.Len(tracker.PendingChanges(), 1)
	req.True(tracker.IsOnline(rec.Peer))

	// And a redundant push after the pass enqueues nothing
	tracker.NotifyIfDirty()
	tracker.SetOnline(rec.Peer, true)
	req.False(tracker.HasPendingChanges())
}

func TestTracker_RemoveRelationship_UnknownPeerIsNoop(t *testing.T) {
	req := require.New(t)
	tracker := newTestTracker()
	tracker.AddRelationship(friend(true))
	tracker.NotifyIfDirty()

	// When an unknown peer is removed
	tracker.RemoveRelationship(uuid.New())

	// Then the store is untouched and nothing is enqueued
	req.Equal(1, tracker.Len())
	req.False(tracker.HasPendingChanges())
}

func TestTracker_IsOnline_UnknownPeerReportsFalse(t *testing.T) {
	req := require.New(t)
	tracker := newTestTracker()
	req.False(tracker.IsOnline(uuid.New()))
}

func TestTracker_SetRights_UnknownPeerIsNoop(t *testing.T) {
	req := require.New(t)
	tracker := newTestTracker()

	tracker.SetRightsGrantedToPeer(uuid.New(), domain.RightMapLocation)
	tracker.SetRightsGrantedByPeer(uuid.New(), domain.RightOnlineStatus)

	req.False(tracker.HasPendingChanges())
}

func TestTracker_NotifyIfDirty_CoalescesMutations(t *testing.T) {
	req := require.New(t)
	tracker := newTestTracker()
	rec := friend(false)
	tracker.AddRelationship(rec)
	tracker.NotifyIfDirty()

	var globalCalls int
	var globalMask domain.ChangeMask
	tracker.AddObserver(contract.ObserverFunc(func(mask domain.ChangeMask) {
		globalCalls++
		globalMask = mask
	}))

	var peerCalls int
	var peerMask domain.ChangeMask
	tracker.AddPeerObserver(rec.Peer, contract.ObserverFunc(func(mask domain.ChangeMask) {
		peerCalls++
		peerMask = mask
	}))

	// Given N mutations to the same peer within one tick
	tracker.SetOnline(rec.Peer, true)
	tracker.SetRightsGrantedToPeer(rec.Peer, domain.RightModifyObjects)
	tracker.SetRightsGrantedByPeer(rec.Peer, domain.RightOnlineStatus)

	// When the tick's notification pass runs
	tracker.NotifyIfDirty()

	// Then every observer fired exactly once with the coalesced mask
	req.Equal(1, globalCalls)
	req.Equal(1, peerCalls)
	req.True(globalMask.Has(domain.ChangeOnline))
	req.True(globalMask.Has(domain.ChangeRights))
	req.True(peerMask.Has(domain.ChangeOnline))
	req.True(peerMask.Has(domain.ChangeRights))

	// And the changed set is cleared
	req.False(tracker.HasPendingChanges())
	tracker.NotifyIfDirty()
	req.Equal(1, globalCalls)
}

func TestTracker_PeerObserver_OnlyFiresForItsPeer(t *testing.T) {
	req := require.New(t)
	tracker := newTestTracker()
	a := friend(false)
	b := friend(false)
	tracker.AddRelationships([]domain.Relationship{a, b})
	tracker.NotifyIfDirty()

	var calls int
	tracker.AddPeerObserver(a.Peer, contract.ObserverFunc(func(domain.ChangeMask) {
		calls++
	}))

	// When only the other peer changes
	tracker.SetOnline(b.Peer, true)
	tracker.NotifyIfDirty()

	// Then the scoped observer stays quiet
	req.Zero(calls)

	tracker.SetOnline(a.Peer, true)
	tracker.NotifyIfDirty()
	req.Equal(1, calls)
}

func TestTracker_Observer_ReentrantRegistrationIsSafe(t *testing.T) {
	req := require.New(t)
	tracker := newTestTracker()
	rec := friend(false)
	tracker.AddRelationship(rec)
	tracker.NotifyIfDirty()

	var lateCalls int
	var handle ObserverHandle
	handle = tracker.AddObserver(contract.ObserverFunc(func(domain.ChangeMask) {
		// Re-enter the tracker from inside the pass.
		tracker.RemoveObserver(handle)
		tracker.AddObserver(contract.ObserverFunc(func(domain.ChangeMask) {
			lateCalls++
		}))
	}))

	tracker.SetOnline(rec.Peer, true)
	tracker.NotifyIfDirty()

	// The observer added mid-pass only fires on the next pass.
	req.Zero(lateCalls)

	tracker.SetOnline(rec.Peer, false)
	tracker.NotifyIfDirty()
	req.Equal(1, lateCalls)
}

func TestTracker_RemovePeerObserver_PrunesEmptySet(t *testing.T) {
	req := require.New(t)
	tracker := newTestTracker()
	peer := uuid.New()

	h := tracker.AddPeerObserver(peer, contract.ObserverFunc(func(domain.ChangeMask) {}))
	tracker.RemovePeerObserver(peer, h)

	req.Empty(tracker.peerObservers)

	// Removing again is a no-op
	tracker.RemovePeerObserver(peer, h)
}

func TestTracker_RemoveObserver_UnknownHandleIsNoop(t *testing.T) {
	tracker := newTestTracker()
	tracker.RemoveObserver(ObserverHandle(42))
}

func TestTracker_EnqueueExternalChange(t *testing.T) {
	req := require.New(t)
	tracker := newTestTracker()
	peer := uuid.New()

	var got domain.ChangeMask
	tracker.AddObserver(contract.ObserverFunc(func(mask domain.ChangeMask) {
		got = mask
	}))

	// When a collaborator marks a peer dirty directly
	tracker.EnqueueExternalChange(domain.ChangeRights, peer)
	tracker.NotifyIfDirty()

	// Then observers see the external mask
	req.Equal(domain.ChangeRights, got)
}

func TestTracker_ApplyToAll_VisitsEveryRecord(t *testing.T) {
	req := require.New(t)
	tracker := newTestTracker()
	tracker.AddRelationships([]domain.Relationship{friend(true), friend(false), friend(true)})

	var online int
	tracker.ApplyToAll(func(rec domain.Relationship) {
		if rec.Online {
			online++
		}
	})

	req.Equal(2, online)
	req.Len(tracker.Friends(), 3)
}
