// Package domain contains core concepts of the conversation and
// relationship subsystem. No runtime, network, or UI logic should be
// added here.
package domain

import (
	"github.com/google/uuid"
)

// PeerID identifies an avatar on the grid.
type PeerID = uuid.UUID

// Rights is a bitmask of permissions one avatar grants another.
type Rights uint32

const (
	RightNone              Rights = 0
	RightOnlineStatus      Rights = 1 << 0 // peer may see online/offline state
	RightMapLocation       Rights = 1 << 1 // peer may locate on the world map
	RightModifyObjects     Rights = 1 << 2 // peer may edit owned objects
	rightsAll                     = RightOnlineStatus | RightMapLocation | RightModifyObjects
)

// Valid reports whether the mask only contains known right bits.
func (r Rights) Valid() bool {
	return r&^rightsAll == 0
}

func (r Rights) Has(flag Rights) bool {
	return r&flag != 0
}

// Relationship is the canonical record for a single peer. There is at
// most one per PeerID, owned by the relationship store.
type Relationship struct {
	Peer          PeerID
	Online        bool
	GrantedToPeer Rights // rights the local user granted the peer
	GrantedByPeer Rights // rights the peer granted the local user
}

// ChangeMask describes what changed on a relationship since the last
// observer notification pass. Masks for distinct peers accumulate by
// bitwise OR within a tick.
type ChangeMask uint32

const (
	ChangeNone    ChangeMask = 0
	ChangeAdded   ChangeMask = 1 << 0
	ChangeRemoved ChangeMask = 1 << 1
	ChangeOnline  ChangeMask = 1 << 2
	ChangeRights  ChangeMask = 1 << 3
)

func (m ChangeMask) Has(flag ChangeMask) bool {
	return m&flag != 0
}
