package event

import (
	"time"

	"gridchat/domain"
)

// PresenceKind enumerates the server pushes the relationship tracker
// consumes from the transport layer.
type PresenceKind int

const (
	PeerOnline PresenceKind = iota
	PeerOffline
	RightsChanged
	FriendshipTerminated
)

func (k PresenceKind) String() string {
	switch k {
	case PeerOnline:
		return "online"
	case PeerOffline:
		return "offline"
	case RightsChanged:
		return "rights_changed"
	case FriendshipTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// PresenceEvent is the transport-in payload for a single peer. Rights
// is only meaningful when Kind is RightsChanged.
type PresenceEvent struct {
	Peer   domain.PeerID
	Kind   PresenceKind
	Rights domain.Rights
	At     time.Time
}
