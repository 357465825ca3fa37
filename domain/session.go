package domain

import "github.com/google/uuid"

// SessionID identifies one live conversation (group, ad-hoc, P2P or
// nearby chat).
type SessionID = uuid.UUID

type SessionType int

const (
	SessionP2P SessionType = iota
	SessionGroup
	SessionAdHoc
	SessionNearby
)

func (t SessionType) String() string {
	switch t {
	case SessionP2P:
		return "p2p"
	case SessionGroup:
		return "group"
	case SessionAdHoc:
		return "adhoc"
	case SessionNearby:
		return "nearby"
	default:
		return "unknown"
	}
}
