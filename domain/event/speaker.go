package event

import "gridchat/domain"

// SpeakerKind enumerates the events a session's speaker manager emits
// to its listeners (the roster, voice indicators, ...).
type SpeakerKind int

const (
	SpeakerAdded SpeakerKind = iota
	SpeakerRemoved
	SpeakersCleared
	SpeakerUpdated
	ModeratorChanged
)

// SpeakerEvent carries one roster-affecting change for one session.
// Peer is the zero UUID for SpeakersCleared.
type SpeakerEvent struct {
	Session     domain.SessionID
	Peer        domain.PeerID
	Kind        SpeakerKind
	IsModerator bool // meaningful for ModeratorChanged only
}
