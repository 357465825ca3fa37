package domain

import "time"

// ParticipantKind distinguishes roster entries without runtime type
// dispatch: a regular avatar, or a telephony bridge endpoint that has
// no inventory or relationship linkage.
type ParticipantKind int

const (
	KindAvatar ParticipantKind = iota
	KindBridge
)

// NamePending is shown while display-name resolution is in flight.
const NamePending = "(loading...)"

// Participant is one row of a session roster.
type Participant struct {
	ID           PeerID
	Kind         ParticipantKind
	DisplayName  string
	IsModerator  bool
	IsMutedVoice bool
	LastSpoke    time.Time // zero value means never spoke
	SortIndex    int       // insertion order, tiebreak for sorting
	Distance     float64   // metres from the local user, nearby chat only
}

// HasSpoken reports whether the participant ever spoke in this session.
func (p Participant) HasSpoken() bool {
	return !p.LastSpoke.IsZero()
}

// SortOrder selects the roster comparator.
type SortOrder int

const (
	SortByName SortOrder = iota
	SortByRecentSpeaker
	SortByDistance
)
