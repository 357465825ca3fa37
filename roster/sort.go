package roster

import (
	"sort"
	"strings"

	"gridchat/domain"
)

// sortView applies the active comparator to the sorted slice. The
// local user is pinned ahead of everything when configured, regardless
// of comparator.
func (m *Model) sortView() {
	less := m.comparator()
	sort.SliceStable(m.sorted, func(i, j int) bool {
		a := m.participants[m.sorted[i]]
		b := m.participants[m.sorted[j]]
		if m.pinLocalTop {
			if a.ID == m.localUser {
				return b.ID != m.localUser
			}
			if b.ID == m.localUser {
				return false
			}
		}
		return less(a, b)
	})
}

func (m *Model) comparator() func(a, b *domain.Participant) bool {
	switch m.order {
	case domain.SortByRecentSpeaker:
		return byRecentSpeaker
	case domain.SortByDistance:
		return byDistance
	default:
		return byName
	}
}

// byName orders case-insensitively ascending.
func byName(a, b *domain.Participant) bool {
	return strings.ToLower(a.DisplayName) < strings.ToLower(b.DisplayName)
}

// byRecentSpeaker puts the most recent speaker first. Participants who
// never spoke sort after those who have, by insertion order, then
// name.
func byRecentSpeaker(a, b *domain.Participant) bool {
	switch {
	case a.HasSpoken() && b.HasSpoken():
		if !a.LastSpoke.Equal(b.LastSpoke) {
			return a.LastSpoke.After(b.LastSpoke)
		}
		return byName(a, b)
	case a.HasSpoken():
		return true
	case b.HasSpoken():
		return false
	default:
		if a.SortIndex != b.SortIndex {
			return a.SortIndex < b.SortIndex
		}
		return byName(a, b)
	}
}

// byDistance orders nearest first; ties fall back to name so nearby
// chat stays stable while avatars stand still.
func byDistance(a, b *domain.Participant) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return byName(a, b)
}
