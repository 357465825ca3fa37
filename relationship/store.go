// Package relationship is the single source of truth for "who is my
// friend, are they online, what rights exist between us". The store
// holds the canonical records; the tracker layers server-push
// processing and observer notification on top of it.
package relationship

import (
	"gridchat/domain"
)

// Store owns the relationship records, at most one per peer. It is
// only ever touched from the logic goroutine, through the tracker.
type Store struct {
	records map[domain.PeerID]*domain.Relationship
}

func NewStore() *Store {
	return &Store{records: make(map[domain.PeerID]*domain.Relationship)}
}

// Upsert inserts or overwrites the record for rec.Peer. It reports
// whether the peer was previously unknown.
func (s *Store) Upsert(rec domain.Relationship) bool {
	_, existed := s.records[rec.Peer]
	copied := rec
	s.records[rec.Peer] = &copied
	return !existed
}

// Remove deletes the record for peer, reporting whether it existed.
func (s *Store) Remove(peer domain.PeerID) bool {
	if _, ok := s.records[peer]; !ok {
		return false
	}
	delete(s.records, peer)
	return true
}

// Get returns a copy of the record for peer. Callers never receive a
// reference into the store; a later tick may delete the record.
func (s *Store) Get(peer domain.PeerID) (domain.Relationship, bool) {
	rec, ok := s.records[peer]
	if !ok {
		return domain.Relationship{}, false
	}
	return *rec, true
}

func (s *Store) Contains(peer domain.PeerID) bool {
	_, ok := s.records[peer]
	return ok
}

func (s *Store) Len() int {
	return len(s.records)
}

// ForEach invokes visit for every record. The visitor must not mutate
// the store during iteration; that is a caller responsibility, not
// enforced here.
func (s *Store) ForEach(visit func(rec domain.Relationship)) {
	for _, rec := range s.records {
		visit(*rec)
	}
}

func (s *Store) get(peer domain.PeerID) *domain.Relationship {
	return s.records[peer]
}
