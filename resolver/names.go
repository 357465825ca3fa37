// Package resolver caches avatar display names and indexes them into
// a bluge directory backing the people picker. Resolution is
// fire-and-forget: callers register a completion and the callback may
// fire synchronously when the name is already cached.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"

	"gridchat/domain"
)

// Match is one people-search hit.
type Match struct {
	Peer domain.PeerID
	Name string
}

// Service implements contract.NameResolver over an in-memory cache,
// with unresolved requests parked until the directory feed learns the
// name. The bluge writer is optional; without it search returns empty.
type Service struct {
	log    *slog.Logger
	writer *bluge.Writer

	cache   map[domain.PeerID]string
	pending map[domain.PeerID][]func(name string)
}

func NewService(log *slog.Logger, writer *bluge.Writer) *Service {
	return &Service{
		log:     log,
		writer:  writer,
		cache:   make(map[domain.PeerID]string),
		pending: make(map[domain.PeerID][]func(name string)),
	}
}

// ResolveDisplayName invokes onComplete with the peer's display name,
// synchronously when cached, otherwise once the directory feed
// delivers it.
func (s *Service) ResolveDisplayName(peer domain.PeerID, onComplete func(name string)) {
	if name, ok := s.cache[peer]; ok {
		onComplete(name)
		return
	}
	s.pending[peer] = append(s.pending[peer], onComplete)
}

// Known reports whether the name is already cached.
func (s *Service) Known(peer domain.PeerID) bool {
	_, ok := s.cache[peer]
	return ok
}

// Learn records a name from the directory feed, releases any parked
// completions for the peer, and indexes the name for people search.
func (s *Service) Learn(peer domain.PeerID, name string) {
	s.cache[peer] = name

	if err := s.index(peer, name); err != nil {
		s.log.Warn("Name index update failed", "peer", peer, "error", err)
	}

	waiting := s.pending[peer]
	delete(s.pending, peer)
	for _, onComplete := range waiting {
		onComplete(name)
	}
}

func (s *Service) index(peer domain.PeerID, name string) error {
	if s.writer == nil {
		return nil
	}
	doc := bluge.NewDocument(peer.String()).
		AddField(bluge.NewTextField("name", strings.ToLower(name)).StoreValue())
	return s.writer.Update(doc.ID(), doc)
}

// Search runs a prefix query over the indexed names, for the people
// picker. Results carry the cached (original-case) name when known.
func (s *Service) Search(ctx context.Context, term string, limit int) ([]Match, error) {
	if s.writer == nil || strings.TrimSpace(term) == "" {
		return nil, nil
	}

	reader, err := s.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("opening name index reader: %w", err)
	}
	defer reader.Close()

	query := bluge.NewPrefixQuery(strings.ToLower(term)).SetField("name")
	search := bluge.NewTopNSearch(limit, query)

	iterator, err := reader.Search(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("searching name index: %w", err)
	}

	var matches []Match
	for {
		hit, err := iterator.Next()
		if err != nil {
			return nil, fmt.Errorf("iterating name index hits: %w", err)
		}
		if hit == nil {
			break
		}
		var match Match
		err = hit.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				if peer, parseErr := uuid.Parse(string(value)); parseErr == nil {
					match.Peer = peer
				}
			case "name":
				match.Name = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		if cached, ok := s.cache[match.Peer]; ok {
			match.Name = cached
		}
		matches = append(matches, match)
	}
	return matches, nil
}
