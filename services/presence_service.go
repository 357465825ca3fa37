package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"gridchat/contract"
	"gridchat/domain"
	"gridchat/domain/event"
	"gridchat/relationship"
)

// PresenceService maps transport-in presence messages 1:1 onto the
// relationship tracker, and pushes local rights grants back out
// through the transport.
type PresenceService struct {
	log       *slog.Logger
	tracker   *relationship.Tracker
	transport contract.Transport
	validate  *validator.Validate
}

func NewPresenceService(log *slog.Logger, tracker *relationship.Tracker, transport contract.Transport) *PresenceService {
	return &PresenceService{
		log:       log,
		tracker:   tracker,
		transport: transport,
		validate:  validator.New(),
	}
}

// Apply dispatches one server push onto the tracker. Unknown peers
// fall through the tracker's benign-absence handling; nothing is
// surfaced.
func (s *PresenceService) Apply(evt event.PresenceEvent) {
	switch evt.Kind {
	case event.PeerOnline:
		s.tracker.SetOnline(evt.Peer, true)
	case event.PeerOffline:
		s.tracker.SetOnline(evt.Peer, false)
	case event.RightsChanged:
		if !evt.Rights.Valid() {
			s.log.Warn("Dropping rights push with unknown bits",
				"peer", evt.Peer, "rights", uint32(evt.Rights))
			return
		}
		s.tracker.SetRightsGrantedByPeer(evt.Peer, evt.Rights)
	case event.FriendshipTerminated:
		s.tracker.RemoveRelationship(evt.Peer)
	default:
		s.log.Warn("Unknown presence event kind", "kind", int(evt.Kind))
	}
}

// LoadSnapshot ingests the authoritative login payload.
func (s *PresenceService) LoadSnapshot(records []domain.Relationship) int {
	return s.tracker.AddRelationships(records)
}

// GrantRightsCommand is the UI-facing request to change what a friend
// may do.
type GrantRightsCommand struct {
	Peer   domain.PeerID `validate:"required"`
	Rights domain.Rights
}

// GrantRights pushes a local rights change to the server and updates
// the canonical record. The tracker enqueues the change, so observers
// learn about it on the next tick.
func (s *PresenceService) GrantRights(ctx context.Context, cmd GrantRightsCommand) error {
	if err := s.validate.Struct(cmd); err != nil {
		return fmt.Errorf("invalid rights grant: %w", err)
	}
	if !cmd.Rights.Valid() {
		return fmt.Errorf("invalid rights grant: unknown bits in %#x", uint32(cmd.Rights))
	}
	if !s.tracker.IsFriend(cmd.Peer) {
		s.log.Debug("Ignoring rights grant for non-friend", "peer", cmd.Peer)
		return nil
	}
	if err := s.transport.SendRightsGrant(ctx, cmd.Peer, cmd.Rights); err != nil {
		return fmt.Errorf("sending rights grant: %w", err)
	}
	s.tracker.SetRightsGrantedToPeer(cmd.Peer, cmd.Rights)
	return nil
}
