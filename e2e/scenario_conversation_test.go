package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"gridchat/contract"
	"gridchat/domain"
	"gridchat/friendcards"
	"gridchat/services"
)

type testConversationSuite struct {
	BaseSuite
}

func TestConversationSuite(t *testing.T) {
	suite.Run(t, &testConversationSuite{})
}

func (s *testConversationSuite) TestFullConversationFlow() {
	alice := uuid.New()
	bob := uuid.New()

	s.WithCore("Conversation core", func(h *Harness) {
		h.Names.Learn(h.LocalUser, "Resident One")
		h.Names.Learn(alice, "Alice Lumen")
		h.Names.Learn(bob, "Bob Vantive")

		// --- STEP 0: LOGIN ---
		// The authoritative snapshot and the folder sync run before the
		// first session opens, as they do on a real login.
		s.Run("Step 0: Login snapshot and card sync", func() {
			added := h.Presence.LoadSnapshot([]domain.Relationship{
				{Peer: alice, GrantedToPeer: domain.RightOnlineStatus},
				{Peer: bob},
			})
			s.Require().Equal(2, added)

			h.CardSync.SyncFolders()
			s.Require().True(h.CardSync.IsReady())

			friendsFolder, ok := h.Inventory.FindCategoryByName(h.Root, friendcards.FriendsFolderName)
			s.Require().True(ok)
			allFolder, ok := h.Inventory.FindCategoryByName(friendsFolder, friendcards.AllFolderName)
			s.Require().True(ok)
			creators := lo.Map(h.Inventory.ItemsUnder(allFolder), func(item contract.InventoryItem, _ int) domain.PeerID {
				return item.Creator
			})
			s.Require().ElementsMatch([]domain.PeerID{alice, bob}, creators)

			h.Tick()
		})

		// --- STEP 1: OPEN SESSION ---
		live := h.Sessions.Open(domain.SessionP2P, h.LocalUser, alice)

		s.Run("Step 1: Open a P2P session and resolve names", func() {
			s.Require().Equal(2, live.Roster.Len())

			p, ok := live.Roster.Participant(alice)
			s.Require().True(ok)
			s.Require().Equal("Alice Lumen", p.DisplayName)
			s.Require().Equal(domain.KindAvatar, p.Kind)
			s.DumpRoster(live.Roster)
		})

		// --- STEP 2: SPEAKING ORDER ---
		s.Run("Step 2: Recent speakers float to the top", func() {
			live.Roster.SetSortOrder(domain.SortByRecentSpeaker)
			live.Manager.MarkSpoke(alice, time.Now().UTC())

			names := lo.Map(live.Roster.Sorted(), func(p domain.Participant, _ int) string {
				return p.DisplayName
			})
			s.Require().Equal([]string{"Alice Lumen", "Resident One"}, names)
			s.DumpRoster(live.Roster)
		})

		// --- STEP 3: MODERATION ---
		s.Run("Step 3: Moderator set diffs to flags", func() {
			live.Manager.SetModerators([]domain.PeerID{alice})

			p, ok := live.Roster.Participant(alice)
			s.Require().True(ok)
			s.Require().True(p.IsModerator)

			live.Manager.SetModerators(nil)
			p, _ = live.Roster.Participant(alice)
			s.Require().False(p.IsModerator)
		})

		// --- STEP 4: RIGHTS ROUND-TRIP ---
		s.Run("Step 4: Rights grant ships before it is recorded", func() {
			err := h.Presence.GrantRights(context.Background(), services.GrantRightsCommand{
				Peer:   alice,
				Rights: domain.RightOnlineStatus | domain.RightMapLocation,
			})
			s.Require().NoError(err)

			sent := h.Transport.Sent()
			s.Require().Len(sent, 1)
			s.Require().Equal(alice, sent[0].Peer)

			h.Tick()
			rec, ok := h.Tracker.GetRelationship(alice)
			s.Require().True(ok)
			s.Require().True(rec.GrantedToPeer.Has(domain.RightMapLocation))
		})

		// --- STEP 5: TEARDOWN ---
		s.Run("Step 5: Closing the session detaches the roster", func() {
			h.Sessions.Close(live.ID)
			_, ok := h.Sessions.Lookup(live.ID)
			s.Require().False(ok)

			// A late speaker event must not resurrect the closed roster
			live.Manager.Add(bob)
			s.Require().Equal(0, live.Roster.Len())
		})
	})
}
