// Package friendcards keeps the persisted calling-card folder
// structure in step with the relationship store. Each relationship
// eventually has exactly one card whose creator is the peer; the
// synchronizer closes any gap it observes without ever holding it
// closed atomically.
package friendcards

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"gridchat/contract"
	"gridchat/domain"
)

const (
	FriendsFolderName = "Friends"
	AllFolderName     = "All"
)

// State of the folder-loading machine. Mutations are refused until the
// canonical folder structure is confirmed, otherwise a slow login
// could create duplicate cards.
type State int

const (
	Uninitialized State = iota
	LocatingFolder
	LoadingFriendsFolder
	LoadingAllSubfolder
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case LocatingFolder:
		return "locating_folder"
	case LoadingFriendsFolder:
		return "loading_friends_folder"
	case LoadingAllSubfolder:
		return "loading_all_subfolder"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// FriendSource is the slice of the relationship tracker the
// synchronizer reads during reconciliation.
type FriendSource interface {
	Friends() []domain.PeerID
	IsFriend(peer domain.PeerID) bool
}

// Stats receives card churn counters for the debug dashboard.
type Stats interface {
	IncrCardsCreated()
	IncrCardsRemoved()
}

type noStats struct{}

func (noStats) IncrCardsCreated() {}
func (noStats) IncrCardsRemoved() {}

// Synchronizer reconciles the relationship store with the
// "Friends"/"All" inventory folders. It runs on the logic goroutine;
// inventory completions may fire synchronously when cached.
type Synchronizer struct {
	log     *slog.Logger
	inv     contract.Inventory
	friends FriendSource

	root          uuid.UUID // parent category the Friends folder lives under
	friendsFolder uuid.UUID
	allFolder     uuid.UUID
	state         State

	// inFlight blocks duplicate concurrent create requests per peer.
	inFlight map[domain.PeerID]struct{}

	stats Stats
}

func NewSynchronizer(log *slog.Logger, inv contract.Inventory, friends FriendSource, root uuid.UUID) *Synchronizer {
	return &Synchronizer{
		log:      log,
		inv:      inv,
		friends:  friends,
		root:     root,
		state:    Uninitialized,
		inFlight: make(map[domain.PeerID]struct{}),
		stats:    noStats{},
	}
}

// SetStats installs the churn counter sink.
func (s *Synchronizer) SetStats(stats Stats) {
	if stats != nil {
		s.stats = stats
	}
}

func (s *Synchronizer) State() State {
	return s.state
}

// IsReady reports whether the folder structure is confirmed. All
// mutation operations are diagnostic no-ops until then.
func (s *Synchronizer) IsReady() bool {
	return s.state == Ready
}

// SyncFolders walks the machine from Uninitialized to Ready: fetch the
// root category, find or create "Friends", fetch its descendants, find
// or create "All", fetch that, then reconcile. Each fetch is
// asynchronous; the completion drives the next transition.
func (s *Synchronizer) SyncFolders() {
	if s.state != Uninitialized {
		s.log.Debug("Folder sync already started", "state", s.state.String())
		return
	}
	s.state = LocatingFolder
	s.inv.FetchCategoryDescendants(s.root, func(err error) {
		if err != nil {
			s.log.Warn("Root category fetch failed, sync aborted", "error", err)
			s.state = Uninitialized
			return
		}
		s.locateFriendsFolder()
	})
}

func (s *Synchronizer) locateFriendsFolder() {
	if id, ok := s.inv.FindCategoryByName(s.root, FriendsFolderName); ok {
		s.friendsFolder = id
		s.loadFriendsFolder()
		return
	}
	s.inv.CreateCategory(s.root, FriendsFolderName, func(created uuid.UUID, err error) {
		if err != nil {
			s.log.Warn("Friends folder create failed, sync aborted", "error", err)
			s.state = Uninitialized
			return
		}
		s.friendsFolder = created
		s.loadFriendsFolder()
	})
}

func (s *Synchronizer) loadFriendsFolder() {
	s.state = LoadingFriendsFolder
	s.inv.FetchCategoryDescendants(s.friendsFolder, func(err error) {
		if err != nil {
			s.log.Warn("Friends folder fetch failed, sync aborted", "error", err)
			s.state = Uninitialized
			return
		}
		s.locateAllFolder()
	})
}

func (s *Synchronizer) locateAllFolder() {
	if id, ok := s.inv.FindCategoryByName(s.friendsFolder, AllFolderName); ok {
		s.allFolder = id
		s.loadAllFolder()
		return
	}
	s.inv.CreateCategory(s.friendsFolder, AllFolderName, func(created uuid.UUID, err error) {
		if err != nil {
			s.log.Warn("All subfolder create failed, sync aborted", "error", err)
			s.state = Uninitialized
			return
		}
		s.allFolder = created
		s.loadAllFolder()
	})
}

func (s *Synchronizer) loadAllFolder() {
	s.state = LoadingAllSubfolder
	s.inv.FetchCategoryDescendants(s.allFolder, func(err error) {
		if err != nil {
			s.log.Warn("All subfolder fetch failed, sync aborted", "error", err)
			s.state = Uninitialized
			return
		}
		s.state = Ready
		s.log.Info("Friend card folders ready",
			"friends", s.friendsFolder, "all", s.allFolder)
		s.ReconcileAll()
	})
}

// AddFriendCard issues one create-card request for peer unless a card
// already exists or a creation is already in flight.
func (s *Synchronizer) AddFriendCard(peer domain.PeerID) {
	if !s.IsReady() {
		s.log.Debug("Ignoring card add before folders are ready", "peer", peer)
		return
	}
	if len(s.findCards(peer)) > 0 {
		return
	}
	if _, pending := s.inFlight[peer]; pending {
		return
	}
	s.inFlight[peer] = struct{}{}
	s.inv.CreateItem(s.allFolder, peer, func(item contract.InventoryItem, err error) {
		// The slot frees on failure too, so the next reconcile pass
		// retries instead of skipping the peer forever.
		delete(s.inFlight, peer)
		if err != nil {
			s.log.Warn("Friend card create failed", "peer", peer, "error", err)
			return
		}
		s.stats.IncrCardsCreated()
		s.log.Debug("Friend card created", "peer", peer, "item", item.ID)
	})
}

// RemoveFriendCard deletes every card matching peer. Creation races
// can theoretically leave more than one; all matches go.
func (s *Synchronizer) RemoveFriendCard(peer domain.PeerID) {
	if !s.IsReady() {
		s.log.Debug("Ignoring card removal before folders are ready", "peer", peer)
		return
	}
	for _, card := range s.findCards(peer) {
		if err := s.inv.DeleteItem(card.ID); err != nil {
			s.log.Warn("Friend card delete failed", "peer", peer, "item", card.ID, "error", err)
			continue
		}
		s.stats.IncrCardsRemoved()
	}
}

// Changed lets the synchronizer ride the tracker's observer stream:
// any add or remove triggers a reconcile pass.
func (s *Synchronizer) Changed(mask domain.ChangeMask) {
	if mask.Has(domain.ChangeAdded) || mask.Has(domain.ChangeRemoved) {
		s.ReconcileAll()
	}
}

// ReconcileAll closes the gap between the relationship store and the
// card set: missing cards are created, stale ones removed. If the
// folder structure vanished underneath us (the user deleted it), the
// machine drops back to Uninitialized and rebuilds it.
func (s *Synchronizer) ReconcileAll() {
	if !s.IsReady() {
		s.log.Debug("Reconcile requested before folders are ready", "state", s.state.String())
		return
	}
	if !s.foldersIntact() {
		s.log.Warn("Friend card folders disappeared, rebuilding")
		s.state = Uninitialized
		s.SyncFolders()
		return
	}

	cardPeers := lo.SliceToMap(s.allCards(), func(item contract.InventoryItem) (domain.PeerID, struct{}) {
		return item.Creator, struct{}{}
	})

	added, removed := 0, 0
	for _, peer := range s.friends.Friends() {
		if _, ok := cardPeers[peer]; !ok {
			s.AddFriendCard(peer)
			added++
		}
	}
	for peer := range cardPeers {
		if !s.friends.IsFriend(peer) {
			s.RemoveFriendCard(peer)
			removed++
		}
	}
	if added > 0 || removed > 0 {
		s.log.Info(fmt.Sprintf("Reconciled friend cards (+%d/-%d)", added, removed))
	}
}

func (s *Synchronizer) foldersIntact() bool {
	if _, ok := s.inv.FindCategoryByName(s.root, FriendsFolderName); !ok {
		return false
	}
	_, ok := s.inv.FindCategoryByName(s.friendsFolder, AllFolderName)
	return ok
}

// findCards matches by creator identity under the Friends folder and
// its subfolders, never by item ID.
func (s *Synchronizer) findCards(peer domain.PeerID) []contract.InventoryItem {
	return lo.Filter(s.allCards(), func(item contract.InventoryItem, _ int) bool {
		return item.Creator == peer
	})
}

// allCards walks the Friends folder and every subfolder beneath it.
// Users reorganise cards into their own subfolders, so only the full
// tree is authoritative for what exists.
func (s *Synchronizer) allCards() []contract.InventoryItem {
	cards := s.inv.ItemsUnder(s.friendsFolder)
	folders := s.inv.ChildCategories(s.friendsFolder)
	for len(folders) > 0 {
		folder := folders[len(folders)-1]
		folders = folders[:len(folders)-1]
		cards = append(cards, s.inv.ItemsUnder(folder)...)
		folders = append(folders, s.inv.ChildCategories(folder)...)
	}
	return cards
}
