package friendcards

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"gridchat/contract"
	"gridchat/domain"
)

// fakeInventory is an in-memory inventory whose fetches can be
// resolved synchronously or held back to simulate slow completions.
type fakeInventory struct {
	categories map[uuid.UUID]map[string]uuid.UUID // parent -> name -> id
	items      map[uuid.UUID][]contract.InventoryItem

	deferFetches bool
	pending      []func()
	createCalls  int
	createErr    error // injected storage failure for both create ops
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		categories: make(map[uuid.UUID]map[string]uuid.UUID),
		items:      make(map[uuid.UUID][]contract.InventoryItem),
	}
}

func (f *fakeInventory) FetchCategoryDescendants(_ uuid.UUID, onComplete func(err error)) {
	if f.deferFetches {
		f.pending = append(f.pending, func() { onComplete(nil) })
		return
	}
	onComplete(nil)
}

func (f *fakeInventory) CreateCategory(parent uuid.UUID, name string, onComplete func(created uuid.UUID, err error)) {
	if f.createErr != nil {
		onComplete(uuid.Nil, f.createErr)
		return
	}
	id := uuid.New()
	if f.categories[parent] == nil {
		f.categories[parent] = make(map[string]uuid.UUID)
	}
	f.categories[parent][name] = id
	onComplete(id, nil)
}

func (f *fakeInventory) CreateItem(parent uuid.UUID, owner domain.PeerID, onComplete func(item contract.InventoryItem, err error)) {
	f.createCalls++
	if f.createErr != nil {
		onComplete(contract.InventoryItem{}, f.createErr)
		return
	}
	item := contract.InventoryItem{ID: uuid.New(), Parent: parent, Creator: owner}
	f.items[parent] = append(f.items[parent], item)
	onComplete(item, nil)
}

func (f *fakeInventory) DeleteItem(item uuid.UUID) error {
	for parent, items := range f.items {
		f.items[parent] = lo.Reject(items, func(it contract.InventoryItem, _ int) bool {
			return it.ID == item
		})
	}
	return nil
}

func (f *fakeInventory) FindCategoryByName(parent uuid.UUID, name string) (uuid.UUID, bool) {
	id, ok := f.categories[parent][name]
	return id, ok
}

func (f *fakeInventory) ItemsUnder(category uuid.UUID) []contract.InventoryItem {
	return f.items[category]
}

func (f *fakeInventory) ChildCategories(parent uuid.UUID) []uuid.UUID {
	return lo.Values(f.categories[parent])
}

// deleteCategory simulates a user removing a folder out from under the
// synchronizer.
func (f *fakeInventory) deleteCategory(parent uuid.UUID, name string) {
	delete(f.categories[parent], name)
}

func (f *fakeInventory) resolvePending() {
	pending := f.pending
	f.pending = nil
	for _, fn := range pending {
		fn()
	}
}

type staticFriends struct {
	peers []domain.PeerID
}

func (s staticFriends) Friends() []domain.PeerID { return s.peers }
func (s staticFriends) IsFriend(peer domain.PeerID) bool {
	return lo.Contains(s.peers, peer)
}

func newReadySynchronizer(t *testing.T, friends FriendSource) (*Synchronizer, *fakeInventory) {
	t.Helper()
	inv := newFakeInventory()
	sync := NewSynchronizer(slog.Default(), inv, friends, uuid.New())
	sync.SyncFolders()
	require.True(t, sync.IsReady())
	return sync, inv
}

func TestSynchronizer_SyncFolders_WalksAllStates(t *testing.T) {
	req := require.New(t)
	inv := newFakeInventory()
	inv.deferFetches = true
	sync := NewSynchronizer(slog.Default(), inv, staticFriends{}, uuid.New())

	// Given a fresh synchronizer
	req.Equal(Uninitialized, sync.State())
	req.False(sync.IsReady())

	// When folders are synced with slow fetches
	sync.SyncFolders()
	req.Equal(LocatingFolder, sync.State())

	inv.resolvePending() // root descendants arrive, Friends gets created
	req.Equal(LoadingFriendsFolder, sync.State())

	inv.resolvePending() // Friends descendants arrive, All gets created
	req.Equal(LoadingAllSubfolder, sync.State())

	inv.resolvePending() // All descendants arrive
	req.True(sync.IsReady())
}

func TestSynchronizer_SyncFolders_ReusesExistingCategories(t *testing.T) {
	req := require.New(t)
	inv := newFakeInventory()
	root := uuid.New()

	// Given Friends/All already exist in inventory
	var friendsID uuid.UUID
	inv.CreateCategory(root, FriendsFolderName, func(id uuid.UUID, _ error) { friendsID = id })
	inv.CreateCategory(friendsID, AllFolderName, func(uuid.UUID, error) {})

	sync := NewSynchronizer(slog.Default(), inv, staticFriends{}, root)
	sync.SyncFolders()

	// Then sync completes without creating duplicates
	req.True(sync.IsReady())
	req.Len(inv.categories[root], 1)
	req.Len(inv.categories[friendsID], 1)
}

func TestSynchronizer_AddFriendCard_NotReadyIsNoop(t *testing.T) {
	req := require.New(t)
	inv := newFakeInventory()
	sync := NewSynchronizer(slog.Default(), inv, staticFriends{}, uuid.New())

	sync.AddFriendCard(uuid.New())

	req.Zero(inv.createCalls)
}

func TestSynchronizer_AddFriendCard_DuplicateIsNoop(t *testing.T) {
	req := require.New(t)
	peer := uuid.New()
	sync, inv := newReadySynchronizer(t, staticFriends{})

	sync.AddFriendCard(peer)
	sync.AddFriendCard(peer)

	req.Equal(1, inv.createCalls)
}

func TestSynchronizer_AddFriendCard_InFlightBlocksConcurrentCreate(t *testing.T) {
	req := require.New(t)
	peer := uuid.New()
	sync, inv := newReadySynchronizer(t, staticFriends{})

	// Given a create whose completion never fires
	held := &heldCreateInventory{fakeInventory: inv}
	sync.inv = held
	sync.AddFriendCard(peer)

	// When the same peer is added again before completion
	sync.AddFriendCard(peer)

	// Then only one create request went out
	req.Equal(1, held.createCalls)

	// And the slot frees once the completion lands
	held.release()
	sync.AddFriendCard(peer)
	req.Equal(1, held.createCalls) // card now exists, still no duplicate
}

// heldCreateInventory withholds CreateItem completions until released.
type heldCreateInventory struct {
	*fakeInventory
	held []func()
}

func (h *heldCreateInventory) CreateItem(parent uuid.UUID, owner domain.PeerID, onComplete func(item contract.InventoryItem, err error)) {
	h.createCalls++
	item := contract.InventoryItem{ID: uuid.New(), Parent: parent, Creator: owner}
	h.items[parent] = append(h.items[parent], item)
	h.held = append(h.held, func() { onComplete(item, nil) })
}

func (h *heldCreateInventory) release() {
	for _, fn := range h.held {
		fn()
	}
	h.held = nil
}

func TestSynchronizer_RemoveFriendCard_RemovesAllMatches(t *testing.T) {
	req := require.New(t)
	peer := uuid.New()
	sync, inv := newReadySynchronizer(t, staticFriends{})

	// Given two cards for the same peer, left over from a race
	inv.CreateItem(sync.allFolder, peer, func(contract.InventoryItem, error) {})
	inv.CreateItem(sync.allFolder, peer, func(contract.InventoryItem, error) {})

	sync.RemoveFriendCard(peer)

	req.Empty(inv.ItemsUnder(sync.allFolder))
}

func TestSynchronizer_ReconcileAll_Converges(t *testing.T) {
	req := require.New(t)
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	sync, inv := newReadySynchronizer(t, staticFriends{})
	sync.friends = staticFriends{peers: []domain.PeerID{a, b, c}}

	// Given cards for {B, C, D} while the store holds {A, B, C}
	inv.CreateItem(sync.allFolder, b, func(contract.InventoryItem, error) {})
	inv.CreateItem(sync.allFolder, c, func(contract.InventoryItem, error) {})
	inv.CreateItem(sync.allFolder, d, func(contract.InventoryItem, error) {})
	inv.createCalls = 0

	// When reconciliation runs to completion
	sync.ReconcileAll()

	// Then the card peer set equals {A, B, C}
	peers := lo.Map(inv.ItemsUnder(sync.allFolder), func(it contract.InventoryItem, _ int) domain.PeerID {
		return it.Creator
	})
	req.ElementsMatch([]domain.PeerID{a, b, c}, peers)
	req.Equal(1, inv.createCalls)
}

func TestSynchronizer_Changed_AddOrRemoveTriggersReconcile(t *testing.T) {
	req := require.New(t)
	peer := uuid.New()
	sync, inv := newReadySynchronizer(t, staticFriends{})
	sync.friends = staticFriends{peers: []domain.PeerID{peer}}

	// Online-only changes do not touch inventory
	sync.Changed(domain.ChangeOnline)
	req.Zero(inv.createCalls)

	// An add-kind change provokes a reconcile that creates the card
	sync.Changed(domain.ChangeAdded)
	req.Equal(1, inv.createCalls)
}

func TestSynchronizer_ReconcileAll_RebuildsDeletedFolders(t *testing.T) {
	req := require.New(t)
	peer := uuid.New()
	sync, inv := newReadySynchronizer(t, staticFriends{})
	sync.friends = staticFriends{peers: []domain.PeerID{peer}}
	root := sync.root

	// Given the user deleted the Friends folder behind our back
	inv.deleteCategory(root, FriendsFolderName)

	// When the next reconcile pass runs
	sync.ReconcileAll()

	// Then the structure is rebuilt and the machine is Ready again
	req.True(sync.IsReady())
	_, ok := inv.FindCategoryByName(root, FriendsFolderName)
	req.True(ok)
	req.Equal(1, inv.createCalls) // card recreated under the new All folder
}

func TestSynchronizer_AddFriendCard_FailedCreateRetriesOnNextReconcile(t *testing.T) {
	req := require.New(t)
	peer := uuid.New()
	sync, inv := newReadySynchronizer(t, staticFriends{})
	sync.friends = staticFriends{peers: []domain.PeerID{peer}}

	// Given the first create fails at the storage layer
	inv.createErr = errors.New("transient write failure")
	sync.ReconcileAll()
	req.Empty(inv.ItemsUnder(sync.allFolder))

	// When storage heals and the next reconcile pass runs
	inv.createErr = nil
	sync.ReconcileAll()

	// Then the peer is retried instead of staying blocked in flight
	req.Equal(2, inv.createCalls)
	req.NotEmpty(inv.ItemsUnder(sync.allFolder))
}

func TestSynchronizer_SyncFolders_CreateFailureAllowsRetry(t *testing.T) {
	req := require.New(t)
	inv := newFakeInventory()
	sync := NewSynchronizer(slog.Default(), inv, staticFriends{}, uuid.New())

	// Given the Friends folder create fails mid-sync
	inv.createErr = errors.New("transient write failure")
	sync.SyncFolders()
	req.Equal(Uninitialized, sync.State())

	// When storage heals, a later call walks the machine to Ready
	inv.createErr = nil
	sync.SyncFolders()
	req.True(sync.IsReady())
}

func TestSynchronizer_ReconcileAll_SeesCardsInNestedSubfolders(t *testing.T) {
	req := require.New(t)
	peer := uuid.New()
	sync, inv := newReadySynchronizer(t, staticFriends{})
	sync.friends = staticFriends{peers: []domain.PeerID{peer}}

	// Given the user moved the peer's card into their own subfolder
	var buddies uuid.UUID
	inv.CreateCategory(sync.friendsFolder, "Buddies", func(id uuid.UUID, _ error) { buddies = id })
	inv.CreateItem(buddies, peer, func(contract.InventoryItem, error) {})
	inv.createCalls = 0

	// When reconciliation runs, the nested card counts as existing
	sync.ReconcileAll()
	req.Zero(inv.createCalls)

	// And removal reaches into the subfolder too
	sync.friends = staticFriends{}
	sync.RemoveFriendCard(peer)
	req.Empty(inv.ItemsUnder(buddies))
}
