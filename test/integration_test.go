package test

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"gridchat/client"
	"gridchat/contract"
	"gridchat/domain"
	"gridchat/domain/event"
	"gridchat/friendcards"
	"gridchat/internal"
	"gridchat/mocks"
	"gridchat/observability"
	"gridchat/relationship"
	"gridchat/repositories"
	"gridchat/resolver"
	"gridchat/runtime"
	"gridchat/runtime/workers"
	"gridchat/services"
)

func Test_Scenario(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	// Reduced to 16 Mo for testing (avoid 20 Go of storage)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)

	log := internal.GetLoggerFromString("debug")
	localUser := uuid.New()
	friend := uuid.New()
	root := uuid.New()

	// 1. Assemble the core on the test goroutine, before any worker runs
	monitor := observability.NewMonitor(log)
	tracker := relationship.NewTracker(log)
	inventory := repositories.NewInventoryStore(db, log)
	transport := client.NewMessageSystem(log)
	presence := services.NewPresenceService(log, tracker, transport)

	// Login snapshot lands before the folder sync, so the card sweep
	// at readiness already sees the friend list
	added := presence.LoadSnapshot([]domain.Relationship{
		{Peer: friend, GrantedToPeer: domain.RightOnlineStatus},
	})
	req.Equal(1, added)

	cardSync := friendcards.NewSynchronizer(log, inventory, tracker, root)
	cardSync.SetStats(monitor)
	tracker.AddObserver(cardSync)
	cardSync.SyncFolders()
	req.True(cardSync.IsReady())

	// The badger-backed inventory completes synchronously, so both
	// folders and the friend's card exist before the engine starts
	friendsFolder, ok := inventory.FindCategoryByName(root, friendcards.FriendsFolderName)
	req.True(ok)
	allFolder, ok := inventory.FindCategoryByName(friendsFolder, friendcards.AllFolderName)
	req.True(ok)
	creators := lo.Map(inventory.ItemsUnder(allFolder), func(item contract.InventoryItem, _ int) domain.PeerID {
		return item.Creator
	})
	req.Equal([]domain.PeerID{friend}, creators)

	// 2. Create channel to wait for a signal at the end of process
	done := make(chan struct{})
	ctrl := gomock.NewController(t)
	mockObserver := mocks.NewMockRelationshipObserver(ctrl)
	mockObserver.EXPECT().
		Changed(gomock.Any()).
		Do(func(mask domain.ChangeMask) {
			if mask.Has(domain.ChangeOnline) {
				close(done) // Signaling the presence flip reached the observers
			}
		}).
		AnyTimes()
	tracker.AddObserver(mockObserver)

	names := resolver.NewService(log, nil)
	avatars := contract.AvatarCheckerFunc(func(domain.PeerID) bool { return true })

	supervisor := workers.NewSupervisor(log, 200*time.Millisecond)
	registry := runtime.NewRegistry()
	coordinator := runtime.NewCoordinator(log, supervisor, registry,
		tracker, monitor, names, avatars, localUser, presence,
		100, 50*time.Millisecond, time.Second)

	go func() {
		_ = coordinator.Start(ctx)
	}()

	// Clean everything at the end of the test
	t.Cleanup(func() {
		coordinator.Stop()
		db.Close()
	})

	// When the server pushes the friend coming online
	coordinator.Dispatch(event.PresenceEvent{
		Peer: friend,
		Kind: event.PeerOnline,
		At:   time.Now().UTC(),
	})

	// And wait time for channels & goroutines
	select {
	case <-done:
		// Then the coalesced change reached the observers within a tick
	case <-time.After(2 * time.Second):
		req.Fail("Timeout: presence change never reached the observers")
	}
}
