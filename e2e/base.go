package e2e

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"

	"gridchat/client"
	"gridchat/contract"
	"gridchat/domain"
	"gridchat/friendcards"
	"gridchat/internal"
	"gridchat/observability"
	"gridchat/relationship"
	"gridchat/repositories"
	"gridchat/resolver"
	"gridchat/runtime"
	"gridchat/runtime/workers"
	"gridchat/services"
)

// BaseSuite assembles the whole conversation core in-process against
// real storage and a real name index. Every step runs on the test
// goroutine, which stands in for the logic goroutine; ticks are driven
// by calling the tracker's notification pass directly.
type BaseSuite struct {
	suite.Suite
	Config Config
}

// Harness is one fully wired core instance.
type Harness struct {
	Log       *slog.Logger
	Monitor   *observability.Monitor
	Tracker   *relationship.Tracker
	Inventory *repositories.InventoryStore
	Transport *client.MessageSystem
	Presence  *services.PresenceService
	CardSync  *friendcards.Synchronizer
	Names     *resolver.Service
	Sessions  *services.SessionService
	LocalUser domain.PeerID
	Root      uuid.UUID
}

// Tick runs one logic-loop tick's worth of observer notification.
func (h *Harness) Tick() {
	if h.Tracker.HasPendingChanges() {
		h.Tracker.NotifyIfDirty()
	}
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

// Step prints a colorized header so multi-step scenarios stay readable
// in the logs.
func (s *BaseSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// DumpRoster logs the sorted roster when E2E_DEBUG_STATE is enabled.
func (s *BaseSuite) DumpRoster(model interface{ Sorted() []domain.Participant }) {
	if !s.Config.DebugState {
		return
	}
	for i, p := range model.Sorted() {
		s.T().Logf("  roster[%d] %s moderator=%t spoke=%t", i, p.DisplayName, p.IsModerator, p.HasSpoken())
	}
}

// WithCore builds a fresh harness on temporary storage and hands it to
// the scenario step.
func (s *BaseSuite) WithCore(name string, fn func(h *Harness)) {
	s.Step(name)

	log := internal.GetLoggerFromString("debug")

	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })

	nameIndex, err := bluge.OpenWriter(bluge.DefaultConfig(s.T().TempDir()))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = nameIndex.Close() })

	h := &Harness{
		Log:       log,
		Monitor:   observability.NewMonitor(log),
		Tracker:   relationship.NewTracker(log),
		Inventory: repositories.NewInventoryStore(db, log),
		Transport: client.NewMessageSystem(log),
		Names:     resolver.NewService(log, nameIndex),
		LocalUser: uuid.New(),
		Root:      uuid.New(),
	}
	h.Presence = services.NewPresenceService(log, h.Tracker, h.Transport)
	h.CardSync = friendcards.NewSynchronizer(log, h.Inventory, h.Tracker, h.Root)
	h.CardSync.SetStats(h.Monitor)
	h.Tracker.AddObserver(h.CardSync)

	avatars := contract.AvatarCheckerFunc(func(domain.PeerID) bool { return true })
	supervisor := workers.NewSupervisor(log, 200*time.Millisecond)
	registry := runtime.NewRegistry()
	coordinator := runtime.NewCoordinator(log, supervisor, registry,
		h.Tracker, h.Monitor, h.Names, avatars, h.LocalUser, h.Presence,
		s.Config.BufferSize, s.Config.TickInterval, time.Second)
	h.Sessions = services.NewSessionService(coordinator)

	fn(h)
}
