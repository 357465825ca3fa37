package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

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

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the viewer lifecycle, and centralizes error reporting.
// This pattern ensures all 'defer' statements (database and index cleanup) execute before the
// program exits, and keeps the wiring testable apart from the main entry point.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return err
	}
	log := internal.GetLoggerFromString(config.LogLevel)

	localUser, err := config.LocalUser()
	if err != nil {
		return fmt.Errorf("invalid local user id: %w", err)
	}
	inventoryRoot, err := config.InventoryRoot()
	if err != nil {
		return fmt.Errorf("invalid inventory root id: %w", err)
	}

	// 2. Storage (BadgerDB) & Name Index (Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	nameIndex, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("name index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing name index...")
		_ = nameIndex.Close()
	}()

	// 3. Core assembly
	monitor := observability.NewMonitor(log)
	tracker := relationship.NewTracker(log)
	names := resolver.NewService(log, nameIndex)
	inventory := repositories.NewInventoryStore(db, log)
	transport := client.NewMessageSystem(log)

	cardSync := friendcards.NewSynchronizer(log, inventory, tracker, inventoryRoot)
	cardSync.SetStats(monitor)
	tracker.AddObserver(cardSync)
	cardSync.SyncFolders()

	// Telephony bridges join with reserved identities the server hands
	// out per session; this process only ever hosts real avatars.
	avatars := contract.AvatarCheckerFunc(func(domain.PeerID) bool { return true })

	presence := services.NewPresenceService(log, tracker, transport)

	sup := workers.NewSupervisor(log, config.RestartInterval)
	registry := runtime.NewRegistry()
	coordinator := runtime.NewCoordinator(log, sup, registry,
		tracker, monitor, names, avatars, localUser, presence,
		config.BufferSize, config.TickInterval, config.MonitorInterval)
	sessions := services.NewSessionService(coordinator)

	// Nearby chat is always live from login.
	nearby := sessions.Open(domain.SessionNearby, localUser)
	defer sessions.Close(nearby.ID)

	// 4. Debug inspector
	internal.StartDebugServer(log, db, config.DebugPort, "/inspect", cardMapper, func() map[string]any {
		stats := monitor.GetLatest()
		return map[string]any{
			"relationships":   stats.Relationships,
			"pending_changes": stats.PendingChanges,
			"live_sessions":   stats.LiveSessions,
			"cards_created":   stats.CardsCreated,
			"cards_removed":   stats.CardsRemoved,
			"dropped_events":  stats.DroppedEvents,
		}
	})

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Start the Engine
	if err = coordinator.Start(ctx); err != nil {
		return fmt.Errorf("coordinator failed to start: %w", err)
	}

	coordinator.Stop()
	log.Info("Program stopped cleanly")
	return nil
}

// cardMapper decodes the viewer's own records so the inspector shows
// names instead of byte counts.
func cardMapper(key string, val []byte) internal.InspectRow {
	row := internal.DefaultMapper(key, val)

	switch {
	case len(key) >= 4 && key[:4] == "cat:":
		var folder struct {
			ID     uuid.UUID `cbor:"1,keyasint"`
			Parent uuid.UUID `cbor:"2,keyasint"`
			Name   string    `cbor:"3,keyasint"`
		}
		if err := cbor.Unmarshal(val, &folder); err == nil {
			row.Detail = fmt.Sprintf("folder %q", folder.Name)
		}
	case len(key) >= 5 && key[:5] == "item:":
		var card struct {
			ID      uuid.UUID `cbor:"1,keyasint"`
			Parent  uuid.UUID `cbor:"2,keyasint"`
			Creator uuid.UUID `cbor:"3,keyasint"`
			Name    string    `cbor:"4,keyasint"`
		}
		if err := cbor.Unmarshal(val, &card); err == nil {
			row.Detail = fmt.Sprintf("card %q creator=%s", card.Name, card.Creator)
		}
	}
	return row
}
