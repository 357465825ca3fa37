package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gridchat/contract"
	"gridchat/domain"
	"gridchat/domain/event"
	"gridchat/observability"
	"gridchat/relationship"
	"gridchat/roster"
	"gridchat/runtime/workers"
	"gridchat/speakers"
)

// Coordinator owns the conversation core's moving parts: the presence
// event queue feeding the logic loop, the session registry, and the
// supervised workers. UI-facing services call into it; it never calls
// back into them.
type Coordinator struct {
	log        *slog.Logger
	supervisor contract.ISupervisor
	registry   *Registry
	tracker    *relationship.Tracker
	monitor    *observability.Monitor

	resolver  contract.NameResolver
	avatars   contract.AvatarChecker
	localUser domain.PeerID

	presenceEvents chan event.PresenceEvent
	applier        workers.PresenceApplier
	tickInterval   time.Duration
	monitorPeriod  time.Duration
}

func NewCoordinator(log *slog.Logger, supervisor *workers.Supervisor, registry *Registry,
	tracker *relationship.Tracker, monitor *observability.Monitor,
	resolver contract.NameResolver, avatars contract.AvatarChecker, localUser domain.PeerID,
	applier workers.PresenceApplier, bufferSize int, tickInterval, monitorPeriod time.Duration) *Coordinator {
	return &Coordinator{
		log:            log,
		supervisor:     supervisor,
		registry:       registry,
		tracker:        tracker,
		monitor:        monitor,
		resolver:       resolver,
		avatars:        avatars,
		localUser:      localUser,
		presenceEvents: make(chan event.PresenceEvent, bufferSize),
		applier:        applier,
		tickInterval:   tickInterval,
		monitorPeriod:  monitorPeriod,
	}
}

// Dispatch queues one transport-in presence event for the logic loop.
// The queue never blocks the message system; a full queue drops the
// event, which the next authoritative snapshot corrects.
func (c *Coordinator) Dispatch(evt event.PresenceEvent) {
	select {
	case c.presenceEvents <- evt:
	default:
		c.log.Warn(fmt.Sprintf("Presence queue full, dropping %s for %s", evt.Kind, evt.Peer))
		c.monitor.IncrDroppedEvents()
	}
}

// OpenSession creates the speaker manager and roster for a new
// conversation and registers them. Nearby chat pins the local user and
// sorts by distance by default.
func (c *Coordinator) OpenSession(sessionType domain.SessionType) *Session {
	id := uuid.New()
	manager := speakers.NewManager(c.log, id)

	pinLocal := sessionType == domain.SessionNearby
	model := roster.NewModel(c.log, manager, c.resolver, c.avatars, c.localUser, pinLocal)
	if sessionType == domain.SessionNearby {
		model.SetSortOrder(domain.SortByDistance)
	}

	session := &Session{ID: id, Type: sessionType, Manager: manager, Roster: model}
	c.registry.Register(session)
	c.log.Info("Conversation session opened", "session", id, "type", sessionType.String())
	return session
}

// CloseSession tears a session down; unknown IDs are benign.
func (c *Coordinator) CloseSession(id domain.SessionID) {
	c.registry.Unregister(id)
	c.log.Info("Conversation session closed", "session", id)
}

// Session returns the live session for id.
func (c *Coordinator) Session(id domain.SessionID) (*Session, bool) {
	return c.registry.Lookup(id)
}

// Start registers the workers and runs the supervisor until the
// context ends.
func (c *Coordinator) Start(ctx context.Context) error {
	gauges := func() (int, int, int) {
		return c.tracker.Len(), len(c.tracker.PendingChanges()), c.registry.Len()
	}

	c.supervisor.Add(
		workers.NewLogicLoop(c.log, c.presenceEvents, c.applier, c.tracker, c.monitor, gauges, c.tickInterval),
		workers.NewHeartbeatWorker(c.log, c.monitor),
		workers.NewMonitoringWorker(c.log, c.monitor, c.monitorPeriod),
	)

	c.log.Info("Starting coordinator and all supervised workers")
	c.supervisor.Run(ctx)
	return nil
}

// Stop initiates a graceful shutdown.
func (c *Coordinator) Stop() {
	c.log.Info("Requesting coordinator shutdown")
	c.supervisor.Stop()
}
