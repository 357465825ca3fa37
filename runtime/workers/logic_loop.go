package workers

import (
	"context"
	"log/slog"
	"time"

	"gridchat/domain/event"
	"gridchat/observability"
)

// PresenceApplier maps one transport-in presence event onto the
// relationship tracker.
type PresenceApplier interface {
	Apply(evt event.PresenceEvent)
}

// Notifier is the tracker's per-tick notification surface.
type Notifier interface {
	HasPendingChanges() bool
	NotifyIfDirty()
}

// LogicLoop is the application's single logic goroutine. Presence
// events are applied as they arrive; once per tick, any queued events
// still in the channel are drained first and then the tracker runs its
// one observer-notification pass, so observers always see a batched,
// coalesced view of the tick's changes.
type LogicLoop struct {
	log          *slog.Logger
	events       <-chan event.PresenceEvent
	applier      PresenceApplier
	notifier     Notifier
	monitor      *observability.Monitor
	gauges       func() (relationships, pendingChanges, liveSessions int)
	tickInterval time.Duration
}

func NewLogicLoop(log *slog.Logger, events <-chan event.PresenceEvent, applier PresenceApplier,
	notifier Notifier, monitor *observability.Monitor,
	gauges func() (int, int, int), tickInterval time.Duration) *LogicLoop {
	return &LogicLoop{
		log:          log,
		events:       events,
		applier:      applier,
		notifier:     notifier,
		monitor:      monitor,
		gauges:       gauges,
		tickInterval: tickInterval,
	}
}

func (w *LogicLoop) Run(ctx context.Context) error {
	w.log.Info("Starting logic loop", "tick", w.tickInterval)
	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping logic loop")
			return nil
		case evt := <-w.events:
			w.applier.Apply(evt)
			w.monitor.IncrPresenceEvents()
		case <-ticker.C:
			w.drain()
			if w.notifier.HasPendingChanges() {
				w.notifier.NotifyIfDirty()
				w.monitor.IncrNotifyPasses()
			}
			if w.gauges != nil {
				w.monitor.ReportCore(w.gauges())
			}
		}
	}
}

// drain applies every event already queued so the notification pass
// sees all of the tick's mutations.
func (w *LogicLoop) drain() {
	for {
		select {
		case evt := <-w.events:
			w.applier.Apply(evt)
			w.monitor.IncrPresenceEvents()
		default:
			return
		}
	}
}
