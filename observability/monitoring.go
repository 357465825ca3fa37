package observability

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Stats aggregates the conversation core's live counters for the
// debug dashboard.
type Stats struct {
	Relationships   int     `json:"relationships"`
	PendingChanges  int     `json:"pending_changes"`
	LiveSessions    int     `json:"live_sessions"`
	PresenceEvents  uint64  `json:"presence_events"`
	NotifyPasses    uint64  `json:"notify_passes"`
	CardsCreated    uint64  `json:"cards_created"`
	CardsRemoved    uint64  `json:"cards_removed"`
	DroppedEvents   uint64  `json:"dropped_events"`
	HeartbeatRSSMb  uint64  `json:"heartbeat_rss_mb"`
	HeartbeatCPUPct float64 `json:"heartbeat_cpu_pct"`
	AllocMemMb      uint64  `json:"alloc_mem_mb"`
	NumGC           uint32  `json:"num_gc"`
}

// Monitor collects counters from the logic loop and workers. Counters
// are atomic; the assembled snapshot is guarded by a mutex.
type Monitor struct {
	log *slog.Logger

	mu     sync.RWMutex
	latest Stats

	presenceEvents uint64
	notifyPasses   uint64
	cardsCreated   uint64
	cardsRemoved   uint64
	droppedEvents  uint64
}

func NewMonitor(log *slog.Logger) *Monitor {
	return &Monitor{log: log}
}

// ReportCore records the logic loop's per-tick gauges. The tracker and
// registry are only read on the logic goroutine, so the gauges travel
// by value instead of the monitor reaching in.
func (m *Monitor) ReportCore(relationships, pendingChanges, liveSessions int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest.Relationships = relationships
	m.latest.PendingChanges = pendingChanges
	m.latest.LiveSessions = liveSessions
}

func (m *Monitor) IncrPresenceEvents() { atomic.AddUint64(&m.presenceEvents, 1) }
func (m *Monitor) IncrNotifyPasses()   { atomic.AddUint64(&m.notifyPasses, 1) }
func (m *Monitor) IncrCardsCreated()   { atomic.AddUint64(&m.cardsCreated, 1) }
func (m *Monitor) IncrCardsRemoved()   { atomic.AddUint64(&m.cardsRemoved, 1) }
func (m *Monitor) IncrDroppedEvents()  { atomic.AddUint64(&m.droppedEvents, 1) }

// ReportProcess records the heartbeat worker's self-sample.
func (m *Monitor) ReportProcess(rssMb uint64, cpuPct float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest.HeartbeatRSSMb = rssMb
	m.latest.HeartbeatCPUPct = cpuPct
}

// Listen refreshes the snapshot once per interval until the context
// ends.
func (m *Monitor) Listen(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("Monitor stopped")
			return
		case <-ticker.C:
			m.updateStats()
		}
	}
}

func (m *Monitor) updateStats() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.latest.PresenceEvents = atomic.LoadUint64(&m.presenceEvents)
	m.latest.NotifyPasses = atomic.LoadUint64(&m.notifyPasses)
	m.latest.CardsCreated = atomic.LoadUint64(&m.cardsCreated)
	m.latest.CardsRemoved = atomic.LoadUint64(&m.cardsRemoved)
	m.latest.DroppedEvents = atomic.LoadUint64(&m.droppedEvents)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.latest.AllocMemMb = memStats.Alloc / 1024 / 1024
	m.latest.NumGC = memStats.NumGC

	m.log.Debug("Stats refreshed",
		"relationships", m.latest.Relationships,
		"pending", m.latest.PendingChanges,
		"sessions", m.latest.LiveSessions,
		"notify_passes", m.latest.NotifyPasses,
	)
}

func (m *Monitor) GetLatest() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}
