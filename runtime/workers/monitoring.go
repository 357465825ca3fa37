package workers

import (
	"context"
	"log/slog"
	"time"

	"gridchat/observability"
)

// MonitoringWorker hosts the monitor's refresh loop under
// supervision.
type MonitoringWorker struct {
	log      *slog.Logger
	monitor  *observability.Monitor
	interval time.Duration
}

func NewMonitoringWorker(log *slog.Logger, monitor *observability.Monitor, interval time.Duration) *MonitoringWorker {
	return &MonitoringWorker{log: log, monitor: monitor, interval: interval}
}

func (w *MonitoringWorker) Run(ctx context.Context) error {
	w.monitor.Listen(ctx, w.interval)
	return nil
}
