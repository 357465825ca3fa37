package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"gridchat/observability"
)

const heartbeatInterval = 5 * time.Second

// HeartbeatWorker samples the viewer process itself (RSS, CPU) into
// the monitor so the debug dashboard can spot a leaking session model.
type HeartbeatWorker struct {
	log     *slog.Logger
	monitor *observability.Monitor
}

func NewHeartbeatWorker(log *slog.Logger, monitor *observability.Monitor) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, monitor: monitor}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker")
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rss, cpu, err := selfStats(proc)
			if err != nil {
				w.log.Warn("Self stats sample failed", "error", err)
				continue
			}
			w.monitor.ReportProcess(rss, cpu)
		}
	}
}

func selfStats(proc *process.Process) (rssMb uint64, cpuPct float64, err error) {
	mem, err := proc.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpu, err := proc.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return mem.RSS / 1024 / 1024, cpu, nil
}
