package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/BrandishReveal_Go/internal/config"
	"github.com/osse101/BrandishReveal_Go/internal/event"
	"github.com/osse101/BrandishReveal_Go/internal/metrics"
	"github.com/osse101/BrandishReveal_Go/internal/sse"
)

// InitializeEventSystem creates the event bus and registers its subscribers:
// the metrics collector, the SSE bridge to hub and, when configured, the
// fault journal. The returned journal is nil when no path is configured and
// must be closed by the caller otherwise.
func InitializeEventSystem(cfg *config.Config, hub *sse.Hub) (event.Bus, *event.FaultJournal, error) {
	bus := event.NewMemoryBus()

	if err := metrics.NewEventMetricsCollector().Register(bus); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	sse.NewSubscriber(hub, bus).Subscribe()

	var journal *event.FaultJournal
	if cfg.FaultJournalPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FaultJournalPath), DirPermission); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateJournalDir, err)
		}
		j, err := event.NewFaultJournal(cfg.FaultJournalPath)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenJournal, err)
		}
		j.Register(bus)
		journal = j
		slog.Info(LogMsgFaultJournalOpened, "path", cfg.FaultJournalPath)
	}

	slog.Info(LogMsgEventSystemInitialized, "fault_journal", journal != nil)
	return bus, journal, nil
}
