package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/BrandishReveal_Go/internal/event"
	"github.com/osse101/BrandishReveal_Go/internal/server"
	"github.com/osse101/BrandishReveal_Go/internal/sse"
	"github.com/osse101/BrandishReveal_Go/internal/widget"
	"github.com/osse101/BrandishReveal_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil components are skipped.
type ShutdownComponents struct {
	Server   *server.Server
	Hub      *sse.Hub
	Registry *widget.Registry
	Loop     *worker.RealLoop
	Journal  *event.FaultJournal
}

// GracefulShutdown stops the application in dependency order:
//  1. SSE hub, so open event streams end and the server can drain
//  2. HTTP server
//  3. widgets, cancelling their pending ticks and effects on the loop
//  4. the event loop
//  5. the fault journal, after the last fault could have been published
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDown)

	if c.Hub != nil {
		slog.Info(LogMsgStoppingStreams)
		c.Hub.Stop()
	}

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Registry != nil {
		slog.Info(LogMsgClosingWidgets, "count", c.Registry.Len())
		c.Registry.Close()
	}

	if c.Loop != nil {
		slog.Info(LogMsgStoppingLoop)
		c.Loop.Stop()
	}

	if c.Journal != nil {
		if err := c.Journal.Close(); err != nil {
			slog.Error(LogMsgJournalCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgShutdownComplete)
}
