// Package bootstrap wires configuration, the event system and the widget
// services into a runnable application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/osse101/BrandishReveal_Go/internal/config"
	"github.com/osse101/BrandishReveal_Go/internal/effects"
	"github.com/osse101/BrandishReveal_Go/internal/event"
	"github.com/osse101/BrandishReveal_Go/internal/handler"
	"github.com/osse101/BrandishReveal_Go/internal/outcome"
	"github.com/osse101/BrandishReveal_Go/internal/profile"
	"github.com/osse101/BrandishReveal_Go/internal/server"
	"github.com/osse101/BrandishReveal_Go/internal/sse"
	"github.com/osse101/BrandishReveal_Go/internal/wheel"
	"github.com/osse101/BrandishReveal_Go/internal/widget"
	"github.com/osse101/BrandishReveal_Go/internal/worker"
)

// App is the assembled application
type App struct {
	cfg      *config.Config
	loop     *worker.RealLoop
	bus      event.Bus
	hub      *sse.Hub
	journal  *event.FaultJournal
	profiles *profile.Loader
	registry *widget.Registry
	server   *server.Server
}

// New assembles the application and starts its event loop and SSE hub.
// The HTTP server starts in Run.
func New(cfg *config.Config) (*App, error) {
	policy, err := wheel.ParsePolicy(cfg.SectorPolicy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidPolicy, err)
	}

	hub := sse.NewHub()
	bus, journal, err := InitializeEventSystem(cfg, hub)
	if err != nil {
		return nil, err
	}

	loop := worker.NewLoop(cfg.LoopQueueSize)
	profiles := profile.NewLoader(cfg.ProfilesPath)

	registry := widget.NewRegistry(widget.Deps{
		Loop:     loop,
		Bus:      bus,
		Hub:      hub,
		Bank:     effects.Init(nil, cfg.MasterVolume, cfg.SoundsMuted),
		Provider: outcome.NewHTTPProvider(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.ProviderTimeout),
		Profiles: profiles,
		Policy:   policy,
	}, cfg.WidgetCacheSize, cfg.WidgetTTL)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Registry:       registry,
		Hub:            hub,
		Profiles:       profiles,
		Readiness:      map[string]handler.HealthChecker{"loop": loop},
		Limits: server.GuardLimits{
			Window:          cfg.RateLimitWindow,
			MaxRequests:     cfg.RateLimitMax,
			FailedAuthAlert: cfg.AuthFailureAlert,
		},
	})

	hub.Start()
	loop.Start()

	return &App{
		cfg:      cfg,
		loop:     loop,
		bus:      bus,
		hub:      hub,
		journal:  journal,
		profiles: profiles,
		registry: registry,
		server:   srv,
	}, nil
}

// Run serves HTTP until ctx is cancelled or the server fails, then shuts
// everything down within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	slog.Info(LogMsgApplicationReady, "port", a.cfg.Port)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	a.Shutdown()
	return runErr
}

// Shutdown stops every component
func (a *App) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	GracefulShutdown(ctx, ShutdownComponents{
		Server:   a.server,
		Hub:      a.hub,
		Registry: a.registry,
		Loop:     a.loop,
		Journal:  a.journal,
	})
}

// ReloadProfiles drops cached presentation profiles. Widgets created
// afterwards see the files as they are now.
func (a *App) ReloadProfiles() {
	a.profiles.Invalidate()
	slog.Info(LogMsgProfilesReloaded)
}

// Registry returns the widget registry
func (a *App) Registry() *widget.Registry {
	return a.registry
}
