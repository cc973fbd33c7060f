package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/osse101/BrandishReveal_Go/internal/bootstrap"
	"github.com/osse101/BrandishReveal_Go/internal/config"
	"github.com/osse101/BrandishReveal_Go/internal/handler"
)

func main() {
	// Load .env before validating so file-based settings count
	_ = godotenv.Load()

	warnings, err := config.ValidateEnvWithWarnings()
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "config warning:", w)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "environment validation failed:", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	bootstrap.SetupLogger(cfg, handler.Version)

	app, err := bootstrap.New(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// SIGHUP reloads presentation profiles without a restart
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-hup:
				app.ReloadProfiles()
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := app.Run(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
