package bootstrap

import (
	"io"
	"log/slog"
	"os"

	"github.com/osse101/BrandishReveal_Go/internal/config"
	"github.com/osse101/BrandishReveal_Go/internal/logger"
)

// SetupLogger initializes the default slog logger from the application config.
// Source locations are only added in development.
func SetupLogger(cfg *config.Config, version string) {
	SetupLoggerWithWriter(cfg, version, os.Stdout)
}

// SetupLoggerWithWriter is SetupLogger writing to w
func SetupLoggerWithWriter(cfg *config.Config, version string, w io.Writer) {
	addSource := cfg.Environment == logger.EnvironmentDev || cfg.Environment == "development"

	logger.InitLoggerWithWriter(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		logger.DefaultServiceName,
		version,
		cfg.Environment,
		addSource,
	), w)

	slog.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "format", cfg.LogFormat)
	slog.Info(LogMsgStarting,
		"environment", cfg.Environment,
		"version", version)

	slog.Debug(LogMsgConfigurationLoaded,
		"port", cfg.Port,
		"provider", cfg.ProviderBaseURL,
		"profiles", cfg.ProfilesPath,
		"sector_policy", cfg.SectorPolicy,
		"widget_cache_size", cfg.WidgetCacheSize,
		"widget_ttl", cfg.WidgetTTL,
		"auth_enabled", cfg.APIKey != "")
}
