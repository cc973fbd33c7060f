package config

import "time"

// Environment variable names
const (
	EnvSchemaVersion    = "ENV_SCHEMA_VERSION"
	EnvPort             = "PORT"
	EnvAPIKey           = "API_KEY"
	EnvTrustedProxies   = "TRUSTED_PROXIES"
	EnvRateLimitWindow  = "RATE_LIMIT_WINDOW"
	EnvRateLimitMax     = "RATE_LIMIT_REQUESTS"
	EnvAuthFailureAlert = "AUTH_FAILURE_ALERT"
	EnvLogLevel         = "LOG_LEVEL"
	EnvLogFormat        = "LOG_FORMAT"
	EnvEnvironment      = "ENVIRONMENT"
	EnvProviderBaseURL  = "PROVIDER_BASE_URL"
	EnvProviderAPIKey   = "PROVIDER_API_KEY"
	EnvProviderTimeout  = "PROVIDER_TIMEOUT"
	EnvProfilesPath     = "PROFILES_PATH"
	EnvWidgetCacheSize  = "WIDGET_CACHE_SIZE"
	EnvWidgetTTL        = "WIDGET_TTL"
	EnvSectorPolicy     = "SECTOR_POLICY"
	EnvMasterVolume     = "MASTER_VOLUME"
	EnvSoundsMuted      = "SOUNDS_MUTED"
	EnvFaultJournalPath = "FAULT_JOURNAL_PATH"
	EnvLoopQueueSize    = "LOOP_QUEUE_SIZE"
	EnvShutdownTimeout  = "SHUTDOWN_TIMEOUT"
)

// Defaults
const (
	DefaultPort            = 8080
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultEnvironment     = "dev"
	DefaultRateLimitWindow = 5 * time.Minute
	DefaultRateLimitMax    = 1000
	DefaultAuthAlert       = 5
	DefaultProviderTimeout = 10 * time.Second
	DefaultProfilesPath    = "configs"
	DefaultWidgetCacheSize = 1024
	DefaultWidgetTTL       = 30 * time.Minute
	DefaultSectorPolicy    = "trust_server"
	DefaultMasterVolume    = 0.8
	DefaultLoopQueueSize   = 256
	DefaultShutdownTimeout = 10 * time.Second
)

// Placeholder values shipped in .env.example
const (
	ExampleAPIKey         = "your_secret_api_key_here"
	ExampleProviderAPIKey = "generate_with_openssl_rand_hex_32"
)
