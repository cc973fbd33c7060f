package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port           int      `validate:"min=1,max=65535"`
	APIKey         string   // empty disables API key checks
	TrustedProxies []string `validate:"dive,ip"`

	RateLimitWindow  time.Duration `validate:"gt=0"`
	RateLimitMax     int           `validate:"gte=0"` // 0 disables throttling
	AuthFailureAlert int           `validate:"gte=0"`

	LogLevel       string   `validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	LogFormat      string   `validate:"oneof=text json"`
	Environment    string   `validate:"required"`

	ProviderBaseURL string        `validate:"required,url"`
	ProviderAPIKey  string
	ProviderTimeout time.Duration `validate:"gt=0"`

	ProfilesPath     string
	WidgetCacheSize  int           `validate:"min=1"`
	WidgetTTL        time.Duration `validate:"gte=0"`
	SectorPolicy     string        `validate:"oneof=trust_server trust_recomputed reject"`
	MasterVolume     float64       `validate:"gte=0,lte=1"`
	SoundsMuted      bool
	FaultJournalPath string
	LoopQueueSize    int           `validate:"min=1"`
	ShutdownTimeout  time.Duration `validate:"gt=0"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:           getEnv(EnvAPIKey, ""),
		TrustedProxies:   getEnvAsList(EnvTrustedProxies),
		RateLimitWindow:  getEnvAsDuration(EnvRateLimitWindow, DefaultRateLimitWindow),
		RateLimitMax:     getEnvAsInt(EnvRateLimitMax, DefaultRateLimitMax),
		AuthFailureAlert: getEnvAsInt(EnvAuthFailureAlert, DefaultAuthAlert),
		LogLevel:         getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:        getEnv(EnvLogFormat, DefaultLogFormat),
		Environment:      getEnv(EnvEnvironment, DefaultEnvironment),
		ProviderBaseURL:  getEnv(EnvProviderBaseURL, ""),
		ProviderAPIKey:   getEnv(EnvProviderAPIKey, ""),
		ProviderTimeout:  getEnvAsDuration(EnvProviderTimeout, DefaultProviderTimeout),
		ProfilesPath:     getEnv(EnvProfilesPath, DefaultProfilesPath),
		WidgetCacheSize:  getEnvAsInt(EnvWidgetCacheSize, DefaultWidgetCacheSize),
		WidgetTTL:        getEnvAsDuration(EnvWidgetTTL, DefaultWidgetTTL),
		SectorPolicy:     getEnv(EnvSectorPolicy, DefaultSectorPolicy),
		MasterVolume:     getEnvAsFloat(EnvMasterVolume, DefaultMasterVolume),
		SoundsMuted:      getEnvAsBool(EnvSoundsMuted, false),
		FaultJournalPath: getEnv(EnvFaultJournalPath, ""),
		LoopQueueSize:    getEnvAsInt(EnvLoopQueueSize, DefaultLoopQueueSize),
		ShutdownTimeout:  getEnvAsDuration(EnvShutdownTimeout, DefaultShutdownTimeout),
	}

	portStr := getEnv(EnvPort, strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if cfg.ProviderBaseURL == "" {
		return nil, fmt.Errorf("%s environment variable must be set", EnvProviderBaseURL)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty items
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
