package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestJSONLogging(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	InitLoggerWithWriter(Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "test-service",
		Version:     "1.0.0",
		Environment: EnvironmentTest,
	}, &buf)

	Info("test message", "key", "value", "number", 42)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "test-service", entry[AttrKeyService])
	assert.Equal(t, "1.0.0", entry[AttrKeyVersion])
	assert.Equal(t, EnvironmentTest, entry[AttrKeyEnvironment])
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, float64(42), entry["number"])
}

func TestLevelFiltering(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	InitLoggerWithWriter(NewConfig("WARN", "text", DefaultServiceName, DefaultVersion, EnvironmentDev, false), &buf)

	Debug("hidden debug")
	Info("hidden info")
	Warn("shown warn")
	Error("shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown warn")
	assert.Contains(t, out, "shown error")
}

func TestRequestIDContext(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	InitLoggerWithWriter(NewConfig("info", "json", DefaultServiceName, DefaultVersion, EnvironmentTest, false), &buf)

	ctx := WithRequestID(context.Background(), "test-req-123")
	assert.Equal(t, "test-req-123", GetRequestID(ctx))

	FromContext(ctx).Info("with id")
	assert.Contains(t, buf.String(), `"request_id":"test-req-123"`)

	buf.Reset()
	FromContext(context.Background()).Info("without id")
	assert.NotContains(t, buf.String(), AttrKeyRequestID)

	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
	assert.Equal(t, 4, strings.Count(a, "-"))
}

func TestConfigLevels(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for level, want := range tests {
		assert.Equal(t, want, Config{Level: level}.LogLevel(), level)
	}
}

func TestPresetConfigs(t *testing.T) {
	def := DefaultConfig()
	assert.Equal(t, DefaultServiceName, def.ServiceName)
	assert.NotEmpty(t, def.Level)
	assert.False(t, def.IsJSON())

	prod := ProductionConfig()
	assert.True(t, prod.IsJSON())
	assert.Equal(t, LogLevelInfo, prod.Level)
	assert.Equal(t, EnvironmentProduction, prod.Environment)
	assert.False(t, prod.AddSource)

	dev := DevelopmentConfig()
	assert.Equal(t, LogFormatText, dev.Format)
	assert.Equal(t, LogLevelDebug, dev.Level)
	assert.True(t, dev.AddSource)
}
