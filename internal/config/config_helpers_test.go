package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty-two")
	t.Setenv("TEST_DURATION", "750ms")
	t.Setenv("TEST_BAD_DURATION", "soon")
	t.Setenv("TEST_FLOAT", "0.5")
	t.Setenv("TEST_BOOL", "1")
	t.Setenv("TEST_BAD_BOOL", "perhaps")

	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 7))
	assert.Equal(t, 7, getEnvAsInt("TEST_BAD_INT", 7))
	assert.Equal(t, 7, getEnvAsInt("TEST_UNSET_INT", 7))

	assert.Equal(t, 750*time.Millisecond, getEnvAsDuration("TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, getEnvAsDuration("TEST_BAD_DURATION", time.Second))

	assert.InDelta(t, 0.5, getEnvAsFloat("TEST_FLOAT", 1), 1e-9)
	assert.InDelta(t, 1.0, getEnvAsFloat("TEST_UNSET_FLOAT", 1), 1e-9)

	assert.True(t, getEnvAsBool("TEST_BOOL", false))
	assert.True(t, getEnvAsBool("TEST_BAD_BOOL", true))

	assert.Equal(t, "fallback", getEnv("TEST_UNSET_STRING", "fallback"))
}
