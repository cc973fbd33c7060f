package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, m := range ValidModes {
		got, err := ParseMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMode("slots")
	assert.ErrorIs(t, err, ErrInvalidMode)
	_, err = ParseMode("")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestMode_IsIndexed(t *testing.T) {
	assert.True(t, ModeGrid.IsIndexed())
	assert.True(t, ModeReel.IsIndexed())
	assert.True(t, ModeDigit.IsIndexed())
	assert.False(t, ModeWheel.IsIndexed())
}

func TestPhase_Text(t *testing.T) {
	for _, p := range []Phase{PhaseIdle, PhaseSpinning, PhaseDecelerating, PhaseStopped} {
		text, err := p.MarshalText()
		require.NoError(t, err)

		var back Phase
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, p, back)
	}

	var p Phase
	assert.ErrorIs(t, p.UnmarshalText([]byte("paused")), ErrInvalidInput)
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestPhase_IsActive(t *testing.T) {
	assert.False(t, PhaseIdle.IsActive())
	assert.True(t, PhaseSpinning.IsActive())
	assert.True(t, PhaseDecelerating.IsActive())
	assert.False(t, PhaseStopped.IsActive())
}
