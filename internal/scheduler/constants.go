package scheduler

import "time"

// Default timing, used when a game profile leaves a value unset
const (
	DefaultSpins                  = 3
	DefaultReelStaggerSpins       = 1
	DefaultDecelerationWindow     = 7
	DefaultStepIntervalFast       = 60 * time.Millisecond
	DefaultStepIntervalSlowMax    = 420 * time.Millisecond
	DefaultWheelDuration          = 5 * time.Second
	DefaultWheelFrameInterval     = 50 * time.Millisecond
	DefaultWheelDecelerationStart = 0.5
	DefaultDigitSpinDuration      = 1500 * time.Millisecond
	DefaultDigitStagger           = 700 * time.Millisecond
)

const fullTurn = 360.0

// finishSlot is the token slot of the deferred finish callback
const finishSlot = -1

// Log messages
const (
	LogMsgRunStarted    = "Reveal run started"
	LogMsgRunStopped    = "Reveal run stopped"
	LogMsgTickFailed    = "Tick handler failed, cancelling run"
	LogMsgPublishFailed = "Failed to publish reveal event"
)

// Error context strings
const (
	ErrContextTickFailed = "tick handler failed"
)
