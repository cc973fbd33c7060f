package scheduler

import "time"

// Timing holds the per-game constants that bound a reveal animation
type Timing struct {
	// Spins is the number of full visual loops before landing
	Spins int `yaml:"spins" json:"spins" validate:"min=0,max=20"`
	// ReelStaggerSpins adds loops per reel so reels stop left to right
	ReelStaggerSpins int `yaml:"reel_stagger_spins" json:"reel_stagger_spins" validate:"min=0,max=10"`
	// DecelerationWindow is the number of final steps that slow down
	DecelerationWindow int `yaml:"deceleration_window" json:"deceleration_window" validate:"min=0,max=50"`

	StepIntervalFast    time.Duration `yaml:"step_interval_fast" json:"step_interval_fast" validate:"required,gt=0"`
	StepIntervalSlowMax time.Duration `yaml:"step_interval_slow_max" json:"step_interval_slow_max" validate:"required,gtefield=StepIntervalFast"`

	WheelDuration          time.Duration `yaml:"wheel_duration" json:"wheel_duration" validate:"gte=0"`
	WheelFrameInterval     time.Duration `yaml:"wheel_frame_interval" json:"wheel_frame_interval" validate:"gte=0"`
	WheelDecelerationStart float64       `yaml:"wheel_deceleration_start" json:"wheel_deceleration_start" validate:"gte=0,lte=1"`

	DigitSpinDuration time.Duration `yaml:"digit_spin_duration" json:"digit_spin_duration" validate:"gte=0"`
	DigitStagger      time.Duration `yaml:"digit_stagger" json:"digit_stagger" validate:"gte=0"`
}

// DefaultTiming returns the timing used when a game profile sets nothing
func DefaultTiming() Timing {
	return Timing{
		Spins:                  DefaultSpins,
		ReelStaggerSpins:       DefaultReelStaggerSpins,
		DecelerationWindow:     DefaultDecelerationWindow,
		StepIntervalFast:       DefaultStepIntervalFast,
		StepIntervalSlowMax:    DefaultStepIntervalSlowMax,
		WheelDuration:          DefaultWheelDuration,
		WheelFrameInterval:     DefaultWheelFrameInterval,
		WheelDecelerationStart: DefaultWheelDecelerationStart,
		DigitSpinDuration:      DefaultDigitSpinDuration,
		DigitStagger:           DefaultDigitStagger,
	}
}
