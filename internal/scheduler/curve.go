package scheduler

import (
	"math"
	"time"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
)

// IndexDistance returns the number of steps a reel walks from position 0 to
// land on target after the given number of full loops.
func IndexDistance(spins, poolLength, target int) int {
	return spins*poolLength + target
}

// DigitDistances converts the per-reel free-spin duration into step counts that
// land each digit reel on its target. Totals strictly increase with the reel
// index so the last reel always stops last.
func DigitDistances(digits []int, t Timing) []int {
	totals := make([]int, len(digits))
	for i, d := range digits {
		spin := t.DigitSpinDuration + time.Duration(i)*t.DigitStagger
		base := 0
		if t.StepIntervalFast > 0 {
			base = int(spin / t.StepIntervalFast)
		}
		settle := mod(d-base, domain.DigitPoolLength)
		total := base + settle
		if i > 0 {
			for total <= totals[i-1] {
				total += domain.DigitPoolLength
			}
		}
		totals[i] = total
	}
	return totals
}

// StepDelay returns the wait before the step that leaves stepsRemaining steps.
// Outside the deceleration window the reel moves at StepIntervalFast; inside it
// the delay grows linearly to StepIntervalSlowMax on the final step. The
// sequence is non-decreasing as stepsRemaining shrinks.
func StepDelay(stepsRemaining int, t Timing) time.Duration {
	if t.DecelerationWindow <= 0 || stepsRemaining >= t.DecelerationWindow {
		return t.StepIntervalFast
	}
	if stepsRemaining < 0 {
		stepsRemaining = 0
	}
	progress := 1 - float64(stepsRemaining)/float64(t.DecelerationWindow)
	span := float64(t.StepIntervalSlowMax - t.StepIntervalFast)
	return t.StepIntervalFast + time.Duration(span*progress)
}

// EaseOutCubic maps linear progress to eased progress; its slope (the angular
// velocity of the wheel) decreases monotonically to zero at t=1.
func EaseOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	inv := 1 - t
	return 1 - inv*inv*inv
}

// WheelFrames returns how many frames the eased wheel transition is sampled at
func WheelFrames(t Timing) int {
	if t.WheelFrameInterval <= 0 || t.WheelDuration <= 0 {
		return 1
	}
	n := int(math.Ceil(float64(t.WheelDuration) / float64(t.WheelFrameInterval)))
	if n < 1 {
		n = 1
	}
	return n
}

// WheelFinalAngle raises the declared angle by whole turns so that at least
// spins turns are shown. The angle under the pointer does not change. It runs
// in constant time for any finite angle.
func WheelFinalAngle(angle float64, spins int) float64 {
	minimum := float64(spins) * fullTurn
	if angle >= minimum {
		return angle
	}
	rest := math.Mod(angle, fullTurn)
	if rest < 0 {
		rest += fullTurn
	}
	return minimum + rest
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
