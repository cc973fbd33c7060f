package reveal

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/scheduler"
)

// Profile configures the default post-stop timeline of a game
type Profile struct {
	StopSound        string        `yaml:"stop_sound" json:"stop_sound"`
	WinSound         string        `yaml:"win_sound" json:"win_sound"`
	Burst            string        `yaml:"burst" json:"burst"`
	ParticleDelay    time.Duration `yaml:"particle_delay" json:"particle_delay" validate:"gte=0"`
	DigitMarkers     bool          `yaml:"digit_markers" json:"digit_markers"`
	DigitMarkerDelay time.Duration `yaml:"digit_marker_delay" json:"digit_marker_delay" validate:"gte=0"`
	ToastGap         time.Duration `yaml:"toast_gap" json:"toast_gap" validate:"gte=0"`
}

// DefaultProfile returns the reveal profile used when a game sets nothing
func DefaultProfile() Profile {
	return Profile{
		StopSound:        DefaultStopSound,
		WinSound:         DefaultWinSound,
		Burst:            DefaultBurst,
		ParticleDelay:    DefaultParticleDelay,
		DigitMarkers:     true,
		DigitMarkerDelay: DefaultDigitMarkerDelay,
		ToastGap:         DefaultToastGap,
	}
}

// Build returns the default timeline for a finished run: highlight and stop
// sound at the moment of stop, a particle burst for wins, digit markers for
// digit mode, and the toast after every other entry. A nil outcome is a
// fail-closed stop and only shows an error toast.
func Build(res scheduler.Result, out *domain.Outcome, p Profile) Timeline {
	if out == nil || res.Err != nil {
		return Timeline{{Effect: domain.Effect{
			Kind:    domain.EffectToast,
			Message: MsgRevealFailed,
			Style:   domain.ToastStyleError,
		}}}
	}

	var tl Timeline
	for reelID, idx := range res.FinalIndexes {
		tl = append(tl, Entry{Effect: domain.Effect{Kind: domain.EffectHighlight, ReelID: reelID, Index: idx}})
	}
	if p.StopSound != "" {
		tl = append(tl, Entry{Effect: domain.Effect{Kind: domain.EffectSound, Name: p.StopSound}})
	}

	win := out.IsWin()
	if win {
		if p.WinSound != "" {
			tl = append(tl, Entry{Delay: p.ParticleDelay, Effect: domain.Effect{Kind: domain.EffectSound, Name: p.WinSound}})
		}
		if p.Burst != "" {
			tl = append(tl, Entry{Delay: p.ParticleDelay, Effect: domain.Effect{Kind: domain.EffectBurst, Name: p.Burst}})
		}
	}

	if digits, ok := out.Payload.(domain.DigitOutcome); ok && p.DigitMarkers {
		for pos, matched := range digits.Matches() {
			tl = append(tl, Entry{
				Delay:  p.DigitMarkerDelay,
				Effect: domain.Effect{Kind: domain.EffectDigitMarker, Position: pos, Matched: matched},
			})
		}
	}

	style := domain.ToastStyleInfo
	if win {
		style = domain.ToastStyleSuccess
	}
	tl = append(tl, Entry{
		Delay:  tl.End() + p.ToastGap,
		Effect: domain.Effect{Kind: domain.EffectToast, Message: ToastMessage(out), Style: style},
	})
	return tl
}

// ToastMessage returns the provider's message, or a generated one when the
// provider sent none.
func ToastMessage(out *domain.Outcome) string {
	if out.Message != "" {
		return out.Message
	}
	if out.IsWin() {
		prize := ""
		if out.PrizeType != "" && !strings.EqualFold(out.PrizeType, domain.PrizeTypeNone) {
			prize = cases.Title(language.English).String(strings.ReplaceAll(out.PrizeType, "_", " "))
		}
		switch {
		case prize != "" && out.WonItem != "":
			return fmt.Sprintf(MsgWinItemFormat, prize, out.WonItem)
		case out.WonItem != "":
			return fmt.Sprintf(MsgWinFormat, out.WonItem)
		default:
			return fmt.Sprintf(MsgWinFormat, prize)
		}
	}
	if digits, ok := out.Payload.(domain.DigitOutcome); ok {
		return fmt.Sprintf(MsgDigitMatchesFmt, digits.CountMatches(), domain.DigitCount)
	}
	return MsgNoPrize
}
