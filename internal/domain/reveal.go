package domain

import (
	"fmt"
	"strings"
)

// Mode identifies which kind of reveal widget an outcome belongs to
type Mode string

const (
	ModeGrid  Mode = "grid"  // case opening: one winning entry in a flat pool
	ModeReel  Mode = "reel"  // slots: one target per independent reel
	ModeWheel Mode = "wheel" // spinning wheel: sector + continuous rotation angle
	ModeDigit Mode = "digit" // safe lock: three independent digit reels
)

// ValidModes lists every supported reveal mode
var ValidModes = []Mode{ModeGrid, ModeReel, ModeWheel, ModeDigit}

// ParseMode converts a string into a Mode
func ParseMode(s string) (Mode, error) {
	for _, m := range ValidModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidMode, s)
}

// IsIndexed reports whether the mode walks discrete positions in a pool
func (m Mode) IsIndexed() bool {
	return m == ModeGrid || m == ModeReel || m == ModeDigit
}

// EntryID identifies one entry of a candidate pool
type EntryID string

// DigitCount is the number of digit reels in a safe lock
const DigitCount = 3

// DigitPoolLength is the number of faces on a digit reel
const DigitPoolLength = 10

// OutcomePayload is the authoritative result of one play, discriminated by mode
type OutcomePayload interface {
	Mode() Mode
}

// GridOutcome names the single winning entry of a flat pool
type GridOutcome struct {
	TargetID EntryID `json:"target_id"`
}

// Mode implements OutcomePayload
func (GridOutcome) Mode() Mode { return ModeGrid }

// ReelOutcome carries one target index per reel
type ReelOutcome struct {
	PerReelTargetIndex []int `json:"per_reel_target_index"`
}

// Mode implements OutcomePayload
func (ReelOutcome) Mode() Mode { return ModeReel }

// WheelOutcome carries both the discrete sector and the angle that must visually produce it
type WheelOutcome struct {
	TargetSectorIndex    int     `json:"target_sector_index"`
	RotationAngleDegrees float64 `json:"rotation_angle_degrees"`
}

// Mode implements OutcomePayload
func (WheelOutcome) Mode() Mode { return ModeWheel }

// DigitOutcome carries the secret and user digits of a safe lock plus the match tally
type DigitOutcome struct {
	SecretDigits [DigitCount]int `json:"secret_digits"`
	UserDigits   [DigitCount]int `json:"user_digits"`
	MatchCount   int             `json:"match_count"`
}

// Mode implements OutcomePayload
func (DigitOutcome) Mode() Mode { return ModeDigit }

// Matches compares secret and user digits position by position
func (d DigitOutcome) Matches() [DigitCount]bool {
	var out [DigitCount]bool
	for i := range d.SecretDigits {
		out[i] = d.SecretDigits[i] == d.UserDigits[i]
	}
	return out
}

// CountMatches recomputes the match tally from the digits
func (d DigitOutcome) CountMatches() int {
	n := 0
	for _, m := range d.Matches() {
		if m {
			n++
		}
	}
	return n
}

// Outcome is what the outcome provider returns for a single play action
type Outcome struct {
	Payload   OutcomePayload `json:"payload"`
	Message   string         `json:"message"`
	PrizeType string         `json:"prize_type,omitempty"`
	WonItem   string         `json:"won_item,omitempty"`
}

// PrizeTypeNone marks an outcome that won nothing
const PrizeTypeNone = "none"

// IsWin reports whether the outcome awarded anything
func (o Outcome) IsWin() bool {
	if o.WonItem != "" {
		return true
	}
	return o.PrizeType != "" && !strings.EqualFold(o.PrizeType, PrizeTypeNone)
}

// CandidateEntry is one display entry of a candidate pool
type CandidateEntry struct {
	ID             EntryID                `json:"id" validate:"required"`
	DisplayPayload map[string]interface{} `json:"display,omitempty"`
	Eligible       bool                   `json:"eligible"`
}

// NormalizedTarget is the canonical landing position for one reel of a session
type NormalizedTarget struct {
	ReelID       int     `json:"reel_id"`
	Mode         Mode    `json:"mode"`
	TargetIndex  int     `json:"target_index"` // index in the full pool; the digit for digit mode; the sector for wheel mode
	PoolLength   int     `json:"pool_length"`
	AngleDegrees float64 `json:"angle_degrees,omitempty"` // wheel mode only
}

// Phase is the state of an animation session or of one of its reels
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSpinning
	PhaseDecelerating
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSpinning:
		return "spinning"
	case PhaseDecelerating:
		return "decelerating"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IsActive reports whether the phase blocks a new session (single flight)
func (p Phase) IsActive() bool {
	return p == PhaseSpinning || p == PhaseDecelerating
}

// MarshalText renders the phase name in JSON payloads
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name produced by MarshalText
func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{PhaseIdle, PhaseSpinning, PhaseDecelerating, PhaseStopped} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("%w: unknown phase %q", ErrInvalidInput, text)
}
