package outcome

import (
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// flexID accepts ids sent either as JSON strings or numbers
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n jsoniter.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

type wireItem struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

// wireResponse is the union of every field the game server sends back for a play
type wireResponse struct {
	Message   string    `json:"message"`
	Error     string    `json:"error"`
	PrizeType string    `json:"prize_type"`
	WonItem   *wireItem `json:"won_item"`
	TargetID  flexID    `json:"target_id"`

	Reels []int `json:"reels"`

	SectorIndex   *int     `json:"sector_index"`
	RotationAngle *float64 `json:"rotation_angle"`

	SecretDigits []int `json:"secret_digits"`
	UserDigits   []int `json:"user_digits"`
	MatchCount   *int  `json:"match_count"`
}

// DecodePayload converts a provider response body into the canonical Outcome
func DecodePayload(mode domain.Mode, body []byte) (*domain.Outcome, error) {
	var w wireResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidOutcome, err)
	}

	out := &domain.Outcome{
		Message:   w.Message,
		PrizeType: w.PrizeType,
	}
	if w.WonItem != nil {
		out.WonItem = w.WonItem.Name
		if out.WonItem == "" {
			out.WonItem = string(w.WonItem.ID)
		}
	}

	switch mode {
	case domain.ModeGrid:
		target := w.TargetID
		if w.WonItem != nil && w.WonItem.ID != "" {
			target = w.WonItem.ID
		}
		if target == "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidOutcome, ErrContextMissingWonItem)
		}
		out.Payload = domain.GridOutcome{TargetID: domain.EntryID(target)}

	case domain.ModeReel:
		if len(w.Reels) == 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidOutcome, ErrContextMissingReels)
		}
		out.Payload = domain.ReelOutcome{PerReelTargetIndex: w.Reels}

	case domain.ModeWheel:
		if w.SectorIndex == nil || w.RotationAngle == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidOutcome, ErrContextMissingSector)
		}
		out.Payload = domain.WheelOutcome{
			TargetSectorIndex:    *w.SectorIndex,
			RotationAngleDegrees: *w.RotationAngle,
		}

	case domain.ModeDigit:
		p, err := decodeDigits(w)
		if err != nil {
			return nil, err
		}
		out.Payload = p

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
	}

	return out, nil
}

func decodeDigits(w wireResponse) (domain.DigitOutcome, error) {
	var p domain.DigitOutcome
	if len(w.SecretDigits) != domain.DigitCount || len(w.UserDigits) != domain.DigitCount {
		return p, fmt.Errorf("%w: %s, got %d secret and %d user digits",
			domain.ErrInvalidOutcome, ErrContextDigitCount, len(w.SecretDigits), len(w.UserDigits))
	}
	copy(p.SecretDigits[:], w.SecretDigits)
	copy(p.UserDigits[:], w.UserDigits)

	if w.MatchCount != nil {
		p.MatchCount = *w.MatchCount
	} else {
		p.MatchCount = p.CountMatches()
	}
	return p, nil
}

// FormatDigits renders digits the way the safe displays them
func FormatDigits(d [domain.DigitCount]int) string {
	s := ""
	for _, v := range d {
		s += strconv.Itoa(v)
	}
	return s
}
