package outcome

import (
	"context"
	"fmt"
	"math"

	"github.com/osse101/BrandishReveal_Go/internal/candidate"
	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/logger"
	"github.com/osse101/BrandishReveal_Go/internal/metrics"
)

// Normalizer turns mode-specific outcome payloads into normalized targets.
// It is the only part of the engine that differs per game mode.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize resolves the payload against the candidate pool. A failure means the
// outcome and the displayed pool disagree; the caller must stop without traversal.
func (n *Normalizer) Normalize(ctx context.Context, payload domain.OutcomePayload, set *candidate.Set) ([]domain.NormalizedTarget, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: missing payload", domain.ErrInvalidOutcome)
	}
	if set == nil {
		return nil, domain.ErrEmptyPool
	}

	switch p := payload.(type) {
	case domain.GridOutcome:
		return n.normalizeGrid(p, set)
	case domain.ReelOutcome:
		return n.normalizeReels(p, set)
	case domain.WheelOutcome:
		return n.normalizeWheel(p, set)
	case domain.DigitOutcome:
		return n.normalizeDigits(ctx, p)
	default:
		return nil, fmt.Errorf("%w: unsupported payload %T", domain.ErrInvalidOutcome, payload)
	}
}

func (n *Normalizer) normalizeGrid(p domain.GridOutcome, set *candidate.Set) ([]domain.NormalizedTarget, error) {
	if p.TargetID == "" {
		return nil, fmt.Errorf("%w: empty target id", domain.ErrInvalidOutcome)
	}

	// Search the eligible subset first so an already-claimed copy of the same
	// entry is never picked over an eligible one.
	idx, err := set.Locate(p.TargetID)
	if err != nil {
		// The outcome explicitly names the entry: it may be landed on even
		// though the pool marks it as claimed.
		idx, err = set.ForTarget(p.TargetID).Locate(p.TargetID)
		if err != nil {
			return nil, err
		}
	}

	return []domain.NormalizedTarget{{
		ReelID:      0,
		Mode:        domain.ModeGrid,
		TargetIndex: idx,
		PoolLength:  set.Len(),
	}}, nil
}

func (n *Normalizer) normalizeReels(p domain.ReelOutcome, set *candidate.Set) ([]domain.NormalizedTarget, error) {
	if len(p.PerReelTargetIndex) == 0 {
		return nil, fmt.Errorf("%w: no reel targets", domain.ErrInvalidOutcome)
	}

	targets := make([]domain.NormalizedTarget, 0, len(p.PerReelTargetIndex))
	for reel, k := range p.PerReelTargetIndex {
		idx, err := set.FullIndex(k)
		if err != nil {
			return nil, fmt.Errorf("reel %d: %w", reel, err)
		}
		targets = append(targets, domain.NormalizedTarget{
			ReelID:      reel,
			Mode:        domain.ModeReel,
			TargetIndex: idx,
			PoolLength:  set.Len(),
		})
	}
	return targets, nil
}

func (n *Normalizer) normalizeWheel(p domain.WheelOutcome, set *candidate.Set) ([]domain.NormalizedTarget, error) {
	if p.TargetSectorIndex < 0 || p.TargetSectorIndex >= set.Len() {
		return nil, fmt.Errorf("%w: sector %d out of range [0,%d)",
			domain.ErrTargetNotEligible, p.TargetSectorIndex, set.Len())
	}
	if math.IsNaN(p.RotationAngleDegrees) || math.IsInf(p.RotationAngleDegrees, 0) {
		return nil, fmt.Errorf("%w: rotation angle is not finite", domain.ErrInvalidOutcome)
	}
	if math.Abs(p.RotationAngleDegrees) > MaxRotationDegrees {
		return nil, fmt.Errorf("%w: rotation angle %g exceeds %g degrees",
			domain.ErrInvalidOutcome, p.RotationAngleDegrees, MaxRotationDegrees)
	}

	return []domain.NormalizedTarget{{
		ReelID:       0,
		Mode:         domain.ModeWheel,
		TargetIndex:  p.TargetSectorIndex,
		PoolLength:   set.Len(),
		AngleDegrees: p.RotationAngleDegrees,
	}}, nil
}

func (n *Normalizer) normalizeDigits(ctx context.Context, p domain.DigitOutcome) ([]domain.NormalizedTarget, error) {
	for i := 0; i < domain.DigitCount; i++ {
		if !validDigit(p.SecretDigits[i]) || !validDigit(p.UserDigits[i]) {
			return nil, fmt.Errorf("%w: digit %d out of range", domain.ErrInvalidOutcome, i)
		}
	}

	if computed := p.CountMatches(); computed != p.MatchCount {
		logger.FromContext(ctx).Warn(LogMsgMatchTallyMismatch,
			"declared", p.MatchCount,
			"computed", computed)
		metrics.RevealFaults.WithLabelValues(string(domain.ModeDigit), domain.FaultMatchTally).Inc()
	}

	targets := make([]domain.NormalizedTarget, domain.DigitCount)
	for i, d := range p.SecretDigits {
		targets[i] = domain.NormalizedTarget{
			ReelID:      i,
			Mode:        domain.ModeDigit,
			TargetIndex: d,
			PoolLength:  domain.DigitPoolLength,
		}
	}
	return targets, nil
}

func validDigit(d int) bool {
	return d >= 0 && d < domain.DigitPoolLength
}
