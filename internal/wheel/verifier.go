// Package wheel cross-checks the continuous rotation angle of a wheel reveal
// against the discrete sector the game server declared.
package wheel

import (
	"context"
	"fmt"
	"math"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/logger"
	"github.com/osse101/BrandishReveal_Go/internal/metrics"
)

// Policy decides which sector wins when angle and declared sector disagree
type Policy string

const (
	// PolicyTrustServer keeps the declared sector and aligns the angle to it before spinning
	PolicyTrustServer Policy = "trust_server"
	// PolicyTrustRecomputed reports the sector under the pointer
	PolicyTrustRecomputed Policy = "trust_recomputed"
	// PolicyReject refuses to animate an inconsistent outcome
	PolicyReject Policy = "reject"
)

// ParsePolicy validates a policy name; empty selects PolicyTrustServer
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "":
		return PolicyTrustServer, nil
	case PolicyTrustServer, PolicyTrustRecomputed, PolicyReject:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("%w: unknown sector policy %q", domain.ErrInvalidInput, s)
	}
}

// NormalizeAngle maps any angle into [0, 360)
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, FullTurn)
	if a < 0 {
		a += FullTurn
	}
	if a >= FullTurn {
		a = 0
	}
	return a
}

// SectorUnderPointer returns the sector under the fixed pointer at angle 0 after
// the wheel rotated by finalAngleDegrees. It depends on its arguments only.
func SectorUnderPointer(finalAngleDegrees float64, sectorCount int) int {
	if sectorCount < 1 {
		return 0
	}
	norm := NormalizeAngle(finalAngleDegrees)
	original := NormalizeAngle(FullTurn - norm)
	width := FullTurn / float64(sectorCount)

	idx := int(math.Floor(original / width))
	if idx < 0 {
		idx = 0
	}
	if idx > sectorCount-1 {
		idx = sectorCount - 1
	}
	return idx
}

// AlignToSector returns the angle with the same whole turns as angle that puts
// the centre of sector under the pointer.
func AlignToSector(angle float64, sector, sectorCount int) float64 {
	if sectorCount < 1 {
		return angle
	}
	width := FullTurn / float64(sectorCount)
	turns := math.Floor(angle / FullTurn)
	centre := (float64(sector) + 0.5) * width
	return turns*FullTurn + NormalizeAngle(FullTurn-centre)
}

// Verdict is the result of comparing the declared and recomputed sector
type Verdict struct {
	Declared     int     `json:"declared"`
	Recomputed   int     `json:"recomputed"`
	Resolved     int     `json:"resolved"`
	Mismatch     bool    `json:"mismatch"`
	AngleDegrees float64 `json:"angle_degrees"`
}

// Verifier applies a Policy to wheel outcomes
type Verifier struct {
	policy Policy
}

// NewVerifier creates a Verifier for the given policy
func NewVerifier(policy Policy) *Verifier {
	if policy == "" {
		policy = PolicyTrustServer
	}
	return &Verifier{policy: policy}
}

// Policy returns the active policy
func (v *Verifier) Policy() Policy {
	return v.policy
}

// Prepare checks a normalized wheel target before the spin starts and returns
// the target the scheduler should animate toward.
func (v *Verifier) Prepare(ctx context.Context, target domain.NormalizedTarget) (domain.NormalizedTarget, Verdict, error) {
	verdict := v.compare(target.AngleDegrees, target.TargetIndex, target.PoolLength)
	if !verdict.Mismatch {
		return target, verdict, nil
	}

	v.report(ctx, LogMsgSectorMismatchBeforeSpin, verdict)

	switch v.policy {
	case PolicyReject:
		return target, verdict, fmt.Errorf("%w: declared %d, angle %.2f points at %d",
			domain.ErrSectorMismatch, verdict.Declared, verdict.AngleDegrees, verdict.Recomputed)
	case PolicyTrustRecomputed:
		return target, verdict, nil
	default:
		aligned := target
		aligned.AngleDegrees = AlignToSector(target.AngleDegrees, target.TargetIndex, target.PoolLength)
		verdict.AngleDegrees = aligned.AngleDegrees
		return aligned, verdict, nil
	}
}

// Check recomputes the sector from the final angle once the wheel has stopped
func (v *Verifier) Check(ctx context.Context, finalAngle float64, declared, sectorCount int) Verdict {
	verdict := v.compare(finalAngle, declared, sectorCount)
	if verdict.Mismatch {
		v.report(ctx, LogMsgSectorMismatchOnArrival, verdict)
	}
	return verdict
}

func (v *Verifier) compare(angle float64, declared, sectorCount int) Verdict {
	recomputed := SectorUnderPointer(angle, sectorCount)
	verdict := Verdict{
		Declared:     declared,
		Recomputed:   recomputed,
		Resolved:     declared,
		Mismatch:     recomputed != declared,
		AngleDegrees: angle,
	}
	if verdict.Mismatch && v.policy == PolicyTrustRecomputed {
		verdict.Resolved = recomputed
	}
	return verdict
}

func (v *Verifier) report(ctx context.Context, msg string, verdict Verdict) {
	logger.FromContext(ctx).Warn(msg,
		"policy", v.policy,
		"declared", verdict.Declared,
		"recomputed", verdict.Recomputed,
		"angle", verdict.AngleDegrees)
	metrics.SectorMismatches.WithLabelValues(string(v.policy)).Inc()
}
