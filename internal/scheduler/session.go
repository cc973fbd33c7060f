package scheduler

import (
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/worker"
)

// ScrollSync keeps the landing position inside the visible viewport.
// EnsureVisible must leave index visible once it returns.
type ScrollSync interface {
	IsVisible(reelID, index int) bool
	EnsureVisible(reelID, index int)
}

// Session is the animation state of one widget. It is owned by the widget and
// only touched from callbacks running on the scheduler's loop.
type Session struct {
	ID        uuid.UUID
	WidgetID  string
	Mode      domain.Mode
	Timing    Timing
	Scroll    ScrollSync
	StartedAt time.Time
	StoppedAt time.Time

	phase   domain.Phase
	targets []domain.NormalizedTarget
	reels   []*reel
	token   *token
}

// NewSession creates an idle session for a widget
func NewSession(widgetID string, mode domain.Mode, timing Timing) *Session {
	return &Session{
		WidgetID: widgetID,
		Mode:     mode,
		Timing:   timing,
		phase:    domain.PhaseIdle,
	}
}

// Phase returns the session phase
func (s *Session) Phase() domain.Phase {
	return s.phase
}

// Targets returns the targets of the current run
func (s *Session) Targets() []domain.NormalizedTarget {
	return s.targets
}

// ReelState is a snapshot of one reel
type ReelState struct {
	ReelID int          `json:"reel_id"`
	Phase  domain.Phase `json:"phase"`
	Index  int          `json:"index"`
	Angle  float64      `json:"angle,omitempty"`
	Step   int          `json:"step"`
	Total  int          `json:"total"`
}

// Snapshot describes a session for status endpoints
type Snapshot struct {
	SessionID string       `json:"session_id,omitempty"`
	Mode      domain.Mode  `json:"mode"`
	Phase     domain.Phase `json:"phase"`
	StartedAt time.Time    `json:"started_at,omitempty"`
	StoppedAt time.Time    `json:"stopped_at,omitempty"`
	Reels     []ReelState  `json:"reels"`
}

// Snapshot returns the current state of every reel
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Mode:      s.Mode,
		Phase:     s.phase,
		StartedAt: s.StartedAt,
		StoppedAt: s.StoppedAt,
		Reels:     make([]ReelState, 0, len(s.reels)),
	}
	if s.ID != uuid.Nil {
		snap.SessionID = s.ID.String()
	}
	for _, r := range s.reels {
		snap.Reels = append(snap.Reels, ReelState{
			ReelID: r.target.ReelID,
			Phase:  r.phase,
			Index:  r.index,
			Angle:  r.angle,
			Step:   r.advanced,
			Total:  r.total,
		})
	}
	return snap
}

// reel is the sub state machine of one reel
type reel struct {
	target   domain.NormalizedTarget
	phase    domain.Phase
	total    int
	advanced int
	index    int
	angle    float64
	endAngle float64
}

// token is the single cancellation handle of a run. Cancelling it stops every
// pending tick of that run. Each reel has at most one pending timer.
type token struct {
	cancelled bool
	timers    map[int]worker.Timer
}

func newToken() *token {
	return &token{timers: make(map[int]worker.Timer)}
}

func (t *token) track(slot int, timer worker.Timer) {
	if t.cancelled {
		timer.Stop()
		return
	}
	t.timers[slot] = timer
}

func (t *token) cancel() bool {
	if t == nil || t.cancelled {
		return false
	}
	t.cancelled = true
	for _, timer := range t.timers {
		timer.Stop()
	}
	t.timers = nil
	return true
}
