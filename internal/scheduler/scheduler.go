package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/event"
	"github.com/osse101/BrandishReveal_Go/internal/logger"
	"github.com/osse101/BrandishReveal_Go/internal/wheel"
	"github.com/osse101/BrandishReveal_Go/internal/worker"
)

// Tick is one discrete position change of one reel
type Tick struct {
	SessionID uuid.UUID     `json:"session_id"`
	ReelID    int           `json:"reel_id"`
	Step      int           `json:"step"`
	Remaining int           `json:"remaining"`
	Index     int           `json:"index"`           // pool index; sector under the pointer for wheels
	Angle     float64       `json:"angle,omitempty"` // wheel only
	Phase     domain.Phase  `json:"phase"`
	Delay     time.Duration `json:"delay"`
	Final     bool          `json:"final"`
}

// Result describes how a run ended
type Result struct {
	SessionID    uuid.UUID
	WidgetID     string
	Mode         domain.Mode
	Targets      []domain.NormalizedTarget
	FinalIndexes []int
	FinalAngle   float64
	StartedAt    time.Time
	StoppedAt    time.Time
	Immediate    bool  // stopped without traversal frames
	Err          error // set when the run was aborted
}

// TickFunc receives every tick; returning an error aborts the run
type TickFunc func(Tick) error

// StoppedFunc receives the end of a run
type StoppedFunc func(Result)

// Scheduler drives sessions through Idle -> Spinning -> Decelerating -> Stopped
type Scheduler struct {
	loop worker.Loop
	bus  event.Bus
}

// New creates a Scheduler that runs every tick on loop and publishes phase
// transitions on bus (bus may be nil).
func New(loop worker.Loop, bus event.Bus) *Scheduler {
	return &Scheduler{loop: loop, bus: bus}
}

// Start begins a run toward targets. It must be called on the loop.
func (s *Scheduler) Start(sess *Session, targets []domain.NormalizedTarget, onTick TickFunc, onStopped StoppedFunc) error {
	if sess.phase.IsActive() {
		return domain.ErrSessionActive
	}
	if len(targets) == 0 {
		return domain.ErrNoTargets
	}
	if err := validateTargets(sess.Mode, targets); err != nil {
		return err
	}
	if onTick == nil {
		onTick = func(Tick) error { return nil }
	}

	s.begin(sess, targets)
	tok := sess.token

	if sess.Mode == domain.ModeWheel {
		s.planWheel(sess)
	} else {
		s.planIndexed(sess)
	}

	s.transition(sess, domain.PhaseSpinning)
	logger.Debug(LogMsgRunStarted, "widget_id", sess.WidgetID, "session_id", sess.ID, "mode", sess.Mode, "reels", len(sess.reels))

	running := 0
	for _, r := range sess.reels {
		if r.total == 0 {
			r.phase = domain.PhaseStopped
			continue
		}
		r.phase = domain.PhaseSpinning
		running++
		s.scheduleStep(sess, tok, r, onTick, onStopped)
	}

	if running == 0 {
		s.scheduleFinish(sess, tok, false, onStopped)
	}
	return nil
}

// StopImmediate ends a run at once with no traversal frames. targets may be
// empty when the outcome could not be resolved at all.
func (s *Scheduler) StopImmediate(sess *Session, targets []domain.NormalizedTarget, onStopped StoppedFunc) error {
	if sess.phase.IsActive() {
		return domain.ErrSessionActive
	}

	s.begin(sess, targets)
	for _, r := range sess.reels {
		r.index = r.target.TargetIndex
		r.angle = r.target.AngleDegrees
		r.phase = domain.PhaseStopped
	}
	s.scheduleFinish(sess, sess.token, true, onStopped)
	return nil
}

// Cancel stops every pending tick of the session's current run. An active
// session returns to Idle. It reports whether anything was cancelled.
func (s *Scheduler) Cancel(sess *Session, reason string) bool {
	if !sess.token.cancel() {
		return false
	}
	if sess.phase.IsActive() {
		s.transition(sess, domain.PhaseIdle)
		s.publish(event.NewRevealAbortedEvent(domain.RevealAbortedPayload{
			WidgetID:  sess.WidgetID,
			SessionID: sess.ID.String(),
			Mode:      sess.Mode,
			Reason:    reason,
		}))
	}
	return true
}

// Reset returns a stopped session to Idle
func (s *Scheduler) Reset(sess *Session) error {
	if sess.phase.IsActive() {
		return domain.ErrSessionActive
	}
	sess.token.cancel()
	if sess.phase != domain.PhaseIdle {
		s.transition(sess, domain.PhaseIdle)
	}
	return nil
}

func (s *Scheduler) begin(sess *Session, targets []domain.NormalizedTarget) {
	sess.token.cancel()
	sess.ID = uuid.New()
	sess.token = newToken()
	sess.targets = targets
	sess.StartedAt = s.loop.Now()
	sess.StoppedAt = sess.StartedAt
	sess.reels = make([]*reel, len(targets))
	for i, t := range targets {
		sess.reels[i] = &reel{target: t, phase: domain.PhaseIdle}
	}
}

func (s *Scheduler) planIndexed(sess *Session) {
	t := sess.Timing
	if sess.Mode == domain.ModeDigit {
		digits := make([]int, len(sess.reels))
		for i, r := range sess.reels {
			digits[i] = r.target.TargetIndex
		}
		for i, total := range DigitDistances(digits, t) {
			sess.reels[i].total = total
		}
		return
	}

	for i, r := range sess.reels {
		spins := t.Spins + i*t.ReelStaggerSpins
		r.total = IndexDistance(spins, r.target.PoolLength, r.target.TargetIndex)
	}
}

func (s *Scheduler) planWheel(sess *Session) {
	frames := WheelFrames(sess.Timing)
	for _, r := range sess.reels {
		r.total = frames
		r.endAngle = WheelFinalAngle(r.target.AngleDegrees, sess.Timing.Spins)
		r.index = wheel.SectorUnderPointer(0, r.target.PoolLength)
	}
}

func (s *Scheduler) scheduleStep(sess *Session, tok *token, r *reel, onTick TickFunc, onStopped StoppedFunc) {
	delay := s.nextDelay(sess, r)
	timer := s.loop.AfterFunc(delay, func() {
		s.step(sess, tok, r, delay, onTick, onStopped)
	})
	tok.track(r.target.ReelID, timer)
}

func (s *Scheduler) nextDelay(sess *Session, r *reel) time.Duration {
	if sess.Mode == domain.ModeWheel {
		return sess.Timing.WheelFrameInterval
	}
	return StepDelay(r.total-r.advanced-1, sess.Timing)
}

func (s *Scheduler) step(sess *Session, tok *token, r *reel, delay time.Duration, onTick TickFunc, onStopped StoppedFunc) {
	if tok.cancelled {
		return
	}

	r.advanced++
	remaining := r.total - r.advanced

	if sess.Mode == domain.ModeWheel {
		s.advanceWheel(sess, r)
	} else {
		r.index = mod(r.index+1, r.target.PoolLength)
		r.phase = domain.PhaseSpinning
		if remaining <= sess.Timing.DecelerationWindow {
			r.phase = domain.PhaseDecelerating
		}
	}
	if remaining == 0 {
		r.phase = domain.PhaseStopped
	}

	s.syncSessionPhase(sess)
	s.syncScroll(sess, r)

	tick := Tick{
		SessionID: sess.ID,
		ReelID:    r.target.ReelID,
		Step:      r.advanced,
		Remaining: remaining,
		Index:     r.index,
		Angle:     r.angle,
		Phase:     r.phase,
		Delay:     delay,
		Final:     remaining == 0,
	}

	if err := onTick(tick); err != nil {
		s.abort(sess, tok, err, onStopped)
		return
	}
	// onTick may have torn the widget down
	if tok.cancelled {
		return
	}

	if remaining > 0 {
		s.scheduleStep(sess, tok, r, onTick, onStopped)
		return
	}

	for _, other := range sess.reels {
		if other.phase != domain.PhaseStopped {
			return
		}
	}
	s.finish(sess, tok, false, onStopped)
}

func (s *Scheduler) advanceWheel(sess *Session, r *reel) {
	progress := float64(r.advanced) / float64(r.total)
	if r.advanced >= r.total {
		r.angle = r.endAngle
	} else {
		r.angle = r.endAngle * EaseOutCubic(progress)
	}
	r.index = wheel.SectorUnderPointer(r.angle, r.target.PoolLength)

	r.phase = domain.PhaseSpinning
	if progress >= sess.Timing.WheelDecelerationStart {
		r.phase = domain.PhaseDecelerating
	}
}

// syncSessionPhase moves the session to Decelerating once no reel is still at
// full speed. Stopped is only entered by finish.
func (s *Scheduler) syncSessionPhase(sess *Session) {
	if sess.phase != domain.PhaseSpinning {
		return
	}
	for _, r := range sess.reels {
		if r.phase == domain.PhaseSpinning {
			return
		}
	}
	s.transition(sess, domain.PhaseDecelerating)
}

// syncScroll asks the viewport to reveal the landing position, but only when
// it is not already visible so the user's own scrolling is left alone.
func (s *Scheduler) syncScroll(sess *Session, r *reel) {
	if sess.Scroll == nil || sess.Mode == domain.ModeWheel {
		return
	}
	target := r.target.TargetIndex
	if sess.Scroll.IsVisible(r.target.ReelID, target) {
		return
	}
	sess.Scroll.EnsureVisible(r.target.ReelID, target)
}

func (s *Scheduler) scheduleFinish(sess *Session, tok *token, immediate bool, onStopped StoppedFunc) {
	timer := s.loop.AfterFunc(0, func() {
		if tok.cancelled {
			return
		}
		s.finish(sess, tok, immediate, onStopped)
	})
	tok.track(finishSlot, timer)
}

func (s *Scheduler) finish(sess *Session, tok *token, immediate bool, onStopped StoppedFunc) {
	sess.StoppedAt = s.loop.Now()
	s.transition(sess, domain.PhaseStopped)

	res := s.result(sess)
	res.Immediate = immediate

	s.publish(event.NewRevealStoppedEvent(domain.RevealStoppedPayload{
		WidgetID:     sess.WidgetID,
		SessionID:    sess.ID.String(),
		Mode:         sess.Mode,
		FinalIndexes: res.FinalIndexes,
		FinalAngle:   res.FinalAngle,
		Immediate:    immediate,
		Duration:     res.StoppedAt.Sub(res.StartedAt),
	}))
	logger.Debug(LogMsgRunStopped, "widget_id", sess.WidgetID, "session_id", sess.ID, "immediate", immediate)

	if onStopped != nil {
		onStopped(res)
	}
}

func (s *Scheduler) abort(sess *Session, tok *token, cause error, onStopped StoppedFunc) {
	logger.Warn(LogMsgTickFailed, "widget_id", sess.WidgetID, "session_id", sess.ID, "error", cause)
	s.Cancel(sess, domain.FaultTick)

	if onStopped != nil {
		res := s.result(sess)
		res.Err = fmt.Errorf("%s: %w", ErrContextTickFailed, cause)
		onStopped(res)
	}
}

func (s *Scheduler) result(sess *Session) Result {
	res := Result{
		SessionID:    sess.ID,
		WidgetID:     sess.WidgetID,
		Mode:         sess.Mode,
		Targets:      sess.targets,
		FinalIndexes: make([]int, len(sess.reels)),
		StartedAt:    sess.StartedAt,
		StoppedAt:    sess.StoppedAt,
	}
	for i, r := range sess.reels {
		res.FinalIndexes[i] = r.index
		if sess.Mode == domain.ModeWheel {
			res.FinalAngle = r.angle
		}
	}
	return res
}

func (s *Scheduler) transition(sess *Session, to domain.Phase) {
	from := sess.phase
	if from == to {
		return
	}
	sess.phase = to
	s.publish(event.NewPhaseChangedEvent(domain.PhaseChangedPayload{
		WidgetID:  sess.WidgetID,
		SessionID: sess.ID.String(),
		Mode:      sess.Mode,
		From:      from,
		To:        to,
		At:        s.loop.Now(),
	}))
}

func (s *Scheduler) publish(evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), evt); err != nil {
		logger.Warn(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}

func validateTargets(mode domain.Mode, targets []domain.NormalizedTarget) error {
	for i, t := range targets {
		if t.PoolLength <= 0 {
			return fmt.Errorf("%w: target %d has an empty pool", domain.ErrInvalidInput, i)
		}
		if t.Mode != "" && t.Mode != mode {
			return fmt.Errorf("%w: target %d is %s, session is %s", domain.ErrInvalidInput, i, t.Mode, mode)
		}
		if t.TargetIndex < 0 || t.TargetIndex >= t.PoolLength {
			return fmt.Errorf("%w: target %d index %d out of range [0,%d)",
				domain.ErrInvalidInput, i, t.TargetIndex, t.PoolLength)
		}
	}
	return nil
}
