// Package widget wires one reveal widget together: the outcome provider, the
// normalizer, the scheduler, the wheel verifier and the effect executor. Every
// piece of widget state belongs to the shared loop; callers reach it through
// Loop.Do.
package widget

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/BrandishReveal_Go/internal/candidate"
	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/event"
	"github.com/osse101/BrandishReveal_Go/internal/logger"
	"github.com/osse101/BrandishReveal_Go/internal/metrics"
	"github.com/osse101/BrandishReveal_Go/internal/outcome"
	"github.com/osse101/BrandishReveal_Go/internal/profile"
	"github.com/osse101/BrandishReveal_Go/internal/reveal"
	"github.com/osse101/BrandishReveal_Go/internal/scheduler"
	"github.com/osse101/BrandishReveal_Go/internal/sse"
	"github.com/osse101/BrandishReveal_Go/internal/wheel"
	"github.com/osse101/BrandishReveal_Go/internal/worker"
)

// Spec describes a widget to create
type Spec struct {
	Mode domain.Mode
	Game string
	Pool []domain.CandidateEntry // ignored for digit widgets
}

// Result summarizes the last finished run of a widget
type Result struct {
	SessionID    string         `json:"session_id"`
	FinalIndexes []int          `json:"final_indexes"`
	FinalAngle   float64        `json:"final_angle,omitempty"`
	Immediate    bool           `json:"immediate"`
	Win          bool           `json:"win"`
	Message      string         `json:"message,omitempty"`
	Error        string         `json:"error,omitempty"`
	Verdict      *wheel.Verdict `json:"verdict,omitempty"`
}

// Status describes a widget for status endpoints
type Status struct {
	WidgetID string             `json:"widget_id"`
	Game     string             `json:"game"`
	Mode     domain.Mode        `json:"mode"`
	Pending  bool               `json:"pending"`
	Session  scheduler.Snapshot `json:"session"`
	Last     *Result            `json:"last,omitempty"`
}

// Widget is one reveal widget
type Widget struct {
	id      string
	game    string
	mode    domain.Mode
	profile profile.Profile
	set     *candidate.Set

	loop       worker.Loop
	bus        event.Bus
	scheduler  *scheduler.Scheduler
	executor   *reveal.Executor
	provider   outcome.Provider
	normalizer *outcome.Normalizer
	verifier   *wheel.Verifier
	stream     *sse.Stream

	// owned by the loop
	session *scheduler.Session
	pending bool
	closed  bool
	outcome *domain.Outcome
	effects *reveal.Handle
	last    *Result
}

func newWidget(id string, spec Spec, deps Deps) (*Widget, error) {
	prof, err := deps.Profiles.Load(spec.Game)
	if err != nil {
		return nil, err
	}
	if err := prof.ForMode(spec.Mode); err != nil {
		return nil, err
	}

	set, err := buildSet(spec.Mode, spec.Pool)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextPool, err)
	}

	policy := deps.Policy
	if prof.SectorPolicy != "" {
		if policy, err = wheel.ParsePolicy(prof.SectorPolicy); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextProfile, err)
		}
	}

	deps.Bank.Register(prof.Sounds)
	stream := sse.NewStream(deps.Hub, id, deps.Bank, set.Len(), prof.Visible)

	sess := scheduler.NewSession(id, spec.Mode, prof.Timing)
	sess.Scroll = stream

	return &Widget{
		id:         id,
		game:       prof.Game,
		mode:       spec.Mode,
		profile:    prof,
		set:        set,
		loop:       deps.Loop,
		bus:        deps.Bus,
		scheduler:  scheduler.New(deps.Loop, deps.Bus),
		executor:   reveal.NewExecutor(deps.Loop, stream),
		provider:   deps.Provider,
		normalizer: outcome.NewNormalizer(),
		verifier:   wheel.NewVerifier(policy),
		stream:     stream,
		session:    sess,
	}, nil
}

func buildSet(mode domain.Mode, pool []domain.CandidateEntry) (*candidate.Set, error) {
	if mode == domain.ModeDigit {
		return candidate.Digits(), nil
	}
	return candidate.New(pool)
}

// ID returns the widget id
func (w *Widget) ID() string {
	return w.id
}

// Mode returns the widget mode
func (w *Widget) Mode() domain.Mode {
	return w.mode
}

// Play asks the outcome provider for a result and animates it. It returns the
// id of the session that was started. While a play awaits the provider or a
// session is spinning, further plays fail with domain.ErrSessionActive.
func (w *Widget) Play(ctx context.Context, token outcome.PlayToken) (string, error) {
	log := logger.FromContext(ctx)

	var err error
	if doErr := w.loop.Do(func() { err = w.claim() }); doErr != nil {
		return "", doErr
	}
	if err != nil {
		return "", err
	}

	out, perr := w.provider.Play(ctx, outcome.PlayRequest{Game: w.game, Mode: w.mode, Token: token})
	metrics.ProviderRequests.WithLabelValues(providerResult(perr)).Inc()

	// The run outlives the request that started it.
	runCtx := context.WithoutCancel(ctx)

	var sessionID string
	if doErr := w.loop.Do(func() {
		w.pending = false
		switch {
		case w.closed:
			err = domain.ErrWidgetClosed
		case perr != nil:
			err = perr
		default:
			sessionID, err = w.start(runCtx, out)
		}
	}); doErr != nil {
		return "", doErr
	}

	if err != nil {
		log.Warn(LogMsgPlayFailed, "widget_id", w.id, "error", err)
		return sessionID, err
	}
	log.Info(LogMsgPlayStarted, "widget_id", w.id, "session_id", sessionID, "mode", w.mode)
	return sessionID, nil
}

func (w *Widget) claim() error {
	switch {
	case w.closed:
		return domain.ErrWidgetClosed
	case w.pending || w.session.Phase().IsActive():
		return domain.ErrSessionActive
	}
	w.pending = true
	return nil
}

// start runs on the loop. A payload that cannot be resolved against the pool
// stops the session at once without traversal.
func (w *Widget) start(ctx context.Context, out *domain.Outcome) (string, error) {
	w.effects.Cancel()
	w.effects = nil
	if out == nil {
		out = &domain.Outcome{}
	}
	w.outcome = out

	targets, err := w.normalizer.Normalize(ctx, out.Payload, w.set)
	if err == nil && w.mode == domain.ModeWheel {
		targets[0], _, err = w.verifier.Prepare(ctx, targets[0])
	}

	if err != nil {
		kind := domain.FaultNormalization
		if errors.Is(err, domain.ErrSectorMismatch) {
			kind = domain.FaultSectorMismatch
		}
		w.fault(ctx, kind, err)
		w.outcome = nil
		if serr := w.scheduler.StopImmediate(w.session, nil, w.onStopped(ctx)); serr != nil {
			return "", serr
		}
		return w.session.ID.String(), fmt.Errorf("%w: %w", domain.ErrOutcomeMismatch, err)
	}

	if err := w.scheduler.Start(w.session, targets, w.stream.Frame, w.onStopped(ctx)); err != nil {
		return "", err
	}
	return w.session.ID.String(), nil
}

func (w *Widget) onStopped(ctx context.Context) scheduler.StoppedFunc {
	return func(res scheduler.Result) {
		out := w.outcome
		last := &Result{
			SessionID:    res.SessionID.String(),
			FinalIndexes: res.FinalIndexes,
			FinalAngle:   res.FinalAngle,
			Immediate:    res.Immediate,
		}

		switch {
		case res.Err != nil:
			w.fault(ctx, domain.FaultTick, res.Err)
			last.Error = res.Err.Error()
		case out == nil:
			last.Error = domain.ErrMsgOutcomeMismatch
		default:
			last.Win = out.IsWin()
			last.Message = reveal.ToastMessage(out)
		}

		if out != nil && res.Err == nil && w.mode == domain.ModeWheel && len(res.Targets) == 1 {
			t := res.Targets[0]
			verdict := w.verifier.Check(ctx, res.FinalAngle, t.TargetIndex, t.PoolLength)
			res.FinalIndexes = []int{verdict.Resolved}
			last.FinalIndexes = res.FinalIndexes
			last.Verdict = &verdict
			logger.FromContext(ctx).Debug(LogMsgVerdictApplied, "widget_id", w.id, "resolved", verdict.Resolved, "mismatch", verdict.Mismatch)
		}

		stoppedAt := res.StoppedAt
		if stoppedAt.IsZero() {
			stoppedAt = w.loop.Now()
		}
		w.effects = w.executor.Schedule(stoppedAt, reveal.Build(res, out, w.profile.Reveal))
		w.last = last
	}
}

func (w *Widget) fault(ctx context.Context, kind string, cause error) {
	log := logger.FromContext(ctx)
	log.Warn(LogMsgRevealFault, "widget_id", w.id, "mode", w.mode, "kind", kind, "error", cause)
	if w.bus == nil {
		return
	}
	evt := event.NewRevealFaultEvent(domain.RevealFaultPayload{
		WidgetID: w.id,
		Mode:     w.mode,
		Kind:     kind,
		Detail:   cause.Error(),
	})
	if err := w.bus.Publish(ctx, evt); err != nil {
		log.Warn(LogMsgFaultPublish, "widget_id", w.id, "error", err)
	}
}

// Acknowledge returns a stopped session to Idle
func (w *Widget) Acknowledge() error {
	var err error
	if doErr := w.loop.Do(func() {
		switch {
		case w.closed:
			err = domain.ErrWidgetClosed
		case w.pending || w.session.Phase().IsActive():
			err = domain.ErrSessionActive
		case w.session.Phase() != domain.PhaseStopped:
			err = domain.ErrSessionIdle
		default:
			err = w.scheduler.Reset(w.session)
		}
	}); doErr != nil {
		return doErr
	}
	return err
}

// Close cancels every pending tick and effect. A closed widget rejects
// further plays. Closing twice is a no-op.
func (w *Widget) Close() error {
	return w.loop.Do(w.teardown)
}

func (w *Widget) teardown() {
	if w.closed {
		return
	}
	w.closed = true
	w.scheduler.Cancel(w.session, AbortReasonClosed)
	w.effects.Cancel()
	w.effects = nil
	logger.Debug(LogMsgWidgetClosed, "widget_id", w.id)
}

// Status returns a snapshot of the widget
func (w *Widget) Status() (Status, error) {
	var st Status
	err := w.loop.Do(func() {
		st = Status{
			WidgetID: w.id,
			Game:     w.game,
			Mode:     w.mode,
			Pending:  w.pending,
			Session:  w.session.Snapshot(),
			Last:     w.last,
		}
	})
	return st, err
}

// ReportScroll records a viewport the user scrolled to by hand
func (w *Widget) ReportScroll(reelID, first int) error {
	if reelID < 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrContextReelID)
	}
	w.stream.ReportScroll(reelID, first)
	return nil
}

// Viewport returns the current viewport of a reel
func (w *Widget) Viewport(reelID int) sse.Viewport {
	return w.stream.Viewport(reelID)
}

func providerResult(err error) string {
	var perr *outcome.ProviderError
	switch {
	case err == nil:
		return metrics.ProviderResultOK
	case errors.As(err, &perr):
		return metrics.ProviderResultRejected
	case errors.Is(err, domain.ErrInvalidOutcome):
		return metrics.ProviderResultDecodeFailed
	default:
		return metrics.ProviderResultUnavailable
	}
}
