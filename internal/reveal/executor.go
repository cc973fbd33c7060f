package reveal

import (
	"sort"
	"time"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/logger"
	"github.com/osse101/BrandishReveal_Go/internal/worker"
)

// Entry is one effect scheduled at an offset from the moment of stop
type Entry struct {
	Delay  time.Duration `json:"delay"`
	Effect domain.Effect `json:"effect"`
}

// Timeline is an ordered list of effects. Entries are independent: each one
// fires at stoppedAt + Delay regardless of the others.
type Timeline []Entry

// End returns the largest offset in the timeline
func (t Timeline) End() time.Duration {
	var end time.Duration
	for _, e := range t {
		if e.Delay > end {
			end = e.Delay
		}
	}
	return end
}

// EffectSink performs reveal effects
type EffectSink interface {
	PlaySound(name string)
	ShowToast(message, style string)
	Highlight(reelID, index int)
	Burst(name string)
	MarkDigit(position int, matched bool)
}

// Executor fires timelines on the loop
type Executor struct {
	loop worker.Loop
	sink EffectSink
}

// NewExecutor creates an Executor that dispatches effects to sink
func NewExecutor(loop worker.Loop, sink EffectSink) *Executor {
	return &Executor{loop: loop, sink: sink}
}

// Handle controls a scheduled timeline. It is only used from the loop.
type Handle struct {
	timers    []worker.Timer
	fired     int
	cancelled bool
}

// Cancel stops every entry that has not fired yet. Fired effects are not
// retracted. It returns how many timers were still pending.
func (h *Handle) Cancel() int {
	if h == nil || h.cancelled {
		return 0
	}
	h.cancelled = true
	n := 0
	for _, t := range h.timers {
		if t.Stop() {
			n++
		}
	}
	h.timers = nil
	return n
}

// Fired returns the number of entries dispatched so far
func (h *Handle) Fired() int {
	if h == nil {
		return 0
	}
	return h.fired
}

// Schedule arms every entry at stoppedAt + Delay. Entries sharing an offset
// fire in their declared order from one callback.
func (e *Executor) Schedule(stoppedAt time.Time, timeline Timeline) *Handle {
	h := &Handle{}
	if len(timeline) == 0 {
		return h
	}

	order := make([]int, len(timeline))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return timeline[order[a]].Delay < timeline[order[b]].Delay
	})

	now := e.loop.Now()
	for start := 0; start < len(order); {
		end := start + 1
		for end < len(order) && timeline[order[end]].Delay == timeline[order[start]].Delay {
			end++
		}

		group := make([]domain.Effect, 0, end-start)
		for _, idx := range order[start:end] {
			group = append(group, timeline[idx].Effect)
		}

		wait := stoppedAt.Add(timeline[order[start]].Delay).Sub(now)
		h.timers = append(h.timers, e.loop.AfterFunc(wait, func() {
			for _, effect := range group {
				if h.cancelled {
					return
				}
				e.dispatch(effect)
				h.fired++
			}
		}))
		start = end
	}

	logger.Debug(LogMsgTimelineStarted, "entries", len(timeline), "end", timeline.End())
	return h
}

func (e *Executor) dispatch(effect domain.Effect) {
	switch effect.Kind {
	case domain.EffectHighlight:
		e.sink.Highlight(effect.ReelID, effect.Index)
	case domain.EffectSound:
		e.sink.PlaySound(effect.Name)
	case domain.EffectBurst:
		e.sink.Burst(effect.Name)
	case domain.EffectDigitMarker:
		e.sink.MarkDigit(effect.Position, effect.Matched)
	case domain.EffectToast:
		e.sink.ShowToast(effect.Message, effect.Style)
	default:
		logger.Warn(LogMsgEffectUnknown, "kind", effect.Kind)
	}
}
