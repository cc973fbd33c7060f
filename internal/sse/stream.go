package sse

import (
	"sync"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/effects"
	"github.com/osse101/BrandishReveal_Go/internal/scheduler"
)

// Viewport is the visible window of one reel strip
type Viewport struct {
	First int `json:"first"`
	Count int `json:"count"`
}

// Contains reports whether index is inside the window
func (v Viewport) Contains(index int) bool {
	return index >= v.First && index < v.First+v.Count
}

// Stream renders one widget to its SSE clients. It implements the scheduler's
// ScrollSync and the reveal EffectSink, and renders ticks as frames.
type Stream struct {
	hub      *Hub
	widgetID string
	bank     *effects.Bank

	mu        sync.Mutex
	viewports map[int]Viewport
	visible   int
	pool      int
}

// NewStream creates a stream for widgetID. visible is the number of entries a
// reel viewport shows at once (0 shows the whole pool).
func NewStream(hub *Hub, widgetID string, bank *effects.Bank, poolLength, visible int) *Stream {
	if visible <= 0 || visible > poolLength {
		visible = poolLength
	}
	return &Stream{
		hub:       hub,
		widgetID:  widgetID,
		bank:      bank,
		viewports: make(map[int]Viewport),
		visible:   visible,
		pool:      poolLength,
	}
}

// Frame broadcasts one tick
func (s *Stream) Frame(t scheduler.Tick) error {
	return s.hub.Broadcast(s.widgetID, EventTypeFrame, FramePayload{
		SessionID: t.SessionID.String(),
		ReelID:    t.ReelID,
		Step:      t.Step,
		Remaining: t.Remaining,
		Index:     t.Index,
		Angle:     t.Angle,
		Phase:     t.Phase,
		DelayMS:   t.Delay.Milliseconds(),
		Final:     t.Final,
	})
}

// Viewport returns the current window of a reel
func (s *Stream) Viewport(reelID int) Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewportLocked(reelID)
}

func (s *Stream) viewportLocked(reelID int) Viewport {
	if v, ok := s.viewports[reelID]; ok {
		return v
	}
	return Viewport{First: 0, Count: s.visible}
}

// ReportScroll records a scroll the user made in the browser
func (s *Stream) ReportScroll(reelID, first int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewports[reelID] = Viewport{First: s.clampFirst(first), Count: s.visible}
}

// IsVisible implements scheduler.ScrollSync
func (s *Stream) IsVisible(reelID, index int) bool {
	return s.Viewport(reelID).Contains(index)
}

// EnsureVisible implements scheduler.ScrollSync. It moves the window just far
// enough to show index and, when the window has room, the entry next to it on
// the side the window moves toward.
func (s *Stream) EnsureVisible(reelID, index int) {
	s.mu.Lock()
	v := s.viewportLocked(reelID)
	if v.Contains(index) {
		s.mu.Unlock()
		return
	}
	margin := 0
	if v.Count > 1 {
		margin = 1
	}
	if index < v.First {
		v.First = index - margin
	} else {
		v.First = index + margin - v.Count + 1
	}
	v.First = s.clampFirst(v.First)
	s.viewports[reelID] = v
	s.mu.Unlock()

	_ = s.hub.Broadcast(s.widgetID, EventTypeScroll, ScrollPayload{ReelID: reelID, First: v.First, Count: v.Count})
}

func (s *Stream) clampFirst(first int) int {
	if first > s.pool-s.visible {
		first = s.pool - s.visible
	}
	if first < 0 {
		first = 0
	}
	return first
}

// PlaySound implements reveal.EffectSink
func (s *Stream) PlaySound(name string) {
	payload := EffectPayload{Effect: domain.Effect{Kind: domain.EffectSound, Name: name}}
	if s.bank != nil {
		cue, ok := s.bank.Resolve(name)
		if !ok {
			return
		}
		payload.Cue = &cue
	}
	s.effect(payload)
}

// ShowToast implements reveal.EffectSink
func (s *Stream) ShowToast(message, style string) {
	s.effect(EffectPayload{Effect: domain.Effect{Kind: domain.EffectToast, Message: message, Style: style}})
}

// Highlight implements reveal.EffectSink
func (s *Stream) Highlight(reelID, index int) {
	s.effect(EffectPayload{Effect: domain.Effect{Kind: domain.EffectHighlight, ReelID: reelID, Index: index}})
}

// Burst implements reveal.EffectSink
func (s *Stream) Burst(name string) {
	s.effect(EffectPayload{Effect: domain.Effect{Kind: domain.EffectBurst, Name: name}})
}

// MarkDigit implements reveal.EffectSink
func (s *Stream) MarkDigit(position int, matched bool) {
	s.effect(EffectPayload{Effect: domain.Effect{Kind: domain.EffectDigitMarker, Position: position, Matched: matched}})
}

func (s *Stream) effect(p EffectPayload) {
	_ = s.hub.Broadcast(s.widgetID, EventTypeEffect, p)
}
