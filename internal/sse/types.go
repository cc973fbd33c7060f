package sse

import (
	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/effects"
)

// FramePayload is one rendered position of a reel or the wheel
type FramePayload struct {
	SessionID string       `json:"session_id"`
	ReelID    int          `json:"reel_id"`
	Step      int          `json:"step"`
	Remaining int          `json:"remaining"`
	Index     int          `json:"index"`
	Angle     float64      `json:"angle,omitempty"`
	Phase     domain.Phase `json:"phase"`
	DelayMS   int64        `json:"delay_ms"`
	Final     bool         `json:"final"`
}

// ScrollPayload asks the browser to show a reel window starting at First
type ScrollPayload struct {
	ReelID int `json:"reel_id"`
	First  int `json:"first"`
	Count  int `json:"count"`
}

// EffectPayload is one effect command; Cue is set for sounds that resolved
type EffectPayload struct {
	domain.Effect
	Cue *effects.Cue `json:"cue,omitempty"`
}

// ConnectedPayload is the payload of the first event of a stream
type ConnectedPayload struct {
	ClientID string   `json:"client_id"`
	WidgetID string   `json:"widget_id"`
	Filters  []string `json:"filters"`
}
