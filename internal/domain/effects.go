package domain

// EffectKind names a post-stop reveal effect
type EffectKind string

const (
	EffectHighlight   EffectKind = "highlight"
	EffectSound       EffectKind = "sound"
	EffectBurst       EffectKind = "burst"
	EffectDigitMarker EffectKind = "digit_marker"
	EffectToast       EffectKind = "toast"
)

// Toast styles
const (
	ToastStyleSuccess = "success"
	ToastStyleInfo    = "info"
	ToastStyleError   = "error"
)

// Effect is one command for the effect sink
type Effect struct {
	Kind     EffectKind `json:"kind"`
	Name     string     `json:"name,omitempty"`    // sound or burst name
	Message  string     `json:"message,omitempty"` // toast text
	Style    string     `json:"style,omitempty"`   // toast style
	ReelID   int        `json:"reel_id"`
	Index    int        `json:"index"`
	Position int        `json:"position"` // digit position for markers
	Matched  bool       `json:"matched"`
}
