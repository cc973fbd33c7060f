package domain

import "time"

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "reveal.stopped")
const (
	// EventRevealPhaseChanged is published on every session phase transition
	EventRevealPhaseChanged = "reveal.phase_changed"

	// EventRevealStopped is published when every reel of a session has arrived
	EventRevealStopped = "reveal.stopped"

	// EventRevealAborted is published when a session is cancelled before arriving
	EventRevealAborted = "reveal.aborted"

	// EventRevealFault is published for data-integrity faults (normalization, sector mismatch)
	EventRevealFault = "reveal.fault"
)

// Fault kinds carried by RevealFaultPayload
const (
	FaultNormalization  = "normalization"
	FaultSectorMismatch = "sector_mismatch"
	FaultMatchTally     = "match_tally"
	FaultTick           = "tick"
)

// PhaseChangedPayload is the event payload for reveal.phase_changed events
type PhaseChangedPayload struct {
	WidgetID  string    `json:"widget_id"`
	SessionID string    `json:"session_id"`
	Mode      Mode      `json:"mode"`
	From      Phase     `json:"from"`
	To        Phase     `json:"to"`
	At        time.Time `json:"at"`
}

// RevealStoppedPayload is the event payload for reveal.stopped events
type RevealStoppedPayload struct {
	WidgetID     string        `json:"widget_id"`
	SessionID    string        `json:"session_id"`
	Mode         Mode          `json:"mode"`
	FinalIndexes []int         `json:"final_indexes"`
	FinalAngle   float64       `json:"final_angle,omitempty"`
	Immediate    bool          `json:"immediate"`
	Duration     time.Duration `json:"duration"`
}

// RevealAbortedPayload is the event payload for reveal.aborted events
type RevealAbortedPayload struct {
	WidgetID  string `json:"widget_id"`
	SessionID string `json:"session_id"`
	Mode      Mode   `json:"mode"`
	Reason    string `json:"reason"`
}

// RevealFaultPayload is the event payload for reveal.fault events
type RevealFaultPayload struct {
	WidgetID string `json:"widget_id"`
	Mode     Mode   `json:"mode"`
	Kind     string `json:"kind"`
	Detail   string `json:"detail"`
}
