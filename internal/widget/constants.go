package widget

// Abort reasons published with reveal.aborted
const (
	AbortReasonClosed = "closed"
)

// Log messages
const (
	LogMsgWidgetCreated  = "Widget created"
	LogMsgWidgetEvicted  = "Widget evicted"
	LogMsgWidgetClosed   = "Widget closed"
	LogMsgCloseFailed    = "Failed to close widget"
	LogMsgPlayStarted    = "Play started"
	LogMsgPlayFailed     = "Play failed"
	LogMsgRevealFault    = "Reveal fault"
	LogMsgFaultPublish   = "Failed to publish reveal fault"
	LogMsgVerdictApplied = "Wheel verdict applied"
)

// Error context strings
const (
	ErrContextPool    = "invalid candidate pool"
	ErrContextProfile = "invalid profile"
	ErrContextReelID  = "reel id must not be negative"
)
