package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
)

// Success messages for API responses
const (
	MsgAcknowledged = "Reveal acknowledged"
)

// Operation names used in logs
const (
	OpCreateWidget = "Create widget"
	OpPlay         = "Play"
	OpAcknowledge  = "Acknowledge"
	OpGetWidget    = "Get widget"
	OpDeleteWidget = "Delete widget"
	OpViewport     = "Viewport"
)
