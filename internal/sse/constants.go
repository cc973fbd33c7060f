package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 1024

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 256

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second
)

// Event types for SSE
const (
	// EventTypeFrame carries one tick of a reel or the wheel
	EventTypeFrame = "reveal.frame"

	// EventTypeScroll asks the browser to scroll a reel viewport
	EventTypeScroll = "reveal.scroll"

	// EventTypeEffect carries one post-stop effect command
	EventTypeEffect = "reveal.effect"

	// EventTypeConnected is the first event of every stream
	EventTypeConnected = "connected"

	// EventTypeKeepalive is the keepalive ping event type
	EventTypeKeepalive = "keepalive"
)

// Query parameters
const (
	QueryParamTypes = "types"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgEventDropped       = "SSE broadcast buffer full, event dropped"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgSubscriberReady    = "SSE subscriber registered for event types"
	LogMsgInvalidBusEvent    = "Bus event has no widget id, not forwarded"
)

// ErrMsgStreamingUnsupported is returned when the response cannot be flushed
const ErrMsgStreamingUnsupported = "SSE not supported"
