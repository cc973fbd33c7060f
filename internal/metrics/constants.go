package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
	MetricNameRequestsThrottled    = "http_requests_throttled_total"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Reveal metric names
const (
	MetricNameRevealSessions   = "reveal_sessions_total"
	MetricNameRevealDuration   = "reveal_duration_seconds"
	MetricNameRevealFaults     = "reveal_faults_total"
	MetricNameSectorMismatches = "reveal_sector_mismatches_total"
	MetricNameActiveWidgets    = "reveal_active_widgets"
	MetricNameProviderRequests = "outcome_provider_requests_total"
	MetricNameSSEClients       = "sse_clients"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextRequestsThrottled    = "Total number of HTTP requests refused because a client exceeded its request budget"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Reveal metric help text
const (
	HelpTextRevealSessions   = "Total number of reveal runs by how they ended"
	HelpTextRevealDuration   = "Wall time from start to stop of a reveal run in seconds"
	HelpTextRevealFaults     = "Total number of data-integrity faults detected while revealing"
	HelpTextSectorMismatches = "Total number of wheel sector disagreements by resolution policy"
	HelpTextActiveWidgets    = "Current number of registered reveal widgets"
	HelpTextProviderRequests = "Total number of outcome provider requests by result"
	HelpTextSSEClients       = "Current number of connected SSE clients"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelMode   = "mode"
	LabelKind   = "kind"
	LabelPolicy = "policy"
	LabelResult = "result"
)

// Reveal session results
const (
	ResultStopped   = "stopped"
	ResultImmediate = "immediate"
	ResultAborted   = "aborted"
)

// Provider request results
const (
	ProviderResultOK           = "ok"
	ProviderResultRejected     = "rejected"
	ProviderResultUnavailable  = "unavailable"
	ProviderResultDecodeFailed = "decode_failed"
)

// UnmatchedRoute labels requests that did not match any route
const UnmatchedRoute = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// RevealDurationBuckets covers animations from an immediate stop up to a long wheel
var RevealDurationBuckets = []float64{0, .25, .5, 1, 2, 3, 4, 5, 7.5, 10, 15}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadUnexpected = "Event payload has unexpected shape"
	LogMsgMetricsRecorded        = "Metrics recorded for event"
)
