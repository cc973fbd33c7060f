package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Repeated API key failures from one client"
	SecurityAlertHighRate   = "SECURITY ALERT: Client exceeded its request budget"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
	HeaderRetryAfter     = "Retry-After"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// PublicPaths are path prefixes that bypass authentication
var PublicPaths = []string{
	"/healthz",
	"/readyz",
	"/version",
	"/metrics",
}

// PublicSuffixes are path suffixes that bypass authentication. Browsers
// cannot attach headers to an EventSource, so widget event streams are public.
var PublicSuffixes = []string{
	"/events",
}

// RedactedValue replaces secret header values in logs
const RedactedValue = "[REDACTED]"

// Server limits
const (
	maxRequestBytes   = 1 << 20
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 2 * time.Minute

	defaultGuardWindow     = 5 * time.Minute
	defaultMaxRequests     = 1000
	defaultFailedAuthAlert = 5
)
