package outcome

// HTTP settings for the outcome provider client
const (
	HeaderAPIKey     = "X-API-Key"
	HeaderRequestID  = "X-Request-ID"
	MaxResponseBytes = 1 << 20
)

// DefaultProviderErrorMessage is shown when the game server gives no reason
const DefaultProviderErrorMessage = "The game server could not process this play. Please try again."

// MaxRotationDegrees bounds the magnitude of a wheel rotation angle. Beyond it
// float64 can no longer resolve a sector.
const MaxRotationDegrees = 360.0 * 100000

// Error context strings for payload decoding
const (
	ErrContextMissingWonItem = "response has no won_item or target_id"
	ErrContextMissingReels   = "response has no reels"
	ErrContextMissingSector  = "response needs both sector_index and rotation_angle"
	ErrContextDigitCount     = "expected 3 secret and 3 user digits"
)

// Log messages
const (
	LogMsgProviderRequestFailed = "Outcome provider request failed"
	LogMsgProviderRejected      = "Outcome provider rejected play"
	LogMsgProviderBadPayload    = "Outcome provider returned an unusable payload"
	LogMsgProviderOutcome       = "Outcome received"
	LogMsgMatchTallyMismatch    = "Declared match count disagrees with digits"
)
