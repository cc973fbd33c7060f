package profile

// DefaultGame is the name of the base layer
const DefaultGame = "default"

// Layout of the profiles directory
const (
	GamesDir      = "games"
	ProfileSuffix = ".yaml"
)

// Error context strings
const (
	ErrContextReadLayer    = "read profile layer"
	ErrContextParseLayer   = "parse profile layer"
	ErrContextSchema       = "profile schema"
	ErrContextValidate     = "validate profile"
	ErrContextInvalidGame  = "invalid game name"
	ErrContextModeMismatch = "profile mode does not match widget"
)

// Log messages
const (
	LogMsgProfileLoaded   = "Game profile loaded"
	LogMsgProfileFallback = "No profile for game, using defaults"
)
