package reveal

import "time"

// Default reveal profile values
const (
	DefaultStopSound        = "stop"
	DefaultWinSound         = "win"
	DefaultBurst            = "confetti"
	DefaultParticleDelay    = 300 * time.Millisecond
	DefaultDigitMarkerDelay = 200 * time.Millisecond
	DefaultToastGap         = 250 * time.Millisecond
)

// Toast messages used when the provider sent none
const (
	MsgWinFormat       = "You won %s!"
	MsgWinItemFormat   = "You won %s: %s!"
	MsgNoPrize         = "No prize this time."
	MsgRevealFailed    = "The result could not be shown. Please contact support."
	MsgDigitMatchesFmt = "%d of %d digits matched."
)

// Log messages
const (
	LogMsgEffectUnknown   = "Unknown reveal effect kind"
	LogMsgTimelineStarted = "Reveal timeline scheduled"
)
