package wheel

// FullTurn is one revolution in degrees
const FullTurn = 360.0

// Log messages
const (
	LogMsgSectorMismatchBeforeSpin = "Wheel angle disagrees with declared sector"
	LogMsgSectorMismatchOnArrival  = "Wheel stopped on a different sector than declared"
)
