package worker

// ============================================================================
// Log Messages - Event Loop
// ============================================================================

// LogMsgLoopCallbackPanic is logged when a loop callback panics
const LogMsgLoopCallbackPanic = "Event loop callback panicked"

// ============================================================================
// Loop Configuration
// ============================================================================

// DefaultQueueSize is the buffer size of the loop's job channel
const DefaultQueueSize = 256

// maxManualSteps bounds RunUntilIdle so a self-rescheduling callback cannot hang a test
const maxManualSteps = 100000
