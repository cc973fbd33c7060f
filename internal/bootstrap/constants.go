package bootstrap

// DirPermission is the standard permission for creating directories
const DirPermission = 0755

// Log messages for startup
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStarting            = "Starting BrandishReveal"
	LogMsgConfigurationLoaded = "Configuration loaded"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgFaultJournalOpened         = "Fault journal opened"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
	ErrMsgFailedCreateJournalDir     = "failed to create fault journal directory"
	ErrMsgFailedOpenJournal          = "failed to open fault journal"
)

// Log and error messages for application wiring
const (
	LogMsgApplicationReady = "Application ready"
	LogMsgProfilesReloaded = "Presentation profiles reloaded"
	ErrMsgInvalidPolicy    = "invalid sector policy"
)

// Shutdown messages
const (
	LogMsgShuttingDown         = "Shutting down..."
	LogMsgStoppingStreams      = "Closing event streams..."
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgClosingWidgets       = "Closing widgets..."
	LogMsgStoppingLoop         = "Stopping event loop..."
	LogMsgJournalCloseFailed   = "Fault journal close failed"
	LogMsgShutdownComplete     = "Shutdown complete"
)
