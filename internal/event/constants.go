package event

// EventSchemaVersion is the current event schema version
const EventSchemaVersion = "1.0"

// MetadataWidgetID is the metadata key carrying the widget id
const MetadataWidgetID = "widget_id"

// FaultJournalSchemaVersion is the current version of the fault journal format.
// Increment this when changing the FaultJournalEntry structure.
const FaultJournalSchemaVersion = "1.0"

// FaultJournalFilePermissions is the file permission mode for journal files
const FaultJournalFilePermissions = 0644

// Log message constants
const (
	LogMsgFaultJournaled          = "reveal_fault_journaled"
	LogMsgFaultJournalWriteFailed = "Failed to write to fault journal"

	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)
