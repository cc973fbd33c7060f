package event

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/logger"
)

// FaultJournal appends reveal fault events to a JSON lines file so that
// outcome disagreements can be audited after the fact.
type FaultJournal struct {
	file *os.File
	mu   sync.Mutex
	now  func() time.Time
}

// FaultJournalEntry is one line of the journal
type FaultJournalEntry struct {
	SchemaVersion string                    `json:"schema_version"`
	Timestamp     time.Time                 `json:"timestamp"`
	Fault         domain.RevealFaultPayload `json:"fault"`
}

// NewFaultJournal opens (or creates) the journal at path
func NewFaultJournal(path string) (*FaultJournal, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, FaultJournalFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("open fault journal %s: %w", path, err)
	}
	return &FaultJournal{file: f, now: time.Now}, nil
}

// Register subscribes the journal to fault events on bus
func (j *FaultJournal) Register(bus Bus) {
	bus.Subscribe(RevealFault, j.Handle)
}

// Handle writes a fault event to the journal
func (j *FaultJournal) Handle(ctx context.Context, evt Event) error {
	payload, err := DecodePayload[domain.RevealFaultPayload](evt.Payload)
	if err != nil {
		return err
	}
	return j.Write(ctx, payload)
}

// Write appends one fault to the journal
func (j *FaultJournal) Write(ctx context.Context, fault domain.RevealFaultPayload) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry := FaultJournalEntry{
		SchemaVersion: FaultJournalSchemaVersion,
		Timestamp:     j.now().UTC(),
		Fault:         fault,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if _, err := j.file.Write(append(data, '\n')); err != nil {
		logger.FromContext(ctx).Error(LogMsgFaultJournalWriteFailed, "error", err)
		return err
	}

	logger.FromContext(ctx).Info(LogMsgFaultJournaled,
		"widget_id", fault.WidgetID,
		"mode", fault.Mode,
		"kind", fault.Kind)
	return nil
}

// Close closes the journal file
func (j *FaultJournal) Close() error {
	return j.file.Close()
}
