package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Reveal event types
const (
	RevealPhaseChanged Type = domain.EventRevealPhaseChanged
	RevealStopped      Type = domain.EventRevealStopped
	RevealAborted      Type = domain.EventRevealAborted
	RevealFault        Type = domain.EventRevealFault
)

// AllRevealTypes lists every reveal event type, for subscribers that want all
var AllRevealTypes = []Type{RevealPhaseChanged, RevealStopped, RevealAborted, RevealFault}

// NewPhaseChangedEvent creates a phase transition event
func NewPhaseChangedEvent(p domain.PhaseChangedPayload) Event {
	return newRevealEvent(RevealPhaseChanged, p.WidgetID, p)
}

// NewRevealStoppedEvent creates an event for a run that reached Stopped
func NewRevealStoppedEvent(p domain.RevealStoppedPayload) Event {
	return newRevealEvent(RevealStopped, p.WidgetID, p)
}

// NewRevealAbortedEvent creates an event for a cancelled run
func NewRevealAbortedEvent(p domain.RevealAbortedPayload) Event {
	return newRevealEvent(RevealAborted, p.WidgetID, p)
}

// NewRevealFaultEvent creates an event for a fault detected while revealing
func NewRevealFaultEvent(p domain.RevealFaultPayload) Event {
	return newRevealEvent(RevealFault, p.WidgetID, p)
}

func newRevealEvent(t Type, widgetID string, payload interface{}) Event {
	return Event{
		Version:  EventSchemaVersion,
		Type:     t,
		Payload:  payload,
		Metadata: map[string]interface{}{MetadataWidgetID: widgetID},
	}
}

// WidgetID returns the widget an event belongs to, or "" if none
func (e Event) WidgetID() string {
	id, _ := e.GetMetadataValue(MetadataWidgetID).(string)
	return id
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously
// on the caller's goroutine.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes a handler to several event types
func SubscribeAll(bus Bus, types []Type, handler Handler) {
	for _, t := range types {
		bus.Subscribe(t, handler)
	}
}
