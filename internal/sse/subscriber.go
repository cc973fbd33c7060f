package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/BrandishReveal_Go/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers handlers for every reveal event type
func (s *Subscriber) Subscribe() {
	event.SubscribeAll(s.bus, event.AllRevealTypes, s.forward)

	types := make([]string, len(event.AllRevealTypes))
	for i, t := range event.AllRevealTypes {
		types[i] = string(t)
	}
	slog.Info(LogMsgSubscriberReady, "types", types)
}

// forward relays a reveal event to the clients of its widget. The SSE event
// type is the bus event type.
func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	widgetID := evt.WidgetID()
	if widgetID == "" {
		slog.Warn(LogMsgInvalidBusEvent, "event_type", evt.Type)
		return nil
	}

	if err := s.hub.Broadcast(widgetID, string(evt.Type), evt.Payload); err != nil {
		// clients are gone, nothing to deliver
		return nil
	}

	slog.Debug(LogMsgEventBroadcast,
		"event_type", evt.Type,
		"widget_id", widgetID)
	return nil
}
