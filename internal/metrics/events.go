package metrics

import (
	"context"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/event"
	"github.com/osse101/BrandishReveal_Go/internal/logger"
)

// EventMetricsCollector subscribes to reveal events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all reveal events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	event.SubscribeAll(bus, event.AllRevealTypes, e.HandleEvent)
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.RevealStopped:
		p, err := event.DecodePayload[domain.RevealStoppedPayload](evt.Payload)
		if err != nil {
			return e.unexpected(ctx, evt, err)
		}
		result := ResultStopped
		if p.Immediate {
			result = ResultImmediate
		}
		RevealSessions.WithLabelValues(string(p.Mode), result).Inc()
		RevealDuration.WithLabelValues(string(p.Mode)).Observe(p.Duration.Seconds())

	case event.RevealAborted:
		p, err := event.DecodePayload[domain.RevealAbortedPayload](evt.Payload)
		if err != nil {
			return e.unexpected(ctx, evt, err)
		}
		RevealSessions.WithLabelValues(string(p.Mode), ResultAborted).Inc()

	case event.RevealFault:
		p, err := event.DecodePayload[domain.RevealFaultPayload](evt.Payload)
		if err != nil {
			return e.unexpected(ctx, evt, err)
		}
		// sector mismatches and match tallies are counted where they are detected
		if p.Kind == domain.FaultNormalization || p.Kind == domain.FaultTick {
			RevealFaults.WithLabelValues(string(p.Mode), p.Kind).Inc()
		}
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func (e *EventMetricsCollector) unexpected(ctx context.Context, evt event.Event, err error) error {
	EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
	logger.FromContext(ctx).Debug(LogMsgEventPayloadUnexpected, "type", evt.Type, "error", err)
	return nil
}
