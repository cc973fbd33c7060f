package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/event"
)

func TestEventMetricsCollector_RevealStopped(t *testing.T) {
	bus := event.NewMemoryBus()
	require.NoError(t, NewEventMetricsCollector().Register(bus))

	stopped := RevealSessions.WithLabelValues(string(domain.ModeGrid), ResultStopped)
	immediate := RevealSessions.WithLabelValues(string(domain.ModeGrid), ResultImmediate)
	beforeStopped := testutil.ToFloat64(stopped)
	beforeImmediate := testutil.ToFloat64(immediate)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, event.NewRevealStoppedEvent(domain.RevealStoppedPayload{
		WidgetID: "w", Mode: domain.ModeGrid, Duration: 2 * time.Second,
	})))
	require.NoError(t, bus.Publish(ctx, event.NewRevealStoppedEvent(domain.RevealStoppedPayload{
		WidgetID: "w", Mode: domain.ModeGrid, Immediate: true,
	})))

	assert.Equal(t, beforeStopped+1, testutil.ToFloat64(stopped))
	assert.Equal(t, beforeImmediate+1, testutil.ToFloat64(immediate))
}

func TestEventMetricsCollector_AbortAndFault(t *testing.T) {
	bus := event.NewMemoryBus()
	require.NoError(t, NewEventMetricsCollector().Register(bus))

	aborted := RevealSessions.WithLabelValues(string(domain.ModeReel), ResultAborted)
	faults := RevealFaults.WithLabelValues(string(domain.ModeReel), domain.FaultTick)
	beforeAborted := testutil.ToFloat64(aborted)
	beforeFaults := testutil.ToFloat64(faults)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, event.NewRevealAbortedEvent(domain.RevealAbortedPayload{
		WidgetID: "w", Mode: domain.ModeReel, Reason: domain.FaultTick,
	})))
	require.NoError(t, bus.Publish(ctx, event.NewRevealFaultEvent(domain.RevealFaultPayload{
		WidgetID: "w", Mode: domain.ModeReel, Kind: domain.FaultTick,
	})))

	assert.Equal(t, beforeAborted+1, testutil.ToFloat64(aborted))
	assert.Equal(t, beforeFaults+1, testutil.ToFloat64(faults))
}

func TestEventMetricsCollector_UnexpectedPayload(t *testing.T) {
	errs := EventHandlerErrors.WithLabelValues(string(event.RevealStopped))
	before := testutil.ToFloat64(errs)

	err := NewEventMetricsCollector().HandleEvent(context.Background(), event.Event{
		Type:    event.RevealStopped,
		Payload: make(chan int),
	})

	assert.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(errs))
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/v1/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/widgets/{id}", "418")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/widgets/abc", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestResponseWriter_Flush(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
	rw.Flush()
	assert.True(t, rec.Flushed)
}
