package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/effects"
	"github.com/osse101/BrandishReveal_Go/internal/event"
	"github.com/osse101/BrandishReveal_Go/internal/scheduler"
)

const waitFor = time.Second

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func register(t *testing.T, hub *Hub, widgetID string, types ...string) *Client {
	t.Helper()
	before := hub.ClientCount()
	c := hub.Register(widgetID, types)
	require.Eventually(t, func() bool { return hub.ClientCount() == before+1 }, waitFor, time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case e := <-c.EventChannel:
		return e
	case <-time.After(waitFor):
		t.Fatalf("no event for client %s", c.ID)
		return Event{}
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case e := <-c.EventChannel:
		t.Fatalf("unexpected event %s for widget %s", e.Type, c.WidgetID)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestHub_RoutesByWidget(t *testing.T) {
	hub := startHub(t)
	w1 := register(t, hub, "w1")
	w2 := register(t, hub, "w2")

	require.NoError(t, hub.Broadcast("w1", EventTypeFrame, FramePayload{Index: 3}))

	got := receive(t, w1)
	assert.Equal(t, EventTypeFrame, got.Type)
	assert.Equal(t, "w1", got.WidgetID)
	assert.Equal(t, FramePayload{Index: 3}, got.Payload)
	assertSilent(t, w2)
}

func TestHub_EventFilter(t *testing.T) {
	hub := startHub(t)
	effectsOnly := register(t, hub, "w1", EventTypeEffect)

	require.NoError(t, hub.Broadcast("w1", EventTypeFrame, nil))
	require.NoError(t, hub.Broadcast("w1", EventTypeEffect, nil))

	assert.Equal(t, EventTypeEffect, receive(t, effectsOnly).Type)
	assertSilent(t, effectsOnly)
}

func TestHub_UnregisterAndStop(t *testing.T) {
	hub := NewHub()
	hub.Start()

	c := register(t, hub, "w1")
	hub.Unregister(c.ID)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, waitFor, time.Millisecond)
	_, open := <-c.EventChannel
	assert.False(t, open)

	other := register(t, hub, "w1")
	hub.Stop()
	hub.Stop()

	_, open = <-other.EventChannel
	assert.False(t, open)
	assert.ErrorIs(t, hub.Broadcast("w1", EventTypeFrame, nil), ErrHubClosed)
	hub.Unregister(other.ID)
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "1", Type: EventTypeFrame, WidgetID: "w", Payload: map[string]int{"index": 2}})
	require.NoError(t, err)

	s := string(msg)
	assert.True(t, strings.HasPrefix(s, "id: 1\nevent: reveal.frame\ndata: {"))
	assert.True(t, strings.HasSuffix(s, "}\n\n"))
	assert.Contains(t, s, `"index":2`)
}

func TestStream_Frame(t *testing.T) {
	hub := startHub(t)
	c := register(t, hub, "w1")
	stream := NewStream(hub, "w1", nil, 9, 5)

	sid := uuid.New()
	require.NoError(t, stream.Frame(scheduler.Tick{
		SessionID: sid, ReelID: 0, Step: 31, Index: 4, Phase: domain.PhaseStopped,
		Delay: 400 * time.Millisecond, Final: true,
	}))

	got := receive(t, c).Payload.(FramePayload)
	assert.Equal(t, sid.String(), got.SessionID)
	assert.Equal(t, 4, got.Index)
	assert.Equal(t, int64(400), got.DelayMS)
	assert.True(t, got.Final)
}

func TestStream_ScrollSync(t *testing.T) {
	hub := startHub(t)
	c := register(t, hub, "w1")
	stream := NewStream(hub, "w1", nil, 20, 5)

	assert.True(t, stream.IsVisible(0, 4))
	assert.False(t, stream.IsVisible(0, 5))

	stream.EnsureVisible(0, 9)
	got := receive(t, c)
	assert.Equal(t, EventTypeScroll, got.Type)
	assert.Equal(t, ScrollPayload{ReelID: 0, First: 6, Count: 5}, got.Payload)
	assert.True(t, stream.IsVisible(0, 9))
	assert.True(t, stream.IsVisible(0, 10))

	// already visible: no command
	stream.EnsureVisible(0, 7)
	assertSilent(t, c)

	stream.EnsureVisible(0, 2)
	assert.Equal(t, ScrollPayload{ReelID: 0, First: 1, Count: 5}, receive(t, c).Payload)
	assert.True(t, stream.IsVisible(0, 2))

	stream.ReportScroll(0, 100)
	assert.Equal(t, Viewport{First: 15, Count: 5}, stream.Viewport(0))
	assert.Equal(t, Viewport{First: 0, Count: 5}, stream.Viewport(1))
}

func TestStream_EnsureVisibleRevealsTarget(t *testing.T) {
	tests := []struct {
		name      string
		visible   int
		scrolled  int
		target    int
		wantFirst int
	}{
		{"target above the window", 3, 10, 2, 1},
		{"target below the window", 3, 0, 12, 11},
		{"first entry", 3, 10, 0, 0},
		{"last entry", 3, 0, 19, 17},
		{"single entry window above", 1, 10, 2, 2},
		{"single entry window below", 1, 0, 12, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := startHub(t)
			c := register(t, hub, "w1")
			stream := NewStream(hub, "w1", nil, 20, tt.visible)
			stream.ReportScroll(0, tt.scrolled)

			// what the scheduler does on every tick
			for tick := 0; tick < 5; tick++ {
				if !stream.IsVisible(0, tt.target) {
					stream.EnsureVisible(0, tt.target)
				}
			}

			assert.True(t, stream.IsVisible(0, tt.target))
			assert.Equal(t, tt.wantFirst, stream.Viewport(0).First)
			assert.Equal(t, ScrollPayload{ReelID: 0, First: tt.wantFirst, Count: tt.visible}, receive(t, c).Payload)
			assertSilent(t, c)
		})
	}
}

func TestStream_WholePoolVisible(t *testing.T) {
	stream := NewStream(NewHub(), "w", nil, 8, 0)
	for i := 0; i < 8; i++ {
		assert.True(t, stream.IsVisible(0, i))
	}
}

func TestStream_Effects(t *testing.T) {
	hub := startHub(t)
	c := register(t, hub, "w1")
	bank := effects.NewBank(map[string]effects.Sound{"stop": {URL: "/stop.ogg"}}, 1, false)
	stream := NewStream(hub, "w1", bank, 9, 0)

	stream.PlaySound("stop")
	got := receive(t, c).Payload.(EffectPayload)
	assert.Equal(t, domain.EffectSound, got.Kind)
	require.NotNil(t, got.Cue)
	assert.Equal(t, "/stop.ogg", got.Cue.URL)

	// unknown sounds are not sent
	stream.PlaySound("nope")
	stream.MarkDigit(1, true)
	got = receive(t, c).Payload.(EffectPayload)
	assert.Equal(t, domain.EffectDigitMarker, got.Kind)
	assert.Equal(t, 1, got.Position)
	assert.True(t, got.Matched)

	stream.Highlight(0, 4)
	stream.Burst("confetti")
	stream.ShowToast("hi", domain.ToastStyleSuccess)
	assert.Equal(t, domain.EffectHighlight, receive(t, c).Payload.(EffectPayload).Kind)
	assert.Equal(t, "confetti", receive(t, c).Payload.(EffectPayload).Name)
	assert.Equal(t, "hi", receive(t, c).Payload.(EffectPayload).Message)
}

func TestSubscriber_ForwardsRevealEvents(t *testing.T) {
	hub := startHub(t)
	c := register(t, hub, "w1")
	bus := event.NewMemoryBus()
	NewSubscriber(hub, bus).Subscribe()

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, event.NewPhaseChangedEvent(domain.PhaseChangedPayload{
		WidgetID: "w1", From: domain.PhaseIdle, To: domain.PhaseSpinning,
	})))
	require.NoError(t, bus.Publish(ctx, event.Event{Type: event.RevealStopped}))

	got := receive(t, c)
	assert.Equal(t, string(event.RevealPhaseChanged), got.Type)
	assert.Equal(t, domain.PhaseSpinning, got.Payload.(domain.PhaseChangedPayload).To)
	assertSilent(t, c)
}

func TestHandler_StreamsWidgetEvents(t *testing.T) {
	hub := startHub(t)
	handler := Handler(hub, func(r *http.Request) (string, bool) {
		id := r.URL.Query().Get("widget")
		return id, id == "w1"
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?widget=missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?widget=w1", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	assert.Equal(t, "event: "+EventTypeConnected, readEventLine(t, reader))

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, waitFor, time.Millisecond)
	require.NoError(t, hub.Broadcast("w1", EventTypeFrame, FramePayload{Index: 1}))
	assert.Equal(t, "event: "+EventTypeFrame, readEventLine(t, reader))

	cancel()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, waitFor, time.Millisecond)
}

func readEventLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: ") {
			return strings.TrimSuffix(line, "\n")
		}
	}
}
