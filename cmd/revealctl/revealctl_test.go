package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishReveal_Go/internal/handler"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })
	return &buf
}

func TestRegistry_ListSortedAndHelp(t *testing.T) {
	r := newCommandRegistry(newClient("", ""))

	names := make([]string, 0)
	for _, cmd := range r.List() {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, []string{"ack", "create", "delete", "health", "play", "reload-profiles", "status", "watch"}, names)

	_, ok := r.Get("play")
	assert.True(t, ok)
	_, ok = r.Get("spin")
	assert.False(t, ok)

	var help bytes.Buffer
	r.PrintHelp(&help)
	assert.Contains(t, help.String(), "Usage: revealctl")
	assert.Contains(t, help.String(), "reload-profiles")
}

func TestReadEvents(t *testing.T) {
	stream := "id: 1\nevent: connected\ndata: {}\n\n" +
		"id: 2\nevent: reveal.frame\ndata: {\"offset\":3}\n\n" +
		"id: 3\nevent: reveal.stopped\ndata: {}\n\n" +
		"id: 4\nevent: reveal.frame\ndata: {}\n\n"

	var seen []streamEvent
	err := readEvents(strings.NewReader(stream), func(evt streamEvent) bool {
		seen = append(seen, evt)
		return evt.Type != "reveal.stopped"
	})
	require.NoError(t, err)
	require.Len(t, seen, 3)
	assert.Equal(t, "2", seen[1].ID)
	assert.Equal(t, `{"offset":3}`, seen[1].Data)
}

func TestParseDigits(t *testing.T) {
	got, err := parseDigits("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)

	for _, bad := range []string{"1,2", "1,2,10", "a,b,c", "1,2,3,4"} {
		_, err := parseDigits(bad)
		assert.ErrorIs(t, err, errUsage, bad)
	}
}

func TestReorderFlags(t *testing.T) {
	assert.Equal(t, []string{"--wait", "w-1"}, reorderFlags([]string{"w-1", "--wait"}))
	assert.Equal(t, []string{"--wait", "w-1"}, reorderFlags([]string{"--wait", "w-1"}))
	assert.Empty(t, reorderFlags(nil))
}

func TestClient_Do(t *testing.T) {
	var gotKey, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(headerAPIKey)
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		switch r.URL.Path {
		case "/api/v1/widgets":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"widget_id":"w-1","mode":"grid","events_path":"/api/v1/widgets/w-1/events"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Widget not found"}`))
		}
	}))
	defer srv.Close()

	c := newClient(srv.URL+"/", "secret")
	buf := captureOutput(t)

	cmd := &CreateCommand{c: c}
	require.NoError(t, cmd.Run([]string{"--mode", "grid", "--pool", "a, b,,c"}))
	assert.Equal(t, "secret", gotKey)
	assert.JSONEq(t, `{"mode":"grid","game":"","pool":[{"id":"a"},{"id":"b"},{"id":"c"}]}`, gotBody)
	assert.Contains(t, buf.String(), "w-1")

	err := (&StatusCommand{c: c}).Run([]string{"missing"})
	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Widget not found", apiErr.Message)
}

func TestCommands_RequireWidgetID(t *testing.T) {
	c := newClient("http://127.0.0.1:1", "")
	for _, cmd := range []Command{&PlayCommand{c: c}, &AckCommand{c: c}, &StatusCommand{c: c}, &WatchCommand{c: c}, &DeleteCommand{c: c}} {
		assert.ErrorIs(t, cmd.Run(nil), errUsage, cmd.Name())
	}
	assert.ErrorIs(t, (&CreateCommand{c: c}).Run(nil), errUsage)
}

func TestPlayRequestShape(t *testing.T) {
	var got handler.PlayRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"session_id":"s-1"}`))
	}))
	defer srv.Close()
	captureOutput(t)

	require.NoError(t, (&PlayCommand{c: newClient(srv.URL, "")}).Run([]string{"w-1", "--digits", "4,5,6"}))
	assert.Nil(t, got.CellIndex)
	assert.Equal(t, []int{4, 5, 6}, got.Digits)
}
