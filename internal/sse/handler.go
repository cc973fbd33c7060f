package sse

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Handler streams the events of one widget. widgetID extracts the widget from
// the request and reports false when it does not exist.
func Handler(hub *Hub, widgetID func(r *http.Request) (string, bool)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := widgetID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, ErrMsgStreamingUnsupported, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		var eventTypes []string
		if filterParam := r.URL.Query().Get(QueryParamTypes); filterParam != "" {
			eventTypes = strings.Split(filterParam, ",")
		}

		client := hub.Register(id, eventTypes)
		slog.Info(LogMsgClientConnected,
			"client_id", client.ID,
			"widget_id", id,
			"filters", eventTypes)

		defer func() {
			hub.Unregister(client.ID)
			slog.Info(LogMsgClientDisconnected,
				"client_id", client.ID,
				"widget_id", id)
		}()

		connectEvent := Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			WidgetID:  id,
			Timestamp: time.Now().UnixMilli(),
			Payload: ConnectedPayload{
				ClientID: client.ID,
				WidgetID: id,
				Filters:  eventTypes,
			},
		}
		if !write(w, flusher, connectEvent) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-client.EventChannel:
				if !ok {
					// hub is shutting down
					return
				}
				if !write(w, flusher, event) {
					return
				}

			case <-ticker.C:
				keepalive := Event{
					Type:      EventTypeKeepalive,
					WidgetID:  id,
					Timestamp: time.Now().UnixMilli(),
				}
				if !write(w, flusher, keepalive) {
					return
				}
			}
		}
	}
}

func write(w http.ResponseWriter, flusher http.Flusher, event Event) bool {
	msg, err := FormatSSEMessage(event)
	if err != nil {
		slog.Error(LogMsgWriteError, "error", err, "event_type", event.Type)
		return true
	}
	if _, err := w.Write(msg); err != nil {
		slog.Warn(LogMsgWriteError, "error", err, "event_type", event.Type)
		return false
	}
	flusher.Flush()
	return true
}
