package sse

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/osse101/BrandishReveal_Go/internal/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrHubClosed is returned when broadcasting after Stop
var ErrHubClosed = errors.New("sse hub closed")

// Event represents an event sent over SSE
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	WidgetID  string      `json:"widget_id"`
	Timestamp int64       `json:"timestamp"` // unix milliseconds
	Payload   interface{} `json:"payload"`
}

// Client represents a connected SSE client. Each client follows one widget.
type Client struct {
	ID           string
	WidgetID     string
	EventChannel chan Event
	EventFilter  map[string]bool // nil means all events, otherwise only specified types
}

// Hub manages SSE client connections and event broadcasting
type Hub struct {
	clients    map[string]*Client
	broadcast  chan Event
	register   chan *Client
	unregister chan string
	mu         sync.RWMutex
	shutdown   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// NewHub creates a new SSE Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Event, BroadcastBufferSize),
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
	}
}

// Start starts the hub's broadcast loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		for _, client := range h.clients {
			close(client.EventChannel)
		}
		metrics.SSEClients.Sub(float64(len(h.clients)))
		h.clients = make(map[string]*Client)
		h.mu.Unlock()
	})
}

// run is the main broadcast loop
func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			metrics.SSEClients.Inc()

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[clientID]; ok {
				close(client.EventChannel)
				delete(h.clients, clientID)
				metrics.SSEClients.Dec()
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				if client.WidgetID != event.WidgetID {
					continue
				}
				if client.EventFilter != nil && !client.EventFilter[event.Type] {
					continue
				}

				// Non-blocking send; a slow client misses frames rather than stalling the hub
				select {
				case client.EventChannel <- event:
				default:
				}
			}
			h.mu.RUnlock()

		case <-h.shutdown:
			return
		}
	}
}

// Register adds a new client following widgetID
func (h *Hub) Register(widgetID string, eventTypes []string) *Client {
	client := &Client{
		ID:           uuid.New().String(),
		WidgetID:     widgetID,
		EventChannel: make(chan Event, ClientEventBuffer),
	}

	if len(eventTypes) > 0 {
		client.EventFilter = make(map[string]bool)
		for _, t := range eventTypes {
			client.EventFilter[t] = true
		}
	}

	select {
	case h.register <- client:
	case <-h.shutdown:
		close(client.EventChannel)
	}
	return client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast sends an event to every client following widgetID
func (h *Hub) Broadcast(widgetID, eventType string, payload interface{}) error {
	event := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		WidgetID:  widgetID,
		Timestamp: time.Now().UnixMilli(),
		Payload:   payload,
	}

	select {
	case <-h.shutdown:
		return ErrHubClosed
	default:
	}

	select {
	case h.broadcast <- event:
	default:
		slog.Warn(LogMsgEventDropped, "widget_id", widgetID, "event_type", eventType)
	}
	return nil
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage formats an SSE event for transmission
func FormatSSEMessage(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	// SSE format: "id: <id>\nevent: <type>\ndata: <json>\n\n"
	msg := "id: " + event.ID + "\n"
	msg += "event: " + event.Type + "\n"
	msg += "data: " + string(data) + "\n\n"

	return []byte(msg), nil
}
