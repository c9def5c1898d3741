package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/elitehr/elite-time/internal/core/events"
)

// Topics clients may subscribe to. They mirror the event types the
// domain publishes.
var Topics = map[string]bool{
	events.EventTypeLateAlert:     true,
	events.EventTypeBreakReminder: true,
}

type Client struct {
	ID     string
	UserID int64
	Send   chan []byte

	topics map[string]bool
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Register adds a client subscribed to every topic. Subscription
// lifetime is the connection lifetime.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.topics = make(map[string]bool, len(Topics))
	for topic := range Topics {
		client.topics[topic] = true
	}
	h.clients[client.ID] = client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
}

func (h *Hub) SetTopics(client *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.topics = make(map[string]bool, len(topics))
	for _, topic := range topics {
		if Topics[topic] {
			client.topics[topic] = true
		}
	}
}

// Broadcast fans a payload out to every client subscribed to the
// topic. Slow clients drop messages rather than block the caller.
func (h *Hub) Broadcast(topic string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if !client.topics[topic] {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn("dropping realtime message", "client_id", client.ID, "topic", topic)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	CreatedAt time.Time   `json:"created_at"`
}

// BridgeEvents forwards domain events onto the hub as JSON envelopes.
func BridgeEvents(bus *events.EventBus, hub *Hub, logger *slog.Logger) {
	forward := func(ctx context.Context, event events.Event) error {
		envelope := Envelope{
			Type:      event.EventType(),
			Payload:   event.Payload(),
			CreatedAt: event.OccurredAt(),
		}
		data, err := json.Marshal(envelope)
		if err != nil {
			logger.Error("failed to marshal realtime envelope", "type", event.EventType(), "error", err)
			return nil
		}
		hub.Broadcast(event.EventType(), data)
		return nil
	}
	for topic := range Topics {
		bus.Subscribe(topic, forward)
	}
}

type SubscribeMessage struct {
	Action string   `json:"action"`
	Topics []string `json:"topics"`
}

func ParseSubscribe(data []byte) (SubscribeMessage, bool) {
	var msg SubscribeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return SubscribeMessage{}, false
	}
	if msg.Action != "subscribe" && msg.Action != "unsubscribe" {
		return SubscribeMessage{}, false
	}
	return msg, true
}
