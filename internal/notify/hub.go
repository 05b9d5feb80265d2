package notify

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Event is pushed to a user's open connections when one of their bookings
// changes state.
type Event struct {
	Type      string `json:"type"`
	BookingID string `json:"booking_id"`
	PlaceName string `json:"place_name,omitempty"`
	Status    string `json:"status"`
}

// Hub fans booking events out to every live connection of a user. With a
// Redis client attached, events also cross process boundaries via pub/sub.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	UserID string
	Send   chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(userID string) *Client {
	client := &Client{
		UserID: userID,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = map[*Client]struct{}{}
	}
	h.clients[userID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if userClients, ok := h.clients[client.UserID]; ok {
		delete(userClients, client)
		if len(userClients) == 0 {
			delete(h.clients, client.UserID)
		}
	}
	close(client.Send)
}

// Publish marshals the event and delivers it to the user's connections.
func (h *Hub) Publish(ctx context.Context, userID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("event marshal error: %v", err)
		return
	}
	h.broadcast(ctx, userID, payload)
}

// broadcast routes through Redis when attached: local connections then hear
// the event via the subscription, the same path as remote processes. Fanning
// out locally as well would hand every event to each connection twice.
func (h *Hub) broadcast(ctx context.Context, userID string, payload []byte) {
	if h.redis != nil {
		if err := h.redis.Publish(ctx, redisChannel(userID), payload).Err(); err != nil {
			log.Printf("redis publish error: %v", err)
		}
		return
	}
	h.deliver(userID, payload)
}

func (h *Hub) deliver(userID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "bookings:*:events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(userIDFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(userID string) string {
	return "bookings:" + userID + ":events"
}

func userIDFromChannel(ch string) string {
	// bookings:{user}:events
	const prefix = "bookings:"
	const suffix = ":events"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
