package stream

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPattern = "workouts:*:events"

type Hub struct {
	id      string
	redis   *redis.Client
	logger  *zap.Logger
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
	pubsub  *redis.PubSub
}

type Client struct {
	SessionID string
	Send      chan []byte
}

// envelope tags redis messages with the publishing hub so it can skip its own.
type envelope struct {
	Origin  string          `json:"origin"`
	Payload json.RawMessage `json:"payload"`
}

// NewHub fans events out to local websocket clients and, with a redis client,
// to hubs in other processes.
func NewHub(redisClient *redis.Client, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		logger:  logger,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		ctx := context.Background()
		pubsub := redisClient.PSubscribe(ctx, channelPattern)
		if _, err := pubsub.Receive(ctx); err != nil {
			logger.Warn("redis subscribe failed, events stay local", zap.Error(err))
			_ = pubsub.Close()
		} else {
			h.pubsub = pubsub
			go h.subscribeRedis()
		}
	}
	return h
}

func (h *Hub) Close() error {
	if h.pubsub != nil {
		return h.pubsub.Close()
	}
	return nil
}

func (h *Hub) Register(sessionID string) *Client {
	client := &Client{
		SessionID: sessionID,
		Send:      make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = map[*Client]struct{}{}
	}
	h.clients[sessionID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sessionClients, ok := h.clients[client.SessionID]; ok {
		delete(sessionClients, client)
		if len(sessionClients) == 0 {
			delete(h.clients, client.SessionID)
		}
	}
	close(client.Send)
}

// Broadcast never blocks: a client whose buffer is full misses the event.
func (h *Hub) Broadcast(sessionID string, payload []byte) {
	h.deliver(sessionID, payload)

	if h.redis != nil {
		msg, _ := json.Marshal(envelope{Origin: h.id, Payload: payload})
		err := h.redis.Publish(context.Background(), redisChannel(sessionID), msg).Err()
		if err != nil {
			h.logger.Warn("redis publish failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
}

func (h *Hub) deliver(sessionID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[sessionID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

// Send delivers payload to one client only, and only while it is registered.
func (h *Hub) Send(client *Client, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[client.SessionID][client]; !ok {
		return
	}
	select {
	case client.Send <- payload:
	default:
	}
}

func (h *Hub) subscribeRedis() {
	for msg := range h.pubsub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			h.logger.Debug("dropping foreign redis message", zap.String("channel", msg.Channel))
			continue
		}
		if env.Origin == h.id {
			continue
		}
		h.deliver(sessionIDFromChannel(msg.Channel), env.Payload)
	}
}

func redisChannel(sessionID string) string {
	return "workouts:" + sessionID + ":events"
}

func sessionIDFromChannel(ch string) string {
	// workouts:{session}:events
	const prefix = "workouts:"
	const suffix = ":events"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
