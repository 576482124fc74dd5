package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/hanbyul/storefront-backend/pkg/logger"
)

// Event is the frame pushed to connected sessions when a cart or order
// changes server-side.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client is one websocket session of a user. A user shopping in several
// tabs holds several clients.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// notification is a marshalled event queued for one user's sessions.
type notification struct {
	userID uint
	data   []byte
}

// Hub tracks connected sessions per user and fans domain events out to
// all of them. Registration, removal and delivery all run inside Run,
// so a session's Send channel is only ever written and closed from the
// same goroutine.
type Hub struct {
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	notify     chan notification

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		notify:     make(chan notification, 256),
	}
}

// Run owns the client registry. Call it once from a goroutine at startup.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			sessions := len(h.clients[client.UserID])
			h.mu.Unlock()

			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.removeClient(client)

		case n := <-h.notify:
			h.deliver(n)
		}
	}
}

// removeClient drops the session and closes its Send channel. Only
// called from Run.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	clientList, ok := h.clients[client.UserID]
	if !ok {
		h.mu.Unlock()
		return
	}

	found := false
	newList := make([]*Client, 0, len(clientList))
	for _, c := range clientList {
		if c != client {
			newList = append(newList, c)
		} else {
			found = true
		}
	}

	if len(newList) == 0 {
		delete(h.clients, client.UserID)
	} else {
		h.clients[client.UserID] = newList
	}

	// a client can be unregistered twice (read pump exit and a full
	// send buffer); only the first close counts
	if found {
		close(client.Send)
	}
	remaining := len(newList)
	h.mu.Unlock()

	if found {
		logger.Info("WebSocket client unregistered", map[string]interface{}{
			"user_id":            client.UserID,
			"remaining_sessions": remaining,
		})
	}
}

// deliver fans one queued event out to the user's sessions. Only called
// from Run, so sends never race the close in removeClient.
func (h *Hub) deliver(n notification) {
	h.mu.RLock()
	clientList := make([]*Client, len(h.clients[n.userID]))
	copy(clientList, h.clients[n.userID])
	h.mu.RUnlock()

	for _, client := range clientList {
		select {
		case client.Send <- n.data:
		default:
			// send buffer full, the session is too slow to keep
			h.removeClient(client)
			logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
				"user_id": n.userID,
			})
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// NotifyUser queues an event for every session of the user. Offline
// users, a full event queue and full session buffers all drop the
// event; pushes are best effort and never block the caller.
func (h *Hub) NotifyUser(userID uint, eventType string, payload interface{}) {
	data, err := json.Marshal(Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		logger.Error("Failed to marshal event", err, map[string]interface{}{
			"user_id":    userID,
			"event_type": eventType,
		})
		return
	}

	select {
	case h.notify <- notification{userID: userID, data: data}:
	default:
		logger.Warn("Event queue full, dropping event", map[string]interface{}{
			"user_id":    userID,
			"event_type": eventType,
		})
	}
}
