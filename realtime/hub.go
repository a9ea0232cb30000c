package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is a notification about a role or album mutation. It carries no
// permission state; clients re-query through the API after receiving one.
type Event struct {
	Type      string                 `json:"type"`
	Role      string                 `json:"role,omitempty"`
	Username  string                 `json:"username,omitempty"`
	AlbumID   uint                   `json:"album_id,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

const (
	EventRoleSaved        = "role.saved"
	EventRoleDeleted      = "role.deleted"
	EventRoleMembership   = "role.membership"
	EventAlbumPrivacy     = "album.privacy"
	EventAlbumOwnerChange = "album.owner"
)

const (
	writeWait      = 10 * time.Second
	clientSendSize = 64
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans mutation events out to connected admin clients. Slow clients
// are dropped rather than allowed to stall the broadcast loop.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	events     chan Event
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan Event, 256),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.drop(c)
		case event := <-h.events:
			encoded, err := json.Marshal(event)
			if err != nil {
				log.Printf("realtime: failed to marshal %s event: %v", event.Type, err)
				continue
			}
			h.mu.RLock()
			stalled := make([]*client, 0)
			for c := range h.clients {
				select {
				case c.send <- encoded:
				default:
					stalled = append(stalled, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range stalled {
				h.drop(c)
			}
		case <-h.done:
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast queues an event for delivery, stamping the time if the caller
// did not. Events are dropped when the queue is full.
func (h *Hub) Broadcast(event Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	select {
	case h.events <- event:
	default:
		log.Printf("realtime: dropping %s event, queue full", event.Type)
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown disconnects all clients and stops the run loop.
func (h *Hub) Shutdown() {
	close(h.done)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and registers a client. The caller is
// responsible for authentication; the feed itself is read-only.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("realtime: websocket upgrade error: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientSendSize)}
	h.register <- c

	go func() {
		for msg := range c.send {
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
		c.conn.Close()
	}()

	// inbound messages are ignored, reading only detects disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister <- c
}
