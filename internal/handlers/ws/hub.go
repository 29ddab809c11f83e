package ws

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ErrNotConnected is returned by SendToUser when the target has no live
// connection. Callers treat it as a routing miss, not a failure: the message
// stays in the store and the recipient catches up via history.
var ErrNotConnected = errors.New("user not connected")

// ClientConnection wraps a WebSocket connection with routing metadata.
// ConnID distinguishes this connection from any later one the same user
// opens, so a stale disconnect cannot evict a newer registration.
type ClientConnection struct {
	Conn       *websocket.Conn
	UserID     uint
	ConnID     uuid.UUID
	LastPong   time.Time
	PingTicker *time.Ticker
	CloseChan  chan struct{}

	writeMu      sync.Mutex
	writeTimeout time.Duration
	closeOnce    sync.Once
}

// Send serializes and writes under the connection's write lock with a bounded
// deadline. Every write to the socket goes through here (or through the
// control-frame path that takes the same lock), so one stalled peer cannot
// hold up delivery to others and no two goroutines ever write concurrently.
func (c *ClientConnection) Send(payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.Conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

// Hub is the presence and routing table: the single source of truth for who
// is online and which connection reaches them. It also acts as the dispatch
// gateway, pushing outbound events only to registered connections.
type Hub struct {
	clients      map[uint]*ClientConnection
	clientsMux   sync.RWMutex
	pingInterval time.Duration
	pongTimeout  time.Duration
	writeTimeout time.Duration
}

func NewHub() *Hub {
	hub := &Hub{
		clients:      make(map[uint]*ClientConnection),
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
		writeTimeout: 10 * time.Second,
	}

	go hub.connectionHealthChecker()

	return hub
}

// Register records the user's connection and marks them online. A second
// connection for the same user silently wins routing; the previous one stays
// open but is no longer reachable through the table.
func (h *Hub) Register(userID uint, conn *websocket.Conn) *ClientConnection {
	client := &ClientConnection{
		Conn:         conn,
		UserID:       userID,
		ConnID:       uuid.New(),
		LastPong:     time.Now(),
		PingTicker:   time.NewTicker(h.pingInterval),
		CloseChan:    make(chan struct{}),
		writeTimeout: h.writeTimeout,
	}

	// Read deadlines are absolute, so each answered ping must push the
	// deadline forward or a healthy connection would be cut off after the
	// first timeout window.
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
		h.refreshPong(client)
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	h.clientsMux.Lock()
	h.clients[userID] = client
	total := len(h.clients)
	h.clientsMux.Unlock()

	go h.pingRoutine(client)

	log.Printf("User %d connected to hub (total: %d)", userID, total)
	return client
}

// Unregister removes the mapping only if this exact connection is still the
// registered one. A late cleanup racing a reconnect is a no-op.
func (h *Hub) Unregister(client *ClientConnection) {
	h.clientsMux.Lock()
	cur, exists := h.clients[client.UserID]
	removed := exists && cur.ConnID == client.ConnID
	if removed {
		delete(h.clients, client.UserID)
	}
	total := len(h.clients)
	h.clientsMux.Unlock()

	if client.PingTicker != nil {
		client.PingTicker.Stop()
	}
	client.closeOnce.Do(func() {
		close(client.CloseChan)
	})

	if removed {
		log.Printf("User %d disconnected from hub (total: %d)", client.UserID, total)
	}
}

// Lookup returns the live connection for a user, if any.
func (h *Hub) Lookup(userID uint) (*ClientConnection, bool) {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	client, exists := h.clients[userID]
	return client, exists
}

func (h *Hub) IsOnline(userID uint) bool {
	_, exists := h.Lookup(userID)
	return exists
}

func (h *Hub) OnlineUserIDs() []uint {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	users := make([]uint, 0, len(h.clients))
	for userID := range h.clients {
		users = append(users, userID)
	}
	return users
}

func (h *Hub) Count() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

// SendToUser pushes a payload to the user's live connection. Returns
// ErrNotConnected on a routing miss. A write failure unregisters the
// connection so the table never routes to a dead peer twice.
func (h *Hub) SendToUser(userID uint, payload interface{}) error {
	client, exists := h.Lookup(userID)
	if !exists {
		return ErrNotConnected
	}

	if err := client.Send(payload); err != nil {
		log.Printf("Error sending to user %d: %v", userID, err)
		h.Unregister(client)
		return err
	}
	return nil
}

// BroadcastExcept sends a payload to every connected user except one.
// Used for presence events, where the subject does not need to hear about
// their own status.
func (h *Hub) BroadcastExcept(excludeUserID uint, payload interface{}) {
	h.clientsMux.RLock()
	targets := make([]*ClientConnection, 0, len(h.clients))
	for userID, client := range h.clients {
		if userID != excludeUserID {
			targets = append(targets, client)
		}
	}
	h.clientsMux.RUnlock()

	for _, client := range targets {
		if err := client.Send(payload); err != nil {
			log.Printf("Error broadcasting to user %d: %v", client.UserID, err)
			h.Unregister(client)
		}
	}
}

// refreshPong updates the liveness stamp, but only while this connection is
// still the registered one for its user.
func (h *Hub) refreshPong(client *ClientConnection) {
	h.clientsMux.Lock()
	if cur, exists := h.clients[client.UserID]; exists && cur.ConnID == client.ConnID {
		cur.LastPong = time.Now()
	}
	h.clientsMux.Unlock()
}

// pingRoutine sends periodic ping frames to keep the connection alive.
func (h *Hub) pingRoutine(client *ClientConnection) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Ping routine recovered from panic for user %d: %v", client.UserID, r)
		}
	}()

	for {
		select {
		case <-client.CloseChan:
			return
		case <-client.PingTicker.C:
			cur, exists := h.Lookup(client.UserID)
			if !exists || cur.ConnID != client.ConnID {
				return
			}

			client.writeMu.Lock()
			err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second))
			client.writeMu.Unlock()
			if err != nil {
				log.Printf("Ping failed for user %d: %v", client.UserID, err)
				h.Unregister(client)
				return
			}
		}
	}
}

// connectionHealthChecker evicts connections whose peer stopped answering
// pings. Eviction goes through Unregister, so a user who reconnected in the
// meantime is untouched.
func (h *Hub) connectionHealthChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.clientsMux.RLock()
		dead := make([]*ClientConnection, 0)
		now := time.Now()
		for _, client := range h.clients {
			if now.Sub(client.LastPong) > h.pongTimeout {
				dead = append(dead, client)
			}
		}
		h.clientsMux.RUnlock()

		for _, client := range dead {
			log.Printf("Removing dead connection for user %d (no pong received)", client.UserID)
			h.Unregister(client)
		}
	}
}
