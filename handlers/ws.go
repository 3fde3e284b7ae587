// handlers/ws.go - Realtime notification hub
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	// WebSocket timeouts
	writeWait  = 10 * time.Second // Time allowed to write a message
	pongWait   = 60 * time.Second // Read deadline refreshed by pongs
	pingPeriod = 15 * time.Second // Send pings at this interval
)

// wsClient serializes writes; the underlying connection is not safe for
// concurrent writers.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsClient) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub fans notifications out to every open connection a user has. It
// implements services.Publisher; delivery failures only drop the dead
// connection, the durable notification row is untouched.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*wsClient]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*wsClient]bool)}
}

func (h *Hub) register(userID uint, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*wsClient]bool)
	}
	h.clients[userID][client] = true
}

func (h *Hub) unregister(userID uint, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[userID], client)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// Publish sends the payload to every open connection for the user.
func (h *Hub) Publish(userID uint, payload interface{}) error {
	data, err := json.Marshal(fiber.Map{
		"type":    "notification",
		"payload": payload,
	})
	if err != nil {
		return err
	}

	h.mu.RLock()
	targets := make([]*wsClient, 0, len(h.clients[userID]))
	for client := range h.clients[userID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return nil
	}

	var lastErr error
	for _, client := range targets {
		if err := client.send(data); err != nil {
			lastErr = err
			h.unregister(userID, client)
			_ = client.conn.Close()
		}
	}
	if lastErr != nil {
		return errors.New("one or more websocket deliveries failed: " + lastErr.Error())
	}
	return nil
}

// UpgradeMiddleware rejects plain HTTP requests on the websocket route.
func UpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler keeps the connection registered until the client goes away.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := localsUserID(conn.Locals("userId"))
		if !ok {
			_ = conn.Close()
			return
		}

		client := &wsClient{conn: conn}
		h.register(userID, client)
		defer func() {
			h.unregister(userID, client)
			_ = conn.Close()
		}()

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(pingPeriod)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := client.ping(); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			// Inbound messages are ignored; the feed is push-only.
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		close(done)
		log.Printf("websocket closed: user=%d", userID)
	})
}

func localsUserID(v interface{}) (uint, bool) {
	switch id := v.(type) {
	case float64:
		return uint(id), true
	case uint:
		return id, true
	default:
		return 0, false
	}
}
