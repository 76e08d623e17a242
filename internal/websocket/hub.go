// Package websocket pushes live telemetry to dashboard clients. The hub
// fans each broadcast out to every connected client; clients that stop
// draining their buffer are dropped rather than allowed to stall the hub.
package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 30 * time.Second
	clientBuffer   = 256
	broadcastQueue = 256
)

// Message is the envelope pushed to clients
type Message struct {
	Channel string      `json:"channel"`
	Event   string      `json:"event"`
	Data    interface{} `json:"data"`
}

// Client is one connected dashboard
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// Hub maintains active connections and fans out broadcasts
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	shutdown   chan struct{}
}

// NewHub creates a hub; call Run in its own goroutine
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan *Message, broadcastQueue),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		shutdown:   make(chan struct{}),
	}
}

// Run is the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case <-h.shutdown:
			h.mu.Lock()
			for client := range h.clients {
				client.close()
			}
			h.clients = make(map[*Client]struct{})
			h.mu.Unlock()
			log.Printf("[WebSocket] Hub shut down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.drop(client)

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				log.Printf("[WebSocket] Failed to marshal broadcast: %v", err)
				continue
			}

			var slow []*Client
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()

			for _, client := range slow {
				h.drop(client)
			}
		}
	}
}

// Broadcast queues a message for all connected clients. Drops the message
// when the queue is full so the poller never blocks on slow dashboards.
func (h *Hub) Broadcast(channel, event string, data interface{}) {
	select {
	case h.broadcast <- &Message{Channel: channel, Event: event, Data: data}:
	default:
		log.Printf("[WebSocket] Broadcast queue full, dropping %s/%s", channel, event)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown closes all connections and stops the hub loop
func (h *Hub) Shutdown() {
	close(h.shutdown)
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.close()
	}
}

// NewClient wraps an upgraded connection
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}
}

// Start registers the client and runs its pumps. Blocks until the
// connection closes, matching fiber's websocket handler contract.
func (c *Client) Start() {
	c.hub.register <- c
	go c.writePump()
	c.readPump()
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// readPump discards client frames; its job is detecting disconnects and
// answering pings.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
