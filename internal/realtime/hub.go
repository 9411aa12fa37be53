// Package realtime fans live queue and session changes out to websocket
// subscribers. Each performer has a room shared by their dashboard and the
// audience pages watching them.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wb-go/wbf/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

type Client struct {
	PerformerID string
	Send        chan []byte
	Conn        *websocket.Conn
}

type broadcastMessage struct {
	PerformerID string
	Data        []byte
}

type Hub struct {
	clients    map[string]map[*Client]bool // performer id -> clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMessage
	logger     logger.Logger
}

func NewHub(logger logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMessage, 64),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.clients[client.PerformerID] == nil {
				h.clients[client.PerformerID] = make(map[*Client]bool)
			}
			h.clients[client.PerformerID][client] = true
		case client := <-h.unregister:
			if clients, ok := h.clients[client.PerformerID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
				}
				if len(clients) == 0 {
					delete(h.clients, client.PerformerID)
				}
			}
		case msg := <-h.broadcast:
			for client := range h.clients[msg.PerformerID] {
				select {
				case client.Send <- msg.Data:
				default:
					// Slow consumers are dropped rather than stalling the room.
					close(client.Send)
					delete(h.clients[msg.PerformerID], client)
				}
			}
		}
	}
}

// Publish implements ports.EventPublisher. The payload is wrapped in an
// envelope so clients can switch on the event type.
func (h *Hub) Publish(performerID, event string, payload any) {
	data, err := json.Marshal(map[string]any{
		"type":    event,
		"payload": payload,
	})
	if err != nil {
		h.logger.Error("failed to marshal event",
			logger.String("event", event),
			logger.String("error", err.Error()),
		)
		return
	}

	select {
	case h.broadcast <- broadcastMessage{PerformerID: performerID, Data: data}:
	default:
		h.logger.Warn("event dropped, broadcast channel full",
			logger.String("performer_id", performerID),
			logger.String("event", event),
		)
	}
}

// Subscribe attaches an upgraded connection to the performer's room and
// starts its pumps. It returns after the read pump exits.
func (h *Hub) Subscribe(performerID string, conn *websocket.Conn) {
	client := &Client{
		PerformerID: performerID,
		Send:        make(chan []byte, 16),
		Conn:        conn,
	}
	h.register <- client

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		client.writePump()
	}()
	client.readPump(h)
	wg.Wait()
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; subscribers are read-only observers. It
// keeps the connection alive and unregisters the client when the peer goes
// away.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
