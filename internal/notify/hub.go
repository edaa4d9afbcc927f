package notify

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"structiv/internal/metrics"
	"structiv/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
)

// Message is the frame written to websocket clients.
type Message struct {
	Type string               `json:"type"`
	Data *models.Notification `json:"data"`
}

// Client is one websocket connection subscribed to a recipient inbox.
type Client struct {
	recipient string
	conn      *websocket.Conn
	send      chan []byte
	hub       *Hub
}

// Hub keeps the live websocket clients and pushes notifications to them.
type Hub struct {
	clients  map[*Client]struct{}
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *zerolog.Logger
}

// NewHub builds a hub. An empty origin list or "*" accepts any origin.
func NewHub(allowedOrigins []string, logger *zerolog.Logger) *Hub {
	h := &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return len(set) == 0 || origin == "" || set[origin]
	}
}

// Serve upgrades the request and attaches the connection to recipient.
// The pumps run until the peer disconnects or the hub is closed.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, recipient string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		recipient: recipient,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		hub:       h,
	}
	h.register(client)

	go client.writePump()
	go client.readPump()
	return nil
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.SetWSClients(n)
	h.logger.Debug().Str("recipient", c.recipient).Int("clients", n).Msg("websocket client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.SetWSClients(n)
	h.logger.Debug().Str("recipient", c.recipient).Int("clients", n).Msg("websocket client disconnected")
}

// Push sends n to every client of recipient and returns how many accepted it.
// A client whose buffer is full misses the message; its inbox still has it.
func (h *Hub) Push(recipient string, n *models.Notification) int {
	data, err := json.Marshal(Message{Type: "notification", Data: n})
	if err != nil {
		h.logger.Error().Err(err).Msg("encode websocket notification")
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for client := range h.clients {
		if client.recipient != recipient {
			continue
		}
		select {
		case client.send <- data:
			delivered++
		default:
			h.logger.Warn().Str("recipient", recipient).Msg("websocket client too slow, notification dropped")
		}
	}
	return delivered
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	metrics.SetWSClients(0)
}

// readPump only watches for pongs and the close frame; clients never send data.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn().Err(err).Str("recipient", c.recipient).Msg("websocket read error")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.Warn().Err(err).Str("recipient", c.recipient).Msg("websocket write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
