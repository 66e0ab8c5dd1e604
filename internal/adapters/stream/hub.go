// Package stream pushes live match output to websocket subscribers, the
// feed an external narration or display layer consumes.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/okian/calcio/internal/domain/model"
	"github.com/okian/calcio/pkg/logger"
	"github.com/okian/calcio/pkg/metrics"
)

// Message kinds pushed over the wire.
const (
	KindResult    = "result"
	KindMatchday  = "matchday"
	KindPhase     = "phase"
	KindStandings = "standings"
)

const (
	broadcastBuffer = 256
	clientBuffer    = 64
)

// Message is the envelope every subscriber receives.
type Message struct {
	Kind     string      `json:"kind"`
	Season   int         `json:"season"`
	Matchday int         `json:"matchday"`
	Data     interface{} `json:"data,omitempty"`
}

// client is one connected subscriber. Slow clients get dropped rather
// than stalling the broadcast loop.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans messages out to every connected client.
type Hub struct {
	log      logger.Logger
	upgrader websocket.Upgrader

	clients    map[*client]bool
	broadcast  chan Message
	register   chan *client
	unregister chan *client

	mu sync.RWMutex
}

// NewHub creates a Hub; call Run before serving connections.
func NewHub() *Hub {
	return &Hub{
		log: logger.Get().Named("stream"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients:    make(map[*client]bool),
		broadcast:  make(chan Message, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run drives the hub loop until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			metrics.UpdateStreamClients(n)
			h.log.Debug(ctx, "client registered", logger.Int("clients", n))

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				h.log.Error(ctx, "marshal broadcast", logger.Error(err))
				continue
			}
			h.mu.RLock()
			var slow []*client
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.drop(c)
			}
		}
	}
}

// drop removes one client and closes its send channel.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.UpdateStreamClients(n)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	h.mu.Unlock()
	metrics.UpdateStreamClients(0)
}

// Clients returns the current subscriber count.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast enqueues a message for all subscribers. Full hubs drop the
// message rather than block the caller.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
	}
}

// BroadcastResult pushes one finished fixture.
func (h *Hub) BroadcastResult(season int, res *model.MatchResult) {
	h.Broadcast(Message{
		Kind:     KindResult,
		Season:   season,
		Matchday: res.Fixture.Matchday,
		Data:     res,
	})
}

// ServeWS upgrades an HTTP request into a subscription.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	h.register <- c

	go c.writeLoop()
	go c.readLoop(h)
}

// writeLoop pushes hub messages to the socket until the send channel
// closes.
func (c *client) writeLoop() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
}

// readLoop discards inbound frames; its job is noticing disconnects.
func (c *client) readLoop(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
