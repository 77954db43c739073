package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Queued state updates before new ones are dropped.
	broadcastBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is one websocket push.
type Message struct {
	SessionID string       `json:"session_id"`
	Event     string       `json:"event"`
	State     *SessionView `json:"state,omitempty"`
}

// Websocket events
const (
	EventState  = "state"
	EventClosed = "closed"
)

// client is one websocket connection subscribed to a session.
type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub fans session updates out to websocket clients. All client
// bookkeeping happens on the Run goroutine.
type Hub struct {
	sessions   map[string]map[*client]bool
	broadcast  chan *Message
	register   chan *client
	unregister chan *client
	done       chan struct{}
	logger     *log.Logger
}

// NewHub creates a hub. Call Run before serving connections.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		sessions:   make(map[string]map[*client]bool),
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for id := range h.sessions {
				h.closeSession(id)
			}
			return
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// BroadcastState queues a state push for every client of the session.
// It never blocks; updates are dropped when the queue is full.
func (h *Hub) BroadcastState(view SessionView) {
	h.enqueue(&Message{SessionID: view.ID, Event: EventState, State: &view})
}

// CloseSession tells the session's clients it is gone and disconnects them.
func (h *Hub) CloseSession(sessionID string) {
	h.enqueue(&Message{SessionID: sessionID, Event: EventClosed})
}

func (h *Hub) enqueue(msg *Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.warn("websocket queue full, dropping update", "session", msg.SessionID, "event", msg.Event)
	}
}

// ServeWS upgrades the request and subscribes the connection to a
// session. initial is sent before any queued update.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string, initial SessionView) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, broadcastBuffer),
		sessionID: sessionID,
	}
	if data, err := json.Marshal(&Message{SessionID: sessionID, Event: EventState, State: &initial}); err == nil {
		c.send <- data
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (h *Hub) registerClient(c *client) {
	if h.sessions[c.sessionID] == nil {
		h.sessions[c.sessionID] = make(map[*client]bool)
	}
	h.sessions[c.sessionID][c] = true

	if h.logger != nil {
		h.logger.Debug("websocket client registered",
			"session", c.sessionID, "clients", len(h.sessions[c.sessionID]))
	}
}

func (h *Hub) unregisterClient(c *client) {
	clients, ok := h.sessions[c.sessionID]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.sessions, c.sessionID)
	}

	if h.logger != nil {
		h.logger.Debug("websocket client unregistered",
			"session", c.sessionID, "clients", len(clients))
	}
}

func (h *Hub) broadcastMessage(msg *Message) {
	clients, ok := h.sessions[msg.SessionID]
	if !ok {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.warn("could not encode websocket message", "error", err)
		return
	}

	for c := range clients {
		select {
		case c.send <- data:
		default:
			// Slow reader
			h.unregisterClient(c)
		}
	}

	if msg.Event == EventClosed {
		h.closeSession(msg.SessionID)
	}
}

// closeSession unregisters every client; their write pumps then send a
// close frame.
func (h *Hub) closeSession(sessionID string) {
	for c := range h.sessions[sessionID] {
		h.unregisterClient(c)
	}
}

func (h *Hub) warn(msg string, keyvals ...any) {
	if h.logger != nil {
		h.logger.Warn(msg, keyvals...)
	}
}

// readPump drains the connection so pongs and close frames are handled.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.warn("websocket read error", "session", c.sessionID, "error", err)
			}
			return
		}
	}
}

// writePump sends queued messages and keepalive pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
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
