// Package websocket pushes live session standings to connected clients.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/tourneytracker/internal/logger"
	"github.com/abrezinsky/tourneytracker/internal/models"
	"github.com/abrezinsky/tourneytracker/internal/services"
)

// Message types
const (
	TypeStandings = "standings"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// StandingsProvider supplies a session's current standings
type StandingsProvider interface {
	Scores(ctx context.Context, id string) (*models.StandingsPayload, error)
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	log        logger.Logger
	clients    map[*Client]bool
	broadcast  chan models.WSMessage
	direct     chan directMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
	standings  StandingsProvider
}

// Client is a middleman between the websocket connection and the hub.
// A client with a session id only receives messages for that session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan models.WSMessage
	sessionID string
}

type directMessage struct {
	client  *Client
	message models.WSMessage
}

// New creates a new Hub instance with injected dependencies
func New(log logger.Logger, standings StandingsProvider) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.WSMessage),
		direct:     make(chan directMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		standings:  standings,
	}
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// Stop ends the main loop and disconnects every client
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// run handles client registration/unregistration and message broadcasting
func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			h.log.Debug("WebSocket hub stopped")
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client connected", "session_id", client.sessionID, "total_clients", total)

			if client.sessionID != "" && h.standings != nil {
				go h.sendCurrentStandings(client)
			}

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "total_clients", total)

		case d := <-h.direct:
			h.mutex.RLock()
			if h.clients[d.client] {
				select {
				case d.client.send <- d.message:
				default:
				}
			}
			h.mutex.RUnlock()

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				if !client.wants(message) {
					continue
				}
				select {
				case client.send <- message:
				default:
					// Client's send channel is full, unregister
					go func(c *Client) {
						select {
						case h.unregister <- c:
						case <-h.done:
						}
					}(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// wants reports whether the client subscribed to message's session
func (c *Client) wants(message models.WSMessage) bool {
	return c.sessionID == "" || message.SessionID == "" || message.SessionID == c.sessionID
}

// sendCurrentStandings gives a newly subscribed client the current standings
func (h *Hub) sendCurrentStandings(client *Client) {
	payload, err := h.standings.Scores(context.Background(), client.sessionID)
	if err != nil {
		h.log.Debug("No standings for subscriber", "session_id", client.sessionID, "error", err)
		return
	}
	msg := models.WSMessage{Type: TypeStandings, SessionID: client.sessionID, Payload: payload}
	select {
	case h.direct <- directMessage{client: client, message: msg}:
	case <-h.done:
	}
}

// BroadcastMessage sends a message to every client subscribed to sessionID.
// An empty sessionID reaches all clients.
func (h *Hub) BroadcastMessage(msgType, sessionID string, payload interface{}) {
	select {
	case h.broadcast <- models.WSMessage{Type: msgType, SessionID: sessionID, Payload: payload}:
	case <-h.done:
	}
}

// BroadcastStandings implements services.Broadcaster
func (h *Hub) BroadcastStandings(payload models.StandingsPayload) {
	h.BroadcastMessage(TypeStandings, payload.SessionID, payload)
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		// Clients are display-only; incoming messages are logged and dropped
		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Received message", "type", msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
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
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
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

// ServeWs handles websocket requests from clients. The optional session
// query parameter limits the client to one session's updates.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan models.WSMessage, sendBuffer),
		sessionID: r.URL.Query().Get("session"),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

var _ services.Broadcaster = (*Hub)(nil)
