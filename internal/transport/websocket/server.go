package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"schuldenfrei/internal/logger"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// Clients authenticate with a token query parameter, origin is not checked.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans messages out to every connection of an owner. Owners are user ids or "admin".
type Hub struct {
	connections map[string]map[*Connection]bool

	register   chan *Connection
	unregister chan *Connection

	broadcast chan *Message
	done      chan struct{}

	mu  sync.RWMutex
	log *logger.Logger
}

type Connection struct {
	ws    *websocket.Conn
	owner string
	send  chan *Message
	hub   *Hub
}

type Message struct {
	Owner   string      `json:"owner,omitempty"`
	Type    string      `json:"type"`
	Channel string      `json:"channel,omitempty"`
	Data    interface{} `json:"data"`
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		connections: make(map[string]map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *Message, 256),
		done:        make(chan struct{}),
		log:         log.WithComponent("ws"),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			// closing send makes each writePump say goodbye and close its socket
			h.mu.Lock()
			for _, m := range h.connections {
				for c := range m {
					h.remove(c)
				}
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.owner] == nil {
				h.connections[conn.owner] = make(map[*Connection]bool)
			}
			h.connections[conn.owner][conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			h.remove(conn)
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.connections[message.Owner] {
				select {
				case conn.send <- message:
				default:
					h.remove(conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(conn *Connection) {
	connections, ok := h.connections[conn.owner]
	if !ok {
		return
	}
	if _, exists := connections[conn]; !exists {
		return
	}
	delete(connections, conn)
	close(conn.send)
	if len(connections) == 0 {
		delete(h.connections, conn.owner)
	}
}

// Connected reports how many sockets an owner currently holds.
func (h *Hub) Connected(owner string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[owner])
}

func (h *Hub) Broadcast(owner string, message *Message) {
	message.Owner = owner
	select {
	case h.broadcast <- message:
	default:
		h.log.Warn("broadcast channel full, dropping message", "owner", owner, "type", message.Type)
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request, owner string) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "err", err)
		return
	}

	conn := &Connection{
		ws:    ws,
		owner: owner,
		send:  make(chan *Message, 256),
		hub:   h,
	}

	select {
	case h.register <- conn:
	case <-h.done:
		_ = ws.Close()
		return
	}

	go conn.writePump()
	go conn.readPump()
}

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10
)

func (c *Connection) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.ws.Close()
	}()

	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("websocket read failed", "owner", c.owner, "err", err)
			}
			return
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.ws.WriteJSON(message); err != nil {
				c.hub.log.Debug("websocket write failed", "owner", c.owner, "err", err)
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
