package chat

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// wsConn is the slice of *websocket.Conn the hub touches, narrowed so the
// fan-out path can be tested without a live socket.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

const sendBuffer = 32

// Client owns all writes to one connection. Frames are queued on send and
// drained by a single writer goroutine, since the websocket library forbids
// concurrent writers on a connection.
type Client struct {
	conn wsConn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// Enqueue queues a frame for this client's writer goroutine.
func (c *Client) Enqueue(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	c.enqueue(data)
}

// enqueue never blocks. A client that cannot drain its buffer has the frame
// dropped and catches up from the history endpoint.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// Hub fans messages out to every client subscribed to a room. A client can
// sit in several rooms at once.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

// Register wraps a freshly upgraded connection and starts its writer
// goroutine. The caller must pair it with Unregister.
func (h *Hub) Register(conn wsConn) *Client {
	client := &Client{conn: conn, send: make(chan []byte, sendBuffer)}
	go client.writePump()
	return client
}

func (h *Hub) Join(room string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][client] = struct{}{}
}

// Unregister drops the client from every room it joined and stops its
// writer, which closes the underlying connection. Safe to call twice.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	for room, members := range h.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
	client.close()
}

// Broadcast queues the payload for every member of the room. Delivery is at
// most once per healthy client; slow consumers lose frames, not the socket.
func (h *Hub) Broadcast(room string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("chat broadcast marshal failed", zap.Error(err))
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for client := range h.rooms[room] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		if !client.enqueue(data) {
			h.logger.Warn("chat frame dropped", zap.String("room", room))
		}
	}
}
