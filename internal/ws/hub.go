package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Event types pushed to connected clients.
const (
	EventSaleFinalized = "sale_finalized"
	EventLowStock      = "low_stock"
	EventStockChanged  = "stock_changed"
	EventDraftChanged  = "draft_changed"
)

// Notifier is what services publish through. Publishing never blocks the
// caller and never fails the operation that triggered it.
type Notifier interface {
	Publish(eventType string, data any)
}

type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug("ws client connected", zap.Int("clients", h.ClientCount()))

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Publish wraps data in a typed envelope and queues it for broadcast.
func (h *Hub) Publish(eventType string, data any) {
	msg, err := json.Marshal(Message{Type: eventType, Data: data})
	if err != nil {
		h.log.Warn("ws payload not encodable", zap.String("type", eventType), zap.Error(err))
		return
	}
	go func() {
		h.Broadcast <- msg
	}()
}

// Serve is the per-connection loop mounted on the /ws route.
func (h *Hub) Serve(c *websocket.Conn) {
	h.Register <- c
	defer func() {
		h.Unregister <- c
	}()
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Publish(string, any) {}
