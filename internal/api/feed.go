package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/huyng1801/restobot/internal/models"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Dashboard is served from a different origin
	},
}

// StatusEvent is a table status transition pushed to feed subscribers
type StatusEvent struct {
	TableID     uint               `json:"table_id"`
	TableNumber string             `json:"table_number"`
	From        models.TableStatus `json:"from"`
	To          models.TableStatus `json:"to"`
	At          time.Time          `json:"at"`
}

// StatusFeed broadcasts table status transitions to connected dashboards
type StatusFeed struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

// NewStatusFeed creates an empty feed
func NewStatusFeed() *StatusFeed {
	return &StatusFeed{clients: make(map[*websocket.Conn]chan []byte)}
}

// ObserveTransition matches the reconciler's observer signature; every
// committed status change is pushed to all subscribers.
func (f *StatusFeed) ObserveTransition(table models.Table, from, to models.TableStatus) {
	event := StatusEvent{
		TableID:     table.ID,
		TableNumber: table.TableNumber,
		From:        from,
		To:          to,
		At:          time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to encode status event: %v", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for conn, send := range f.clients {
		select {
		case send <- payload:
		default:
			// Slow consumer; drop it rather than block the reconciler.
			close(send)
			delete(f.clients, conn)
		}
	}
}

// Handle upgrades the request and streams status events until the client
// disconnects.
func (f *StatusFeed) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	send := make(chan []byte, 64)
	f.mu.Lock()
	f.clients[conn] = send
	f.mu.Unlock()

	go f.writePump(conn, send)
	go f.readPump(conn)
}

// writePump forwards events to the client and pings it periodically
func (f *StatusFeed) writePump(conn *websocket.Conn, send chan []byte) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case payload, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				f.drop(conn)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				f.drop(conn)
				return
			}
		}
	}
}

// readPump discards client messages and detects disconnects
func (f *StatusFeed) readPump(conn *websocket.Conn) {
	defer func() {
		f.drop(conn)
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

// drop removes a client from the feed
func (f *StatusFeed) drop(conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if send, ok := f.clients[conn]; ok {
		close(send)
		delete(f.clients, conn)
	}
}
