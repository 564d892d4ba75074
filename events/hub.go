package events

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go-restaurant-orders/common"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 32
)

// RoomVerifier decides whether a user may listen to an org's room.
type RoomVerifier interface {
	VerifyOrg(ctx context.Context, userID, orgID primitive.ObjectID) error
}

type client struct {
	conn *websocket.Conn
	room string
	send chan []byte
}

// Hub keeps the connected websocket clients, grouped by org room. Every
// client has its own buffered queue and writer, and a client whose queue is
// full is dropped.
type Hub struct {
	upgrader websocket.Upgrader
	log      *logrus.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(log *logrus.Logger, allowedOrigins []string) *Hub {
	h := &Hub{
		log:     log,
		clients: make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// HandleWebSocket registers the session user in the room of the org named
// by the "org" query parameter. It expects the authentication middleware to
// have set "uid".
func (h *Hub) HandleWebSocket(rooms RoomVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, err := primitive.ObjectIDFromHex(c.Query("org"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid org id"})
			return
		}
		userID, err := primitive.ObjectIDFromHex(c.GetString("uid"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		if err := rooms.VerifyOrg(c.Request.Context(), userID, orgID); err != nil {
			c.JSON(common.KindOf(err).StatusCode(), gin.H{"error": err.Error()})
			return
		}

		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.log.WithError(err).Warn("websocket upgrade failed")
			return
		}
		cl := &client{conn: conn, room: orgID.Hex(), send: make(chan []byte, sendBuffer)}
		h.register(cl)
		h.log.WithField("room", cl.room).Debug("websocket client connected")

		go h.writePump(cl)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(cl)
				return
			}
		}
	}
}

// Emit queues the event for every client in room without waiting on any of
// them.
func (h *Hub) Emit(room, event string, payload interface{}) {
	messageBytes, err := json.Marshal(Message{Event: event, Room: room, Payload: payload})
	if err != nil {
		h.log.WithError(err).WithField("event", event).Error("marshaling event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		if cl.room != room {
			continue
		}
		select {
		case cl.send <- messageBytes:
		default:
			h.log.WithField("room", room).Warn("websocket client too slow, dropping")
			h.removeLocked(cl)
		}
	}
}

// Clients reports how many connections are registered.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) writePump(cl *client) {
	defer cl.conn.Close()
	for msg := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.WithError(err).Debug("dropping websocket client")
			h.remove(cl)
			return
		}
	}
	cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[cl] = struct{}{}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(cl)
}

// removeLocked closes the client's queue, which stops its writer.
func (h *Hub) removeLocked(cl *client) {
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}
