package live

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"hrmplatform.com/hrm/attendance"
	"hrmplatform.com/hrm/security"
	"hrmplatform.com/hrm/web/common"
)

const (
	EventSubscribed       = "SUBSCRIBED"
	EventAttendanceLogged = "ATTENDANCE_LOGGED"

	sendBuffer   = 16
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type subscriber struct {
	send chan Message
}

// Hub fans attendance records out to the websocket sessions of the employee
// they belong to. Nobody sees another employee's records.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]map[*subscriber]struct{}
	closed      bool
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[*subscriber]struct{})}
}

// Publish never blocks: a session that is not keeping up misses the message.
func (h *Hub) Publish(email string, rec attendance.Record) {
	msg := Message{Event: EventAttendanceLogged, Data: rec}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers[email] {
		select {
		case sub.send <- msg:
		default:
			log.Printf("[WARN] live feed for %s is full, dropping message", email)
		}
	}
}

// Close ends every live session and refuses new ones. Hijacked websocket
// connections are not closed by http.Server.Shutdown, so call it first.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for email, subs := range h.subscribers {
		for sub := range subs {
			close(sub.send)
		}
		delete(h.subscribers, email)
	}
}

func (h *Hub) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *Hub) subscriberCount(email string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[email])
}

// subscribe returns nil once the hub is closed.
func (h *Hub) subscribe(email string) *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	sub := &subscriber{send: make(chan Message, sendBuffer)}
	if h.subscribers[email] == nil {
		h.subscribers[email] = make(map[*subscriber]struct{})
	}
	h.subscribers[email][sub] = struct{}{}
	return sub
}

func (h *Hub) unsubscribe(email string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers[email], sub)
	if len(h.subscribers[email]) == 0 {
		delete(h.subscribers, email)
	}
}

func tokenFrom(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Handler upgrades to a websocket streaming the caller's own attendance records.
// Browsers cannot set headers on websocket requests, so the token may come in ?token=.
func (h *Hub) Handler(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Access denied. No token provided."))
			return
		}
		claims, err := security.ParseIdentityToken(token, secret)
		if err != nil {
			c.JSON(http.StatusForbidden, common.NewErrorResponse("Invalid token."))
			return
		}
		if h.isClosed() {
			c.JSON(http.StatusServiceUnavailable, common.NewErrorResponse("Server is shutting down"))
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WARN] ws upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		email := claims.Email
		sub := h.subscribe(email)
		if sub == nil {
			closeGoingAway(conn)
			return
		}
		defer h.unsubscribe(email, sub)
		log.Printf("[INFO] live feed connected: %s (%d sessions)", email, h.subscriberCount(email))

		done := make(chan struct{})
		go func() {
			defer close(done)
			conn.SetReadLimit(512)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		if err := write(conn, Message{Event: EventSubscribed, Data: gin.H{"email": email}}); err != nil {
			return
		}

		ping := time.NewTicker(pingInterval)
		defer ping.Stop()
		for {
			select {
			case msg, ok := <-sub.send:
				if !ok {
					closeGoingAway(conn)
					return
				}
				if err := write(conn, msg); err != nil {
					log.Printf("[WARN] live feed write to %s failed: %v", email, err)
					return
				}
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
					return
				}
			case <-done:
				log.Printf("[INFO] live feed disconnected: %s", email)
				return
			}
		}
	}
}

func closeGoingAway(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout)); err != nil {
		log.Printf("[WARN] live feed close failed: %v", err)
	}
}

func write(conn *websocket.Conn, msg Message) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(msg)
}
