package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/camden-git/familymapbackend/logger"
	"github.com/gorilla/websocket"
)

// Event types pushed to clients
const (
	EventDatasetLoaded      = "dataset_loaded"
	EventDatasetInvalidated = "dataset_invalidated"
	EventFilterApplied      = "filter_applied"
	EventSettingsChanged    = "settings_changed"
)

// Event represents a message sent to websocket clients
type Event struct {
	Type       string                 `json:"type"`
	SessionID  string                 `json:"-"`
	Generation uint64                 `json:"generation,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Extra      map[string]interface{} `json:"extra,omitempty"`
	Timestamp  int64                  `json:"timestamp"`
}

type Client struct {
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
}

type envelope struct {
	sessionID string
	payload   []byte
}

// Hub fans session events out to the websocket clients of that session. An
// event without a session goes to everyone.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	mu         sync.RWMutex
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 256),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if message.sessionID != "" && client.sessionID != message.sessionID {
					continue
				}
				select {
				case client.send <- message.payload:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Broadcast(event Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	encoded, err := json.Marshal(event)
	if err != nil {
		h.log.Warn("realtime: failed to marshal event", "type", event.Type, "error", err)
		return
	}
	select {
	case h.broadcast <- envelope{sessionID: event.SessionID, payload: encoded}:
	default:
		h.log.Warn("realtime: dropping event, broadcast channel full", "type", event.Type)
	}
}

// Clients reports how many connections a session holds
func (h *Hub) Clients(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.clients {
		if c.sessionID == sessionID {
			n++
		}
	}
	return n
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and registers a client for sessionID
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("realtime: websocket upgrade error", "error", err)
		return
	}
	client := &Client{conn: conn, sessionID: sessionID, send: make(chan []byte, 256)}
	h.register <- client

	// writer
	go func() {
		for msg := range client.send {
			if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
		client.conn.Close()
	}()

	// reader (just consume pings/close)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister <- client
}
