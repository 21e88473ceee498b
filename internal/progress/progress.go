// Package progress fans out progress events for one job over WebSocket
// connections. A Hub delivers every Event passed to Publish to its
// subscribers. internal/api registers subscribers per job id, but no
// part of the solve pipeline (internal/alns, internal/jobqueue) calls
// Publish, so a subscriber receives no events from a running solve.
//
// Adapted from internal/common/realtime/websocket_hub.go's Hub/Client/
// register-unregister-broadcast shape, narrowed from a multi-tenant
// cross-instance (Redis pub/sub) broadcaster down to one hub per solve
// job: progress events never need to cross process instances, so the
// Redis pub/sub leg is dropped (see DESIGN.md).
package progress

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one update pushed to subscribers of a job's progress.
type Event struct {
	JobID     string    `json:"job_id"`
	Iteration int       `json:"iteration"`
	State     string    `json:"state"`
	BestScore float64   `json:"best_score"`
	Timestamp time.Time `json:"timestamp"`
}

// Client is a single WebSocket subscriber.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans out progress events for one job id to every subscribed
// Client.
type Hub struct {
	jobID string

	mu      sync.RWMutex
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub starts a Hub for jobID. Call Close when the job's solve ends.
func NewHub(jobID string) *Hub {
	h := &Hub{
		jobID:      jobID,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
				}
			}
			h.mu.RUnlock()
		case <-h.done:
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
			}
			h.clients = nil
			h.mu.Unlock()
			return
		}
	}
}

// Publish broadcasts ev to every connected subscriber.
func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// Close stops the hub and disconnects every subscriber.
func (h *Hub) Close() {
	close(h.done)
}

// Serve registers conn as a new subscriber and pumps outgoing messages
// to it until the connection or the hub closes.
func (h *Hub) Serve(conn *websocket.Conn) {
	c := &Client{conn: conn, send: make(chan []byte, 16)}

	select {
	case h.register <- c:
	case <-h.done:
		return
	}
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	for msg := range c.send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
