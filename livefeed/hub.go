package livefeed

import (
	"sync"
)

// Client is one connected dashboard.
type Client struct {
	Send   chan []byte
	UserID string
}

// Hub fans session events out to every connected dashboard. There is a
// single feed: every front-desk screen watches the same session list.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.Send <- data:
				default:
					close(c.Send)
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for c := range h.clients {
				close(c.Send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Publish hands an event to every connected client. Safe to call after
// Stop; the payload is simply dropped.
func (h *Hub) Publish(data []byte) {
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// Stop closes every client connection and ends the Run loop.
func (h *Hub) Stop() {
	close(h.done)
}
