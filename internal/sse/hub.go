package sse

import (
	"context"
	"sync"

	"markread_demo/internal/model"
)

// Client receives read events for the notifications owned by UserID.
type Client struct {
	UserID int64
	Ch     chan model.ReadEvent
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan model.ReadEvent
	users      map[int64]map[*Client]struct{}
	mu         sync.RWMutex

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan model.ReadEvent, 64),
		users:      make(map[int64]map[*Client]struct{}),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Register subscribes client. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Stop ends Run. Streams watching Done end with it.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Broadcast queues event for delivery and reports whether it was accepted.
// It never blocks; events are dropped while the queue is full.
func (h *Hub) Broadcast(event model.ReadEvent) bool {
	select {
	case h.broadcast <- event:
		return true
	default:
		return false
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.quit:
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) Subscribers(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[client.UserID] == nil {
		h.users[client.UserID] = make(map[*Client]struct{})
	}
	h.users[client.UserID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.users[client.UserID]
	if clients == nil {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.users, client.UserID)
	}
}

func (h *Hub) deliver(event model.ReadEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.users[event.OwnerID] {
		select {
		case client.Ch <- event:
		default:
			// slow client
		}
	}
}
