// Package realtime fans messages out to connected clients, either globally
// or per room. It knows nothing about websockets; the transport layer owns
// the connection and drains each client's channel.
package realtime

import "sync"

// Message is one outbound frame.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Client is one connected subscriber.
type Client struct {
	send chan Message
}

// Receive returns the channel the transport drains. It is closed on
// Unregister.
func (c *Client) Receive() <-chan Message {
	return c.send
}

// Hub tracks clients and room membership.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

// Register adds a new client and returns it.
func (h *Hub) Register() *Client {
	client := &Client{send: make(chan Message, 16)}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	return client
}

// Unregister removes the client from the hub and every room, then closes
// its channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for room, members := range h.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(client.send)
}

// Join subscribes the client to a room.
func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][client] = struct{}{}
}

// Broadcast sends to every connected client.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		deliver(client.send, msg)
	}
}

// BroadcastRoom sends to every member of a room.
func (h *Hub) BroadcastRoom(room string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		deliver(client.send, msg)
	}
}

// LeaderboardUpdated emits the payload-free update signal to everyone;
// consumers re-fetch the leaderboard on receipt.
func (h *Hub) LeaderboardUpdated() {
	h.Broadcast(Message{Type: "leaderboard:update"})
}

// deliver never blocks the broadcaster: when a client's buffer is full the
// oldest pending message is dropped in favour of the new one.
func deliver(ch chan Message, msg Message) {
	select {
	case ch <- msg:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- msg:
		default:
		}
	}
}
