package session

import (
	"sync"

	"docsync/internal/models"
)

// Room is the delivery scope for one document id: the set of connections
// that receive its broadcasts. Document state itself lives in the store, not
// here.
type Room struct {
	ID      string
	mu      sync.Mutex
	clients map[*Client]struct{}
}

func NewRoom(id string) *Room {
	return &Room{ID: id, clients: make(map[*Client]struct{})}
}

func (r *Room) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
}

// Leave removes the client and returns the number of clients left.
func (r *Room) Leave(c *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
	return len(r.clients)
}

func (r *Room) ClientCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Broadcast delivers the frame to every client in the room except the sender.
func (r *Room) Broadcast(sender *Client, frame models.WSFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		if c == sender {
			continue
		}
		c.Send(frame)
	}
}

// BroadcastAll delivers the frame to every client in the room.
func (r *Room) BroadcastAll(frame models.WSFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		c.Send(frame)
	}
}
