// Package hub groups connections by room for broadcast.
package hub

import (
	"sync"

	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/types"
)

// Hub implements types.Broadcaster.
type Hub struct {
	groups map[string]map[string]types.ClientInterface // room -> clientID -> client
	mu     sync.RWMutex
}

// New returns an empty hub.
func New() *Hub {
	return &Hub{groups: make(map[string]map[string]types.ClientInterface)}
}

// Join adds client to room's group.
func (h *Hub) Join(room string, client types.ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.groups[room]
	if !ok {
		g = make(map[string]types.ClientInterface)
		h.groups[room] = g
	}
	g[client.GetID()] = client
}

// Leave removes a client; an emptied group is dropped.
func (h *Hub) Leave(room, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.groups[room]
	if !ok {
		return
	}
	delete(g, clientID)
	if len(g) == 0 {
		delete(h.groups, room)
	}
}

// Drop removes the whole group.
func (h *Hub) Drop(room string) {
	h.mu.Lock()
	delete(h.groups, room)
	h.mu.Unlock()
}

// Broadcast sends msg to every member of room.
func (h *Hub) Broadcast(room string, msg *protocol.Message) {
	h.BroadcastExcept(room, "", msg)
}

// BroadcastExcept sends msg to every member except exceptID.
func (h *Hub) BroadcastExcept(room, exceptID string, msg *protocol.Message) {
	for _, c := range h.members(room) {
		if c.GetID() != exceptID {
			c.SendMessage(msg)
		}
	}
}

// Size returns the number of members in room.
func (h *Hub) Size(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[room])
}

// members snapshots the group so sends happen without the lock.
func (h *Hub) members(room string) []types.ClientInterface {
	h.mu.RLock()
	defer h.mu.RUnlock()

	g := h.groups[room]
	out := make([]types.ClientInterface, 0, len(g))
	for _, c := range g {
		out = append(out, c)
	}
	return out
}
