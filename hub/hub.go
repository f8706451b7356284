package hub

import (
	"log/slog"
	"sync"

	"brickrush-arena-server/domain"
)

type group struct {
	clients map[string]domain.Connection
	mu      sync.RWMutex
}

// Hub fans broadcasts out to per-room groups of connections. A
// connection registers when the socket is accepted and joins a group
// once the gateway has resolved its room, so membership is dynamic
// rather than fixed at connect time.
type Hub struct {
	conns  map[string]domain.Connection
	groups map[string]*group
	member map[string]string // connID -> roomID
	mu     sync.RWMutex
}

func New() *Hub {
	return &Hub{
		conns:  make(map[string]domain.Connection),
		groups: make(map[string]*group),
		member: make(map[string]string),
	}
}

func (h *Hub) Register(conn domain.Connection) {
	h.mu.Lock()
	h.conns[conn.ID()] = conn
	count := len(h.conns)
	h.mu.Unlock()

	slog.Info("client connected", "clientId", conn.ID(), "clients", count)
}

func (h *Hub) Unregister(conn domain.Connection) {
	h.mu.Lock()
	delete(h.conns, conn.ID())
	roomID, joined := h.member[conn.ID()]
	delete(h.member, conn.ID())
	count := len(h.conns)
	h.mu.Unlock()

	if joined {
		h.leaveGroup(roomID, conn.ID())
	}
	slog.Info("client disconnected", "clientId", conn.ID(), "clients", count)
}

// Join adds a connection to a room's broadcast group, leaving any
// group it was in before.
func (h *Hub) Join(roomID string, conn domain.Connection) {
	h.mu.Lock()
	prev, joined := h.member[conn.ID()]
	h.member[conn.ID()] = roomID
	g, exists := h.groups[roomID]
	if !exists {
		g = &group{clients: make(map[string]domain.Connection)}
		h.groups[roomID] = g
	}
	h.mu.Unlock()

	if joined && prev != roomID {
		h.leaveGroup(prev, conn.ID())
	}

	g.mu.Lock()
	g.clients[conn.ID()] = conn
	count := len(g.clients)
	g.mu.Unlock()

	slog.Info("client joined room", "room", roomID, "clientId", conn.ID(), "clients", count)
}

// DropRoom removes a whole broadcast group, e.g. after a host
// disconnect tore the room down. Member connections stay registered;
// their sockets are still open.
func (h *Hub) DropRoom(roomID string) {
	h.mu.Lock()
	g, exists := h.groups[roomID]
	delete(h.groups, roomID)
	if exists {
		g.mu.RLock()
		for id := range g.clients {
			if h.member[id] == roomID {
				delete(h.member, id)
			}
		}
		g.mu.RUnlock()
	}
	h.mu.Unlock()

	if exists {
		slog.Info("room group removed", "room", roomID)
	}
}

// Broadcast emits data to every member of a room, sender included —
// the authoritative snapshot goes to all players alike.
func (h *Hub) Broadcast(roomID string, data []byte) {
	h.mu.RLock()
	g, exists := h.groups[roomID]
	h.mu.RUnlock()

	if !exists {
		return
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, conn := range g.clients {
		if err := conn.Send(data); err != nil {
			go h.Unregister(conn)
		}
	}
}

func (h *Hub) Stats() (rooms, clients int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.groups), len(h.conns)
}

func (h *Hub) leaveGroup(roomID, connID string) {
	h.mu.RLock()
	g, exists := h.groups[roomID]
	h.mu.RUnlock()

	if !exists {
		return
	}

	g.mu.Lock()
	delete(g.clients, connID)
	count := len(g.clients)
	g.mu.Unlock()

	if count == 0 {
		h.mu.Lock()
		delete(h.groups, roomID)
		h.mu.Unlock()
	}
}
