package registry

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"brickrush-arena-server/game"
)

var ErrRoomNotFound = errors.New("room not found")

const (
	roomIDLength   = 9
	roomIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Registry owns every live room. It is the only shared mutable
// structure in the process; all mutation goes through its lock.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	logger *slog.Logger
}

func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		rooms:  make(map[string]*Room),
		logger: logger,
	}
}

// Create allocates a room with a fresh unique id and a level-1
// session at the starting score and lives. The initiating player
// becomes host and sole member.
func (r *Registry) Create(player *Player) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := newRoomID()
	for _, taken := r.rooms[id]; taken; _, taken = r.rooms[id] {
		id = newRoomID()
	}

	player.Host = true
	player.RoomID = id

	room := &Room{
		ID:      id,
		Players: []*Player{player},
		Session: game.NewSession(game.StartingLevel, game.StartingScore, game.StartingLives),
	}
	r.rooms[id] = room

	r.logger.Info("room created", "room", id, "username", player.Username)
	return room
}

// Find returns a live room or ErrRoomNotFound. Callers treat
// not-found as a stale message and drop it silently.
func (r *Registry) Find(roomID string) (*Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return room, nil
}

// Join appends a member to an existing room.
func (r *Registry) Join(roomID string, player *Player) (*Room, error) {
	r.mu.RLock()
	room, ok := r.rooms[roomID]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}

	player.Host = false
	player.RoomID = roomID

	room.Mu.Lock()
	room.Players = append(room.Players, player)
	count := len(room.Players)
	room.Mu.Unlock()

	r.logger.Info("player joined room", "room", roomID, "username", player.Username, "players", count)
	return room, nil
}

// DropConnection handles a transport-level disconnect. A host leaving
// tears the whole room down; any other member is pruned from the
// member list along with their paddle. Returns the affected room and
// whether it was removed, or nil when the connection belonged to no
// room.
func (r *Registry) DropConnection(connID string) (*Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, room := range r.rooms {
		room.Mu.Lock()
		idx := -1
		for i, p := range room.Players {
			if p.ConnectionID == connID {
				idx = i
				break
			}
		}
		if idx < 0 {
			room.Mu.Unlock()
			continue
		}

		member := room.Players[idx]
		if member.Host {
			room.Mu.Unlock()
			delete(r.rooms, id)
			r.logger.Info("host disconnected, room removed", "room", id, "username", member.Username)
			return room, true
		}

		room.Players = append(room.Players[:idx], room.Players[idx+1:]...)
		room.Session.RemovePaddle(connID)
		room.Mu.Unlock()
		r.logger.Info("player disconnected", "room", id, "username", member.Username)
		return room, false
	}
	return nil, false
}

// Stats reports live room and member counts.
func (r *Registry) Stats() (rooms, players int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms = len(r.rooms)
	for _, room := range r.rooms {
		room.Mu.Lock()
		players += len(room.Players)
		room.Mu.Unlock()
	}
	return rooms, players
}

// newRoomID produces a short base36 identifier. The space is large
// enough that collisions are rare; Create still retries against the
// live set so uniqueness is guaranteed, not just probable.
func newRoomID() string {
	b := make([]byte, roomIDLength)
	if _, err := rand.Read(b); err != nil {
		// Degenerate fallback, still unique enough for a retry loop.
		return fmt.Sprintf("%09d", time.Now().UnixNano()%1e9)
	}
	for i := range b {
		b[i] = roomIDAlphabet[int(b[i])%len(roomIDAlphabet)]
	}
	return string(b)
}
