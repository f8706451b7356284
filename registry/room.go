package registry

import (
	"sync"

	"brickrush-arena-server/game"
)

// Player is one room member. ConnectionID ties the member to its
// transport connection for the life of that connection.
type Player struct {
	ConnectionID string  `json:"connectionId"`
	Username     string  `json:"username"`
	RoomID       string  `json:"roomId"`
	PaddleX      float64 `json:"paddleX"`
	PaddleY      float64 `json:"paddleY"`
	Host         bool    `json:"host"`
}

// Room groups the members sharing one game session. The first member
// is the host. Mu serializes every session mutation and snapshot so
// two in-flight messages cannot interleave a tick.
type Room struct {
	ID      string        `json:"id"`
	Players []*Player     `json:"players"`
	Session *game.Session `json:"session"`
	Mu      sync.Mutex    `json:"-"`
}

// Member returns the player bound to a connection id, or nil.
// Caller holds Mu.
func (r *Room) Member(connID string) *Player {
	for _, p := range r.Players {
		if p.ConnectionID == connID {
			return p
		}
	}
	return nil
}

// MemberList copies the member slice for broadcasting.
func (r *Room) MemberList() []*Player {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	members := make([]*Player, len(r.Players))
	copy(members, r.Players)
	return members
}
