package protocol

import (
	"encoding/json"
	"log/slog"
	"time"

	"brickrush-arena-server/domain"
	"brickrush-arena-server/game"
	"brickrush-arena-server/registry"
)

// Handler is the connection gateway: it decodes inbound envelopes,
// dispatches them to the registry and session engine, and broadcasts
// the resulting snapshot to the room. It holds no game state of its
// own.
type Handler struct {
	registry    *registry.Registry
	broadcaster domain.Broadcaster
}

func NewHandler(reg *registry.Registry, b domain.Broadcaster) *Handler {
	return &Handler{registry: reg, broadcaster: b}
}

func (h *Handler) Handle(conn domain.Connection, data []byte) {
	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		slog.Warn("invalid message", "clientId", conn.ID(), "error", err)
		return
	}
	if env.Player == nil {
		slog.Warn("message without player payload", "clientId", conn.ID(), "event", env.Event)
		return
	}

	switch env.Event {
	case domain.EventPlayerData:
		h.handlePlayerData(conn, env.Player)
	case domain.EventPlay:
		h.handlePlay(env.Player)
	case domain.EventCollision:
		h.handleCollision(conn, env.Player)
	case domain.EventPlayAgainWaiting:
		h.handlePlayAgainWaiting(env.Player)
	case domain.EventPlayAgain:
		h.handlePlayAgain(conn, env.Player)
	case domain.EventNextLevel:
		h.handleNextLevel(conn, env.Player)
	default:
		slog.Debug("unknown event", "clientId", conn.ID(), "event", env.Event)
	}
}

// Disconnect applies the transport-level disconnect semantics: a host
// leaving tears down the whole room, anyone else is pruned from it.
func (h *Handler) Disconnect(conn domain.Connection) {
	room, removed := h.registry.DropConnection(conn.ID())
	if room == nil {
		return
	}
	if removed {
		h.broadcaster.DropRoom(room.ID)
	}
}

// handlePlayerData creates a room when the payload names none, joins
// the named room otherwise, then (re)initializes paddle, level,
// particles and ball and broadcasts the opening snapshot.
func (h *Handler) handlePlayerData(conn domain.Connection, pd *domain.PlayerData) {
	player := &registry.Player{
		ConnectionID: conn.ID(),
		Username:     pd.Username,
		PaddleX:      pd.PaddleX,
		PaddleY:      pd.PaddleY,
	}

	var room *registry.Room
	if pd.RoomID == "" {
		room = h.registry.Create(player)
	} else {
		joined, err := h.registry.Join(pd.RoomID, player)
		if err != nil {
			slog.Debug("join dropped", "clientId", conn.ID(), "room", pd.RoomID)
			return
		}
		room = joined
	}
	pd.RoomID = room.ID

	h.broadcaster.Join(room.ID, conn)

	if reply, err := json.Marshal(domain.Envelope{Event: domain.EventJoinRoom, RoomID: room.ID}); err == nil {
		conn.Send(reply)
	}

	room.Mu.Lock()
	initRound(room.Session, conn.ID(), pd)
	snapshot, err := playSnapshot(pd, room.Session)
	room.Mu.Unlock()
	if err != nil {
		slog.Warn("snapshot marshal error", "room", room.ID, "error", err)
		return
	}
	h.broadcaster.Broadcast(room.ID, snapshot)
}

// handlePlay re-broadcasts the current authoritative snapshot without
// advancing the simulation.
func (h *Handler) handlePlay(pd *domain.PlayerData) {
	room, err := h.registry.Find(pd.RoomID)
	if err != nil {
		return
	}

	room.Mu.Lock()
	snapshot, err := playSnapshot(pd, room.Session)
	room.Mu.Unlock()
	if err != nil {
		return
	}
	h.broadcaster.Broadcast(room.ID, snapshot)
}

// handleCollision runs one full simulation tick with the reported
// paddle position and broadcasts the result. Ticks on a room that no
// longer exists, or on a session already won or lost, are dropped.
func (h *Handler) handleCollision(conn domain.Connection, pd *domain.PlayerData) {
	room, err := h.registry.Find(pd.RoomID)
	if err != nil {
		return
	}

	room.Mu.Lock()
	if member := room.Member(conn.ID()); member != nil {
		member.PaddleX = pd.PaddleX
		member.PaddleY = pd.PaddleY
	}
	applied := room.Session.Advance(game.Input{
		PlayerID: conn.ID(),
		PaddleX:  pd.PaddleX,
		PaddleY:  pd.PaddleY,
	}, time.Now())
	var snapshot []byte
	if applied {
		snapshot, err = playSnapshot(pd, room.Session)
	}
	room.Mu.Unlock()

	if !applied || err != nil {
		return
	}
	h.broadcaster.Broadcast(room.ID, snapshot)
}

// handlePlayAgainWaiting broadcasts the member list for the restart
// lobby view.
func (h *Handler) handlePlayAgainWaiting(pd *domain.PlayerData) {
	room, err := h.registry.Find(pd.RoomID)
	if err != nil {
		return
	}

	data, err := json.Marshal(domain.Envelope{
		Event:   domain.EventPlayAgainWaiting,
		Players: room.MemberList(),
	})
	if err != nil {
		return
	}
	h.broadcaster.Broadcast(room.ID, data)
}

// handlePlayAgain replaces the session wholesale with a fresh level-1
// session at the starting score and lives.
func (h *Handler) handlePlayAgain(conn domain.Connection, pd *domain.PlayerData) {
	room, err := h.registry.Find(pd.RoomID)
	if err != nil {
		return
	}

	room.Mu.Lock()
	room.Session = game.NewSession(game.StartingLevel, game.StartingScore, game.StartingLives)
	initRound(room.Session, conn.ID(), pd)
	respawnMemberPaddles(room, conn.ID())
	snapshot, err := playSnapshot(pd, room.Session)
	room.Mu.Unlock()
	if err != nil {
		return
	}
	h.broadcaster.Broadcast(room.ID, snapshot)
}

// handleNextLevel replaces the session with one at the next level,
// carrying score and lives forward.
func (h *Handler) handleNextLevel(conn domain.Connection, pd *domain.PlayerData) {
	room, err := h.registry.Find(pd.RoomID)
	if err != nil {
		return
	}

	room.Mu.Lock()
	prev := room.Session
	room.Session = game.NewSession(prev.Level+1, prev.Score, prev.Lives)
	initRound(room.Session, conn.ID(), pd)
	respawnMemberPaddles(room, conn.ID())
	snapshot, err := playSnapshot(pd, room.Session)
	room.Mu.Unlock()
	if err != nil {
		return
	}
	h.broadcaster.Broadcast(room.ID, snapshot)
}

// initRound (re)initializes the per-round entities in the order the
// client expects: paddle, brick wall, particles, ball.
func initRound(s *game.Session, connID string, pd *domain.PlayerData) {
	s.SpawnPaddle(connID, pd.PaddleX, pd.PaddleY)
	s.SpawnLevel(s.Level)
	s.InitParticles()
	s.SpawnBall(pd.PaddleX, pd.PaddleY)
}

// respawnMemberPaddles restores a paddle for every member of a
// freshly replaced session at their last reported position. Caller
// holds room.Mu.
func respawnMemberPaddles(room *registry.Room, initiatorID string) {
	for _, m := range room.Players {
		if m.ConnectionID != initiatorID {
			room.Session.SpawnPaddle(m.ConnectionID, m.PaddleX, m.PaddleY)
		}
	}
}

func playSnapshot(pd *domain.PlayerData, s *game.Session) ([]byte, error) {
	return json.Marshal(domain.Envelope{
		Event:  domain.EventPlay,
		Player: pd,
		Game:   s,
	})
}
