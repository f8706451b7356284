package domain

// Wire event names. These match the socket.io event names the browser
// client emits, spaces included.
const (
	EventPlayerData       = "playerData"
	EventPlay             = "play"
	EventJoinRoom         = "join room"
	EventCollision        = "collision detection"
	EventPlayAgainWaiting = "play again waiting area"
	EventPlayAgain        = "play again"
	EventNextLevel        = "next level"
)

// PlayerData is the client-reported player payload carried by inbound
// events: identity, the room the message targets and the latest
// paddle coordinates.
type PlayerData struct {
	Username string  `json:"username,omitempty"`
	RoomID   string  `json:"roomId,omitempty"`
	PaddleX  float64 `json:"paddleX"`
	PaddleY  float64 `json:"paddleY"`
}

// Envelope is the JSON frame exchanged in both directions. Only Event
// is always set; the other fields depend on the event.
type Envelope struct {
	Event   string      `json:"event"`
	Player  *PlayerData `json:"player,omitempty"`
	RoomID  string      `json:"roomId,omitempty"`
	Game    any         `json:"game,omitempty"`
	Players any         `json:"players,omitempty"`
}

type Connection interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Broadcaster groups live connections into per-room emit groups. A
// connection is registered on accept and joins a group once its room
// is known.
type Broadcaster interface {
	Register(conn Connection)
	Unregister(conn Connection)
	Join(roomID string, conn Connection)
	DropRoom(roomID string)
	Broadcast(roomID string, data []byte)
	Stats() (rooms, clients int)
}

type MessageHandler interface {
	Handle(conn Connection, data []byte)
	Disconnect(conn Connection)
}
