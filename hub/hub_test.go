package hub

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConn struct {
	id       string
	received [][]byte
	closed   bool
	mu       sync.Mutex
	sendErr  error
}

func (m *mockConn) ID() string { return m.id }

func (m *mockConn) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.received = append(m.received, data)
	return nil
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConn) getReceived() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.received
}

func TestHub_Broadcast(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(*Hub) []*mockConn
		room         string
		wantReceived map[string]int
	}{
		{
			name: "all room members receive, sender included",
			setup: func(h *Hub) []*mockConn {
				sender := &mockConn{id: "sender"}
				other := &mockConn{id: "other"}
				for _, c := range []*mockConn{sender, other} {
					h.Register(c)
					h.Join("room1", c)
				}
				return []*mockConn{sender, other}
			},
			room:         "room1",
			wantReceived: map[string]int{"sender": 1, "other": 1},
		},
		{
			name: "no cross-room delivery",
			setup: func(h *Hub) []*mockConn {
				member := &mockConn{id: "member"}
				outsider := &mockConn{id: "outsider"}
				h.Register(member)
				h.Join("room1", member)
				h.Register(outsider)
				h.Join("room2", outsider)
				return []*mockConn{member, outsider}
			},
			room:         "room1",
			wantReceived: map[string]int{"member": 1, "outsider": 0},
		},
		{
			name: "registered but unjoined connection is skipped",
			setup: func(h *Hub) []*mockConn {
				lobby := &mockConn{id: "lobby"}
				h.Register(lobby)
				return []*mockConn{lobby}
			},
			room:         "room1",
			wantReceived: map[string]int{"lobby": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			conns := tt.setup(h)

			h.Broadcast(tt.room, []byte("snapshot"))

			for _, c := range conns {
				assert.Len(t, c.getReceived(), tt.wantReceived[c.ID()], "conn %s", c.ID())
			}
		})
	}
}

func TestHub_JoinMovesBetweenRooms(t *testing.T) {
	h := New()
	conn := &mockConn{id: "c1"}
	h.Register(conn)
	h.Join("room1", conn)
	h.Join("room2", conn)

	h.Broadcast("room1", []byte("a"))
	h.Broadcast("room2", []byte("b"))

	received := conn.getReceived()
	require.Len(t, received, 1)
	assert.Equal(t, []byte("b"), received[0])

	rooms, clients := h.Stats()
	assert.Equal(t, 1, rooms)
	assert.Equal(t, 1, clients)
}

func TestHub_UnregisterCleansUpGroup(t *testing.T) {
	h := New()
	conn := &mockConn{id: "c1"}
	h.Register(conn)
	h.Join("room1", conn)

	rooms, clients := h.Stats()
	require.Equal(t, 1, rooms)
	require.Equal(t, 1, clients)

	h.Unregister(conn)

	rooms, clients = h.Stats()
	assert.Equal(t, 0, rooms)
	assert.Equal(t, 0, clients)

	// Broadcast to the vacated room must be a no-op.
	h.Broadcast("room1", []byte("late"))
	assert.Empty(t, conn.getReceived())
}

func TestHub_DropRoom(t *testing.T) {
	h := New()
	host := &mockConn{id: "host"}
	member := &mockConn{id: "member"}
	for _, c := range []*mockConn{host, member} {
		h.Register(c)
		h.Join("room1", c)
	}

	h.DropRoom("room1")

	rooms, clients := h.Stats()
	assert.Equal(t, 0, rooms)
	assert.Equal(t, 2, clients, "connections stay registered after room teardown")

	h.Broadcast("room1", []byte("late"))
	assert.Empty(t, host.getReceived())
	assert.Empty(t, member.getReceived())
}

func TestHub_Stats(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(*Hub)
		wantRooms   int
		wantClients int
	}{
		{
			name:        "empty hub",
			setup:       func(h *Hub) {},
			wantRooms:   0,
			wantClients: 0,
		},
		{
			name: "registered without a room",
			setup: func(h *Hub) {
				h.Register(&mockConn{id: "c1"})
			},
			wantRooms:   0,
			wantClients: 1,
		},
		{
			name: "multiple rooms",
			setup: func(h *Hub) {
				for _, j := range []struct{ id, room string }{
					{"c1", "r1"}, {"c2", "r1"}, {"c3", "r2"},
				} {
					c := &mockConn{id: j.id}
					h.Register(c)
					h.Join(j.room, c)
				}
			},
			wantRooms:   2,
			wantClients: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			tt.setup(h)

			rooms, clients := h.Stats()

			assert.Equal(t, tt.wantRooms, rooms)
			assert.Equal(t, tt.wantClients, clients)
		})
	}
}
