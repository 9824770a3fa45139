package types

import (
	"github.com/palemoky/spellcast/internal/protocol"
)

// ServerInterface is what handlers need from the server (breaks the import cycle).
type ServerInterface interface {
	IsMaintenanceMode() bool
	GetOnlineCount() int
}

// ClientInterface is one connected player.
type ClientInterface interface {
	GetID() string
	GetName() string
	SetName(name string)
	GetRoom() string
	SetRoom(code string)
	SendMessage(msg *protocol.Message)
	Close()
}

// Broadcaster provides room-scoped groups. Implementations never call back
// into room state, so they may be used while a room timer is emitting.
type Broadcaster interface {
	Join(room string, client ClientInterface)
	Leave(room, clientID string)
	Broadcast(room string, msg *protocol.Message)
	BroadcastExcept(room, exceptID string, msg *protocol.Message)
	Drop(room string)
}

// SessionIndex is the reverse lookup from connection id to room code.
type SessionIndex interface {
	Bind(playerID, roomCode string)
	Unbind(playerID string)
	RoomOf(playerID string) (string, bool)
}
