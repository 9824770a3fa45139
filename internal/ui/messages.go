package ui

import "github.com/palemoky/spellcast/internal/protocol"

// ServerMessage wraps a server event for the update loop.
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectedMsg reports a successful dial.
type ConnectedMsg struct{}

// ConnectionErrorMsg reports a failed dial or a lost connection.
type ConnectionErrorMsg struct {
	Err error
}
