package server

import "github.com/palemoky/spellcast/internal/protocol"

// GetOnlineCount returns the number of connected clients.
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// BroadcastToLobby sends msg to clients that are not in a room.
func (s *Server) BroadcastToLobby(msg *protocol.Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		if c.GetRoom() == "" {
			c.SendMessage(msg)
		}
	}
}
