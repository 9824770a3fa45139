package server

import (
	"net/http"

	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
)

// handleWebSocket upgrades a connection after maintenance, capacity, origin
// and rate checks.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if s.IsMaintenanceMode() {
		http.Error(w, "Server is under maintenance, please try again later", http.StatusServiceUnavailable)
		return
	}

	select {
	case s.semaphore <- struct{}{}:
	default:
		logger.L().Warnw("🚫 connection limit reached", "max", s.maxConnections, "ip", ip)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}
	release := func() { <-s.semaphore }

	if !s.originChecker.Check(r) {
		release()
		logger.L().Warnw("🚫 origin rejected", "origin", r.Header.Get("Origin"), "ip", ip)
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}
	if !s.rateLimiter.Allow(ip) {
		release()
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		release()
		logger.L().Debugw("upgrade failed", "ip", ip, "error", err)
		return
	}

	client := NewClient(s, conn, codec.ForName(r.URL.Query().Get("codec")))
	client.IP = ip
	client.release = release
	s.registerClient(client)
	s.sessions.CreateSession(client.ID, client.GetName())

	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:   client.ID,
		PlayerName: client.GetName(),
	}))
	logger.L().Infow("✅ connected", "player", client.ID, "name", client.GetName(), "ip", ip)

	go client.WritePump()
	go client.ReadPump()
}

// disconnect removes every trace of c. It runs once, from the read pump.
func (s *Server) disconnect(c *Client) {
	s.rooms.LeaveRoom(c)
	s.sessions.DeleteSession(c.ID)
	s.messageLimiter.RemoveClient(c.ID)
	s.unregisterClient(c)
	c.Close()
	if c.release != nil {
		c.release()
	}
	logger.L().Infow("❌ disconnected", "player", c.ID, "name", c.GetName())
}

func (s *Server) registerClient(c *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[c.ID] = c
}

func (s *Server) unregisterClient(c *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, c.ID)
}
