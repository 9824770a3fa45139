package server

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
)

const monitorInterval = 30 * time.Second

// MonitorStats logs load figures until ctx is done.
func (s *Server) MonitorStats(ctx context.Context) error {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			logger.L().Infow("📊 stats",
				"online", s.GetOnlineCount(),
				"rooms", s.rooms.Count(),
				"games", s.rooms.GetActiveGamesCount(),
				"goroutines", runtime.NumGoroutine(),
				"conns", fmt.Sprintf("%d/%d", len(s.semaphore), s.maxConnections),
				"alloc_mb", float64(m.Alloc)/1024/1024)
		}
	}
}

// EnterMaintenanceMode stops new connections and room creation.
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	s.maintenanceMode = true
	s.maintenanceMu.Unlock()

	s.BroadcastToLobby(codec.NewErrorMessageWithText(protocol.ErrCodeServerMaintenance,
		"Maintenance: new rooms are disabled"))
	logger.L().Infow("🔧 maintenance mode on")
}

// IsMaintenanceMode reports whether maintenance mode is on.
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// GracefulShutdown enters maintenance mode, waits up to timeout for running
// games to finish, then closes every connection.
func (s *Server) GracefulShutdown(timeout time.Duration) {
	s.EnterMaintenanceMode()

	interval := s.config.Game.ShutdownCheckIntervalDuration()
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		active := s.rooms.GetActiveGamesCount()
		if active == 0 {
			break
		}
		logger.L().Infow("⏳ waiting for games", "active", active)
		<-ticker.C
	}
	if active := s.rooms.GetActiveGamesCount(); active > 0 {
		logger.L().Warnw("⚠️ shutdown timeout, closing running games", "active", active)
	}

	s.rooms.Shutdown()
	s.clientsMu.RLock()
	for _, c := range s.clients {
		c.Close()
	}
	s.clientsMu.RUnlock()
	logger.L().Infow("server stopped")
}
