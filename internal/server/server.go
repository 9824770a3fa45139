// Package server is the WebSocket transport and HTTP surface of the game.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/palemoky/spellcast/internal/config"
	"github.com/palemoky/spellcast/internal/game/room"
	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/server/handler"
	"github.com/palemoky/spellcast/internal/server/hub"
	"github.com/palemoky/spellcast/internal/server/session"
	"github.com/palemoky/spellcast/internal/server/storage"
)

// Deps are the collaborators built by the caller. Stats may be nil.
type Deps struct {
	Rooms    *room.Manager
	Hub      *hub.Hub
	Sessions *session.Manager
	Stats    storage.StatsStore
}

// Server accepts WebSocket connections and serves the HTTP routes.
type Server struct {
	config   *config.Config
	rooms    *room.Manager
	hub      *hub.Hub
	sessions *session.Manager
	stats    storage.StatsStore
	handler  *handler.Handler
	upgrader websocket.Upgrader

	clients   map[string]*Client
	clientsMu sync.RWMutex

	rateLimiter    *RateLimiter
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter

	maxConnections int
	semaphore      chan struct{}

	maintenanceMode bool
	maintenanceMu   sync.RWMutex
}

// New builds a server from cfg and deps.
func New(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		config:   cfg,
		rooms:    deps.Rooms,
		hub:      deps.Hub,
		sessions: deps.Sessions,
		stats:    deps.Stats,
		clients:  make(map[string]*Client),
		rateLimiter: NewRateLimiter(
			cfg.Security.RateLimit.MaxPerSecond,
			cfg.Security.RateLimit.MaxPerMinute,
			cfg.Security.RateLimit.BanDurationTime(),
		),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originChecker.Check,
	}
	s.handler = handler.New(handler.Deps{
		Server:   s,
		Rooms:    deps.Rooms,
		Sessions: deps.Sessions,
		Stats:    deps.Stats,
	})

	logger.L().Infow("🔒 security",
		"conn_per_second", cfg.Security.RateLimit.MaxPerSecond,
		"msg_per_second", cfg.Security.MessageLimit.MaxPerSecond,
		"max_connections", cfg.Server.MaxConnections)
	return s
}

// Router returns the HTTP routes.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleWebSocket)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/rooms", s.handleRooms).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{code}", s.handleRoom).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	return r
}

// Run serves until ctx is done, then drains games and shuts down.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Server.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Infow("🚀 listening", "addr", "ws://"+srv.Addr+"/ws")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.GracefulShutdown(s.config.Game.ShutdownTimeoutDuration())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// RunRateLimiterSweep expires idle per-IP records until ctx is done.
func (s *Server) RunRateLimiterSweep(ctx context.Context) error {
	return s.rateLimiter.Run(ctx, 5*time.Minute)
}
