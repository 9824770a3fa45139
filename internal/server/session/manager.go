// Package session tracks connected players and the room each one is in.
package session

import (
	"sync"
	"time"
)

// PlayerSession is one connection's view of itself.
type PlayerSession struct {
	PlayerID    string
	PlayerName  string
	RoomCode    string
	ConnectedAt time.Time
}

// Manager is the session table. It implements types.SessionIndex.
type Manager struct {
	sessions map[string]*PlayerSession // playerID -> session
	mu       sync.RWMutex
}

// NewManager creates an empty session table.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*PlayerSession),
	}
}

// CreateSession registers a new connection.
func (sm *Manager) CreateSession(playerID, playerName string) *PlayerSession {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s := &PlayerSession{
		PlayerID:    playerID,
		PlayerName:  playerName,
		ConnectedAt: time.Now(),
	}
	sm.sessions[playerID] = s
	return s
}

// GetSession returns a copy of the session, or nil.
func (sm *Manager) GetSession(playerID string) *PlayerSession {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s, ok := sm.sessions[playerID]
	if !ok {
		return nil
	}
	cp := *s
	return &cp
}

// Rename updates the display name.
func (sm *Manager) Rename(playerID, name string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if s, ok := sm.sessions[playerID]; ok {
		s.PlayerName = name
	}
}

// DeleteSession drops the connection.
func (sm *Manager) DeleteSession(playerID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, playerID)
}

// Bind records that playerID is in roomCode. Unknown players get a session.
func (sm *Manager) Bind(playerID, roomCode string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.sessions[playerID]
	if !ok {
		s = &PlayerSession{PlayerID: playerID, ConnectedAt: time.Now()}
		sm.sessions[playerID] = s
	}
	s.RoomCode = roomCode
}

// Unbind clears the player's room.
func (sm *Manager) Unbind(playerID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if s, ok := sm.sessions[playerID]; ok {
		s.RoomCode = ""
	}
}

// RoomOf returns the room the player is in.
func (sm *Manager) RoomOf(playerID string) (string, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s, ok := sm.sessions[playerID]
	if !ok || s.RoomCode == "" {
		return "", false
	}
	return s.RoomCode, true
}

// Count returns the number of sessions.
func (sm *Manager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
