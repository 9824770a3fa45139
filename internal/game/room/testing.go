//go:build !production

package room

import (
	"time"

	"github.com/palemoky/spellcast/internal/game/board"
)

// SetClock replaces the manager's clock.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// SetBoardForTest overwrites the board of the running game.
func (r *Room) SetBoardForTest(b board.Board) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Mode != nil {
		*r.Mode.grid() = b
	}
}

// BoardForTest returns a copy of the running game's board.
func (r *Room) BoardForTest() board.Board {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Mode == nil {
		return board.Board{}
	}
	return *r.Mode.grid()
}

// RoundForTest returns the current shared-board round, or nil.
func (r *Room) RoundForTest() *RoundState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mode, ok := r.Mode.(*SharedMode); ok {
		return mode.Round
	}
	return nil
}

// TurnForTest returns a copy of the turn state, or nil.
func (r *Room) TurnForTest() *TurnState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mode, ok := r.Mode.(*TurnMode); ok {
		ts := *mode.Turn
		return &ts
	}
	return nil
}

// StatusForTest returns the room status.
func (r *Room) StatusForTest() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Status
}

// ScoreForTest returns a player's cumulative score.
func (r *Room) ScoreForTest(playerID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, _ := r.player(playerID); p != nil {
		return p.Score
	}
	return 0
}
