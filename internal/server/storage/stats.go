package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrEmptyName is returned for a stats lookup without a player name.
var ErrEmptyName = errors.New("storage: empty player name")

// PlayerStats are lifetime totals per display name.
type PlayerStats struct {
	PlayerName   string `json:"player_name"`
	GamesPlayed  int    `json:"games_played"`
	GamesWon     int    `json:"games_won"`
	TotalScore   int    `json:"total_score"`
	BestScore    int    `json:"best_score"`
	LastPlayedAt int64  `json:"last_played_at"`
	CreatedAt    int64  `json:"created_at"`
}

// WinRate returns the share of games won, in percent.
func (s *PlayerStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.GamesWon) / float64(s.GamesPlayed) * 100
}

// GameResult is one player's outcome of a finished game.
type GameResult struct {
	PlayerName string
	Score      int
	Won        bool
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank        int
	PlayerName  string
	TotalScore  int
	GamesWon    int
	GamesPlayed int
}

// StatsStore persists player statistics.
type StatsStore interface {
	RecordGame(ctx context.Context, results []GameResult) error
	GetStats(ctx context.Context, name string) (*PlayerStats, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// statsKey normalizes a display name for storage.
func statsKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// apply folds one result into s.
func apply(s *PlayerStats, r GameResult, now time.Time) {
	if s.CreatedAt == 0 {
		s.CreatedAt = now.Unix()
	}
	s.PlayerName = r.PlayerName
	s.GamesPlayed++
	if r.Won {
		s.GamesWon++
	}
	s.TotalScore += r.Score
	s.BestScore = max(s.BestScore, r.Score)
	s.LastPlayedAt = now.Unix()
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 10
	case limit > 100:
		return 100
	default:
		return limit
	}
}
