package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	playerStatsKey    = "player:stats:"
	leaderboardKey    = "leaderboard:score"
	dailyLeaderboard  = "leaderboard:daily:"
	weeklyLeaderboard = "leaderboard:weekly:"
)

// Leaderboard keeps stats as JSON strings and rankings in sorted sets keyed by
// normalized player name.
type Leaderboard struct {
	redis *redis.Client
	now   func() time.Time
}

var _ StatsStore = (*Leaderboard)(nil)

// NewLeaderboard wraps client.
func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{redis: client, now: time.Now}
}

// GetStats returns the stats for name, or nil if the player never finished a game.
func (lb *Leaderboard) GetStats(ctx context.Context, name string) (*PlayerStats, error) {
	key := statsKey(name)
	if key == "" {
		return nil, ErrEmptyName
	}
	data, err := lb.redis.Get(ctx, playerStatsKey+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("unmarshal stats %s: %w", key, err)
	}
	return &stats, nil
}

func (lb *Leaderboard) save(ctx context.Context, stats *PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return lb.redis.Set(ctx, playerStatsKey+statsKey(stats.PlayerName), data, 0).Err()
}

// RecordGame updates every player's stats and rankings.
func (lb *Leaderboard) RecordGame(ctx context.Context, results []GameResult) error {
	now := lb.now()
	for _, r := range results {
		if statsKey(r.PlayerName) == "" {
			continue
		}
		stats, err := lb.GetStats(ctx, r.PlayerName)
		if err != nil {
			return err
		}
		if stats == nil {
			stats = &PlayerStats{}
		}
		apply(stats, r, now)

		if err := lb.save(ctx, stats); err != nil {
			return err
		}
		if err := lb.rank(ctx, stats, r.Score, now); err != nil {
			return err
		}
	}
	return nil
}

// rank updates the all-time ranking with the new total and the daily and
// weekly rankings with the points earned in this game.
func (lb *Leaderboard) rank(ctx context.Context, stats *PlayerStats, gained int, now time.Time) error {
	member := statsKey(stats.PlayerName)

	pipe := lb.redis.TxPipeline()
	pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(stats.TotalScore), Member: member})

	dailyKey := dailyLeaderboard + now.Format("2006-01-02")
	pipe.ZIncrBy(ctx, dailyKey, float64(gained), member)
	pipe.Expire(ctx, dailyKey, 48*time.Hour)

	year, week := now.ISOWeek()
	weeklyKey := fmt.Sprintf("%s%d-W%02d", weeklyLeaderboard, year, week)
	pipe.ZIncrBy(ctx, weeklyKey, float64(gained), member)
	pipe.Expire(ctx, weeklyKey, 8*24*time.Hour)

	_, err := pipe.Exec(ctx)
	return err
}

// Leaderboard returns the top players by total score.
func (lb *Leaderboard) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	limit = clampLimit(limit)
	results, err := lb.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for _, result := range results {
		member, _ := result.Member.(string)
		stats, err := lb.GetStats(ctx, member)
		if err != nil || stats == nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			Rank:        len(entries) + 1,
			PlayerName:  stats.PlayerName,
			TotalScore:  int(result.Score),
			GamesWon:    stats.GamesWon,
			GamesPlayed: stats.GamesPlayed,
		})
	}
	return entries, nil
}
