package storage

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// CachedStats puts an ARC cache in front of another store's GetStats.
// RecordGame evicts the affected players.
type CachedStats struct {
	next  StatsStore
	cache *lru.ARCCache
}

var _ StatsStore = (*CachedStats)(nil)

// NewCachedStats wraps next with a cache of size entries.
func NewCachedStats(next StatsStore, size int) (*CachedStats, error) {
	c, err := lru.NewARC(size)
	if err != nil {
		return nil, fmt.Errorf("lru new instance of lru arc cache: %w", err)
	}
	return &CachedStats{next: next, cache: c}, nil
}

func (cs *CachedStats) GetStats(ctx context.Context, name string) (*PlayerStats, error) {
	key := statsKey(name)
	if v, ok := cs.cache.Get(key); ok {
		s := *v.(*PlayerStats)
		return &s, nil
	}
	stats, err := cs.next.GetStats(ctx, name)
	if err != nil || stats == nil {
		return stats, err
	}
	s := *stats
	cs.cache.Add(key, &s)
	return stats, nil
}

func (cs *CachedStats) RecordGame(ctx context.Context, results []GameResult) error {
	defer func() {
		for _, r := range results {
			cs.cache.Remove(statsKey(r.PlayerName))
		}
	}()
	return cs.next.RecordGame(ctx, results)
}

func (cs *CachedStats) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	return cs.next.Leaderboard(ctx, limit)
}

// Len reports how many players are cached.
func (cs *CachedStats) Len() int {
	return cs.cache.Len()
}
