package storage

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"
)

var statsBucket = []byte("stats")

// BoltStats is a single-file stats store for deployments without Redis.
type BoltStats struct {
	db  *bolt.DB
	now func() time.Time
}

var _ StatsStore = (*BoltStats)(nil)

// OpenBolt opens or creates the database at path.
func OpenBolt(path string) (*BoltStats, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(statsBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &BoltStats{db: db, now: time.Now}, nil
}

// Close releases the database file.
func (bs *BoltStats) Close() error {
	if err := bs.db.Close(); err != nil {
		return fmt.Errorf("close bolt: %w", err)
	}
	return nil
}

// GetStats returns the stats for name, or nil if unknown.
func (bs *BoltStats) GetStats(_ context.Context, name string) (*PlayerStats, error) {
	key := statsKey(name)
	if key == "" {
		return nil, ErrEmptyName
	}
	var stats *PlayerStats
	err := bs.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(statsBucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		stats = &PlayerStats{}
		return json.Unmarshal(v, stats)
	})
	if err != nil {
		return nil, fmt.Errorf("get stats %s: %w", key, err)
	}
	return stats, nil
}

// RecordGame updates all players in one transaction.
func (bs *BoltStats) RecordGame(_ context.Context, results []GameResult) error {
	now := bs.now()
	return bs.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(statsBucket)
		for _, r := range results {
			key := []byte(statsKey(r.PlayerName))
			if len(key) == 0 {
				continue
			}
			var stats PlayerStats
			if v := b.Get(key); v != nil {
				if err := json.Unmarshal(v, &stats); err != nil {
					return fmt.Errorf("decode %s: %w", key, err)
				}
			}
			apply(&stats, r, now)
			data, err := json.Marshal(&stats)
			if err != nil {
				return err
			}
			if err := b.Put(key, data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Leaderboard scans every record; the bucket holds one small value per player.
func (bs *BoltStats) Leaderboard(_ context.Context, limit int) ([]LeaderboardEntry, error) {
	var all []PlayerStats
	err := bs.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(statsBucket).ForEach(func(_, v []byte) error {
			var s PlayerStats
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			all = append(all, s)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("scan stats: %w", err)
	}

	slices.SortFunc(all, func(a, b PlayerStats) int {
		if c := cmp.Compare(b.TotalScore, a.TotalScore); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerName, b.PlayerName)
	})

	all = all[:min(len(all), clampLimit(limit))]
	entries := make([]LeaderboardEntry, len(all))
	for i, s := range all {
		entries[i] = LeaderboardEntry{
			Rank:        i + 1,
			PlayerName:  s.PlayerName,
			TotalScore:  s.TotalScore,
			GamesWon:    s.GamesWon,
			GamesPlayed: s.GamesPlayed,
		}
	}
	return entries, nil
}
