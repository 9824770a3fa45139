//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/spellcast/internal/server/storage"
)

// MockStatsStore is a testify mock of storage.StatsStore
type MockStatsStore struct {
	mock.Mock
}

func (m *MockStatsStore) RecordGame(ctx context.Context, results []storage.GameResult) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

func (m *MockStatsStore) GetStats(ctx context.Context, name string) (*storage.PlayerStats, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PlayerStats), args.Error(1)
}

func (m *MockStatsStore) Leaderboard(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.LeaderboardEntry), args.Error(1)
}

// MockSnapshotStore is a testify mock of the room snapshot store
type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) SaveRoom(ctx context.Context, code string, data *storage.RoomData) error {
	args := m.Called(ctx, code, data)
	return args.Error(0)
}

func (m *MockSnapshotStore) DeleteRoom(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}
