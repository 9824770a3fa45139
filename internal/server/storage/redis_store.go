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
	roomKeyPrefix = "room:"

	// snapshots of abandoned rooms age out on their own
	roomExpiration = 2 * time.Hour
)

// RoomData is a read-only snapshot of a live room. Rooms are never rebuilt from it.
type RoomData struct {
	Code           string       `json:"code"`
	HostID         string       `json:"host_id"`
	Status         string       `json:"status"`
	BoardMode      string       `json:"board_mode"`
	TimerType      string       `json:"timer_type"`
	Players        []PlayerData `json:"players"`
	RoundNumber    int          `json:"round_number,omitempty"`
	TurnNumber     int          `json:"turn_number,omitempty"`
	ActivePlayerID string       `json:"active_player_id,omitempty"`
	Board          []string     `json:"board,omitempty"`
	CreatedAt      int64        `json:"created_at"`
	UpdatedAt      int64        `json:"updated_at"`
}

// PlayerData is one member in a snapshot. Round scores stay hidden; only totals are stored.
type PlayerData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Done  bool   `json:"done,omitempty"`
}

// RedisStore keeps room snapshots in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// SaveRoom writes the snapshot for roomCode.
func (rs *RedisStore) SaveRoom(ctx context.Context, roomCode string, data *RoomData) error {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal room %s: %w", roomCode, err)
	}

	return rs.client.Set(ctx, roomKeyPrefix+roomCode, jsonData, roomExpiration).Err()
}

// LoadRoom returns the snapshot for code, or nil when there is none.
func (rs *RedisStore) LoadRoom(ctx context.Context, code string) (*RoomData, error) {
	data, err := rs.client.Get(ctx, roomKeyPrefix+code).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var roomData RoomData
	if err := json.Unmarshal(data, &roomData); err != nil {
		return nil, fmt.Errorf("unmarshal room %s: %w", code, err)
	}
	return &roomData, nil
}

// DeleteRoom removes the snapshot for code.
func (rs *RedisStore) DeleteRoom(ctx context.Context, code string) error {
	return rs.client.Del(ctx, roomKeyPrefix+code).Err()
}

// GetAllRoomCodes lists codes with a stored snapshot.
func (rs *RedisStore) GetAllRoomCodes(ctx context.Context) ([]string, error) {
	var codes []string
	iter := rs.client.Scan(ctx, 0, roomKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		codes = append(codes, iter.Val()[len(roomKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return codes, nil
}

// Ping checks connectivity.
func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}
