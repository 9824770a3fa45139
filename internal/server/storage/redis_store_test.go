package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRedisStore_SaveLoadDeleteRoom(t *testing.T) {
	t.Parallel()
	client, _ := newTestRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	data := &RoomData{
		Code:      "ABC123",
		HostID:    "p1",
		Status:    "playing",
		BoardMode: "shared",
		TimerType: "voting",
		Players: []PlayerData{
			{ID: "p1", Name: "Alice", Score: 12},
			{ID: "p2", Name: "Bob", Score: 7, Done: true},
		},
		RoundNumber: 2,
		Board:       []string{"CATSX", "OXXXX", "GXXXX", "XXXXX", "XXXXX"},
		CreatedAt:   time.Now().Unix(),
	}

	require.NoError(t, store.SaveRoom(ctx, data.Code, data))

	loaded, err := store.LoadRoom(ctx, data.Code)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, data, loaded)

	require.NoError(t, store.DeleteRoom(ctx, data.Code))
	loaded, err = store.LoadRoom(ctx, data.Code)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_SaveNil(t *testing.T) {
	t.Parallel()
	client, mr := newTestRedis(t)
	store := NewRedisStore(client)

	require.NoError(t, store.SaveRoom(context.Background(), "ABC123", nil))
	assert.False(t, mr.Exists(roomKeyPrefix+"ABC123"))
}

func TestRedisStore_Expiration(t *testing.T) {
	t.Parallel()
	client, mr := newTestRedis(t)
	store := NewRedisStore(client)

	require.NoError(t, store.SaveRoom(context.Background(), "ABC123", &RoomData{Code: "ABC123"}))
	assert.Equal(t, roomExpiration, mr.TTL(roomKeyPrefix+"ABC123"))

	mr.FastForward(roomExpiration + time.Second)
	loaded, err := store.LoadRoom(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_GetAllRoomCodes(t *testing.T) {
	t.Parallel()
	client, _ := newTestRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	for _, code := range []string{"AAAAAA", "BBBBBB"} {
		require.NoError(t, store.SaveRoom(ctx, code, &RoomData{Code: code}))
	}

	codes, err := store.GetAllRoomCodes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AAAAAA", "BBBBBB"}, codes)
	assert.NoError(t, store.Ping(ctx))
}

func TestRedisStore_LoadCorrupt(t *testing.T) {
	t.Parallel()
	client, mr := newTestRedis(t)
	store := NewRedisStore(client)

	require.NoError(t, mr.Set(roomKeyPrefix+"BADBAD", "{not json"))
	_, err := store.LoadRoom(context.Background(), "BADBAD")
	assert.Error(t, err)
}
