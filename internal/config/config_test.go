package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 8080
  max_connections: 5000

redis:
  addr: "redis:6379"
  password: "secret"
  db: 1

storage:
  driver: bolt
  bolt_path: /tmp/stats.db

game:
  grace_seconds: 20
  countdown_seconds: 15
  default_fixed_minutes: 3
  rounds: 3
  swap_cost: 5
  room_timeout: 15

security:
  allowed_origins:
    - "http://localhost:3000"
    - "https://example.com"
  rate_limit:
    max_per_second: 20
    max_per_minute: 120
    ban_duration: 120
  message_limit:
    max_per_second: 50

log:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, 5000, cfg.Server.MaxConnections)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, "bolt", cfg.Storage.Driver)
	assert.Equal(t, 20, cfg.Game.GraceSeconds)
	assert.Equal(t, 3, cfg.Game.DefaultFixedMinutes)
	assert.Equal(t, 3, cfg.Game.Rounds)
	assert.Equal(t, 5, cfg.Game.SwapCost)
	assert.Len(t, cfg.Security.AllowedOrigins, 2)
	assert.Equal(t, 50, cfg.Security.MessageLimit.MaxPerSecond)
	assert.Equal(t, "console", cfg.Log.Format)

	// unset values still get defaults
	assert.Equal(t, defaultMaxPlayers, cfg.Game.MaxPlayers)
	assert.Equal(t, defaultCacheSize, cfg.Storage.CacheSize)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "invalid: yaml: :::"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, defaultHost, cfg.Server.Host)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultMaxConnections, cfg.Server.MaxConnections)
	assert.Equal(t, defaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, defaultGraceSeconds, cfg.Game.GraceSeconds)
	assert.Equal(t, defaultCountdownSeconds, cfg.Game.CountdownSeconds)
	assert.Equal(t, defaultFixedMinutes, cfg.Game.DefaultFixedMinutes)
	assert.Equal(t, defaultRoomMaxPlayers, cfg.Game.DefaultMaxPlayers)
	assert.Equal(t, defaultRounds, cfg.Game.Rounds)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, defaultLogLevel, cfg.Log.Level)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultStorageDriver, cfg.Storage.Driver)
	assert.Equal(t, defaultMaxPlayers, cfg.Game.MaxPlayers)
}

func TestGameConfig_DurationMethods(t *testing.T) {
	t.Parallel()

	cfg := &GameConfig{
		GraceSeconds:          30,
		CountdownSeconds:      15,
		RoomTimeout:           10,
		ShutdownTimeout:       60,
		ShutdownCheckInterval: 5,
	}

	assert.Equal(t, 30*time.Second, cfg.GraceDuration())
	assert.Equal(t, 15*time.Second, cfg.CountdownDuration())
	assert.Equal(t, 10*time.Minute, cfg.RoomTimeoutDuration())
	assert.Equal(t, 60*time.Minute, cfg.ShutdownTimeoutDuration())
	assert.Equal(t, 5*time.Second, cfg.ShutdownCheckIntervalDuration())
}

func TestRateLimitConfig_BanDurationTime(t *testing.T) {
	t.Parallel()

	cfg := &RateLimitConfig{BanDuration: 120}
	assert.Equal(t, 120*time.Second, cfg.BanDurationTime())
}

func TestLoadFromEnv(t *testing.T) {
	// modifies environment variables, not parallel
	t.Setenv("SERVER_HOST", "env-host")
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("REDIS_ADDR", "env-redis:6380")
	t.Setenv("GAME_GRACE_SECONDS", "12")
	t.Setenv("STORAGE_DRIVER", "none")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "http://a.com,http://b.com")
	t.Setenv("SECURITY_RATE_LIMIT_BAN_DURATION", "5")

	cfg, err := Load(writeConfig(t, "server:\n  port: 1234\n"))
	require.NoError(t, err)

	assert.Equal(t, "env-host", cfg.Server.Host)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "env-redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 12, cfg.Game.GraceSeconds)
	assert.Equal(t, "none", cfg.Storage.Driver)
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 5, cfg.Security.RateLimit.BanDuration)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := Load(writeConfig(t, `{}`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
