package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Defaults
const (
	defaultHost           = "0.0.0.0"
	defaultPort           = 1780
	defaultMaxConnections = 10000
	defaultRedisAddr      = "localhost:6379"
	defaultStorageDriver  = "redis"
	defaultBoltPath       = "data/stats.db"
	defaultCacheSize      = 256

	defaultGraceSeconds          = 30
	defaultCountdownSeconds      = 30
	defaultFixedMinutes          = 2
	defaultMaxPlayers            = 5
	defaultRoomMaxPlayers        = 4
	defaultRounds                = 5
	defaultRoomTimeout           = 10
	defaultShutdownTimeout       = 30
	defaultShutdownCheckInterval = 5
	defaultDictionaryPath        = "words_alpha.txt"

	defaultRatePerSecond    = 10
	defaultRatePerMinute    = 100
	defaultBanDuration      = 60
	defaultMessagePerSecond = 20

	defaultLogLevel  = "info"
	defaultLogFormat = "json"
)

// Config is the server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Redis    RedisConfig    `yaml:"redis" envconfig:"REDIS"`
	Storage  StorageConfig  `yaml:"storage" envconfig:"STORAGE"`
	Game     GameConfig     `yaml:"game" envconfig:"GAME"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Log      LogConfig      `yaml:"log" envconfig:"LOG"`
}

// ServerConfig HTTP/WebSocket listener
type ServerConfig struct {
	Host           string `yaml:"host" envconfig:"HOST"`
	Port           int    `yaml:"port" envconfig:"PORT"`
	MaxConnections int    `yaml:"max_connections" envconfig:"MAX_CONNECTIONS"`
}

// Addr returns host:port.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"ADDR"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	DB       int    `yaml:"db" envconfig:"DB"`
}

// StorageConfig selects the stats backend: redis, bolt or none.
type StorageConfig struct {
	Driver    string `yaml:"driver" envconfig:"DRIVER"`
	BoltPath  string `yaml:"bolt_path" envconfig:"BOLT_PATH"`
	CacheSize int    `yaml:"cache_size" envconfig:"CACHE_SIZE"`
}

// GameConfig game rules and room housekeeping
type GameConfig struct {
	GraceSeconds          int    `yaml:"grace_seconds" envconfig:"GRACE_SECONDS"`
	CountdownSeconds      int    `yaml:"countdown_seconds" envconfig:"COUNTDOWN_SECONDS"`
	DefaultFixedMinutes   int    `yaml:"default_fixed_minutes" envconfig:"DEFAULT_FIXED_MINUTES"`
	MaxPlayers            int    `yaml:"max_players" envconfig:"MAX_PLAYERS"`
	DefaultMaxPlayers     int    `yaml:"default_max_players" envconfig:"DEFAULT_MAX_PLAYERS"`
	Rounds                int    `yaml:"rounds" envconfig:"ROUNDS"`
	SwapCost              int    `yaml:"swap_cost" envconfig:"SWAP_COST"`
	RoomTimeout           int    `yaml:"room_timeout" envconfig:"ROOM_TIMEOUT"`                       // minutes
	ShutdownTimeout       int    `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`               // minutes
	ShutdownCheckInterval int    `yaml:"shutdown_check_interval" envconfig:"SHUTDOWN_CHECK_INTERVAL"` // seconds
	DictionaryPath        string `yaml:"dictionary_path" envconfig:"DICTIONARY_PATH"`
}

// GraceDuration returns the grace period length.
func (c *GameConfig) GraceDuration() time.Duration {
	return time.Duration(c.GraceSeconds) * time.Second
}

// CountdownDuration returns the vote-triggered countdown length.
func (c *GameConfig) CountdownDuration() time.Duration {
	return time.Duration(c.CountdownSeconds) * time.Second
}

// RoomTimeoutDuration returns how long a waiting room may idle.
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// ShutdownTimeoutDuration returns the maximum wait for games to finish on shutdown.
func (c *GameConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Minute
}

// ShutdownCheckIntervalDuration returns the polling interval during shutdown.
func (c *GameConfig) ShutdownCheckIntervalDuration() time.Duration {
	return time.Duration(c.ShutdownCheckInterval) * time.Second
}

// SecurityConfig origin checks and rate limits
type SecurityConfig struct {
	AllowedOrigins []string           `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	RateLimit      RateLimitConfig    `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	MessageLimit   MessageLimitConfig `yaml:"message_limit" envconfig:"MESSAGE_LIMIT"`
}

// RateLimitConfig per-IP connection limits
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second" envconfig:"MAX_PER_SECOND"`
	MaxPerMinute int `yaml:"max_per_minute" envconfig:"MAX_PER_MINUTE"`
	BanDuration  int `yaml:"ban_duration" envconfig:"BAN_DURATION"` // seconds
}

// BanDurationTime returns the ban length.
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// MessageLimitConfig per-connection message limit
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second" envconfig:"MAX_PER_SECOND"`
}

// LogConfig logger options
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
	File   string `yaml:"file" envconfig:"FILE"`
}

// Load reads the YAML file at path, fills defaults, then applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration with environment overrides.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	_ = cfg.applyEnv()
	return &cfg
}

func (c *Config) applyEnv() error {
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("env overrides: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.Host, defaultHost)
	setDefault(&c.Server.Port, defaultPort)
	setDefault(&c.Server.MaxConnections, defaultMaxConnections)

	setDefault(&c.Redis.Addr, defaultRedisAddr)

	setDefault(&c.Storage.Driver, defaultStorageDriver)
	setDefault(&c.Storage.BoltPath, defaultBoltPath)
	setDefault(&c.Storage.CacheSize, defaultCacheSize)

	setDefault(&c.Game.GraceSeconds, defaultGraceSeconds)
	setDefault(&c.Game.CountdownSeconds, defaultCountdownSeconds)
	setDefault(&c.Game.DefaultFixedMinutes, defaultFixedMinutes)
	setDefault(&c.Game.MaxPlayers, defaultMaxPlayers)
	setDefault(&c.Game.DefaultMaxPlayers, defaultRoomMaxPlayers)
	setDefault(&c.Game.Rounds, defaultRounds)
	setDefault(&c.Game.RoomTimeout, defaultRoomTimeout)
	setDefault(&c.Game.ShutdownTimeout, defaultShutdownTimeout)
	setDefault(&c.Game.ShutdownCheckInterval, defaultShutdownCheckInterval)
	setDefault(&c.Game.DictionaryPath, defaultDictionaryPath)

	if len(c.Security.AllowedOrigins) == 0 {
		c.Security.AllowedOrigins = []string{"*"}
	}
	setDefault(&c.Security.RateLimit.MaxPerSecond, defaultRatePerSecond)
	setDefault(&c.Security.RateLimit.MaxPerMinute, defaultRatePerMinute)
	setDefault(&c.Security.RateLimit.BanDuration, defaultBanDuration)
	setDefault(&c.Security.MessageLimit.MaxPerSecond, defaultMessagePerSecond)

	setDefault(&c.Log.Level, defaultLogLevel)
	setDefault(&c.Log.Format, defaultLogFormat)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
