package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/palemoky/spellcast/internal/config"
	"github.com/palemoky/spellcast/internal/game/dictionary"
	"github.com/palemoky/spellcast/internal/game/room"
	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/server"
	"github.com/palemoky/spellcast/internal/server/hub"
	"github.com/palemoky/spellcast/internal/server/session"
	"github.com/palemoky/spellcast/internal/server/storage"
)

func main() {
	if err := run(); err != nil {
		logger.L().Errorw("server exited", "error", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run() error {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	envFile := flag.String("env", ".env", "dotenv file applied before config overrides")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", *envFile, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.L().Warnw("config file unavailable, using defaults", "path", *configPath, "error", err)
		cfg = config.Default()
	}
	if err := logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}); err != nil {
		return err
	}

	dict, err := dictionary.Load(cfg.Game.DictionaryPath)
	if err != nil {
		return fmt.Errorf("dictionary: %w", err)
	}
	logger.L().Infow("📖 dictionary loaded", "path", cfg.Game.DictionaryPath, "words", dict.Len())

	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	h := hub.New()
	sessions := session.NewManager()
	rooms := room.NewManager(room.Deps{
		Hub:      h,
		Sessions: sessions,
		Dict:     dict,
		Store:    stores.snapshots,
		Stats:    stores.stats,
	}, room.OptionsFromConfig(&cfg.Game))

	srv := server.New(cfg, server.Deps{
		Rooms:    rooms,
		Hub:      h,
		Sessions: sessions,
		Stats:    stores.stats,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error { return rooms.Run(ctx) })
	g.Go(func() error { return srv.MonitorStats(ctx) })
	g.Go(func() error { return srv.RunRateLimiterSweep(ctx) })

	logger.L().Infow("🎮 spellcast server starting", "addr", cfg.Server.Addr(), "storage", cfg.Storage.Driver)
	return g.Wait()
}

// stores are the optional persistence backends. Nil interfaces disable a feature.
type stores struct {
	stats     storage.StatsStore
	snapshots room.SnapshotStore
	closers   []io.Closer
}

func (s *stores) Close() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			logger.L().Warnw("close store", "error", err)
		}
	}
}

func openStores(cfg *config.Config) (*stores, error) {
	s := &stores{}
	var backend storage.StatsStore

	switch cfg.Storage.Driver {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rs := storage.NewRedisStore(rdb)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		s.closers = append(s.closers, rdb)
		s.snapshots = rs
		backend = storage.NewLeaderboard(rdb)
	case "bolt":
		bs, err := storage.OpenBolt(cfg.Storage.BoltPath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, bs)
		backend = bs
	case "none", "":
		logger.L().Warnw("stats persistence disabled")
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	cached, err := storage.NewCachedStats(backend, cfg.Storage.CacheSize)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.stats = cached
	return s, nil
}
