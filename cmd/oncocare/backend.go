package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"oncocare/internal/adapter/memory"
	"oncocare/internal/adapter/postgres"
	"oncocare/internal/adapter/redis"
	"oncocare/internal/adapter/sqlite"
	"oncocare/internal/config"
	"oncocare/internal/domain"
)

// backend bundles the ports chosen by storage.driver. Accounts always live
// in the same store as the data: per-user keys embed the user id, so an id
// must never be handed out again while that data survives.
type backend struct {
	kv       domain.KVStore
	users    domain.UserRepository
	sessions domain.SessionRepository
	guard    domain.SubmissionGuard
	close    func() error
}

func openBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (*backend, error) {
	mem := memory.New()
	b := &backend{
		kv:       mem,
		users:    mem,
		sessions: mem.NewSessionRepo(),
		guard:    mem,
		close:    func() error { return nil },
	}

	switch cfg.Storage.Driver {
	case config.DriverMemory:

	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		b.kv, b.users, b.sessions, b.close = s, s, sqlite.NewSessionRepo(s), s.Close

	case config.DriverPostgres:
		db, err := postgres.Open(cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		b.kv, b.users, b.sessions, b.close = db, db, postgres.NewSessionRepo(db), db.Close

	case config.DriverRedis:
		s, err := redis.New(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		b.kv, b.users, b.sessions, b.guard, b.close = s, s, redis.NewSessionRepo(s), s, s.Close

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	log.Debug("storage ready", zap.String("driver", cfg.Storage.Driver))
	return b, nil
}
