package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/scene-engine/internal/config"
)

// Open returns the save store selected by cfg.SaveBackend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (SaveStore, error) {
	switch cfg.SaveBackend {
	case config.BackendRedis:
		store, err := NewRedisStore(cfg.RedisURL, cfg.SaveTTL, logger)
		if err != nil {
			return nil, err
		}
		if err := store.WaitForConnection(ctx, 5, time.Second); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath, logger)
	case config.BackendMemory:
		return NewMockStore(), nil
	default:
		return nil, fmt.Errorf("unknown save backend %q", cfg.SaveBackend)
	}
}
