package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	saveKeyPrefix = "savegame:"
	saveIndexKey  = "savegames"
)

// RedisStore keeps save games in Redis as JSON blobs with a TTL. The ids of
// live saves are tracked in a set so they can be listed.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStore implements SaveStore interface
var _ SaveStore = (*RedisStore)(nil)

// NewRedisStore connects to redisURL, either host:port or a redis:// URL.
// A zero ttl keeps saves forever.
func NewRedisStore(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisStore, error) {
	opt := &redis.Options{Addr: redisURL}
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		opt = parsed
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{
		client: redis.NewClient(opt),
		logger: logger,
		ttl:    ttl,
	}, nil
}

func saveKey(id uuid.UUID) string {
	return saveKeyPrefix + id.String()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStore) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStore) SaveGame(ctx context.Context, sg *SaveGame) error {
	if err := prepare(sg); err != nil {
		return err
	}

	data, err := json.Marshal(sg)
	if err != nil {
		r.logger.Error("Failed to marshal save game", "uuid", sg.ID, "error", err)
		return fmt.Errorf("failed to marshal save game: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, saveKey(sg.ID), data, r.ttl)
	pipe.SAdd(ctx, saveIndexKey, sg.ID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to save game", "uuid", sg.ID, "error", err)
		return fmt.Errorf("failed to save game: %w", err)
	}

	r.logger.Debug("Saved game", "uuid", sg.ID, "scene", sg.SceneID, "bytes", len(sg.Data))
	return nil
}

func (r *RedisStore) LoadGame(ctx context.Context, id uuid.UUID) (*SaveGame, error) {
	data, err := r.client.Get(ctx, saveKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("Save game not found", "uuid", id)
			return nil, nil
		}
		r.logger.Error("Failed to load save game", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load save game: %w", err)
	}

	var sg SaveGame
	if err := json.Unmarshal(data, &sg); err != nil {
		r.logger.Error("Failed to unmarshal save game", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal save game: %w", err)
	}
	return &sg, nil
}

// ListGames returns the live saves, newest first. Index entries whose key
// has expired are pruned.
func (r *RedisStore) ListGames(ctx context.Context) ([]SaveGame, error) {
	ids, err := r.client.SMembers(ctx, saveIndexKey).Result()
	if err != nil {
		r.logger.Error("Failed to list save games", "error", err)
		return nil, fmt.Errorf("failed to list save games: %w", err)
	}

	games := make([]SaveGame, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			r.logger.Warn("Dropping malformed save index entry", "entry", raw)
			r.client.SRem(ctx, saveIndexKey, raw)
			continue
		}
		sg, err := r.LoadGame(ctx, id)
		if err != nil {
			return nil, err
		}
		if sg == nil {
			r.client.SRem(ctx, saveIndexKey, raw)
			continue
		}
		games = append(games, *sg)
	}
	sortNewestFirst(games)
	return games, nil
}

func (r *RedisStore) DeleteGame(ctx context.Context, id uuid.UUID) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, saveKey(id))
	pipe.SRem(ctx, saveIndexKey, id.String())
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to delete save game", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete save game: %w", err)
	}
	return nil
}

func sortNewestFirst(games []SaveGame) {
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})
}
