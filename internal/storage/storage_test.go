package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupRedis(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+mr.Addr(), ttl, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func setupSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "saves.db"), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func backends(t *testing.T) map[string]SaveStore {
	redisStore, _ := setupRedis(t, time.Hour)
	return map[string]SaveStore{
		"redis":  redisStore,
		"sqlite": setupSQLite(t),
		"memory": NewMockStore(),
	}
}

func TestSaveStore_Contract(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Ping(ctx))

			older := &SaveGame{
				Name:      "Before the boiler room",
				SceneID:   2501,
				CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
				Data:      []byte("SESV\x01\x00older"),
			}
			newer := &SaveGame{
				Name:      "Library",
				SceneID:   3000,
				CreatedAt: time.Date(2026, 1, 3, 0, 0, 0, 500, time.UTC),
				Data:      []byte("SESV\x01\x00newer"),
			}
			require.NoError(t, store.SaveGame(ctx, older))
			require.NoError(t, store.SaveGame(ctx, newer))
			assert.NotEqual(t, uuid.Nil, older.ID, "save assigns an id")

			loaded, err := store.LoadGame(ctx, older.ID)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, older.Name, loaded.Name)
			assert.Equal(t, older.SceneID, loaded.SceneID)
			assert.Equal(t, older.Data, loaded.Data)
			assert.True(t, older.CreatedAt.Equal(loaded.CreatedAt))

			games, err := store.ListGames(ctx)
			require.NoError(t, err)
			require.Len(t, games, 2)
			assert.Equal(t, newer.ID, games[0].ID, "newest first")
			assert.Equal(t, older.ID, games[1].ID)

			older.Name = "Renamed"
			require.NoError(t, store.SaveGame(ctx, older))
			loaded, err = store.LoadGame(ctx, older.ID)
			require.NoError(t, err)
			assert.Equal(t, "Renamed", loaded.Name)

			require.NoError(t, store.DeleteGame(ctx, older.ID))
			loaded, err = store.LoadGame(ctx, older.ID)
			require.NoError(t, err)
			assert.Nil(t, loaded)

			games, err = store.ListGames(ctx)
			require.NoError(t, err)
			assert.Len(t, games, 1)
		})
	}
}

func TestSaveStore_RejectsEmpty(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			assert.Error(t, store.SaveGame(ctx, nil))
			assert.Error(t, store.SaveGame(ctx, &SaveGame{Name: "empty"}))
		})
	}
}

func TestSaveStore_LoadMissing(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			loaded, err := store.LoadGame(context.Background(), uuid.New())
			assert.NoError(t, err)
			assert.Nil(t, loaded)
		})
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := setupRedis(t, time.Minute)
	ctx := context.Background()

	sg := &SaveGame{Name: "short lived", Data: []byte{1}}
	require.NoError(t, store.SaveGame(ctx, sg))
	assert.True(t, mr.Exists(saveKey(sg.ID)))
	assert.Equal(t, time.Minute, mr.TTL(saveKey(sg.ID)))

	mr.FastForward(2 * time.Minute)

	games, err := store.ListGames(ctx)
	require.NoError(t, err)
	assert.Empty(t, games)

	members, err := mr.Members(saveIndexKey)
	if err == nil {
		assert.Empty(t, members, "expired ids are pruned from the index")
	}
}

func TestRedisStore_PingFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	store, err := NewRedisStore(mr.Addr(), 0, quietLogger())
	require.NoError(t, err)
	defer store.Close()
	mr.Close()

	assert.Error(t, store.Ping(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, store.WaitForConnection(ctx, 3, time.Second))
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves.db")
	ctx := context.Background()

	store, err := OpenSQLite(ctx, path, quietLogger())
	require.NoError(t, err)
	sg := &SaveGame{Name: "persisted", SceneID: 7, Data: []byte{9, 9}}
	require.NoError(t, store.SaveGame(ctx, sg))
	require.NoError(t, store.Close())

	store, err = OpenSQLite(ctx, path, quietLogger())
	require.NoError(t, err)
	defer store.Close()

	loaded, err := store.LoadGame(ctx, sg.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, []byte{9, 9}, loaded.Data)
}

func TestSQLiteStore_CancelledContext(t *testing.T) {
	store := setupSQLite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.SaveGame(ctx, &SaveGame{Data: []byte{1}}))
	_, err := store.ListGames(ctx)
	assert.Error(t, err)
}

func TestMockStore_PingError(t *testing.T) {
	store := NewMockStore()
	store.SetPingError(assert.AnError)
	assert.ErrorIs(t, store.Ping(context.Background()), assert.AnError)
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (x);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a (x);\n", extractUpMigration(content))
	assert.Equal(t, "CREATE TABLE b (y);", extractUpMigration("CREATE TABLE b (y);"))
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), " ", nil)
	assert.Error(t, err)
}
