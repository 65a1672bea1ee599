package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeFormat has fixed width so created_at sorts as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps save games in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ SaveStore = (*SQLiteStore)(nil)

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrationFS, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("SQLite save store opened", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

// Close closes the underlying database. It is safe on a nil store.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) SaveGame(ctx context.Context, sg *SaveGame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := prepare(sg); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO save_games (id, name, scene_id, created_at, data)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    name = excluded.name,
    scene_id = excluded.scene_id,
    created_at = excluded.created_at,
    data = excluded.data`,
		sg.ID.String(), sg.Name, int64(sg.SceneID), sg.CreatedAt.UTC().Format(timeFormat), sg.Data)
	if err != nil {
		s.logger.Error("Failed to save game", "uuid", sg.ID, "error", err)
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadGame(ctx context.Context, id uuid.UUID) (*SaveGame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, scene_id, created_at, data FROM save_games WHERE id = ?`, id.String())
	sg, err := scanSaveGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("Save game not found", "uuid", id)
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to load save game", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load save game: %w", err)
	}
	return sg, nil
}

// ListGames returns every save, newest first.
func (s *SQLiteStore) ListGames(ctx context.Context) ([]SaveGame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, scene_id, created_at, data FROM save_games ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list save games: %w", err)
	}
	defer rows.Close()

	var games []SaveGame
	for rows.Next() {
		sg, err := scanSaveGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to list save games: %w", err)
		}
		games = append(games, *sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list save games: %w", err)
	}
	return games, nil
}

func (s *SQLiteStore) DeleteGame(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM save_games WHERE id = ?`, id.String()); err != nil {
		s.logger.Error("Failed to delete save game", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete save game: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSaveGame(row scanner) (*SaveGame, error) {
	var (
		rawID     string
		sceneID   int64
		createdAt string
		sg        SaveGame
	)
	if err := row.Scan(&rawID, &sg.Name, &sceneID, &createdAt, &sg.Data); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse save id %q: %w", rawID, err)
	}
	ts, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	sg.ID = id
	sg.SceneID = uint16(sceneID)
	sg.CreatedAt = ts
	return &sg, nil
}
