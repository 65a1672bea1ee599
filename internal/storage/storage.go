// Package storage persists save games. A save game is the opaque byte
// stream written by scene.Save plus a little metadata for listing.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SaveGame is one stored save slot.
type SaveGame struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SceneID   uint16    `json:"scene_id"`
	CreatedAt time.Time `json:"created_at"`
	Data      []byte    `json:"data"`
}

// SaveStore is implemented by every save backend. LoadGame returns nil, nil
// when id does not exist.
type SaveStore interface {
	Ping(ctx context.Context) error
	Close() error

	SaveGame(ctx context.Context, sg *SaveGame) error
	LoadGame(ctx context.Context, id uuid.UUID) (*SaveGame, error)
	ListGames(ctx context.Context) ([]SaveGame, error)
	DeleteGame(ctx context.Context, id uuid.UUID) error
}

var errNilSave = errors.New("save game cannot be nil")

// prepare validates sg and fills in the id and timestamp when unset.
func prepare(sg *SaveGame) error {
	if sg == nil {
		return errNilSave
	}
	if len(sg.Data) == 0 {
		return errors.New("save game has no data")
	}
	if sg.ID == uuid.Nil {
		sg.ID = uuid.New()
	}
	if sg.CreatedAt.IsZero() {
		sg.CreatedAt = time.Now().UTC()
	}
	return nil
}
