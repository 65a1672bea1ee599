// Package resource opens game assets from a directory or any fs.FS: scene
// data files, the hint resource and the hint table.
package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jwebster45206/scene-engine/pkg/action"
	"github.com/jwebster45206/scene-engine/pkg/stream"
)

const (
	DefaultHintResource = "game.exe"
	DefaultHintTable    = "hints.json"
)

// ErrSceneNotFound is returned when a scene has no data file.
var ErrSceneNotFound = errors.New("scene not found")

// SceneFilename returns the data file name of scene id.
func SceneFilename(id uint16) string {
	return fmt.Sprintf("S%d.bin", id)
}

// HintTableFile is the JSON layout of the hint table.
type HintTableFile struct {
	Hints []action.Hint `json:"hints"`
}

// Assets implements action.HintProvider over fsys.
type Assets struct {
	fsys         fs.FS
	hintResource string
	hintTable    string
	logger       *slog.Logger

	once  sync.Once
	hints []action.Hint
}

var _ action.HintProvider = (*Assets)(nil)

// NewAssets serves assets from fsys. Empty names select the defaults.
func NewAssets(fsys fs.FS, hintResource, hintTable string, logger *slog.Logger) *Assets {
	if hintResource == "" {
		hintResource = DefaultHintResource
	}
	if hintTable == "" {
		hintTable = DefaultHintTable
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assets{
		fsys:         fsys,
		hintResource: hintResource,
		hintTable:    hintTable,
		logger:       logger,
	}
}

// NewDirAssets serves assets from a directory on disk.
func NewDirAssets(dir, hintResource, hintTable string, logger *slog.Logger) *Assets {
	if dir == "" {
		dir = "./data"
	}
	return NewAssets(os.DirFS(dir), hintResource, hintTable, logger)
}

// SceneData returns the raw data file of scene id.
func (a *Assets) SceneData(id uint16) ([]byte, error) {
	name := SceneFilename(id)
	data, err := fs.ReadFile(a.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, name)
		}
		return nil, fmt.Errorf("failed to read scene file %s: %w", name, err)
	}
	return data, nil
}

// ListScenes returns the ids of every scene data file, ascending.
func (a *Assets) ListScenes() ([]uint16, error) {
	entries, err := fs.ReadDir(a.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}
	var ids []uint16
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "S") || !strings.HasSuffix(name, ".bin") {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSuffix(name[1:], ".bin"), 10, 16)
		if err != nil {
			continue
		}
		ids = append(ids, uint16(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// LoadHintTable reads and validates the hint table.
func (a *Assets) LoadHintTable() ([]action.Hint, error) {
	data, err := fs.ReadFile(a.fsys, a.hintTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read hint table: %w", err)
	}
	var file HintTableFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse hint table %s: %w", a.hintTable, err)
	}
	for i, h := range file.Hints {
		if err := h.Validate(); err != nil {
			return nil, fmt.Errorf("hint table entry %d: %w", i, err)
		}
	}
	return file.Hints, nil
}

// HintTable returns the hint table, loading it on first use. A missing or
// invalid table yields an empty one, so every hint falls back to hint 0.
func (a *Assets) HintTable() []action.Hint {
	a.once.Do(func() {
		hints, err := a.LoadHintTable()
		if err != nil {
			a.logger.Warn("Hint table unavailable", "file", a.hintTable, "error", err)
			return
		}
		a.hints = hints
		a.logger.Debug("Hint table loaded", "entries", len(hints))
	})
	return a.hints
}

type readSeekNopCloser struct {
	io.ReadSeeker
}

func (readSeekNopCloser) Close() error { return nil }

// OpenHintResource opens the resource holding hint text and voice lines.
func (a *Assets) OpenHintResource() (io.ReadSeekCloser, error) {
	f, err := a.fsys.Open(a.hintResource)
	if err != nil {
		return nil, fmt.Errorf("failed to open hint resource: %w", err)
	}
	if rsc, ok := f.(io.ReadSeekCloser); ok {
		return rsc, nil
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read hint resource: %w", err)
	}
	return readSeekNopCloser{bytes.NewReader(data)}, nil
}

// EncodeScene builds a scene data file from already encoded records, each
// holding its [type][payload] bytes.
func EncodeScene(records [][]byte) ([]byte, error) {
	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	if len(records) > 0xFFFF {
		return nil, fmt.Errorf("too many records: %d", len(records))
	}
	w.Uint16(uint16(len(records)))
	for _, rec := range records {
		w.Bytes(rec)
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
