package resource

import (
	"errors"
	"io"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/scene-engine/pkg/action"
)

const hintTableJSON = `{
  "hints": [
    {
      "character_id": 0,
      "hint_id": 4,
      "flag_conditions": [{"label": 3, "flag": 2}, {"label": -1, "flag": 1}],
      "inventory_conditions": []
    },
    {"character_id": 0, "hint_id": 6}
  ]
}`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"S10.bin":    {Data: []byte{0, 0}},
		"S2.bin":     {Data: []byte{0, 0}},
		"Sfoo.bin":   {Data: []byte{}},
		"notes.txt":  {Data: []byte("x")},
		"hints.json": {Data: []byte(hintTableJSON)},
		"game.exe":   {Data: []byte("HINTDATA")},
	}
}

func TestAssets_SceneData(t *testing.T) {
	a := NewAssets(testFS(), "", "", nil)

	data, err := a.SceneData(10)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, data)

	_, err = a.SceneData(11)
	assert.True(t, errors.Is(err, ErrSceneNotFound))
}

func TestAssets_ListScenes(t *testing.T) {
	ids, err := NewAssets(testFS(), "", "", nil).ListScenes()
	require.NoError(t, err)
	assert.Equal(t, []uint16{2, 10}, ids)
}

func TestAssets_HintTable(t *testing.T) {
	hints := NewAssets(testFS(), "", "", nil).HintTable()
	require.Len(t, hints, 2)
	assert.Equal(t, uint16(4), hints[0].HintID)
	assert.Equal(t, []action.EventFlag{{Label: 3, Flag: action.FlagTrue}, {Label: -1, Flag: action.FlagFalse}}, hints[0].FlagConditions)
}

func TestAssets_HintTableInvalid(t *testing.T) {
	fsys := testFS()
	fsys["hints.json"] = &fstest.MapFile{Data: []byte(`{"hints":[{"flag_conditions":[{},{},{},{},{}]}]}`)}
	a := NewAssets(fsys, "", "", nil)

	_, err := a.LoadHintTable()
	assert.Error(t, err)
	assert.Empty(t, a.HintTable())
}

func TestAssets_OpenHintResource(t *testing.T) {
	a := NewAssets(testFS(), "", "", nil)
	f, err := a.OpenHintResource()
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Seek(4, io.SeekStart)
	require.NoError(t, err)
	rest, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "DATA", string(rest))

	_, err = NewAssets(testFS(), "missing.exe", "", nil).OpenHintResource()
	assert.Error(t, err)
}

func TestEncodeScene(t *testing.T) {
	data, err := EncodeScene([][]byte{{10, 0, 1, 2}, {61, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0, 10, 0, 1, 2, 61, 0, 0}, data)
}
