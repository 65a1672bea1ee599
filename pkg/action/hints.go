package action

import (
	"fmt"
	"io"

	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// Hint resource layout. Each character owns a block of fixed-stride entries
// in the hint resource; an entry holds one text and one sound per difficulty.
const (
	HintEntrySize      = 0x288
	HintDifficulties   = 3
	HintTextSize       = 200
	hintHeaderSize     = 4 // hintID, hintWeight
	hintSoundsOffset   = hintHeaderSize
	hintTextsOffset    = hintSoundsOffset + HintDifficulties*stream.FilenameSize
	hintSceneOffset    = hintTextsOffset + HintDifficulties*HintTextSize
	MaxFlagConditions  = 4
	MaxInventoryChecks = 2
)

// characterHintOffsets are the start of each character's hint block in the
// shipped executable, indexed by character id.
var characterHintOffsets = [...]int64{0xBB8A4, 0xBC0D4, 0xBC904}

// HintOffset returns the resource offset of a character's hint entry.
func HintOffset(characterID uint8, hint uint16) (int64, bool) {
	if int(characterID) >= len(characterHintOffsets) {
		return 0, false
	}
	return characterHintOffsets[characterID] + int64(hint)*HintEntrySize, true
}

// Hint is one entry of the hint selection table. Condition lists end at the
// first entry labelled -1 or at the end of the slice.
type Hint struct {
	CharacterID         uint8       `json:"character_id"`
	HintID              uint16      `json:"hint_id"`
	FlagConditions      []EventFlag `json:"flag_conditions"`
	InventoryConditions []EventFlag `json:"inventory_conditions"`
}

// Validate checks the condition list bounds.
func (h Hint) Validate() error {
	if len(h.FlagConditions) > MaxFlagConditions {
		return fmt.Errorf("hint %d has %d flag conditions, max %d", h.HintID, len(h.FlagConditions), MaxFlagConditions)
	}
	if len(h.InventoryConditions) > MaxInventoryChecks {
		return fmt.Errorf("hint %d has %d inventory conditions, max %d", h.HintID, len(h.InventoryConditions), MaxInventoryChecks)
	}
	return nil
}

// Satisfied reports whether every condition before the terminator holds.
func (h Hint) Satisfied(gs GameState) bool {
	for _, f := range h.FlagConditions {
		if f.Unused() {
			break
		}
		if !gs.EventFlag(f.Label, f.Flag) {
			return false
		}
	}
	for _, inv := range h.InventoryConditions {
		if inv.Unused() {
			break
		}
		if gs.HasItem(uint16(inv.Label)) != inv.Flag {
			return false
		}
	}
	return true
}

// SelectHint returns the id of the first entry for characterID whose
// conditions hold, or 0 when none does.
func SelectHint(table []Hint, characterID uint8, gs GameState) uint16 {
	for _, h := range table {
		if h.CharacterID != characterID {
			continue
		}
		if h.Satisfied(gs) {
			return h.HintID
		}
	}
	return 0
}

// HintSystem shows the hint that fits the player's progress, plays its
// voice line, then charges the hint.
type HintSystem struct {
	Base
	CharacterID uint8
	Sound       Sound

	HintID     int16
	HintWeight int16
	Text       string
	Change     SceneChange
}

func newHintSystem() *HintSystem {
	return &HintSystem{Sound: Sound{Variant: SoundNormal}}
}

func (r *HintSystem) ReadData(rd *stream.Reader) {
	r.CharacterID = rd.Byte()
	r.Sound.ReadData(rd)
}

func (r *HintSystem) Sync(s *stream.Serializer) {
	s.SyncByte(&r.CharacterID)
	syncData(s, &r.Sound)
	s.SyncInt16(&r.HintID)
	s.SyncInt16(&r.HintWeight)
	s.SyncString(&r.Text)
	syncData(s, &r.Change)
}

func (r *HintSystem) Execute(ctx *Context, state ExecState) Transition {
	switch state {
	case StateBegin:
		hint := uint16(0)
		if ctx.State.HintsRemaining() > 0 && ctx.Hints != nil {
			hint = SelectHint(ctx.Hints.HintTable(), r.CharacterID, ctx.State)
		}
		r.loadHint(ctx, hint, ctx.State.Difficulty())

		ctx.State.ClearTextbox()
		ctx.State.AddTextLine(r.Text)
		ctx.Audio.LoadSound(r.Sound)
		ctx.Audio.PlaySound(r.Sound)
		return yield(StateRun)
	case StateRun:
		if ctx.Audio.IsSoundPlaying(r.Sound) {
			return yield(StateRun)
		}
		ctx.Audio.StopSound(r.Sound)
		return fallTo(StateActionTrigger)
	default:
		ctx.State.UseHint(r.HintID, r.HintWeight)
		ctx.State.ClearTextbox()
		if !r.Change.IsNone() {
			ctx.State.ChangeScene(r.Change)
		}
		return r.finish()
	}
}

// loadHint fills the runtime fields from the hint resource. On failure the
// record falls back to an empty hint with no scene change.
func (r *HintSystem) loadHint(ctx *Context, hint uint16, difficulty uint16) {
	if err := r.readHint(ctx, hint, difficulty); err != nil {
		ctx.logger().Warn("Falling back to empty hint",
			"character", r.CharacterID,
			"hint", hint,
			"error", err)
		r.HintID = 0
		r.HintWeight = 0
		r.Text = ""
		r.Change = SceneChange{SceneID: NoSceneChange}
	}
}

func (r *HintSystem) readHint(ctx *Context, hint uint16, difficulty uint16) error {
	offset, ok := HintOffset(r.CharacterID, hint)
	if !ok {
		return fmt.Errorf("no hint block for character %d", r.CharacterID)
	}
	if ctx.Hints == nil {
		return fmt.Errorf("no hint provider")
	}
	if difficulty >= HintDifficulties {
		difficulty = HintDifficulties - 1
	}

	f, err := ctx.Hints.OpenHintResource()
	if err != nil {
		return fmt.Errorf("failed to open hint resource: %w", err)
	}
	defer f.Close()

	rd := stream.NewReader(f)
	rd.Seek(offset, io.SeekStart)
	id := rd.Int16()
	weight := rd.Int16()

	rd.Seek(offset+hintSoundsOffset+int64(difficulty)*stream.FilenameSize, io.SeekStart)
	sound := rd.Filename()

	rd.Seek(offset+hintTextsOffset+int64(difficulty)*HintTextSize, io.SeekStart)
	text := rd.CString(HintTextSize)

	rd.Seek(offset+hintSceneOffset, io.SeekStart)
	var change SceneChange
	change.ReadData(rd)
	if err := rd.Err(); err != nil {
		return fmt.Errorf("failed to read hint %d: %w", hint, err)
	}

	r.HintID = id
	r.HintWeight = weight
	r.Sound.Name = sound
	r.Text = text
	r.Change = change
	return nil
}
