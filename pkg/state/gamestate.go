package state

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/scene-engine/pkg/action"
)

// Difficulties is the number of difficulty levels, each with its own hint count.
const Difficulties = 3

// DefaultHints is the hint allowance per difficulty for a new session.
var DefaultHints = [Difficulties]int{3, 2, 1}

// Timer is the scene timer started and stopped by records.
type Timer struct {
	Running bool          `json:"running"`
	Elapsed time.Duration `json:"elapsed"`
}

// GameState is the current state of one play session. It implements
// action.GameState.
type GameState struct {
	ID         uuid.UUID           `json:"id"`                    // Unique ID per session
	Scene      action.SceneInfo    `json:"scene"`                 // Scene and frame on screen
	Pending    *action.SceneChange `json:"pending,omitempty"`     // Applied by the frame pump
	SceneStack []action.SceneInfo  `json:"scene_stack,omitempty"` // Pushed by PushScene records

	Mode      action.GameMode `json:"mode"`
	NextMode  action.GameMode `json:"next_mode"`
	Requested action.GameMode `json:"requested"` // Temporary mode such as the map

	Inventory map[uint16]bool       `json:"inventory,omitempty"`
	Flags     map[int16]action.Flag `json:"flags,omitempty"`
	Timer     Timer                 `json:"timer"`
	Hints     [Difficulties]int     `json:"hints"`
	LastHint  int16                 `json:"last_hint"`
	Level     uint16                `json:"difficulty"`
	Rendering bool                  `json:"main_rendering"`
	Viewport  action.Point          `json:"viewport"` // Screen position of the viewport origin
	Textbox   *Textbox              `json:"textbox"`
}

var _ action.GameState = (*GameState)(nil)

// NewGameState returns a session at its initial state. textboxWidth is the
// wrap width of the textbox; zero disables wrapping.
func NewGameState(textboxWidth int) *GameState {
	gs := &GameState{
		ID:      uuid.New(),
		Mode:    action.ModeScene,
		Textbox: NewTextbox(textboxWidth),
	}
	gs.resetSession()
	return gs
}

func (gs *GameState) resetSession() {
	gs.Pending = nil
	gs.SceneStack = nil
	gs.Requested = action.ModeNone
	gs.Inventory = make(map[uint16]bool)
	gs.Flags = make(map[int16]action.Flag)
	gs.Timer = Timer{}
	gs.Hints = DefaultHints
	gs.LastHint = -1
	gs.Level = 0
	gs.Rendering = true
	gs.Textbox.Clear()
}

func (gs *GameState) SceneInfo() action.SceneInfo {
	return gs.Scene
}

// ChangeScene queues a transition. Descriptors marked as no change are ignored.
func (gs *GameState) ChangeScene(sc action.SceneChange) {
	if sc.IsNone() {
		return
	}
	gs.Pending = &sc
}

// TakePendingChange returns and clears the queued transition.
func (gs *GameState) TakePendingChange() (action.SceneChange, bool) {
	if gs.Pending == nil {
		return action.SceneChange{}, false
	}
	sc := *gs.Pending
	gs.Pending = nil
	return sc, true
}

// EnterScene makes sc the displayed scene.
func (gs *GameState) EnterScene(sc action.SceneChange) {
	gs.Scene = action.SceneInfo{
		SceneID:        sc.SceneID,
		FrameID:        sc.FrameID,
		VerticalOffset: sc.VerticalOffset,
	}
}

// SetFrame changes the displayed frame of the current scene.
func (gs *GameState) SetFrame(frameID uint16) {
	gs.Scene.FrameID = frameID
}

func (gs *GameState) PushScene() {
	gs.SceneStack = append(gs.SceneStack, gs.Scene)
}

// PopScene returns to the most recently pushed scene. An empty stack is a no-op.
func (gs *GameState) PopScene() {
	if len(gs.SceneStack) == 0 {
		return
	}
	top := gs.SceneStack[len(gs.SceneStack)-1]
	gs.SceneStack = gs.SceneStack[:len(gs.SceneStack)-1]
	gs.ChangeScene(action.SceneChange{
		SceneID:        top.SceneID,
		FrameID:        top.FrameID,
		VerticalOffset: top.VerticalOffset,
	})
}

func (gs *GameState) RequestMode(mode action.GameMode) {
	gs.Requested = mode
}

// TakeRequestedMode returns and clears the temporary mode request.
func (gs *GameState) TakeRequestedMode() action.GameMode {
	m := gs.Requested
	gs.Requested = action.ModeNone
	return m
}

func (gs *GameState) SetMode(mode, next action.GameMode) {
	gs.Mode = mode
	gs.NextMode = next
}

// ResetStateToInit restores the session to its initial condition. The
// displayed scene and the mode are kept.
func (gs *GameState) ResetStateToInit() {
	gs.resetSession()
}

func (gs *GameState) HasItem(id uint16) action.Flag {
	return action.FlagOf(gs.Inventory[id])
}

func (gs *GameState) AddItem(id uint16) {
	gs.Inventory[id] = true
}

func (gs *GameState) RemoveItem(id uint16) {
	delete(gs.Inventory, id)
}

// Items returns the held item ids in ascending order.
func (gs *GameState) Items() []uint16 {
	return slices.Sorted(maps.Keys(gs.Inventory))
}

// EventFlag reports whether label currently has value want. Flags never set
// read as false.
func (gs *GameState) EventFlag(label int16, want action.Flag) bool {
	if label < 0 {
		return false
	}
	got, ok := gs.Flags[label]
	if !ok {
		got = action.FlagFalse
	}
	return got == want
}

func (gs *GameState) SetEventFlag(f action.EventFlag) {
	if f.Unused() || f.Label < 0 {
		return
	}
	gs.Flags[f.Label] = f.Flag
}

func (gs *GameState) ResetAndStartTimer() {
	gs.Timer = Timer{Running: true}
}

func (gs *GameState) StopTimer() {
	gs.Timer.Running = false
}

// Tick advances the timer by d when it is running.
func (gs *GameState) Tick(d time.Duration) {
	if gs.Timer.Running {
		gs.Timer.Elapsed += d
	}
}

func (gs *GameState) difficultyIndex() int {
	if int(gs.Level) >= Difficulties {
		return Difficulties - 1
	}
	return int(gs.Level)
}

func (gs *GameState) HintsRemaining() int {
	return gs.Hints[gs.difficultyIndex()]
}

// UseHint charges weight against the current difficulty's allowance, once
// per distinct hint.
func (gs *GameState) UseHint(hintID, weight int16) {
	if hintID == gs.LastHint {
		return
	}
	gs.LastHint = hintID
	i := gs.difficultyIndex()
	gs.Hints[i] += int(weight)
	if gs.Hints[i] < 0 {
		gs.Hints[i] = 0
	}
}

func (gs *GameState) Difficulty() uint16 {
	return gs.Level
}

func (gs *GameState) SetDifficulty(d uint16) {
	gs.Level = d
}

func (gs *GameState) ClearTextbox() {
	gs.Textbox.Clear()
}

func (gs *GameState) AddTextLine(text string) {
	gs.Textbox.AddLine(text)
}

func (gs *GameState) SetMainRendering(enabled bool) {
	gs.Rendering = enabled
}

// ViewportToScreen converts a viewport rectangle to screen space using the
// viewport origin and the current vertical scroll.
func (gs *GameState) ViewportToScreen(rc action.Rect) action.Rect {
	return rc.Translate(gs.Viewport.X, gs.Viewport.Y-int32(gs.Scene.VerticalOffset))
}
