package action

import (
	"io"
	"log/slog"
)

// GameMode is the top-level engine state a record can request.
type GameMode uint8

const (
	ModeNone GameMode = iota
	ModeScene
	ModeMap
	ModeMainMenu
	ModeCredits
)

func (m GameMode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeScene:
		return "scene"
	case ModeMap:
		return "map"
	case ModeMainMenu:
		return "main_menu"
	case ModeCredits:
		return "credits"
	default:
		return "unknown"
	}
}

// SceneInfo is the scene and frame currently displayed.
type SceneInfo struct {
	SceneID        uint16
	FrameID        uint16
	VerticalOffset uint16
}

// GameState is the mutable session state records read and change.
type GameState interface {
	SceneInfo() SceneInfo
	// ChangeScene requests a transition. It is applied by the frame pump,
	// never during the current pass.
	ChangeScene(sc SceneChange)
	PushScene()
	PopScene()

	// RequestMode asks for a temporary mode such as the map.
	RequestMode(mode GameMode)
	// SetMode switches mode, then to next when that one finishes.
	SetMode(mode, next GameMode)
	ResetStateToInit()

	HasItem(id uint16) Flag
	AddItem(id uint16)
	RemoveItem(id uint16)

	EventFlag(label int16, want Flag) bool
	SetEventFlag(f EventFlag)

	ResetAndStartTimer()
	StopTimer()

	HintsRemaining() int
	UseHint(hintID, weight int16)
	Difficulty() uint16
	SetDifficulty(d uint16)

	ClearTextbox()
	AddTextLine(text string)
	SetMainRendering(enabled bool)

	// ViewportToScreen converts viewport coordinates, accounting for scroll.
	ViewportToScreen(rc Rect) Rect
}

// Audio loads and plays sounds. Sounds are addressed by their channel.
type Audio interface {
	LoadSound(s Sound)
	PlaySound(s Sound)
	PlayChannel(channel uint16)
	StopSound(s Sound)
	IsSoundPlaying(s Sound) bool
	StopAndUnloadSceneSounds()
}

// Overlay is a renderable image a record places over the scene.
type Overlay struct {
	Image   string
	Src     Rect
	Dest    Rect
	ZOrder  uint16
	Visible bool
}

// Renderer keeps track of overlays drawn above the scene.
type Renderer interface {
	Register(o *Overlay)
	SetVisible(o *Overlay, visible bool)
}

// HintProvider supplies the hint selection table and the resource holding
// hint text.
type HintProvider interface {
	HintTable() []Hint
	OpenHintResource() (io.ReadSeekCloser, error)
}

// Context bundles the collaborators a record works against during a step.
type Context struct {
	State    GameState
	Audio    Audio
	Graphics Renderer
	Hints    HintProvider
	Logger   *slog.Logger
}

func (c *Context) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Buttons is a bitmask of pointer edge events for one frame.
type Buttons uint8

const (
	LeftMouseButtonDown Buttons = 1 << iota
	LeftMouseButtonUp
	RightMouseButtonDown
	RightMouseButtonUp
)

// Input is the pointer state for one frame.
type Input struct {
	MousePos Point
	Buttons  Buttons
	// OverHotspot is set by the manager when the pointer rests on a hotspot.
	OverHotspot bool
}
