package action

import (
	"bytes"

	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// MaxTextBoxChars bounds the text payload of a TextBoxWrite record.
const MaxTextBoxChars = 10000

// TextBoxWrite adds a line of text to the textbox.
type TextBoxWrite struct {
	Base
	Text string
}

func (r *TextBoxWrite) ReadData(rd *stream.Reader) {
	n := int(rd.Uint16())
	raw := rd.BoundedBytes("textbox text", n, MaxTextBoxChars)
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	r.Text = string(raw)
}

func (r *TextBoxWrite) Sync(s *stream.Serializer) { s.SyncString(&r.Text) }

func (r *TextBoxWrite) Execute(ctx *Context, _ ExecState) Transition {
	ctx.State.AddTextLine(r.Text)
	return r.finish()
}

// TextBoxClear empties the textbox.
type TextBoxClear struct {
	Base
}

func (r *TextBoxClear) ReadData(rd *stream.Reader) { rd.Skip(1) }
func (r *TextBoxClear) Sync(*stream.Serializer)    {}

func (r *TextBoxClear) Execute(ctx *Context, _ ExecState) Transition {
	ctx.State.ClearTextbox()
	return r.finish()
}

// MainRendering turns drawing of the scene background on or off.
type MainRendering struct {
	Base
	enable bool
}

func (r *MainRendering) ReadData(rd *stream.Reader) { rd.Skip(1) }
func (r *MainRendering) Sync(*stream.Serializer)    {}

func (r *MainRendering) Execute(ctx *Context, _ ExecState) Transition {
	ctx.State.SetMainRendering(r.enable)
	return r.finish()
}

// ResetAndStartTimer restarts the scene timer from zero.
type ResetAndStartTimer struct {
	Base
}

func (r *ResetAndStartTimer) ReadData(rd *stream.Reader) { rd.Skip(1) }
func (r *ResetAndStartTimer) Sync(*stream.Serializer)    {}

func (r *ResetAndStartTimer) Execute(ctx *Context, _ ExecState) Transition {
	ctx.State.ResetAndStartTimer()
	return r.finish()
}

// StopTimer stops the scene timer.
type StopTimer struct {
	Base
}

func (r *StopTimer) ReadData(rd *stream.Reader) { rd.Skip(1) }
func (r *StopTimer) Sync(*stream.Serializer)    {}

func (r *StopTimer) Execute(ctx *Context, _ ExecState) Transition {
	ctx.State.StopTimer()
	return r.finish()
}

// EventFlags applies up to ten flag changes as soon as it runs.
type EventFlags struct {
	Base
	Flags MultiEventFlag
}

func (r *EventFlags) ReadData(rd *stream.Reader) { r.Flags.ReadData(rd) }
func (r *EventFlags) Sync(s *stream.Serializer)  { syncData(s, &r.Flags) }

func (r *EventFlags) Execute(ctx *Context, _ ExecState) Transition {
	r.Flags.Execute(ctx.State)
	return r.finish()
}

// EventFlagsMultiHS applies its flag changes when a hotspot is clicked.
type EventFlagsMultiHS struct {
	Base
	Flags    MultiEventFlag
	Hotspots []Hotspot
}

func (r *EventFlagsMultiHS) ReadData(rd *stream.Reader) {
	r.Flags.ReadData(rd)
	r.Hotspots = readHotspots(rd)
}

func (r *EventFlagsMultiHS) Sync(s *stream.Serializer) {
	syncData(s, &r.Flags)
	syncHotspots(s, &r.Hotspots)
}

func (r *EventFlagsMultiHS) Execute(ctx *Context, state ExecState) Transition {
	switch state {
	case StateBegin:
		return fallTo(StateRun)
	case StateRun:
		scanLastMatch(&r.Base, r.Hotspots, ctx.State.SceneInfo().FrameID)
		return yield(StateRun)
	default:
		r.clearHotspot()
		r.Flags.Execute(ctx.State)
		return r.finish()
	}
}

// LoseGame ends the session and returns to the main menu.
type LoseGame struct {
	Base
}

func (r *LoseGame) ReadData(rd *stream.Reader) { rd.Skip(1) }
func (r *LoseGame) Sync(*stream.Serializer)    {}

// Execute stops scene audio, switches mode, then resets the session. The
// order is part of the contract.
func (r *LoseGame) Execute(ctx *Context, _ ExecState) Transition {
	ctx.Audio.StopAndUnloadSceneSounds()
	ctx.State.SetMode(ModeMainMenu, ModeNone)
	ctx.State.ResetStateToInit()
	return r.finish()
}

// WinGame ends the session, rolls the credits, then returns to the main menu.
type WinGame struct {
	Base
}

func (r *WinGame) ReadData(rd *stream.Reader) { rd.Skip(1) }
func (r *WinGame) Sync(*stream.Serializer)    {}

func (r *WinGame) Execute(ctx *Context, _ ExecState) Transition {
	ctx.Audio.StopAndUnloadSceneSounds()
	ctx.State.SetMode(ModeCredits, ModeMainMenu)
	ctx.State.ResetStateToInit()
	return r.finish()
}

// DifficultyLevel sets the difficulty and an accompanying flag.
type DifficultyLevel struct {
	Base
	Difficulty uint16
	Flag       EventFlag
}

func (r *DifficultyLevel) ReadData(rd *stream.Reader) {
	r.Difficulty = rd.Uint16()
	r.Flag.ReadData(rd)
}

func (r *DifficultyLevel) Sync(s *stream.Serializer) {
	s.SyncUint16(&r.Difficulty)
	syncData(s, &r.Flag)
}

func (r *DifficultyLevel) Execute(ctx *Context, _ ExecState) Transition {
	ctx.State.SetDifficulty(r.Difficulty)
	ctx.State.SetEventFlag(r.Flag)
	return r.finish()
}
