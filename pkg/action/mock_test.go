package action

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// callLog records collaborator calls in order across every fake.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type fakeState struct {
	log *callLog

	info       SceneInfo
	changes    []SceneChange
	items      map[uint16]bool
	flags      map[int16]Flag
	hints      int
	difficulty uint16
	text       []string
	rendering  bool
	scroll     int32
}

func newFakeState(log *callLog) *fakeState {
	return &fakeState{
		log:   log,
		items: map[uint16]bool{},
		flags: map[int16]Flag{},
		hints: 3,
	}
}

func (s *fakeState) SceneInfo() SceneInfo { return s.info }

func (s *fakeState) ChangeScene(sc SceneChange) {
	s.log.add("ChangeScene(%d)", sc.SceneID)
	s.changes = append(s.changes, sc)
}

func (s *fakeState) PushScene() { s.log.add("PushScene") }
func (s *fakeState) PopScene()  { s.log.add("PopScene") }

func (s *fakeState) RequestMode(mode GameMode) { s.log.add("RequestMode(%s)", mode) }

func (s *fakeState) SetMode(mode, next GameMode) { s.log.add("SetMode(%s,%s)", mode, next) }

func (s *fakeState) ResetStateToInit() { s.log.add("ResetStateToInit") }

func (s *fakeState) HasItem(id uint16) Flag { return FlagOf(s.items[id]) }

func (s *fakeState) AddItem(id uint16) {
	s.log.add("AddItem(%d)", id)
	s.items[id] = true
}

func (s *fakeState) RemoveItem(id uint16) {
	s.log.add("RemoveItem(%d)", id)
	delete(s.items, id)
}

func (s *fakeState) EventFlag(label int16, want Flag) bool {
	got, ok := s.flags[label]
	if !ok {
		got = FlagFalse
	}
	return got == want
}

func (s *fakeState) SetEventFlag(f EventFlag) {
	if f.Unused() {
		return
	}
	s.log.add("SetEventFlag(%d,%d)", f.Label, f.Flag)
	s.flags[f.Label] = f.Flag
}

func (s *fakeState) ResetAndStartTimer() { s.log.add("ResetAndStartTimer") }
func (s *fakeState) StopTimer()          { s.log.add("StopTimer") }

func (s *fakeState) HintsRemaining() int { return s.hints }

func (s *fakeState) UseHint(hintID, weight int16) {
	s.log.add("UseHint(%d,%d)", hintID, weight)
}

func (s *fakeState) Difficulty() uint16     { return s.difficulty }
func (s *fakeState) SetDifficulty(d uint16) { s.difficulty = d }

func (s *fakeState) ClearTextbox() {
	s.log.add("ClearTextbox")
	s.text = nil
}

func (s *fakeState) AddTextLine(text string) {
	s.log.add("AddTextLine(%s)", text)
	s.text = append(s.text, text)
}

func (s *fakeState) SetMainRendering(enabled bool) { s.rendering = enabled }

func (s *fakeState) ViewportToScreen(rc Rect) Rect { return rc.Translate(0, -s.scroll) }

// fakeAudio reports a sound as playing for playFrames IsSoundPlaying polls.
type fakeAudio struct {
	log        *callLog
	playFrames int
	remaining  map[uint16]int
}

func (a *fakeAudio) LoadSound(s Sound) { a.log.add("LoadSound(%s)", s.Name) }

func (a *fakeAudio) PlaySound(s Sound) {
	a.log.add("PlaySound(%s)", s.Name)
	if a.remaining == nil {
		a.remaining = map[uint16]int{}
	}
	a.remaining[s.Channel] = a.playFrames
}

func (a *fakeAudio) PlayChannel(channel uint16) { a.log.add("PlayChannel(%d)", channel) }
func (a *fakeAudio) StopSound(s Sound)          { a.log.add("StopSound(%s)", s.Name) }

func (a *fakeAudio) IsSoundPlaying(s Sound) bool {
	if a.remaining[s.Channel] <= 0 {
		return false
	}
	a.remaining[s.Channel]--
	return true
}

func (a *fakeAudio) StopAndUnloadSceneSounds() { a.log.add("StopAndUnloadSceneSounds") }

type fakeRenderer struct {
	registered []*Overlay
}

func (r *fakeRenderer) Register(o *Overlay) { r.registered = append(r.registered, o) }

func (r *fakeRenderer) SetVisible(o *Overlay, visible bool) { o.Visible = visible }

type fakeHints struct {
	table    []Hint
	resource []byte
}

func (h *fakeHints) HintTable() []Hint { return h.table }

func (h *fakeHints) OpenHintResource() (io.ReadSeekCloser, error) {
	if h.resource == nil {
		return nil, fmt.Errorf("hint resource missing")
	}
	return nopCloser{bytes.NewReader(h.resource)}, nil
}

type nopCloser struct {
	io.ReadSeeker
}

func (nopCloser) Close() error { return nil }

type fixture struct {
	log      *callLog
	state    *fakeState
	audio    *fakeAudio
	graphics *fakeRenderer
	hints    *fakeHints
	ctx      *Context
	mgr      *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := &callLog{}
	f := &fixture{
		log:      log,
		state:    newFakeState(log),
		audio:    &fakeAudio{log: log},
		graphics: &fakeRenderer{},
		hints:    &fakeHints{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.ctx = &Context{
		State:    f.state,
		Audio:    f.audio,
		Graphics: f.graphics,
		Hints:    f.hints,
		Logger:   logger,
	}
	f.mgr = NewManager(logger)
	return f
}

// frame runs one input phase followed by one processing pass.
func (f *fixture) frame(in Input) Input {
	f.mgr.HandleInput(f.ctx, &in)
	f.mgr.ProcessActionRecords(f.ctx)
	return in
}

// encode builds a [type][payload] record using write for the payload.
func encode(tag Type, write func(w *stream.Writer)) []byte {
	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	w.Uint16(uint16(tag))
	if write != nil {
		write(w)
	}
	return buf.Bytes()
}

// mustAdd decodes data into the fixture's manager.
func (f *fixture) mustAdd(t *testing.T, data []byte) Record {
	t.Helper()
	rec, err := f.mgr.AddNewActionRecord(stream.NewBytesReader(data))
	if err != nil {
		t.Fatalf("AddNewActionRecord: %v", err)
	}
	return rec
}

func clickAt(x, y int32) Input {
	return Input{MousePos: Point{X: x, Y: y}, Buttons: LeftMouseButtonUp}
}
