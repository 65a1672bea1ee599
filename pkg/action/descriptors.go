package action

import (
	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// Byte sizes of the fixed sub-structures as they appear in scene data.
const (
	RectSize        = 16
	SceneChangeSize = 8
	EventFlagSize   = 4
	HotspotSize     = 2 + RectSize
	BitmapSize      = 2 + 2*RectSize
	MultiFlagCount  = 10
	MultiFlagSize   = MultiFlagCount * EventFlagSize
)

// NoSceneChange is the scene id that marks a scene change descriptor as unused.
const NoSceneChange uint16 = 9999

// NoLabel terminates flag and inventory condition lists.
const NoLabel int16 = -1

// codec is implemented by every descriptor with a scene data layout.
type codec interface {
	ReadData(r *stream.Reader)
	WriteData(w *stream.Writer)
}

// syncData saves or restores a descriptor using its scene data layout, which
// keeps save blobs and scene payloads byte-compatible.
func syncData(s *stream.Serializer, c codec) {
	if s.IsLoading() {
		c.ReadData(s.Reader())
		return
	}
	c.WriteData(s.Writer())
}

// Point is a screen or viewport position.
type Point struct {
	X, Y int32
}

// Rect is a half-open rectangle: Left and Top are inside, Right and Bottom are not.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// Contains reports whether p lies inside the rectangle.
func (rc Rect) Contains(p Point) bool {
	return p.X >= rc.Left && p.X < rc.Right && p.Y >= rc.Top && p.Y < rc.Bottom
}

// Translate moves the rectangle by dx, dy.
func (rc Rect) Translate(dx, dy int32) Rect {
	return Rect{Left: rc.Left + dx, Top: rc.Top + dy, Right: rc.Right + dx, Bottom: rc.Bottom + dy}
}

func (rc *Rect) ReadData(r *stream.Reader) {
	rc.Left = r.Int32()
	rc.Top = r.Int32()
	rc.Right = r.Int32()
	rc.Bottom = r.Int32()
}

func (rc *Rect) WriteData(w *stream.Writer) {
	w.Int32(rc.Left)
	w.Int32(rc.Top)
	w.Int32(rc.Right)
	w.Int32(rc.Bottom)
}

// Flag is the two-valued boolean used throughout the game data.
type Flag uint8

const (
	FlagFalse Flag = 1
	FlagTrue  Flag = 2
)

// FlagOf converts a bool.
func FlagOf(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

// Bool reports whether the flag is FlagTrue. Any other value reads as false.
func (f Flag) Bool() bool {
	return f == FlagTrue
}

// SceneChange describes a scene transition.
type SceneChange struct {
	SceneID         uint16
	FrameID         uint16
	VerticalOffset  uint16
	DoNotStartSound bool
}

// IsNone reports whether the descriptor requests no transition.
func (sc SceneChange) IsNone() bool {
	return sc.SceneID == NoSceneChange
}

func (sc *SceneChange) ReadData(r *stream.Reader) {
	sc.SceneID = r.Uint16()
	sc.FrameID = r.Uint16()
	sc.VerticalOffset = r.Uint16()
	sc.DoNotStartSound = r.Uint16() != 0
}

func (sc *SceneChange) WriteData(w *stream.Writer) {
	w.Uint16(sc.SceneID)
	w.Uint16(sc.FrameID)
	w.Uint16(sc.VerticalOffset)
	var doNotStart uint16
	if sc.DoNotStartSound {
		doNotStart = 1
	}
	w.Uint16(doNotStart)
}

// EventFlag is a single event flag change or comparison.
type EventFlag struct {
	Label int16 `json:"label"`
	Flag  Flag  `json:"flag"`
}

// Unused reports whether the slot holds no flag.
func (ef EventFlag) Unused() bool {
	return ef.Label == NoLabel
}

// ReadData reads the common layout with a 16-bit flag value.
func (ef *EventFlag) ReadData(r *stream.Reader) {
	ef.Label = r.Int16()
	ef.Flag = Flag(r.Uint16())
}

func (ef *EventFlag) WriteData(w *stream.Writer) {
	w.Int16(ef.Label)
	w.Uint16(uint16(ef.Flag))
}

// readShortData reads the sound-record layout, where the value is one byte.
func (ef *EventFlag) readShortData(r *stream.Reader) {
	ef.Label = r.Int16()
	ef.Flag = Flag(r.Byte())
}

func (ef *EventFlag) writeShortData(w *stream.Writer) {
	w.Int16(ef.Label)
	w.Byte(uint8(ef.Flag))
}

// MultiEventFlag holds ten flag changes applied together when a record triggers.
type MultiEventFlag struct {
	Flags [MultiFlagCount]EventFlag
}

func (m *MultiEventFlag) ReadData(r *stream.Reader) {
	for i := range m.Flags {
		m.Flags[i].ReadData(r)
	}
}

func (m *MultiEventFlag) WriteData(w *stream.Writer) {
	for i := range m.Flags {
		m.Flags[i].WriteData(w)
	}
}

// Execute applies every used slot in order.
func (m *MultiEventFlag) Execute(gs GameState) {
	for _, f := range m.Flags {
		if f.Unused() {
			continue
		}
		gs.SetEventFlag(f)
	}
}

// Hotspot is a clickable rectangle tied to one frame of the current scene.
type Hotspot struct {
	FrameID uint16
	Coords  Rect
}

func (h *Hotspot) ReadData(r *stream.Reader) {
	h.FrameID = r.Uint16()
	h.Coords.ReadData(r)
}

func (h *Hotspot) WriteData(w *stream.Writer) {
	w.Uint16(h.FrameID)
	h.Coords.WriteData(w)
}

// Bitmap is a single bitmap draw tied to one frame.
type Bitmap struct {
	FrameID uint16
	Src     Rect
	Dest    Rect
}

func (b *Bitmap) ReadData(r *stream.Reader) {
	b.FrameID = r.Uint16()
	b.Src.ReadData(r)
	b.Dest.ReadData(r)
}

func (b *Bitmap) WriteData(w *stream.Writer) {
	w.Uint16(b.FrameID)
	b.Src.WriteData(w)
	b.Dest.WriteData(w)
}

// readHotspots reads a 16-bit count followed by that many hotspots.
func readHotspots(r *stream.Reader) []Hotspot {
	n := int(r.Uint16())
	if r.Err() != nil {
		return nil
	}
	out := make([]Hotspot, n)
	for i := range out {
		out[i].ReadData(r)
	}
	return out
}

func writeHotspots(w *stream.Writer, hotspots []Hotspot) {
	w.Uint16(uint16(len(hotspots)))
	for i := range hotspots {
		hotspots[i].WriteData(w)
	}
}

func readBitmaps(r *stream.Reader) []Bitmap {
	n := int(r.Uint16())
	if r.Err() != nil {
		return nil
	}
	out := make([]Bitmap, n)
	for i := range out {
		out[i].ReadData(r)
	}
	return out
}

func writeBitmaps(w *stream.Writer, bitmaps []Bitmap) {
	w.Uint16(uint16(len(bitmaps)))
	for i := range bitmaps {
		bitmaps[i].WriteData(w)
	}
}

// scanLastMatch updates the base hotspot from hotspots. Every entry for the
// current frame overwrites the previous one, so the last match wins.
func scanLastMatch(b *Base, hotspots []Hotspot, frameID uint16) {
	b.clearHotspot()
	for _, h := range hotspots {
		if h.FrameID == frameID {
			b.setHotspot(h.Coords)
		}
	}
}

// scanFirstMatch stops at the first entry for the current frame.
func scanFirstMatch(b *Base, hotspots []Hotspot, frameID uint16) {
	b.clearHotspot()
	for _, h := range hotspots {
		if h.FrameID == frameID {
			b.setHotspot(h.Coords)
			return
		}
	}
}
