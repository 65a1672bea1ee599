package action

import (
	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// SceneChangeRecord moves to another scene as soon as it runs.
type SceneChangeRecord struct {
	Base
	Change SceneChange
}

func (r *SceneChangeRecord) ReadData(rd *stream.Reader) { r.Change.ReadData(rd) }
func (r *SceneChangeRecord) Sync(s *stream.Serializer)  { syncData(s, &r.Change) }

func (r *SceneChangeRecord) Execute(ctx *Context, _ ExecState) Transition {
	ctx.State.ChangeScene(r.Change)
	return r.finish()
}

// HotMultiframeSceneChange changes scene when one of its hotspots is clicked.
type HotMultiframeSceneChange struct {
	Base
	Change   SceneChange
	Hotspots []Hotspot
}

func (r *HotMultiframeSceneChange) ReadData(rd *stream.Reader) {
	r.Change.ReadData(rd)
	r.Hotspots = readHotspots(rd)
}

func (r *HotMultiframeSceneChange) Sync(s *stream.Serializer) {
	syncData(s, &r.Change)
	syncHotspots(s, &r.Hotspots)
}

func (r *HotMultiframeSceneChange) Execute(ctx *Context, state ExecState) Transition {
	switch state {
	case StateBegin:
		return fallTo(StateRun)
	case StateRun:
		scanLastMatch(&r.Base, r.Hotspots, ctx.State.SceneInfo().FrameID)
		return yield(StateRun)
	default:
		ctx.State.ChangeScene(r.Change)
		return r.finish()
	}
}

// Hot1FrSceneChange changes scene when its single-frame hotspot is clicked.
type Hot1FrSceneChange struct {
	Base
	Change SceneChange
	Spot   Hotspot
}

func (r *Hot1FrSceneChange) ReadData(rd *stream.Reader) {
	r.Change.ReadData(rd)
	r.Spot.ReadData(rd)
}

func (r *Hot1FrSceneChange) Sync(s *stream.Serializer) {
	syncData(s, &r.Change)
	syncData(s, &r.Spot)
}

func (r *Hot1FrSceneChange) Execute(ctx *Context, state ExecState) Transition {
	switch state {
	case StateBegin:
		r.hotspot = r.Spot.Coords
		return fallTo(StateRun)
	case StateRun:
		r.hasHotspot = r.Spot.FrameID == ctx.State.SceneInfo().FrameID
		return yield(StateRun)
	default:
		ctx.State.ChangeScene(r.Change)
		return r.finish()
	}
}

// PushScene remembers the current scene on the scene stack.
type PushScene struct {
	Base
}

func (r *PushScene) ReadData(rd *stream.Reader) { rd.Skip(1) }
func (r *PushScene) Sync(*stream.Serializer)    {}

func (r *PushScene) Execute(ctx *Context, _ ExecState) Transition {
	ctx.State.PushScene()
	return r.finish()
}

// PopScene returns to the scene on top of the scene stack.
type PopScene struct {
	Base
}

func (r *PopScene) ReadData(rd *stream.Reader) { rd.Skip(1) }
func (r *PopScene) Sync(*stream.Serializer)    {}

func (r *PopScene) Execute(ctx *Context, _ ExecState) Transition {
	ctx.State.PopScene()
	return r.finish()
}

// HotMultiframeMultisceneChange layout: 0x14 bytes of header, then a
// counted list of 0x12-byte entries.
const (
	multisceneHeaderSize = 0x14
	multisceneEntrySize  = 0x12
)

// HotMultiframeMultisceneChange is decoded so the stream stays aligned; the
// engine does not act on it.
type HotMultiframeMultisceneChange struct {
	Base
	Payload []byte
}

func (r *HotMultiframeMultisceneChange) ReadData(rd *stream.Reader) {
	head := rd.Bytes(multisceneHeaderSize)
	n := rd.Uint16()
	body := rd.Bytes(int(n) * multisceneEntrySize)
	if rd.Err() != nil {
		return
	}
	r.Payload = make([]byte, 0, len(head)+2+len(body))
	r.Payload = append(r.Payload, head...)
	r.Payload = append(r.Payload, byte(n), byte(n>>8))
	r.Payload = append(r.Payload, body...)
}

func (r *HotMultiframeMultisceneChange) Sync(s *stream.Serializer) { s.SyncBlob(&r.Payload) }

func (r *HotMultiframeMultisceneChange) Execute(ctx *Context, _ ExecState) Transition {
	ctx.logger().Debug("Record has no runtime behaviour", "type", r.Type().String())
	return r.finish()
}

// opaque holds the raw payload of record types that only need decoding.
type opaque struct {
	Base
	size    int
	Payload []byte
}

func newOpaque(size int) *opaque {
	return &opaque{size: size}
}

func (r *opaque) ReadData(rd *stream.Reader) { r.Payload = rd.Bytes(r.size) }
func (r *opaque) Sync(s *stream.Serializer)  { s.SyncBlob(&r.Payload) }

func (r *opaque) Execute(ctx *Context, _ ExecState) Transition {
	ctx.logger().Debug("Record has no runtime behaviour", "type", r.Type().String())
	return r.finish()
}

// syncHotspots saves or restores a counted hotspot list.
func syncHotspots(s *stream.Serializer, hotspots *[]Hotspot) {
	if s.IsLoading() {
		*hotspots = readHotspots(s.Reader())
		return
	}
	writeHotspots(s.Writer(), *hotspots)
}

func syncBitmaps(s *stream.Serializer, bitmaps *[]Bitmap) {
	if s.IsLoading() {
		*bitmaps = readBitmaps(s.Reader())
		return
	}
	writeBitmaps(s.Writer(), *bitmaps)
}
