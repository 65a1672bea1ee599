package action

import (
	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// MapCall opens the map. Map calls are Repeating: the record stays in the
// scene and can be used again after the player returns.
type MapCall struct {
	Base
}

func (r *MapCall) ReadData(rd *stream.Reader) {
	rd.Skip(1)
	r.execType = Repeating
}

func (r *MapCall) Sync(*stream.Serializer) {}

func (r *MapCall) Execute(ctx *Context, _ ExecState) Transition {
	return callMap(ctx, &r.Base)
}

func callMap(ctx *Context, b *Base) Transition {
	b.execType = Repeating
	ctx.State.RequestMode(ModeMap)
	return b.finish()
}

// MapCallHot1Fr opens the map when its single-frame hotspot is clicked.
type MapCallHot1Fr struct {
	Base
	Spot Hotspot
}

func (r *MapCallHot1Fr) ReadData(rd *stream.Reader) {
	r.Spot.ReadData(rd)
	r.execType = Repeating
}

func (r *MapCallHot1Fr) Sync(s *stream.Serializer) { syncData(s, &r.Spot) }

func (r *MapCallHot1Fr) Execute(ctx *Context, state ExecState) Transition {
	switch state {
	case StateBegin:
		r.hotspot = r.Spot.Coords
		return fallTo(StateRun)
	case StateRun:
		r.hasHotspot = r.Spot.FrameID == ctx.State.SceneInfo().FrameID
		return yield(StateRun)
	default:
		return callMap(ctx, &r.Base)
	}
}

// MapCallHotMultiframe opens the map when one of its hotspots is clicked.
type MapCallHotMultiframe struct {
	Base
	Hotspots []Hotspot
}

func (r *MapCallHotMultiframe) ReadData(rd *stream.Reader) {
	r.Hotspots = readHotspots(rd)
	r.execType = Repeating
}

func (r *MapCallHotMultiframe) Sync(s *stream.Serializer) { syncHotspots(s, &r.Hotspots) }

func (r *MapCallHotMultiframe) Execute(ctx *Context, state ExecState) Transition {
	switch state {
	case StateBegin:
		return fallTo(StateRun)
	case StateRun:
		scanLastMatch(&r.Base, r.Hotspots, ctx.State.SceneInfo().FrameID)
		return yield(StateRun)
	default:
		return callMap(ctx, &r.Base)
	}
}
