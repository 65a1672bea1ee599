package action

import (
	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// Inventory pickups draw above the scene and everything but the UI.
const (
	inventoryItemZOrder  = 5
	inventoryPickupSound = 24
	noFrameDrawn         = -1
)

// AddInventoryNoHS gives the player an item without any interaction.
type AddInventoryNoHS struct {
	Base
	ItemID uint16
}

func (r *AddInventoryNoHS) ReadData(rd *stream.Reader) { r.ItemID = rd.Uint16() }
func (r *AddInventoryNoHS) Sync(s *stream.Serializer)  { s.SyncUint16(&r.ItemID) }

// Execute adds the item only when it is not already held.
func (r *AddInventoryNoHS) Execute(ctx *Context, _ ExecState) Transition {
	if ctx.State.HasItem(r.ItemID) == FlagFalse {
		ctx.State.AddItem(r.ItemID)
	}
	return r.finish()
}

// RemoveInventoryNoHS takes an item away from the player.
type RemoveInventoryNoHS struct {
	Base
	ItemID uint16
}

func (r *RemoveInventoryNoHS) ReadData(rd *stream.Reader) { r.ItemID = rd.Uint16() }
func (r *RemoveInventoryNoHS) Sync(s *stream.Serializer)  { s.SyncUint16(&r.ItemID) }

func (r *RemoveInventoryNoHS) Execute(ctx *Context, _ ExecState) Transition {
	if ctx.State.HasItem(r.ItemID) == FlagTrue {
		ctx.State.RemoveItem(r.ItemID)
	}
	return r.finish()
}

// ShowInventoryItem draws an item in the scene; clicking it picks it up.
type ShowInventoryItem struct {
	Base
	ItemID  uint16
	Image   string
	Bitmaps []Bitmap

	drawnFrame int
	overlay    *Overlay
}

func (r *ShowInventoryItem) ReadData(rd *stream.Reader) {
	r.ItemID = rd.Uint16()
	r.Image = rd.Filename()
	r.Bitmaps = readBitmaps(rd)
}

func (r *ShowInventoryItem) Sync(s *stream.Serializer) {
	s.SyncUint16(&r.ItemID)
	s.SyncString(&r.Image)
	syncBitmaps(s, &r.Bitmaps)
	s.SyncInt(&r.drawnFrame)
}

// Overlay returns the registered overlay, nil before the record has begun.
func (r *ShowInventoryItem) Overlay() *Overlay {
	return r.overlay
}

// ensureRegistered creates and registers the overlay once per lifetime of
// the in-memory record. A restored record registers again on its next step.
func (r *ShowInventoryItem) ensureRegistered(ctx *Context) {
	if r.overlay != nil {
		return
	}
	r.overlay = &Overlay{Image: r.Image, ZOrder: inventoryItemZOrder}
	if len(r.Bitmaps) > 0 {
		r.overlay.Src = r.Bitmaps[0].Src
	}
	ctx.Graphics.Register(r.overlay)
	r.drawnFrame = noFrameDrawn
}

func (r *ShowInventoryItem) Execute(ctx *Context, state ExecState) Transition {
	switch state {
	case StateBegin:
		r.ensureRegistered(ctx)
		return fallTo(StateRun)
	case StateRun:
		r.ensureRegistered(ctx)
		frameID := ctx.State.SceneInfo().FrameID
		newFrame := noFrameDrawn
		for i, bm := range r.Bitmaps {
			if bm.FrameID == frameID {
				newFrame = i
				break
			}
		}
		if newFrame != r.drawnFrame {
			r.drawnFrame = newFrame
			if newFrame != noFrameDrawn {
				bm := r.Bitmaps[newFrame]
				r.setHotspot(bm.Dest)
				r.overlay.Src = bm.Src
				r.overlay.Dest = bm.Dest
				ctx.Graphics.SetVisible(r.overlay, true)
			} else {
				r.clearHotspot()
				ctx.Graphics.SetVisible(r.overlay, false)
			}
		}
		return yield(StateRun)
	default:
		ctx.Audio.PlayChannel(inventoryPickupSound)
		ctx.State.AddItem(r.ItemID)
		if r.overlay != nil {
			ctx.Graphics.SetVisible(r.overlay, false)
		}
		r.clearHotspot()
		return r.finish()
	}
}

// OnPause registers the overlay again when the game resumes.
func (r *ShowInventoryItem) OnPause(ctx *Context, paused bool) {
	if paused || r.overlay == nil {
		return
	}
	ctx.Graphics.Register(r.overlay)
}
