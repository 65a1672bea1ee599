// Package render keeps the list of overlays drawn above the scene.
package render

import (
	"slices"

	"github.com/jwebster45206/scene-engine/pkg/action"
)

// Layer is one entry of a frame's draw list.
type Layer struct {
	Image  string
	Src    action.Rect
	Dest   action.Rect
	ZOrder uint16
}

// Registry implements action.Renderer.
type Registry struct {
	overlays []*action.Overlay
}

var _ action.Renderer = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds o once. Registering the same overlay again is a no-op.
func (r *Registry) Register(o *action.Overlay) {
	if slices.Contains(r.overlays, o) {
		return
	}
	r.overlays = append(r.overlays, o)
}

func (r *Registry) SetVisible(o *action.Overlay, visible bool) {
	o.Visible = visible
}

// Reset forgets every overlay, used when the scene changes.
func (r *Registry) Reset() {
	r.overlays = nil
}

// Len returns the number of registered overlays.
func (r *Registry) Len() int {
	return len(r.overlays)
}

// DrawList returns what a frame draws, back to front. The background comes
// first when main rendering is on; visible overlays follow in z order,
// registration order breaking ties.
func (r *Registry) DrawList(background string, mainRendering bool) []Layer {
	var out []Layer
	if mainRendering && background != "" {
		out = append(out, Layer{Image: background})
	}
	visible := make([]*action.Overlay, 0, len(r.overlays))
	for _, o := range r.overlays {
		if o.Visible {
			visible = append(visible, o)
		}
	}
	slices.SortStableFunc(visible, func(a, b *action.Overlay) int {
		return int(a.ZOrder) - int(b.ZOrder)
	})
	for _, o := range visible {
		out = append(out, Layer{Image: o.Image, Src: o.Src, Dest: o.Dest, ZOrder: o.ZOrder})
	}
	return out
}
