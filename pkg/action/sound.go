package action

import (
	"fmt"

	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// SoundVariant selects one of the four sound layouts found in scene data.
type SoundVariant uint8

const (
	SoundNormal SoundVariant = iota
	SoundMenu
	SoundDIGI
	SoundScene
)

func (v SoundVariant) String() string {
	switch v {
	case SoundNormal:
		return "normal"
	case SoundMenu:
		return "menu"
	case SoundDIGI:
		return "digi"
	case SoundScene:
		return "scene"
	default:
		return fmt.Sprintf("sound_variant(%d)", uint8(v))
	}
}

// soundLayout lists the reserved byte runs around each field of a variant.
type soundLayout struct {
	preChannel  int
	postChannel int
	postLoops   int
	postVolume  int
}

// Observed layouts. Sizes including the 10-byte name: normal 34, menu 32,
// digi 22, scene 36.
var soundLayouts = map[SoundVariant]soundLayout{
	SoundNormal: {postChannel: 8, postLoops: 4, postVolume: 6},
	SoundMenu:   {postChannel: 6, postLoops: 4, postVolume: 6},
	SoundDIGI:   {postVolume: 6},
	SoundScene:  {preChannel: 4, postChannel: 6, postLoops: 4, postVolume: 6},
}

// SoundSize returns the encoded size of a sound descriptor of variant v.
func SoundSize(v SoundVariant) int {
	l := soundLayouts[v]
	return stream.FilenameSize + l.preChannel + 2 + l.postChannel + 2 + l.postLoops + 2 + l.postVolume
}

// Sound describes a single sound. The channel doubles as the sound handle.
type Sound struct {
	Name    string
	Channel uint16
	Loops   uint16
	Volume  uint16
	Variant SoundVariant
}

// ReadData decodes the layout selected by s.Variant.
func (s *Sound) ReadData(r *stream.Reader) {
	l := soundLayouts[s.Variant]
	s.Name = r.Filename()
	r.Skip(int64(l.preChannel))
	s.Channel = r.Uint16()
	r.Skip(int64(l.postChannel))
	s.Loops = r.Uint16()
	r.Skip(int64(l.postLoops))
	s.Volume = r.Uint16()
	r.Skip(int64(l.postVolume))
}

func (s *Sound) WriteData(w *stream.Writer) {
	l := soundLayouts[s.Variant]
	w.Filename(s.Name)
	w.Zeros(l.preChannel)
	w.Uint16(s.Channel)
	w.Zeros(l.postChannel)
	w.Uint16(s.Loops)
	w.Zeros(l.postLoops)
	w.Uint16(s.Volume)
	w.Zeros(l.postVolume)
}
