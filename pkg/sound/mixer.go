// Package sound simulates the audio device one frame at a time. A playing
// sound lasts a fixed number of frames per loop, which keeps playback
// deterministic for tests and the console.
package sound

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/jwebster45206/scene-engine/pkg/action"
	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// DefaultFramesPerLoop is how long one loop of a sound lasts.
const DefaultFramesPerLoop = 30

// Voice is a loaded sound and its playback position.
type Voice struct {
	Sound     action.Sound
	Playing   bool
	Remaining int  // Frames left, unused while Forever is set
	Forever   bool // Loops of 0 repeat until stopped
	System    bool // Kept across scene changes
}

// Mixer implements action.Audio. Sounds are addressed by channel.
type Mixer struct {
	framesPerLoop int
	voices        map[uint16]*Voice
	system        map[uint16]action.Sound
	logger        *slog.Logger
}

var _ action.Audio = (*Mixer)(nil)

// NewMixer returns a mixer where one loop lasts framesPerLoop frames.
func NewMixer(framesPerLoop int, logger *slog.Logger) *Mixer {
	if framesPerLoop <= 0 {
		framesPerLoop = DefaultFramesPerLoop
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mixer{
		framesPerLoop: framesPerLoop,
		voices:        make(map[uint16]*Voice),
		system:        make(map[uint16]action.Sound),
		logger:        logger,
	}
}

// LoadSystemSound loads a sound that survives StopAndUnloadSceneSounds, such
// as the inventory pickup sound.
func (m *Mixer) LoadSystemSound(s action.Sound) {
	m.system[s.Channel] = s
	m.voices[s.Channel] = &Voice{Sound: s, System: true}
}

func (m *Mixer) LoadSound(s action.Sound) {
	if v, ok := m.voices[s.Channel]; ok && v.Playing {
		m.logger.Debug("Replacing playing sound", "channel", s.Channel, "old", v.Sound.Name, "new", s.Name)
	}
	m.voices[s.Channel] = &Voice{Sound: s}
}

func (m *Mixer) PlaySound(s action.Sound) {
	v, ok := m.voices[s.Channel]
	if !ok {
		m.logger.Warn("Playing sound that was not loaded", "channel", s.Channel, "name", s.Name)
		v = &Voice{Sound: s}
		m.voices[s.Channel] = v
	}
	m.start(v)
}

// PlayChannel plays whatever is loaded on channel.
func (m *Mixer) PlayChannel(channel uint16) {
	v, ok := m.voices[channel]
	if !ok {
		m.logger.Warn("No sound loaded on channel", "channel", channel)
		return
	}
	m.start(v)
}

func (m *Mixer) start(v *Voice) {
	v.Playing = true
	v.Forever = v.Sound.Loops == 0
	v.Remaining = int(v.Sound.Loops) * m.framesPerLoop
	m.logger.Debug("Sound started", "channel", v.Sound.Channel, "name", v.Sound.Name, "loops", v.Sound.Loops)
}

func (m *Mixer) StopSound(s action.Sound) {
	if v, ok := m.voices[s.Channel]; ok {
		v.Playing = false
		v.Remaining = 0
	}
}

func (m *Mixer) IsSoundPlaying(s action.Sound) bool {
	v, ok := m.voices[s.Channel]
	return ok && v.Playing
}

// StopAndUnloadSceneSounds drops every sound except system sounds. A system
// sound that a scene sound replaced on its channel is loaded again.
func (m *Mixer) StopAndUnloadSceneSounds() {
	for ch, v := range m.voices {
		if v.System {
			v.Playing = false
			continue
		}
		delete(m.voices, ch)
	}
	for ch, s := range m.system {
		if _, ok := m.voices[ch]; !ok {
			m.voices[ch] = &Voice{Sound: s, System: true}
		}
	}
}

// Advance moves playback forward one frame.
func (m *Mixer) Advance() {
	for _, v := range m.voices {
		if !v.Playing || v.Forever {
			continue
		}
		v.Remaining--
		if v.Remaining <= 0 {
			v.Playing = false
			v.Remaining = 0
		}
	}
}

// Voices returns the loaded voices ordered by channel.
func (m *Mixer) Voices() []Voice {
	channels := make([]uint16, 0, len(m.voices))
	for ch := range m.voices {
		channels = append(channels, ch)
	}
	slices.Sort(channels)
	out := make([]Voice, 0, len(channels))
	for _, ch := range channels {
		out = append(out, *m.voices[ch])
	}
	return out
}

// SceneVoices returns the loaded scene voices ordered by channel.
func (m *Mixer) SceneVoices() []Voice {
	var out []Voice
	for _, v := range m.Voices() {
		if !v.System {
			out = append(out, v)
		}
	}
	return out
}

// RestoreSceneVoices unloads the scene sounds and installs voices with their
// playback position.
func (m *Mixer) RestoreSceneVoices(voices []Voice) {
	m.StopAndUnloadSceneSounds()
	for _, v := range voices {
		v.System = false
		m.voices[v.Sound.Channel] = &v
	}
	m.logger.Debug("Restored scene sounds", "count", len(voices))
}

// SyncVoices saves or restores a list of voices. Loading fills voices only
// when the whole list decodes.
func SyncVoices(s *stream.Serializer, voices *[]Voice) error {
	count := uint16(len(*voices))
	s.SyncUint16(&count)

	list := *voices
	if s.IsLoading() {
		list = make([]Voice, count)
	}
	for i := range list {
		syncVoice(s, &list[i])
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("failed to sync sounds: %w", err)
	}
	if s.IsLoading() {
		*voices = list
	}
	return nil
}

func syncVoice(s *stream.Serializer, v *Voice) {
	s.SyncString(&v.Sound.Name)
	s.SyncUint16(&v.Sound.Channel)
	s.SyncUint16(&v.Sound.Loops)
	s.SyncUint16(&v.Sound.Volume)
	variant := uint8(v.Sound.Variant)
	s.SyncByte(&variant)
	v.Sound.Variant = action.SoundVariant(variant)
	s.SyncBool(&v.Playing)
	s.SyncInt(&v.Remaining)
	s.SyncBool(&v.Forever)
}
