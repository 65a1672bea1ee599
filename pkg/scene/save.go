package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jwebster45206/scene-engine/pkg/sound"
	"github.com/jwebster45206/scene-engine/pkg/state"
	"github.com/jwebster45206/scene-engine/pkg/stream"
)

const (
	saveMagic   = "SESV"
	SaveVersion = 2

	// Saves from this version on carry the scene sounds.
	soundsVersion = 2
)

// ErrUnsupportedVersion is returned for saves written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported save version")

// Save writes the session and the live records to w.
func (s *Scene) Save(w io.Writer) error {
	ser := stream.NewSaver(w)
	ser.SyncMagic(saveMagic)
	version := uint16(SaveVersion)
	ser.SyncUint16(&version)
	if err := s.State.Sync(ser); err != nil {
		return err
	}
	voices := s.Audio.SceneVoices()
	if err := sound.SyncVoices(ser, &voices); err != nil {
		return err
	}
	if err := s.Manager.Synchronize(ser); err != nil {
		return fmt.Errorf("failed to save action records: %w", err)
	}
	return ser.Err()
}

// SaveBytes is Save into a byte slice.
func (s *Scene) SaveBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load restores a save written by Save. On failure the running session is
// left untouched.
func (s *Scene) Load(r io.ReadSeeker) error {
	ser := stream.NewLoader(r)
	ser.SyncMagic(saveMagic)
	var version uint16
	ser.SyncUint16(&version)
	if err := ser.Err(); err != nil {
		return fmt.Errorf("failed to read save header: %w", err)
	}
	if version > SaveVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	restored := state.NewGameState(s.State.Textbox.Width)
	if err := restored.Sync(ser); err != nil {
		return err
	}
	var voices []sound.Voice
	if version >= soundsVersion {
		if err := sound.SyncVoices(ser, &voices); err != nil {
			return err
		}
	}
	// The records commit on success, so they are read last.
	if err := s.Manager.Synchronize(ser); err != nil {
		return fmt.Errorf("failed to load action records: %w", err)
	}

	restored.ID = s.State.ID
	restored.Viewport = s.State.Viewport
	*s.State = *restored

	// Records register their overlays again on their next step.
	s.Overlays.Reset()
	s.Audio.RestoreSceneVoices(voices)
	s.logger.Info("Save loaded",
		"scene", s.State.Scene.SceneID,
		"records", s.Manager.Len(),
		"sounds", len(voices),
		"version", version)
	return nil
}

// LoadBytes is Load from a byte slice.
func (s *Scene) LoadBytes(data []byte) error {
	return s.Load(bytes.NewReader(data))
}
