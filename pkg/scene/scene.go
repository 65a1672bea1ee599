// Package scene runs the frame pump: it loads the records of the current
// scene, feeds them input, steps them and applies the scene changes they
// request. It also reads and writes save games.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/scene-engine/pkg/action"
	"github.com/jwebster45206/scene-engine/pkg/render"
	"github.com/jwebster45206/scene-engine/pkg/sound"
	"github.com/jwebster45206/scene-engine/pkg/state"
	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// FrameDuration is the wall time one frame represents for the scene timer.
const FrameDuration = time.Second / 15

// PickupSound is the system sound played on channel 24 when an item is taken.
var PickupSound = action.Sound{Name: "PICKUP", Channel: 24, Loops: 1, Volume: 100}

// Source supplies scene data and hints.
type Source interface {
	action.HintProvider
	SceneData(id uint16) ([]byte, error)
}

// Report describes what happened during one frame.
type Report struct {
	Entered     bool            // A new scene was loaded at the start of the frame
	OverHotspot bool            // The pointer rests on a hotspot
	Requested   action.GameMode // Temporary mode asked for by a record, or ModeNone
}

// Scene owns the collaborators of one play session.
type Scene struct {
	State    *state.GameState
	Audio    *sound.Mixer
	Overlays *render.Registry
	Manager  *action.Manager

	source Source
	ctx    *action.Context
	logger *slog.Logger
	paused bool
	frames uint64
}

// New wires a scene pump. The pickup sound is loaded as a system sound.
func New(gs *state.GameState, audio *sound.Mixer, overlays *render.Registry, source Source, logger *slog.Logger) *Scene {
	if logger == nil {
		logger = slog.Default()
	}
	audio.LoadSystemSound(PickupSound)
	s := &Scene{
		State:    gs,
		Audio:    audio,
		Overlays: overlays,
		Manager:  action.NewManager(logger),
		source:   source,
		logger:   logger,
	}
	s.ctx = &action.Context{
		State:    gs,
		Audio:    audio,
		Graphics: overlays,
		Hints:    source,
		Logger:   logger,
	}
	return s
}

// Frames returns the number of frames run so far.
func (s *Scene) Frames() uint64 {
	return s.frames
}

// Start queues the first scene; it loads on the next frame.
func (s *Scene) Start(sceneID, frameID uint16) {
	s.State.ChangeScene(action.SceneChange{SceneID: sceneID, FrameID: frameID})
}

// Frame runs one frame: pending scene change, input, records, then the
// audio clock and the timer. A paused scene does nothing.
func (s *Scene) Frame(in action.Input) (Report, error) {
	var report Report
	if s.paused {
		return report, nil
	}

	if sc, ok := s.State.TakePendingChange(); ok {
		if err := s.enter(sc); err != nil {
			return report, err
		}
		report.Entered = true
	}

	s.Manager.HandleInput(s.ctx, &in)
	report.OverHotspot = in.OverHotspot
	s.Manager.ProcessActionRecords(s.ctx)

	if m := s.State.TakeRequestedMode(); m != action.ModeNone {
		s.logger.Info("Mode requested", "mode", m.String(), "scene", s.State.Scene.SceneID)
		report.Requested = m
	}

	s.Audio.Advance()
	s.State.Tick(FrameDuration)
	s.frames++
	return report, nil
}

// enter loads sc and replaces the current scene with it. When the scene
// cannot be read or decoded the current scene keeps running.
func (s *Scene) enter(sc action.SceneChange) error {
	data, err := s.source.SceneData(sc.SceneID)
	if err != nil {
		return fmt.Errorf("failed to enter scene %d: %w", sc.SceneID, err)
	}
	records, err := s.decodeRecords(data)
	if err != nil {
		return fmt.Errorf("failed to enter scene %d: %w", sc.SceneID, err)
	}

	s.Overlays.Reset()
	s.Audio.StopAndUnloadSceneSounds()
	s.State.EnterScene(sc)
	s.replaceRecords(records)
	s.logger.Info("Entered scene",
		"scene", sc.SceneID,
		"frame", sc.FrameID,
		"records", s.Manager.Len())
	return nil
}

// LoadRecords replaces the manager's records with those of a scene data
// file. A decode error discards the whole scene.
func (s *Scene) LoadRecords(data []byte) error {
	records, err := s.decodeRecords(data)
	s.replaceRecords(records)
	return err
}

// decodeRecords reads the records of a scene data file. An unknown record
// type ends the read early, keeping the records before it, as the data after
// an unknown payload cannot be aligned.
func (s *Scene) decodeRecords(data []byte) ([]action.Record, error) {
	rd := stream.NewBytesReader(data)
	count := rd.Uint16()
	if err := rd.Err(); err != nil {
		return nil, fmt.Errorf("failed to read record count: %w", err)
	}
	scratch := action.NewManager(s.logger)
	for i := 0; i < int(count); i++ {
		_, err := scratch.AddNewActionRecord(rd)
		if errors.Is(err, action.ErrUnknownRecordType) {
			s.logger.Warn("Stopping scene load at unknown record", "index", i, "of", count, "error", err)
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return scratch.Records(), nil
}

func (s *Scene) replaceRecords(records []action.Record) {
	s.Manager.ClearActionRecords()
	for _, rec := range records {
		s.Manager.Add(rec)
	}
}

// Pause stops the pump and tells records about it.
func (s *Scene) Pause(paused bool) {
	if s.paused == paused {
		return
	}
	s.paused = paused
	s.Manager.OnPause(s.ctx, paused)
}

// Paused reports whether the pump is paused.
func (s *Scene) Paused() bool {
	return s.paused
}
