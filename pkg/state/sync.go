package state

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/jwebster45206/scene-engine/pkg/action"
	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// Sync saves or restores the session. Maps are written in key order so equal
// states produce equal bytes.
func (gs *GameState) Sync(s *stream.Serializer) error {
	syncSceneInfo(s, &gs.Scene)

	stack := uint16(len(gs.SceneStack))
	s.SyncUint16(&stack)
	if s.IsLoading() {
		gs.SceneStack = nil
		if stack > 0 {
			gs.SceneStack = make([]action.SceneInfo, stack)
		}
	}
	for i := range gs.SceneStack {
		syncSceneInfo(s, &gs.SceneStack[i])
	}

	hasPending := gs.Pending != nil
	s.SyncBool(&hasPending)
	if hasPending {
		if s.IsLoading() {
			gs.Pending = &action.SceneChange{}
			gs.Pending.ReadData(s.Reader())
		} else {
			gs.Pending.WriteData(s.Writer())
		}
	} else if s.IsLoading() {
		gs.Pending = nil
	}

	syncMode(s, &gs.Mode)
	syncMode(s, &gs.NextMode)
	syncMode(s, &gs.Requested)
	s.SyncUint16(&gs.Level)
	for i := range gs.Hints {
		s.SyncInt(&gs.Hints[i])
	}
	s.SyncInt16(&gs.LastHint)

	s.SyncBool(&gs.Timer.Running)
	elapsed := uint32(gs.Timer.Elapsed / time.Millisecond)
	s.SyncUint32(&elapsed)
	gs.Timer.Elapsed = time.Duration(elapsed) * time.Millisecond

	s.SyncBool(&gs.Rendering)

	gs.syncInventory(s)
	gs.syncFlags(s)
	gs.Textbox.Sync(s)

	if err := s.Err(); err != nil {
		return fmt.Errorf("failed to sync game state: %w", err)
	}
	return nil
}

func syncSceneInfo(s *stream.Serializer, si *action.SceneInfo) {
	s.SyncUint16(&si.SceneID)
	s.SyncUint16(&si.FrameID)
	s.SyncUint16(&si.VerticalOffset)
}

func syncMode(s *stream.Serializer, m *action.GameMode) {
	v := uint8(*m)
	s.SyncByte(&v)
	*m = action.GameMode(v)
}

func (gs *GameState) syncInventory(s *stream.Serializer) {
	items := gs.Items()
	n := uint16(len(items))
	s.SyncUint16(&n)
	if s.IsLoading() {
		gs.Inventory = make(map[uint16]bool, n)
		for i := 0; i < int(n); i++ {
			var id uint16
			s.SyncUint16(&id)
			gs.Inventory[id] = true
		}
		return
	}
	for _, id := range items {
		s.SyncUint16(&id)
	}
}

func (gs *GameState) syncFlags(s *stream.Serializer) {
	labels := slices.Sorted(maps.Keys(gs.Flags))
	n := uint16(len(labels))
	s.SyncUint16(&n)
	if s.IsLoading() {
		gs.Flags = make(map[int16]action.Flag, n)
		for i := 0; i < int(n); i++ {
			var label int16
			var v uint8
			s.SyncInt16(&label)
			s.SyncByte(&v)
			gs.Flags[label] = action.Flag(v)
		}
		return
	}
	for _, label := range labels {
		v := uint8(gs.Flags[label])
		s.SyncInt16(&label)
		s.SyncByte(&v)
	}
}
