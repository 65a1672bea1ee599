// Package action decodes scene action records and runs them as small state
// machines, one step per frame.
package action

import (
	"fmt"

	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// ExecState is a record's position in its control flow.
type ExecState uint8

const (
	StateBegin ExecState = iota
	StateRun
	StateActionTrigger
)

func (s ExecState) String() string {
	switch s {
	case StateBegin:
		return "begin"
	case StateRun:
		return "run"
	case StateActionTrigger:
		return "action_trigger"
	default:
		return fmt.Sprintf("exec_state(%d)", uint8(s))
	}
}

// ExecType decides what finishing does to a record.
type ExecType uint8

const (
	// RunOnce records are done for good after their trigger.
	RunOnce ExecType = iota
	// Repeating records re-arm at Begin after their trigger.
	Repeating
)

func (t ExecType) String() string {
	if t == Repeating {
		return "repeating"
	}
	return "run_once"
}

// Transition is what a state step returns: the next state, and whether that
// state should run again within the same frame.
type Transition struct {
	Next     ExecState
	Continue bool
}

// yield moves to next and ends the record's turn for this frame.
func yield(next ExecState) Transition {
	return Transition{Next: next}
}

// fallTo moves to next and runs it in the same frame.
func fallTo(next ExecState) Transition {
	return Transition{Next: next, Continue: true}
}

// Record is one scripted action attached to a scene. The set of
// implementations is closed: every record embeds Base.
type Record interface {
	// Type returns the tag the record was created from.
	Type() Type
	// ReadData decodes the type's payload. Errors are reported through r.
	ReadData(r *stream.Reader)
	// Execute runs one state and reports where to go next.
	Execute(ctx *Context, state ExecState) Transition
	// Sync saves or restores the decoded fields and any runtime fields.
	Sync(s *stream.Serializer)

	State() ExecState
	ExecType() ExecType
	IsActive() bool
	IsDone() bool
	HasHotspot() bool
	Hotspot() Rect

	base() *Base
}

// Pauser is implemented by records that hold renderable state.
type Pauser interface {
	OnPause(ctx *Context, paused bool)
}

// Base holds the execution state shared by every record.
type Base struct {
	tag        Type
	state      ExecState
	execType   ExecType
	active     bool
	done       bool
	hasHotspot bool
	hotspot    Rect
}

func (b *Base) base() *Base { return b }

func (b *Base) Type() Type         { return b.tag }
func (b *Base) State() ExecState   { return b.state }
func (b *Base) ExecType() ExecType { return b.execType }
func (b *Base) IsActive() bool     { return b.active }
func (b *Base) IsDone() bool       { return b.done }
func (b *Base) HasHotspot() bool   { return b.hasHotspot }
func (b *Base) Hotspot() Rect      { return b.hotspot }

// setHotspot claims rc for this frame.
func (b *Base) setHotspot(rc Rect) {
	b.hasHotspot = true
	b.hotspot = rc
}

func (b *Base) clearHotspot() {
	b.hasHotspot = false
}

// finish ends the current run. RunOnce records become done and keep their
// trigger state; Repeating records go back to Begin and wait to be
// re-activated.
func (b *Base) finish() Transition {
	b.hasHotspot = false
	switch b.execType {
	case Repeating:
		b.active = false
		b.done = false
		return yield(StateBegin)
	default:
		b.done = true
		return yield(StateActionTrigger)
	}
}

// syncBase saves or restores the execution fields.
func (b *Base) syncBase(s *stream.Serializer) {
	state := uint8(b.state)
	execType := uint8(b.execType)
	s.SyncByte(&state)
	s.SyncByte(&execType)
	s.SyncBool(&b.active)
	s.SyncBool(&b.done)
	s.SyncBool(&b.hasHotspot)
	syncData(s, &b.hotspot)
	b.state = ExecState(state)
	b.execType = ExecType(execType)
}

// maxFallthrough bounds the states one record can visit in a single frame.
const maxFallthrough = 3

// step runs rec for one frame, following same-frame fall-throughs.
func step(ctx *Context, rec Record) {
	b := rec.base()
	for i := 0; i < maxFallthrough; i++ {
		t := rec.Execute(ctx, b.state)
		b.state = t.Next
		if !t.Continue || b.done || !b.active {
			return
		}
	}
}
