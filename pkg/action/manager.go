package action

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// Manager owns the records of the current scene. Insertion order is the
// execution order, the hit-test priority and the save order.
type Manager struct {
	records []Record
	logger  *slog.Logger
}

// NewManager returns an empty manager logging to logger.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// AddNewActionRecord reads one [type][payload] record from rd and appends it.
// An unknown tag returns an error matching ErrUnknownRecordType and leaves
// rd just past the tag; any decode failure is a *stream.DecodeError.
func (m *Manager) AddNewActionRecord(rd *stream.Reader) (Record, error) {
	offset := rd.Pos()
	tag := Type(rd.Uint16())
	if err := rd.Err(); err != nil {
		return nil, fmt.Errorf("failed to read record type: %w", err)
	}

	rec, err := New(tag)
	if err != nil {
		m.logger.Warn("Unknown action record type", "tag", uint16(tag), "offset", offset)
		return nil, err
	}

	rec.ReadData(rd)
	if err := rd.Err(); err != nil {
		m.logger.Error("Failed to decode action record",
			"type", tag.String(),
			"offset", offset,
			"error", err)
		return nil, fmt.Errorf("failed to decode %s record: %w", tag, err)
	}

	m.Add(rec)
	return rec, nil
}

// Add appends an already decoded record.
func (m *Manager) Add(rec Record) {
	m.records = append(m.records, rec)
	m.logger.Debug("Added action record", "type", rec.Type().String(), "index", len(m.records)-1)
}

// ProcessActionRecords steps every record that is not done, once, in order.
// Records that finish for good are removed after the pass.
func (m *Manager) ProcessActionRecords(ctx *Context) {
	for _, rec := range m.records {
		b := rec.base()
		if b.done {
			continue
		}
		if !b.active {
			b.active = true
		}
		before := b.state
		step(ctx, rec)
		if b.state != before || b.done {
			m.logger.Debug("Action record stepped",
				"type", rec.Type().String(),
				"from", before.String(),
				"to", b.state.String(),
				"done", b.done)
		}
	}
	m.cull()
}

func (m *Manager) cull() {
	kept := m.records[:0]
	for _, rec := range m.records {
		if rec.IsDone() && rec.ExecType() == RunOnce {
			continue
		}
		kept = append(kept, rec)
	}
	for i := len(kept); i < len(m.records); i++ {
		m.records[i] = nil
	}
	m.records = kept
}

// HandleInput hit-tests the pointer against active records with a hotspot.
// The first match in insertion order sets in.OverHotspot and, on a left
// button release, consumes the click and moves to ActionTrigger, so the
// effect runs in the next ProcessActionRecords call.
func (m *Manager) HandleInput(ctx *Context, in *Input) {
	in.OverHotspot = false
	for _, rec := range m.records {
		b := rec.base()
		if !b.active || b.done || !b.hasHotspot {
			continue
		}
		if !ctx.State.ViewportToScreen(b.hotspot).Contains(in.MousePos) {
			continue
		}

		in.OverHotspot = true
		if in.Buttons&LeftMouseButtonUp != 0 {
			in.Buttons &^= LeftMouseButtonUp
			b.state = StateActionTrigger
			m.logger.Debug("Action record clicked", "type", rec.Type().String())
		}
		return
	}
}

// OnPause tells records holding renderable state that the game paused or resumed.
func (m *Manager) OnPause(ctx *Context, paused bool) {
	for _, rec := range m.records {
		if p, ok := rec.(Pauser); ok {
			p.OnPause(ctx, paused)
		}
	}
}

// ClearActionRecords drops every record regardless of its state.
func (m *Manager) ClearActionRecords() {
	for i := range m.records {
		m.records[i] = nil
	}
	m.records = m.records[:0]
}

// Records returns the live records in order. The slice must not be modified.
func (m *Manager) Records() []Record {
	return m.records
}

// Len returns the number of live records.
func (m *Manager) Len() int {
	return len(m.records)
}

// Synchronize saves or restores the ordered collection. Each record is
// stored as its tag, its Sync blob and its execution fields. Loading replaces
// the current collection only when the whole block decodes.
func (m *Manager) Synchronize(s *stream.Serializer) error {
	count := uint16(len(m.records))
	s.SyncUint16(&count)
	if err := s.Err(); err != nil {
		return fmt.Errorf("failed to sync record count: %w", err)
	}

	if !s.IsLoading() {
		for _, rec := range m.records {
			if err := saveRecord(s, rec); err != nil {
				return err
			}
		}
		return nil
	}

	loaded := make([]Record, 0, count)
	for i := 0; i < int(count); i++ {
		rec, err := loadRecord(s)
		if err != nil {
			return fmt.Errorf("failed to load record %d: %w", i, err)
		}
		loaded = append(loaded, rec)
	}
	m.ClearActionRecords()
	m.records = append(m.records, loaded...)
	m.logger.Debug("Restored action records", "count", len(loaded))
	return nil
}

func saveRecord(s *stream.Serializer, rec Record) error {
	tag := uint16(rec.Type())
	s.SyncUint16(&tag)

	var buf bytes.Buffer
	sub := stream.NewSaver(&buf)
	rec.Sync(sub)
	if err := sub.Err(); err != nil {
		return fmt.Errorf("failed to save %s record: %w", rec.Type(), err)
	}
	blob := buf.Bytes()
	s.SyncBlob(&blob)
	rec.base().syncBase(s)
	if err := s.Err(); err != nil {
		return fmt.Errorf("failed to save %s record: %w", rec.Type(), err)
	}
	return nil
}

func loadRecord(s *stream.Serializer) (Record, error) {
	var tag uint16
	s.SyncUint16(&tag)
	if err := s.Err(); err != nil {
		return nil, err
	}
	rec, err := New(Type(tag))
	if err != nil {
		return nil, err
	}

	var blob []byte
	s.SyncBlob(&blob)
	if err := s.Err(); err != nil {
		return nil, err
	}
	sub := stream.NewLoader(bytes.NewReader(blob))
	rec.Sync(sub)
	if err := sub.Err(); err != nil {
		return nil, fmt.Errorf("failed to restore %s record: %w", rec.Type(), err)
	}

	rec.base().syncBase(s)
	if err := s.Err(); err != nil {
		return nil, err
	}
	return rec, nil
}
