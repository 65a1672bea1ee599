package stream

import (
	"io"
	"math"
)

// MaxSyncBlob bounds a length-prefixed blob read back from a save game.
const MaxSyncBlob = 1 << 24

// Serializer moves values in one direction or the other through the same
// Sync calls, so a single routine describes both the save and the load of a
// structure.
type Serializer struct {
	r *Reader
	w *Writer
}

// NewSaver returns a Serializer that writes to w.
func NewSaver(w io.Writer) *Serializer {
	return &Serializer{w: NewWriter(w)}
}

// NewLoader returns a Serializer that reads from rs.
func NewLoader(rs io.ReadSeeker) *Serializer {
	return &Serializer{r: NewReader(rs)}
}

// IsLoading reports whether values flow from the stream into memory.
func (s *Serializer) IsLoading() bool {
	return s.r != nil
}

// Err returns the first error in either direction.
func (s *Serializer) Err() error {
	if s.r != nil {
		return s.r.Err()
	}
	return s.w.Err()
}

// Reader exposes the underlying reader while loading, nil otherwise.
func (s *Serializer) Reader() *Reader {
	return s.r
}

// Writer exposes the underlying writer while saving, nil otherwise.
func (s *Serializer) Writer() *Writer {
	return s.w
}

func (s *Serializer) SyncByte(v *uint8) {
	if s.IsLoading() {
		*v = s.r.Byte()
		return
	}
	s.w.Byte(*v)
}

func (s *Serializer) SyncBool(v *bool) {
	var b uint8
	if *v {
		b = 1
	}
	s.SyncByte(&b)
	*v = b != 0
}

func (s *Serializer) SyncUint16(v *uint16) {
	if s.IsLoading() {
		*v = s.r.Uint16()
		return
	}
	s.w.Uint16(*v)
}

func (s *Serializer) SyncInt16(v *int16) {
	if s.IsLoading() {
		*v = s.r.Int16()
		return
	}
	s.w.Int16(*v)
}

func (s *Serializer) SyncUint32(v *uint32) {
	if s.IsLoading() {
		*v = s.r.Uint32()
		return
	}
	s.w.Uint32(*v)
}

func (s *Serializer) SyncInt32(v *int32) {
	if s.IsLoading() {
		*v = s.r.Int32()
		return
	}
	s.w.Int32(*v)
}

// SyncInt stores an int as int32.
func (s *Serializer) SyncInt(v *int) {
	n := int32(*v)
	s.SyncInt32(&n)
	*v = int(n)
}

// SyncString stores a string with a 16-bit length prefix.
func (s *Serializer) SyncString(v *string) {
	if s.IsLoading() {
		n := int(s.r.Uint16())
		*v = string(s.r.BoundedBytes("string", n, math.MaxUint16))
		return
	}
	str := *v
	if len(str) > math.MaxUint16 {
		str = str[:math.MaxUint16]
	}
	s.w.Uint16(uint16(len(str)))
	s.w.Bytes([]byte(str))
}

// SyncBlob stores a byte slice with a 32-bit length prefix.
func (s *Serializer) SyncBlob(v *[]byte) {
	if s.IsLoading() {
		n := int(s.r.Uint32())
		*v = s.r.BoundedBytes("blob", n, MaxSyncBlob)
		return
	}
	s.w.Uint32(uint32(len(*v)))
	s.w.Bytes(*v)
}

// SyncMagic writes magic, or checks it while loading.
func (s *Serializer) SyncMagic(magic string) {
	if !s.IsLoading() {
		s.w.Bytes([]byte(magic))
		return
	}
	start := s.r.Pos()
	got := s.r.Bytes(len(magic))
	if s.r.Err() == nil && string(got) != magic {
		s.r.Fail(&DecodeError{Field: "magic", Offset: start, Err: ErrBadMagic})
	}
}
