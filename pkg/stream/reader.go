// Package stream reads and writes the little-endian binary layouts used by
// scene data files, the hint resource and save games.
package stream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// FilenameSize is the fixed width of every filename field in the game data.
const FilenameSize = 10

// ErrTooLarge is wrapped by DecodeError when a length field exceeds its bound.
var ErrTooLarge = errors.New("field exceeds declared bound")

// ErrBadMagic is wrapped by DecodeError when a file signature does not match.
var ErrBadMagic = errors.New("bad magic")

// DecodeError reports a field that could not be decoded. A DecodeError is
// fatal to whatever load produced it.
type DecodeError struct {
	Field  string // Field being decoded, when known
	Offset int64  // Stream offset where the read started
	Limit  int    // Declared bound, for ErrTooLarge
	Got    int    // Observed size, for ErrTooLarge
	Err    error
}

func (e *DecodeError) Error() string {
	field := e.Field
	if field == "" {
		field = "field"
	}
	if errors.Is(e.Err, ErrTooLarge) {
		return fmt.Sprintf("decode %s at offset %d: %d exceeds limit %d", field, e.Offset, e.Got, e.Limit)
	}
	return fmt.Sprintf("decode %s at offset %d: %v", field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Reader decodes little-endian values from a seekable stream. The first
// failure is kept and every later call becomes a no-op returning zero values,
// so callers decode a whole structure and check Err once.
type Reader struct {
	rs  io.ReadSeeker
	err error
	buf [4]byte
}

// NewReader wraps rs.
func NewReader(rs io.ReadSeeker) *Reader {
	return &Reader{rs: rs}
}

// NewBytesReader reads from an in-memory payload.
func NewBytesReader(data []byte) *Reader {
	return NewReader(bytes.NewReader(data))
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}

// Fail records err as the reader error unless one is already set.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Pos returns the current stream offset.
func (r *Reader) Pos() int64 {
	pos, err := r.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	return pos
}

func (r *Reader) fill(n int, field string) bool {
	if r.err != nil {
		return false
	}
	start := r.Pos()
	if _, err := io.ReadFull(r.rs, r.buf[:n]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		r.err = &DecodeError{Field: field, Offset: start, Err: err}
		return false
	}
	return true
}

// Byte reads one unsigned byte.
func (r *Reader) Byte() uint8 {
	if !r.fill(1, "byte") {
		return 0
	}
	return r.buf[0]
}

// Uint16 reads an unsigned 16-bit value.
func (r *Reader) Uint16() uint16 {
	if !r.fill(2, "uint16") {
		return 0
	}
	return binary.LittleEndian.Uint16(r.buf[:2])
}

// Int16 reads a signed 16-bit value.
func (r *Reader) Int16() int16 {
	return int16(r.Uint16())
}

// Uint32 reads an unsigned 32-bit value.
func (r *Reader) Uint32() uint32 {
	if !r.fill(4, "uint32") {
		return 0
	}
	return binary.LittleEndian.Uint32(r.buf[:4])
}

// Int32 reads a signed 32-bit value.
func (r *Reader) Int32() int32 {
	return int32(r.Uint32())
}

// Bytes reads exactly n bytes.
func (r *Reader) Bytes(n int) []byte {
	if r.err != nil || n <= 0 {
		return nil
	}
	start := r.Pos()
	out := make([]byte, n)
	if _, err := io.ReadFull(r.rs, out); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		r.err = &DecodeError{Field: "bytes", Offset: start, Err: err}
		return nil
	}
	return out
}

// BoundedBytes reads n bytes after checking n against limit. Exceeding the
// limit fails the reader with ErrTooLarge instead of truncating.
func (r *Reader) BoundedBytes(field string, n, limit int) []byte {
	if r.err != nil {
		return nil
	}
	if n > limit {
		r.err = &DecodeError{Field: field, Offset: r.Pos(), Limit: limit, Got: n, Err: ErrTooLarge}
		return nil
	}
	return r.Bytes(n)
}

// CString reads a fixed-width nul-terminated buffer of size n. The final byte
// is always treated as the terminator.
func (r *Reader) CString(n int) string {
	buf := r.Bytes(n)
	if len(buf) == 0 {
		return ""
	}
	buf[len(buf)-1] = 0
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}

// Filename reads a 10-byte filename field.
func (r *Reader) Filename() string {
	return r.CString(FilenameSize)
}

// Skip advances the stream by n bytes. Skipping past the end is a decode error.
func (r *Reader) Skip(n int64) {
	if r.err != nil || n == 0 {
		return
	}
	start := r.Pos()
	end, err := r.rs.Seek(0, io.SeekEnd)
	if err != nil {
		r.err = &DecodeError{Field: "skip", Offset: start, Err: err}
		return
	}
	if start+n > end || start+n < 0 {
		r.err = &DecodeError{Field: "skip", Offset: start, Err: io.ErrUnexpectedEOF}
		return
	}
	if _, err := r.rs.Seek(start+n, io.SeekStart); err != nil {
		r.err = &DecodeError{Field: "skip", Offset: start, Err: err}
	}
}

// Seek repositions the stream, following io.Seeker semantics.
func (r *Reader) Seek(offset int64, whence int) {
	if r.err != nil {
		return
	}
	start := r.Pos()
	if _, err := r.rs.Seek(offset, whence); err != nil {
		r.err = &DecodeError{Field: "seek", Offset: start, Err: err}
	}
}
