package stream

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer encodes little-endian values. Like Reader it keeps the first error.
type Writer struct {
	w   io.Writer
	err error
	n   int64
	buf [4]byte
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered, if any.
func (w *Writer) Err() error {
	return w.err
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int64 {
	return w.n
}

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(b)
	w.n += int64(n)
	if err != nil {
		w.err = fmt.Errorf("failed to write %d bytes: %w", len(b), err)
	}
}

// Byte writes one byte.
func (w *Writer) Byte(v uint8) {
	w.buf[0] = v
	w.write(w.buf[:1])
}

// Uint16 writes an unsigned 16-bit value.
func (w *Writer) Uint16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	w.write(w.buf[:2])
}

// Int16 writes a signed 16-bit value.
func (w *Writer) Int16(v int16) {
	w.Uint16(uint16(v))
}

// Uint32 writes an unsigned 32-bit value.
func (w *Writer) Uint32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
}

// Int32 writes a signed 32-bit value.
func (w *Writer) Int32(v int32) {
	w.Uint32(uint32(v))
}

// Bytes writes b verbatim.
func (w *Writer) Bytes(b []byte) {
	if len(b) == 0 {
		return
	}
	w.write(b)
}

// Zeros writes n zero bytes, used for reserved fields.
func (w *Writer) Zeros(n int) {
	if n <= 0 {
		return
	}
	w.write(make([]byte, n))
}

// CString writes s into a fixed-width nul-padded buffer of size n. Strings
// longer than n-1 bytes are cut so the terminator always fits.
func (w *Writer) CString(s string, n int) {
	buf := make([]byte, n)
	copy(buf[:n-1], s)
	w.write(buf)
}

// Filename writes a 10-byte filename field.
func (w *Writer) Filename(s string) {
	w.CString(s, FilenameSize)
}
