package stream

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_Primitives(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Byte(0x7f)
	w.Uint16(0xBEEF)
	w.Int16(-1)
	w.Uint32(0xDEADBEEF)
	w.Int32(-42)
	w.Filename("MUSIC01")
	require.NoError(t, w.Err())
	assert.Equal(t, int64(1+2+2+4+4+FilenameSize), w.Len())

	r := NewBytesReader(buf.Bytes())
	assert.Equal(t, uint8(0x7f), r.Byte())
	assert.Equal(t, uint16(0xBEEF), r.Uint16())
	assert.Equal(t, int16(-1), r.Int16())
	assert.Equal(t, uint32(0xDEADBEEF), r.Uint32())
	assert.Equal(t, int32(-42), r.Int32())
	assert.Equal(t, "MUSIC01", r.Filename())
	require.NoError(t, r.Err())
	assert.Equal(t, int64(w.Len()), r.Pos())
}

func TestReader_FilenameTerminator(t *testing.T) {
	// Ten non-nul bytes: the last one is always dropped.
	r := NewBytesReader([]byte("ABCDEFGHIJ"))
	assert.Equal(t, "ABCDEFGHI", r.Filename())
	require.NoError(t, r.Err())
}

func TestReader_ShortReadIsSticky(t *testing.T) {
	r := NewBytesReader([]byte{0x01})
	assert.Equal(t, uint16(0), r.Uint16())
	assert.Equal(t, uint8(0), r.Byte(), "reads after a failure return zero")

	var decodeErr *DecodeError
	require.True(t, errors.As(r.Err(), &decodeErr))
	assert.True(t, errors.Is(r.Err(), io.ErrUnexpectedEOF))
	assert.Equal(t, int64(0), decodeErr.Offset)
}

func TestReader_BoundedBytes(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		limit   int
		wantErr error
	}{
		{name: "within limit", n: 4, limit: 10},
		{name: "at limit", n: 10, limit: 10},
		{name: "over limit", n: 11, limit: 10, wantErr: ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewBytesReader(make([]byte, 16))
			got := r.BoundedBytes("text", tt.n, tt.limit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, r.Err(), tt.wantErr)
				assert.Nil(t, got)
				var decodeErr *DecodeError
				require.True(t, errors.As(r.Err(), &decodeErr))
				assert.Equal(t, "text", decodeErr.Field)
				assert.Equal(t, tt.limit, decodeErr.Limit)
				assert.Equal(t, tt.n, decodeErr.Got)
				return
			}
			require.NoError(t, r.Err())
			assert.Len(t, got, tt.n)
		})
	}
}

func TestReader_SkipPastEnd(t *testing.T) {
	r := NewBytesReader(make([]byte, 4))
	r.Skip(4)
	require.NoError(t, r.Err())
	r.Skip(1)
	assert.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
}

func TestSerializer_RoundTrip(t *testing.T) {
	type record struct {
		b   uint8
		ok  bool
		u16 uint16
		i16 int16
		u32 uint32
		i32 int32
		n   int
		s   string
		raw []byte
	}
	sync := func(s *Serializer, v *record) {
		s.SyncMagic("TEST")
		s.SyncByte(&v.b)
		s.SyncBool(&v.ok)
		s.SyncUint16(&v.u16)
		s.SyncInt16(&v.i16)
		s.SyncUint32(&v.u32)
		s.SyncInt32(&v.i32)
		s.SyncInt(&v.n)
		s.SyncString(&v.s)
		s.SyncBlob(&v.raw)
	}

	in := record{b: 9, ok: true, u16: 512, i16: -7, u32: 70000, i32: -70000, n: 123, s: "hello", raw: []byte{1, 2, 3}}
	var buf bytes.Buffer
	saver := NewSaver(&buf)
	assert.False(t, saver.IsLoading())
	sync(saver, &in)
	require.NoError(t, saver.Err())

	var out record
	loader := NewLoader(bytes.NewReader(buf.Bytes()))
	assert.True(t, loader.IsLoading())
	sync(loader, &out)
	require.NoError(t, loader.Err())
	assert.Equal(t, in, out)
}

func TestSerializer_BadMagic(t *testing.T) {
	loader := NewLoader(bytes.NewReader([]byte("NOPE")))
	loader.SyncMagic("TEST")
	assert.ErrorIs(t, loader.Err(), ErrBadMagic)
}
