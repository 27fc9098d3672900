package ulog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodePrimitives(t *testing.T) {
	assert.Equal(t, int8(-2), DecodeInt8([]byte{0xFE}))
	assert.Equal(t, uint8(0xFE), DecodeUInt8([]byte{0xFE}))
	assert.Equal(t, int16(-2), DecodeInt16([]byte{0xFE, 0xFF}))
	assert.Equal(t, uint16(0x0102), DecodeUInt16([]byte{0x02, 0x01}))
	assert.Equal(t, int32(-2), DecodeInt32([]byte{0xFE, 0xFF, 0xFF, 0xFF}))
	assert.Equal(t, uint32(0x01020304), DecodeUInt32([]byte{0x04, 0x03, 0x02, 0x01}))
	assert.Equal(t, int64(-2), DecodeInt64([]byte{0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}))
	assert.True(t, DecodeBool([]byte{0x01}))
	assert.False(t, DecodeBool([]byte{0x00}))
	assert.Equal(t, Char('A'), DecodeChar([]byte{'A'}))

	f := DecodeFloat([]byte{0x00, 0x00, 0x80, 0x3F})
	assert.InDelta(t, 1.0, float64(f), 0.0001)

	d := DecodeDouble([]byte{0, 0, 0, 0, 0, 0, 0xF0, 0x3F})
	assert.InDelta(t, 1.0, d, 0.0001)
}

func TestPrimitiveSize(t *testing.T) {
	assert.Equal(t, 1, PrimitiveSize(Int8))
	assert.Equal(t, 1, PrimitiveSize(Bool))
	assert.Equal(t, 1, PrimitiveSize(CharType))
	assert.Equal(t, 2, PrimitiveSize(UInt16))
	assert.Equal(t, 4, PrimitiveSize(Float))
	assert.Equal(t, 8, PrimitiveSize(Double))
}

func TestDecodeUTF8(t *testing.T) {
	s, err := DecodeUTF8([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, "hello", s)

	_, err = DecodeUTF8([]byte{0xFF, 0xFE})
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestDecodeUTF8Lossy(t *testing.T) {
	got := DecodeUTF8Lossy([]byte{'o', 'k', 0xFF})
	assert.Contains(t, got, "ok")
	assert.NotEqual(t, "ok\xff", got)
}
