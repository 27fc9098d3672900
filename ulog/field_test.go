package ulog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPointFormat(t *testing.T) *FlattenedFormat {
	t.Helper()
	out, err := Flatten(map[string]RawFormat{
		"point": {Name: "point", Fields: []RawField{
			primitiveField("x", Float),
			primitiveField("flag", Bool),
		}},
	})
	require.NoError(t, err)
	return out["point"]
}

func TestNewFieldParserSuccess(t *testing.T) {
	ff := buildPointFormat(t)
	p, err := NewFieldParser[float32](ff, "x")
	require.NoError(t, err)

	payload := make([]byte, ff.Size)
	payload[2], payload[3], payload[4], payload[5] = 0x00, 0x00, 0x80, 0x3F // 1.0

	v, err := p.Parse(payload)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, float64(v), 0.0001)
}

func TestNewFieldParserMissingField(t *testing.T) {
	ff := buildPointFormat(t)
	_, err := NewFieldParser[float32](ff, "nope")
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestNewFieldParserTypeMismatch(t *testing.T) {
	ff := buildPointFormat(t)
	_, err := NewFieldParser[int32](ff, "x")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestFieldParserShortPayload(t *testing.T) {
	ff := buildPointFormat(t)
	p, err := NewFieldParser[float32](ff, "x")
	require.NoError(t, err)

	_, err = p.Parse(make([]byte, 3))
	assert.ErrorIs(t, err, ErrShortPayload)
}

func TestFieldParserCharIsDistinctFromUint8(t *testing.T) {
	out, err := Flatten(map[string]RawFormat{
		"msg": {Name: "msg", Fields: []RawField{
			primitiveField("c", CharType),
		}},
	})
	require.NoError(t, err)
	ff := out["msg"]

	_, err = NewFieldParser[uint8](ff, "c")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	p, err := NewFieldParser[Char](ff, "c")
	require.NoError(t, err)

	payload := make([]byte, ff.Size)
	payload[2] = 'Z'
	v, err := p.Parse(payload)
	require.NoError(t, err)
	assert.Equal(t, Char('Z'), v)
}
