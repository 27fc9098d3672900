package ulog

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Char distinguishes a ULog 'char' field from a plain uint8 at the type
// level, so FieldParser[Char] and FieldParser[uint8] bind to different
// wire types despite sharing a representation.
type Char uint8

// PrimitiveType identifies one of the twelve primitive wire types a ULog
// field can decode to.
type PrimitiveType int

const (
	Int8 PrimitiveType = iota
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Float
	Double
	Bool
	CharType
)

func (t PrimitiveType) String() string {
	switch t {
	case Int8:
		return "int8_t"
	case UInt8:
		return "uint8_t"
	case Int16:
		return "int16_t"
	case UInt16:
		return "uint16_t"
	case Int32:
		return "int32_t"
	case UInt32:
		return "uint32_t"
	case Int64:
		return "int64_t"
	case UInt64:
		return "uint64_t"
	case Float:
		return "float"
	case Double:
		return "double"
	case Bool:
		return "bool"
	case CharType:
		return "char"
	default:
		return fmt.Sprintf("PrimitiveType(%d)", int(t))
	}
}

// PrimitiveSize returns the on-wire byte width of t.
func PrimitiveSize(t PrimitiveType) int {
	switch t {
	case Int8, UInt8, Bool, CharType:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float:
		return 4
	case Int64, UInt64, Double:
		return 8
	default:
		return 0
	}
}

func DecodeInt8(b []byte) int8    { return int8(b[0]) }
func DecodeUInt8(b []byte) uint8  { return b[0] }
func DecodeBool(b []byte) bool    { return b[0] != 0 }
func DecodeChar(b []byte) Char    { return Char(b[0]) }

func DecodeInt16(b []byte) int16   { return int16(binary.LittleEndian.Uint16(b)) }
func DecodeUInt16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

func DecodeInt32(b []byte) int32   { return int32(binary.LittleEndian.Uint32(b)) }
func DecodeUInt32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func DecodeFloat(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }

func DecodeInt64(b []byte) int64    { return int64(binary.LittleEndian.Uint64(b)) }
func DecodeUInt64(b []byte) uint64  { return binary.LittleEndian.Uint64(b) }
func DecodeDouble(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) }

// DecodeUTF8 decodes b as strict UTF-8, failing on any invalid sequence.
// Format and AddLoggedMessage payloads must pass through this path.
func DecodeUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// DecodeUTF8Lossy decodes b as UTF-8, replacing invalid sequences with
// U+FFFD rather than failing. Only Logging record messages use this path.
func DecodeUTF8Lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
