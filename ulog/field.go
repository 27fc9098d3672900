package ulog

import "fmt"

// ParseableFieldType is the closed set of Go types a FieldParser can bind
// to, one per ULog primitive wire type.
type ParseableFieldType interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64 | bool | Char
}

// FieldParser reads a single named field of type T out of Data record
// payloads for one flattened format. Construction validates the field
// exists and matches T; Parse itself never fails on a type mismatch, only
// on a short payload.
type FieldParser[T ParseableFieldType] struct {
	offset int
	size   int
}

// NewFieldParser builds a FieldParser for the field named name in format.
// It fails fast if the field does not exist or its wire type does not
// match T, so callers validate once at startup rather than per message.
func NewFieldParser[T ParseableFieldType](format *FlattenedFormat, name string) (*FieldParser[T], error) {
	var zero T
	want := primitiveTypeFor(zero)
	fld, ok := format.fieldByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	if fld.Type != want {
		return nil, fmt.Errorf("%w: field %s is %s, not %s", ErrTypeMismatch, name, fld.Type, want)
	}
	return &FieldParser[T]{offset: fld.Offset, size: PrimitiveSize(want)}, nil
}

func primitiveTypeFor[T ParseableFieldType](zero T) PrimitiveType {
	switch any(zero).(type) {
	case int8:
		return Int8
	case uint8:
		return UInt8
	case int16:
		return Int16
	case uint16:
		return UInt16
	case int32:
		return Int32
	case uint32:
		return UInt32
	case int64:
		return Int64
	case uint64:
		return UInt64
	case float32:
		return Float
	case float64:
		return Double
	case bool:
		return Bool
	case Char:
		return CharType
	default:
		panic(fmt.Sprintf("ulog: unsupported field parser type %T", zero))
	}
}

// Parse reads the bound field out of payload, a full Data record payload
// (including its two-byte subscription id prefix).
func (p *FieldParser[T]) Parse(payload []byte) (T, error) {
	var zero T
	if p.offset+p.size > len(payload) {
		return zero, ErrShortPayload
	}
	b := payload[p.offset : p.offset+p.size]
	switch any(zero).(type) {
	case int8:
		return any(DecodeInt8(b)).(T), nil
	case uint8:
		return any(DecodeUInt8(b)).(T), nil
	case int16:
		return any(DecodeInt16(b)).(T), nil
	case uint16:
		return any(DecodeUInt16(b)).(T), nil
	case int32:
		return any(DecodeInt32(b)).(T), nil
	case uint32:
		return any(DecodeUInt32(b)).(T), nil
	case int64:
		return any(DecodeInt64(b)).(T), nil
	case uint64:
		return any(DecodeUInt64(b)).(T), nil
	case float32:
		return any(DecodeFloat(b)).(T), nil
	case float64:
		return any(DecodeDouble(b)).(T), nil
	case bool:
		return any(DecodeBool(b)).(T), nil
	case Char:
		return any(DecodeChar(b)).(T), nil
	default:
		return zero, fmt.Errorf("ulog: unsupported field parser type %T", zero)
	}
}
