package stream

import (
	"strconv"
	"strings"

	"github.com/flightdeck/go-ulog/ulog"
)

var primitiveTypeByToken = map[string]ulog.PrimitiveType{
	"int8_t":   ulog.Int8,
	"uint8_t":  ulog.UInt8,
	"int16_t":  ulog.Int16,
	"uint16_t": ulog.UInt16,
	"int32_t":  ulog.Int32,
	"uint32_t": ulog.UInt32,
	"int64_t":  ulog.Int64,
	"uint64_t": ulog.UInt64,
	"float":    ulog.Float,
	"double":   ulog.Double,
	"bool":     ulog.Bool,
	"char":     ulog.CharType,
}

// parseFormatString parses a Format record payload of the form
// "name:type1 field1;type2 field2;...". A field list may be empty, i.e.
// "name:" is accepted even though it declares a message with no fields
// (the original Rust implementation this package was distilled from
// rejects that case; the payload grammar this package follows does not,
// so an empty field list yields a RawFormat with a nil Fields slice
// rather than an error).
func parseFormatString(payload string) (ulog.RawFormat, error) {
	idx := strings.IndexByte(payload, ':')
	if idx < 0 {
		return ulog.RawFormat{}, otherErr("stream: malformed format message %q: missing ':'", payload)
	}
	name := payload[:idx]
	if name == "" {
		return ulog.RawFormat{}, otherErr("stream: format message has empty name")
	}

	rest := payload[idx+1:]
	var fields []ulog.RawField
	seen := make(map[string]bool)
	for _, part := range strings.Split(rest, ";") {
		if part == "" {
			// Tolerates both "name:" (no fields) and a trailing ';'.
			continue
		}
		sp := strings.IndexByte(part, ' ')
		if sp < 0 {
			return ulog.RawFormat{}, otherErr("stream: malformed field %q in format %q", part, name)
		}
		typeTok, fieldName := part[:sp], part[sp+1:]
		if fieldName == "" {
			return ulog.RawFormat{}, otherErr("stream: empty field name in format %q", name)
		}
		if seen[fieldName] {
			return ulog.RawFormat{}, otherErr("stream: duplicate field %q in format %q", fieldName, name)
		}
		seen[fieldName] = true
		ft, err := parseFieldType(typeTok)
		if err != nil {
			return ulog.RawFormat{}, err
		}
		fields = append(fields, ulog.RawField{Name: fieldName, Type: ft})
	}
	return ulog.RawFormat{Name: name, Fields: fields}, nil
}

// parseFieldType parses a single "type" or "type[n]" token. n is parsed
// with strconv.Atoi without range validation: a negative or zero n is
// accepted and simply expands to zero fields downstream, matching the
// original implementation's unchecked parse-and-range(0..n) behavior.
func parseFieldType(token string) (ulog.FieldType, error) {
	name := token
	isArray := false
	arrayLen := 0

	if idx := strings.IndexByte(token, '['); idx >= 0 {
		if !strings.HasSuffix(token, "]") {
			return ulog.FieldType{}, otherErr("stream: malformed array type %q", token)
		}
		name = token[:idx]
		n, err := strconv.Atoi(token[idx+1 : len(token)-1])
		if err != nil {
			return ulog.FieldType{}, otherErr("stream: malformed array length in %q: %v", token, err)
		}
		isArray = true
		arrayLen = n
	}

	if pt, ok := primitiveTypeByToken[name]; ok {
		return ulog.FieldType{Kind: ulog.KindPrimitive, Primitive: pt, Array: isArray, ArrayLen: arrayLen}, nil
	}
	return ulog.FieldType{Kind: ulog.KindNested, MessageName: name, Array: isArray, ArrayLen: arrayLen}, nil
}
