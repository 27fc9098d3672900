package ulog

import (
	"fmt"
	"strings"
)

// paddingPrefix marks a field as alignment filler: it still occupies space
// in the flattened layout but is never emitted as an accessible field.
const paddingPrefix = "_padding"

func isPaddingName(name string) bool {
	return strings.HasPrefix(name, paddingPrefix)
}

// Flatten expands every format in formats into its FlattenedFormat,
// recursively resolving nested message fields to their primitive leaves.
// Formats may reference each other in any order; each is flattened once
// and the result is memoized across the whole call.
func Flatten(formats map[string]RawFormat) (map[string]*FlattenedFormat, error) {
	cache := make(map[string]*FlattenedFormat, len(formats))
	for name := range formats {
		if _, err := flattenFormat(name, formats, cache); err != nil {
			return nil, err
		}
	}
	return cache, nil
}

func flattenFormat(name string, formats map[string]RawFormat, cache map[string]*FlattenedFormat) (*FlattenedFormat, error) {
	if ff, ok := cache[name]; ok {
		return ff, nil
	}
	raw, ok := formats[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessage, name)
	}
	ctx := &flattenCtx{formats: formats, visiting: map[string]bool{name: true}}
	fields, offset, err := ctx.expandFields(raw.Fields, "", nil, 2)
	if err != nil {
		return nil, err
	}
	ff := &FlattenedFormat{Name: name, Fields: fields, Size: offset}
	cache[name] = ff
	return ff, nil
}

type flattenCtx struct {
	formats  map[string]RawFormat
	visiting map[string]bool
}

func (c *flattenCtx) expandFields(rawFields []RawField, prefix string, fields []FlattenedField, offset int) ([]FlattenedField, int, error) {
	for i, rf := range rawFields {
		// A trailing padding field at the top level of a message's own
		// field list consumes no space at all: the writer only padded
		// the struct out to an alignment boundary the wire format
		// doesn't otherwise need, so there is nothing after it to
		// offset. Padding anywhere else still opens a hole.
		if prefix == "" && i == len(rawFields)-1 && isPaddingName(rf.Name) {
			break
		}
		var err error
		fields, offset, err = c.expandField(rf, prefix, fields, offset)
		if err != nil {
			return nil, 0, err
		}
	}
	return fields, offset, nil
}

func (c *flattenCtx) expandField(rf RawField, prefix string, fields []FlattenedField, offset int) ([]FlattenedField, int, error) {
	n := 1
	if rf.Type.Array {
		n = rf.Type.ArrayLen
	}

	switch rf.Type.Kind {
	case KindPrimitive:
		size := PrimitiveSize(rf.Type.Primitive)
		padding := isPaddingName(rf.Name)
		for i := 0; i < n; i++ {
			if !padding {
				name := prefix + rf.Name
				if rf.Type.Array {
					name = fmt.Sprintf("%s%s[%d]", prefix, rf.Name, i)
				}
				fields = append(fields, FlattenedField{Name: name, Type: rf.Type.Primitive, Offset: offset})
			}
			offset += size
		}
		return fields, offset, nil

	case KindNested:
		nested, ok := c.formats[rf.Type.MessageName]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrUnknownMessage, rf.Type.MessageName)
		}
		for i := 0; i < n; i++ {
			if c.visiting[rf.Type.MessageName] {
				return nil, 0, fmt.Errorf("%w: %s", ErrCyclicFormat, rf.Type.MessageName)
			}
			childPrefix := fmt.Sprintf("%s%s.%s.", prefix, rf.Name, rf.Type.MessageName)
			if rf.Type.Array {
				childPrefix = fmt.Sprintf("%s%s[%d].%s.", prefix, rf.Name, i, rf.Type.MessageName)
			}
			c.visiting[rf.Type.MessageName] = true
			var err error
			fields, offset, err = c.expandFields(nested.Fields, childPrefix, fields, offset)
			delete(c.visiting, rf.Type.MessageName)
			if err != nil {
				return nil, 0, err
			}
		}
		return fields, offset, nil

	default:
		return nil, 0, fmt.Errorf("ulog: unknown field kind for %q", rf.Name)
	}
}
