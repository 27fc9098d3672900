package ulog

// FieldKind distinguishes a primitively-typed field from one whose type is
// another registered message.
type FieldKind int

const (
	KindPrimitive FieldKind = iota
	KindNested
)

// MultiID selects among several logging instances of the same message
// (e.g. multiple IMUs logging the same sensor_combined format).
type MultiID uint8

// MessageID is the subscription id a stream assigns to a logged message via
// an AddLoggedMessage record; later Data records reference it by this id.
type MessageID uint16

// FieldType describes the declared type of a single field in a raw,
// unflattened format: either a primitive, optionally repeated, or a nested
// message reference, optionally repeated.
type FieldType struct {
	Kind        FieldKind
	Primitive   PrimitiveType
	MessageName string
	Array       bool
	ArrayLen    int
}

// RawField is one field entry as declared in a Format record, before
// nested messages have been expanded.
type RawField struct {
	Name string
	Type FieldType
}

// RawFormat is a message format as declared by a Format record: a name and
// an ordered list of fields, some of which may reference other formats by
// name.
type RawFormat struct {
	Name   string
	Fields []RawField
}

// FlattenedField is one primitively-typed field of a flattened format, at
// its fixed byte offset within a Data record payload for that format.
type FlattenedField struct {
	Name   string
	Type   PrimitiveType
	Offset int
}

// FlattenedFormat is a message format after nested messages have been
// recursively expanded into a flat list of primitive fields. Size is the
// total payload size in bytes, including the two leading bytes reserved
// for the message subscription id.
type FlattenedFormat struct {
	Name   string
	Fields []FlattenedField
	Size   int
}

// FieldOffset looks up a flattened field by its fully-qualified name,
// returning its byte offset and primitive type.
func (f *FlattenedFormat) FieldOffset(name string) (offset int, typ PrimitiveType, ok bool) {
	fld, ok := f.fieldByName(name)
	if !ok {
		return 0, 0, false
	}
	return fld.Offset, fld.Type, true
}

func (f *FlattenedFormat) fieldByName(name string) (FlattenedField, bool) {
	for _, fld := range f.Fields {
		if fld.Name == name {
			return fld, true
		}
	}
	return FlattenedField{}, false
}
