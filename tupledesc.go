package coredb

// FieldType names one column of a TupleDesc: its type, and an optional name
// used only for lookup and display, never for equality.
type FieldType struct {
	Fname          string
	TableQualifier string
	Ftype          DBFieldType
}

// TupleDesc is the schema of a tuple: an ordered, non-empty sequence of
// field types. Two descriptors are equal iff they have the same length and
// element-wise equal types; names are ignored.
type TupleDesc struct {
	Fields []FieldType
}

// NewTupleDesc builds a descriptor from parallel type/name slices.
func NewTupleDesc(types []DBFieldType, names []string) *TupleDesc {
	fields := make([]FieldType, len(types))
	for i, t := range types {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		fields[i] = FieldType{Fname: name, Ftype: t}
	}
	return &TupleDesc{Fields: fields}
}

// equals reports whether two descriptors have the same length and
// element-wise equal types. Names and table qualifiers are ignored.
func (td *TupleDesc) equals(other *TupleDesc) bool {
	if other == nil || len(td.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range td.Fields {
		if f.Ftype != other.Fields[i].Ftype {
			return false
		}
	}
	return true
}

// merge concatenates td with other; the result's field order and names are
// td's fields followed by other's fields.
func (td *TupleDesc) merge(other *TupleDesc) *TupleDesc {
	fields := make([]FieldType, 0, len(td.Fields)+len(other.Fields))
	fields = append(fields, td.Fields...)
	fields = append(fields, other.Fields...)
	return &TupleDesc{Fields: fields}
}

// size returns the sum, in bytes, of the on-disk lengths of td's field
// types -- the width of one slot on a heap page using this descriptor.
func (td *TupleDesc) size() int {
	n := 0
	for _, f := range td.Fields {
		n += f.Ftype.Len()
	}
	return n
}

// fieldNameToIndex returns the index of the first field named name, or an
// IllegalArgument error if none matches. Duplicate names are permitted; only
// the first is reachable by name.
func (td *TupleDesc) fieldNameToIndex(name string) (int, error) {
	for i, f := range td.Fields {
		if f.Fname == name {
			return i, nil
		}
	}
	return -1, newIllegalArgErr("no field named %q in tuple descriptor", name)
}
