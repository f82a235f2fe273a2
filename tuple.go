package coredb

import "io"

// PageID identifies one page of one table: the table id (itself derived
// from the backing heap file's path) and a zero-based page number within
// that file. Equality and hashing (as a Go map key) derive from both
// fields, which is why PageID is a plain comparable struct rather than a
// pointer or an interface.
type PageID struct {
	TableID int32
	PageNo  int32
}

// RecordID names one tuple on disk: the page it lives on and its slot
// index within that page's header bitmap.
type RecordID struct {
	PID  PageID
	Slot int32
}

func newRecordID(tableID int32, pageNo int, slot int) RecordID {
	return RecordID{PID: PageID{TableID: tableID, PageNo: int32(pageNo)}, Slot: int32(slot)}
}

// Tuple is an ordered vector of field values conforming to Desc, with an
// optional RecordID. A freshly constructed tuple (e.g. the output of an
// operator) has a nil Rid; it is populated when the tuple is read back from
// a heap page or immediately after being inserted onto one.
type Tuple struct {
	Desc   TupleDesc
	Fields []DBValue
	Rid    *RecordID
}

// NewTuple builds a tuple over desc, validating that each field's type
// matches the corresponding descriptor entry.
func NewTuple(desc TupleDesc, fields []DBValue) (*Tuple, error) {
	if len(fields) != len(desc.Fields) {
		return nil, newIllegalArgErr("tuple has %d fields, descriptor has %d", len(fields), len(desc.Fields))
	}
	for i, f := range fields {
		if f.Type() != desc.Fields[i].Ftype {
			return nil, newIllegalArgErr("field %d has type %v, descriptor expects %v", i, f.Type(), desc.Fields[i].Ftype)
		}
	}
	return &Tuple{Desc: desc, Fields: fields}, nil
}

// writeTo serializes t's fields, in order, in their fixed on-disk encoding.
func (t *Tuple) writeTo(w io.Writer) error {
	for _, f := range t.Fields {
		if err := f.writeTo(w); err != nil {
			return err
		}
	}
	return nil
}

// readTupleFrom parses one tuple of the shape described by desc.
func readTupleFrom(r io.Reader, desc *TupleDesc) (*Tuple, error) {
	fields := make([]DBValue, len(desc.Fields))
	for i, ft := range desc.Fields {
		v, err := readField(r, ft.Ftype)
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	return &Tuple{Desc: *desc, Fields: fields}, nil
}

// equals reports whether two tuples have equal descriptors and
// element-wise equal field values. Record ids are not compared -- equality
// is about content, matching the multiset comparisons the testable
// properties use.
func (t *Tuple) equals(other *Tuple) bool {
	if other == nil || !t.Desc.equals(&other.Desc) {
		return false
	}
	if len(t.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range t.Fields {
		if !f.EvalPred(other.Fields[i], OpEquals) {
			return false
		}
	}
	return true
}

// joinTuples concatenates the fields (and descriptors) of two tuples into a
// new tuple with no record id, as produced by a join operator. Duplicate
// join columns are not removed.
func joinTuples(t1, t2 *Tuple) *Tuple {
	desc := t1.Desc.merge(&t2.Desc)
	fields := make([]DBValue, 0, len(t1.Fields)+len(t2.Fields))
	fields = append(fields, t1.Fields...)
	fields = append(fields, t2.Fields...)
	return &Tuple{Desc: *desc, Fields: fields}
}
