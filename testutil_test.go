package coredb

import (
	"os"
	"testing"
)

// newTestHeapFile creates an empty, temp-file-backed HeapFile with desc,
// registered under name in a fresh Catalog/BufferPool pair of the given
// capacity.
func newTestHeapFile(t *testing.T, name string, desc *TupleDesc, capacity int) (*HeapFile, *Catalog, *BufferPool) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "coredb-*.dat")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	path := f.Name()
	f.Close()

	catalog := NewCatalog()
	bp := NewBufferPool(capacity, catalog)

	hf, err := NewHeapFile(path, desc, bp)
	if err != nil {
		t.Fatalf("NewHeapFile: %v", err)
	}
	catalog.AddTable(hf, name, "")
	return hf, catalog, bp
}

func intStringDesc() *TupleDesc {
	return NewTupleDesc([]DBFieldType{IntType, StringType}, []string{"id", "name"})
}

func mustTuple(t *testing.T, desc *TupleDesc, id int64, name string) *Tuple {
	t.Helper()
	tup, err := NewTuple(*desc, []DBValue{IntField{Value: id}, StringField{Value: name}})
	if err != nil {
		t.Fatalf("NewTuple: %v", err)
	}
	return tup
}

// drainAll pulls every tuple from op, which must already be open.
func drainAll(t *testing.T, op OpIterator) []*Tuple {
	t.Helper()
	var out []*Tuple
	for {
		ok, err := op.HasNext()
		if err != nil {
			t.Fatalf("HasNext: %v", err)
		}
		if !ok {
			return out
		}
		tup, err := op.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, tup)
	}
}
