package coredb

import "testing"

func TestHeapFileInsertGrowsAndScans(t *testing.T) {
	desc := intStringDesc()
	hf, _, bp := newTestHeapFile(t, "people", desc, 10)

	if hf.NumPages() != 0 {
		t.Fatalf("fresh file has %d pages, want 0", hf.NumPages())
	}

	tid := NewTID()
	names := []string{"alice", "bob", "carol"}
	for i, name := range names {
		tup := mustTuple(t, desc, int64(i), name)
		if err := bp.InsertTuple(tid, hf.ID(), tup); err != nil {
			t.Fatalf("InsertTuple(%s): %v", name, err)
		}
	}
	if err := bp.FlushAllPages(); err != nil {
		t.Fatalf("FlushAllPages: %v", err)
	}
	if hf.NumPages() < 1 {
		t.Fatalf("file has %d pages after inserts, want >= 1", hf.NumPages())
	}

	iter, err := hf.Iterator(tid)
	if err != nil {
		t.Fatalf("Iterator: %v", err)
	}
	var got []string
	for {
		tup, err := iter()
		if err != nil {
			t.Fatalf("iter: %v", err)
		}
		if tup == nil {
			break
		}
		got = append(got, tup.Fields[1].(StringField).Value)
	}
	if len(got) != len(names) {
		t.Fatalf("scanned %d tuples, want %d", len(got), len(names))
	}
}

func TestHeapFileInsertFillsExistingPageBeforeGrowing(t *testing.T) {
	desc := intStringDesc()
	hf, _, bp := newTestHeapFile(t, "people", desc, 10)
	tid := NewTID()

	tup := mustTuple(t, desc, 0, "alice")
	if err := bp.InsertTuple(tid, hf.ID(), tup); err != nil {
		t.Fatalf("InsertTuple: %v", err)
	}
	if err := bp.FlushAllPages(); err != nil {
		t.Fatalf("FlushAllPages: %v", err)
	}
	if hf.NumPages() != 1 {
		t.Fatalf("file has %d pages, want 1", hf.NumPages())
	}

	tup2 := mustTuple(t, desc, 1, "bob")
	if err := bp.InsertTuple(tid, hf.ID(), tup2); err != nil {
		t.Fatalf("InsertTuple: %v", err)
	}
	if err := bp.FlushAllPages(); err != nil {
		t.Fatalf("FlushAllPages: %v", err)
	}
	if hf.NumPages() != 1 {
		t.Fatalf("file grew to %d pages, want still 1 (first page had room)", hf.NumPages())
	}
}

func TestHeapFileIDIsStableAcrossReopen(t *testing.T) {
	desc := intStringDesc()
	hf1, catalog, bp := newTestHeapFile(t, "people", desc, 10)
	path := hf1.Path()

	hf2, err := NewHeapFile(path, desc, bp)
	if err != nil {
		t.Fatalf("NewHeapFile (reopen): %v", err)
	}
	if hf1.ID() != hf2.ID() {
		t.Errorf("table id changed across reopen: %d vs %d", hf1.ID(), hf2.ID())
	}
	_ = catalog
}
