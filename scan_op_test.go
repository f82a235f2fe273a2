package coredb

import "testing"

func insertRows(t *testing.T, bp *BufferPool, hf *HeapFile, tid TransactionID, rows [][2]any) {
	t.Helper()
	desc := hf.Descriptor()
	for _, row := range rows {
		tup := mustTuple(t, desc, row[0].(int64), row[1].(string))
		if err := bp.InsertTuple(tid, hf.ID(), tup); err != nil {
			t.Fatalf("InsertTuple: %v", err)
		}
	}
	if err := bp.FlushAllPages(); err != nil {
		t.Fatalf("FlushAllPages: %v", err)
	}
}

func TestSeqScanYieldsInsertedTuples(t *testing.T) {
	desc := intStringDesc()
	hf, catalog, bp := newTestHeapFile(t, "people", desc, 10)
	tid := NewTID()
	insertRows(t, bp, hf, tid, [][2]any{{int64(1), "alice"}, {int64(2), "bob"}})

	scan := NewSeqScan(hf.ID(), catalog)
	if err := scan.Open(tid); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer scan.Close()

	got := drainAll(t, scan)
	if len(got) != 2 {
		t.Fatalf("scanned %d tuples, want 2", len(got))
	}
}

func TestSeqScanRewindRestartsIteration(t *testing.T) {
	desc := intStringDesc()
	hf, catalog, bp := newTestHeapFile(t, "people", desc, 10)
	tid := NewTID()
	insertRows(t, bp, hf, tid, [][2]any{{int64(1), "alice"}})

	scan := NewSeqScan(hf.ID(), catalog)
	if err := scan.Open(tid); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer scan.Close()

	first := drainAll(t, scan)
	if len(first) != 1 {
		t.Fatalf("first scan got %d tuples, want 1", len(first))
	}
	if err := scan.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	second := drainAll(t, scan)
	if len(second) != 1 {
		t.Fatalf("second scan (after rewind) got %d tuples, want 1", len(second))
	}
}

func TestFilterOnlyYieldsMatchingTuples(t *testing.T) {
	desc := intStringDesc()
	hf, catalog, bp := newTestHeapFile(t, "people", desc, 10)
	tid := NewTID()
	insertRows(t, bp, hf, tid, [][2]any{
		{int64(1), "alice"}, {int64(2), "bob"}, {int64(3), "carol"},
	})

	scan := NewSeqScan(hf.ID(), catalog)
	filter := NewFilter(NewPredicate(0, OpGreaterThan, IntField{Value: 1}), scan)
	if err := filter.Open(tid); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer filter.Close()

	got := drainAll(t, filter)
	if len(got) != 2 {
		t.Fatalf("filtered %d tuples, want 2", len(got))
	}
	for _, tup := range got {
		if tup.Fields[0].(IntField).Value <= 1 {
			t.Errorf("filter let through id <= 1: %v", tup)
		}
	}
}

func TestFilterEmptyResultOnNoMatch(t *testing.T) {
	desc := intStringDesc()
	hf, catalog, bp := newTestHeapFile(t, "people", desc, 10)
	tid := NewTID()
	insertRows(t, bp, hf, tid, [][2]any{{int64(1), "alice"}})

	scan := NewSeqScan(hf.ID(), catalog)
	filter := NewFilter(NewPredicate(0, OpEquals, IntField{Value: 999}), scan)
	if err := filter.Open(tid); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer filter.Close()

	got := drainAll(t, filter)
	if len(got) != 0 {
		t.Fatalf("filtered %d tuples, want 0", len(got))
	}
}
