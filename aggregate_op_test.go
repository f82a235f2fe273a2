package coredb

import (
	"testing"

	"github.com/d4l3k/messagediff"
)

func scoreDesc() *TupleDesc {
	return NewTupleDesc([]DBFieldType{StringType, IntType}, []string{"team", "score"})
}

func scoreTuple(t *testing.T, team string, score int64) *Tuple {
	t.Helper()
	desc := scoreDesc()
	tup, err := NewTuple(*desc, []DBValue{StringField{Value: team}, IntField{Value: score}})
	if err != nil {
		t.Fatalf("NewTuple: %v", err)
	}
	return tup
}

func TestIntAggregatorUngrouped(t *testing.T) {
	desc := scoreDesc()
	tid := NewTID()
	src := newStaticIter(desc, []*Tuple{
		scoreTuple(t, "a", 1), scoreTuple(t, "a", 5), scoreTuple(t, "b", 10),
	})

	agg, err := NewIntAggregator(NoGrouping, IntType, 1, AggSum, src)
	if err != nil {
		t.Fatalf("NewIntAggregator: %v", err)
	}
	if err := agg.Open(tid); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer agg.Close()

	got := drainAll(t, agg)
	if len(got) != 1 {
		t.Fatalf("ungrouped aggregate yielded %d tuples, want 1", len(got))
	}
	if sum := got[0].Fields[0].(IntField).Value; sum != 16 {
		t.Errorf("sum = %d, want 16", sum)
	}
}

func TestIntAggregatorGroupedByTeam(t *testing.T) {
	desc := scoreDesc()
	tid := NewTID()
	src := newStaticIter(desc, []*Tuple{
		scoreTuple(t, "a", 1), scoreTuple(t, "a", 5), scoreTuple(t, "b", 10),
	})

	agg, err := NewIntAggregator(0, StringType, 1, AggSum, src)
	if err != nil {
		t.Fatalf("NewIntAggregator: %v", err)
	}
	if err := agg.Open(tid); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer agg.Close()

	got := drainAll(t, agg)
	if len(got) != 2 {
		t.Fatalf("grouped aggregate yielded %d groups, want 2", len(got))
	}
	sums := map[string]int64{}
	for _, tup := range got {
		sums[tup.Fields[0].(StringField).Value] = tup.Fields[1].(IntField).Value
	}
	want := map[string]int64{"a": 6, "b": 10}
	if diff, equal := messagediff.PrettyDiff(want, sums); !equal {
		t.Errorf("group sums do not match:\n%s", diff)
	}
}

func TestIntAggregatorAvgFloorsTowardNegativeInfinity(t *testing.T) {
	desc := scoreDesc()
	tid := NewTID()
	// Sum = -7, count = 2: truncating division gives -3, floor gives -4.
	src := newStaticIter(desc, []*Tuple{
		scoreTuple(t, "a", -3), scoreTuple(t, "a", -4),
	})
	agg, err := NewIntAggregator(NoGrouping, IntType, 1, AggAvg, src)
	if err != nil {
		t.Fatalf("NewIntAggregator: %v", err)
	}
	if err := agg.Open(tid); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer agg.Close()

	got := drainAll(t, agg)
	if len(got) != 1 {
		t.Fatalf("yielded %d tuples, want 1", len(got))
	}
	if avg := got[0].Fields[0].(IntField).Value; avg != -4 {
		t.Errorf("avg = %d, want -4 (floor of -3.5)", avg)
	}
}

func TestStringAggregatorRejectsNonCount(t *testing.T) {
	src := newStaticIter(scoreDesc(), nil)
	if _, err := NewStringAggregator(NoGrouping, IntType, 0, AggSum, src); err == nil {
		t.Fatal("expected error constructing a string aggregator with op=SUM")
	}
}

func TestStringAggregatorCount(t *testing.T) {
	desc := scoreDesc()
	tid := NewTID()
	src := newStaticIter(desc, []*Tuple{
		scoreTuple(t, "a", 1), scoreTuple(t, "a", 5), scoreTuple(t, "b", 10),
	})
	agg, err := NewStringAggregator(NoGrouping, IntType, 0, AggCount, src)
	if err != nil {
		t.Fatalf("NewStringAggregator: %v", err)
	}
	if err := agg.Open(tid); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer agg.Close()

	got := drainAll(t, agg)
	if len(got) != 1 || got[0].Fields[0].(IntField).Value != 3 {
		t.Fatalf("count aggregate = %+v, want a single tuple with count 3", got)
	}
}

func TestIntAggregatorRewindRecomputes(t *testing.T) {
	desc := scoreDesc()
	tid := NewTID()
	src := newStaticIter(desc, []*Tuple{scoreTuple(t, "a", 2), scoreTuple(t, "a", 3)})
	agg, err := NewIntAggregator(NoGrouping, IntType, 1, AggSum, src)
	if err != nil {
		t.Fatalf("NewIntAggregator: %v", err)
	}
	if err := agg.Open(tid); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer agg.Close()

	first := drainAll(t, agg)
	if err := agg.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	second := drainAll(t, agg)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one tuple both times, got %d and %d", len(first), len(second))
	}
	if first[0].Fields[0].(IntField).Value != second[0].Fields[0].(IntField).Value {
		t.Error("rewind produced a different result than the first pass")
	}
}
