package coredb

import "github.com/madden-labs/coredb/internal/minmax"

// aggState accumulates one group's (or the single ungrouped) running
// aggregate state as tuples are pulled from the child.
type aggState interface {
	add(v DBValue)
	finalize(op AggOp) (DBValue, error)
}

// intAggState implements MIN, MAX, SUM, COUNT, AVG over an INT field.
// AVG reports floor(sum/count) as an int, matching floor division exactly
// (Go's native integer division truncates toward zero, which disagrees
// with floor for a negative quotient).
type intAggState struct {
	sum, count, min, max int64
	seen                 bool
}

func (s *intAggState) add(v DBValue) {
	val := v.(IntField).Value
	s.sum += val
	s.count++
	if !s.seen {
		s.min, s.max = val, val
	} else {
		s.min = minmax.Min(s.min, val)
		s.max = minmax.Max(s.max, val)
	}
	s.seen = true
}

func (s *intAggState) finalize(op AggOp) (DBValue, error) {
	switch op {
	case AggMin:
		return IntField{Value: s.min}, nil
	case AggMax:
		return IntField{Value: s.max}, nil
	case AggSum:
		return IntField{Value: s.sum}, nil
	case AggCount:
		return IntField{Value: s.count}, nil
	case AggAvg:
		return IntField{Value: floorDiv(s.sum, s.count)}, nil
	default:
		return nil, newIllegalArgErr("integer aggregator does not support op %v", op)
	}
}

// floorDiv computes floor(a/b) for integer a, b (b != 0), unlike Go's `/`
// which truncates toward zero.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// stringAggState implements COUNT over a STRING field; it is an error
// (checked at construction, not here) to ask it for any other operator.
type stringAggState struct {
	count int64
}

func (s *stringAggState) add(v DBValue) { s.count++ }

func (s *stringAggState) finalize(op AggOp) (DBValue, error) {
	if op != AggCount {
		return nil, newIllegalArgErr("string aggregator supports only COUNT, got %v", op)
	}
	return IntField{Value: s.count}, nil
}

// Aggregate computes one integer or string aggregate, optionally grouped by
// one field. The first pull drives the child to completion, merging every
// tuple into per-group state; it then yields one output tuple per group
// (or one tuple total if ungrouped). Iteration order over groups is
// unspecified.
type Aggregate struct {
	opBase

	child        OpIterator
	groupByIndex int // NoGrouping for ungrouped
	groupByType  DBFieldType
	aggIndex     int
	op           AggOp
	isString     bool

	groups     map[DBValue]aggState
	groupOrder []DBValue
	ungrouped  aggState

	outputs []*Tuple
	outIdx  int
	built   bool
}

func newAggregateState(isString bool) aggState {
	if isString {
		return &stringAggState{}
	}
	return &intAggState{}
}

// NewIntAggregator constructs an Aggregate over an INT field supporting
// {MIN, MAX, SUM, COUNT, AVG}. Pass groupByIndex = NoGrouping for a single
// global aggregate.
func NewIntAggregator(groupByIndex int, groupByType DBFieldType, aggIndex int, op AggOp, child OpIterator) (*Aggregate, error) {
	switch op {
	case AggMin, AggMax, AggSum, AggCount, AggAvg:
	default:
		return nil, newIllegalArgErr("integer aggregator does not support op %v", op)
	}
	return &Aggregate{
		child: child, groupByIndex: groupByIndex, groupByType: groupByType,
		aggIndex: aggIndex, op: op, isString: false,
	}, nil
}

// NewStringAggregator constructs an Aggregate over a STRING field
// supporting only COUNT; any other operator is rejected immediately.
func NewStringAggregator(groupByIndex int, groupByType DBFieldType, aggIndex int, op AggOp, child OpIterator) (*Aggregate, error) {
	if op != AggCount {
		return nil, newIllegalArgErr("string aggregator supports only COUNT, got %v", op)
	}
	return &Aggregate{
		child: child, groupByIndex: groupByIndex, groupByType: groupByType,
		aggIndex: aggIndex, op: op, isString: true,
	}, nil
}

func (a *Aggregate) Descriptor() *TupleDesc {
	if a.groupByIndex == NoGrouping {
		return &TupleDesc{Fields: []FieldType{{Fname: "aggVal", Ftype: IntType}}}
	}
	return &TupleDesc{Fields: []FieldType{
		{Fname: "groupVal", Ftype: a.groupByType},
		{Fname: "aggVal", Ftype: IntType},
	}}
}

func (a *Aggregate) Children() []OpIterator { return []OpIterator{a.child} }

func (a *Aggregate) SetChildren(children []OpIterator) {
	a.child = children[0]
}

func (a *Aggregate) Open(tid TransactionID) error {
	a.tid = tid
	if err := a.child.Open(tid); err != nil {
		return err
	}
	a.resetAggState()
	a.reset(a)
	return nil
}

func (a *Aggregate) resetAggState() {
	a.groups = make(map[DBValue]aggState)
	a.groupOrder = nil
	a.ungrouped = nil
	a.outputs = nil
	a.outIdx = 0
	a.built = false
}

func (a *Aggregate) mergeTuple(t *Tuple) {
	if a.groupByIndex == NoGrouping {
		if a.ungrouped == nil {
			a.ungrouped = newAggregateState(a.isString)
		}
		a.ungrouped.add(t.Fields[a.aggIndex])
		return
	}
	key := t.Fields[a.groupByIndex]
	st, ok := a.groups[key]
	if !ok {
		st = newAggregateState(a.isString)
		a.groups[key] = st
		a.groupOrder = append(a.groupOrder, key)
	}
	st.add(t.Fields[a.aggIndex])
}

func (a *Aggregate) buildOutputs() error {
	desc := a.Descriptor()
	if a.groupByIndex == NoGrouping {
		if a.ungrouped == nil {
			a.ungrouped = newAggregateState(a.isString)
		}
		v, err := a.ungrouped.finalize(a.op)
		if err != nil {
			return err
		}
		a.outputs = []*Tuple{{Desc: *desc, Fields: []DBValue{v}}}
		return nil
	}
	a.outputs = make([]*Tuple, 0, len(a.groupOrder))
	for _, key := range a.groupOrder {
		v, err := a.groups[key].finalize(a.op)
		if err != nil {
			return err
		}
		a.outputs = append(a.outputs, &Tuple{Desc: *desc, Fields: []DBValue{key, v}})
	}
	return nil
}

func (a *Aggregate) fetchNext() (*Tuple, error) {
	if !a.built {
		for {
			ok, err := a.child.HasNext()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			t, err := a.child.Next()
			if err != nil {
				return nil, err
			}
			a.mergeTuple(t)
		}
		if err := a.buildOutputs(); err != nil {
			return nil, err
		}
		a.built = true
	}
	if a.outIdx >= len(a.outputs) {
		return nil, nil
	}
	t := a.outputs[a.outIdx]
	a.outIdx++
	return t, nil
}

func (a *Aggregate) Rewind() error {
	if err := a.child.Rewind(); err != nil {
		return err
	}
	// The grouped state itself need not be recomputed -- Rewind only
	// needs to replay the same finished aggregate a second time, per the
	// aggregator idempotence property -- but recomputing from a
	// freshly-rewound child is simpler and just as correct, so this
	// mirrors Open exactly.
	a.resetAggState()
	a.reset(a)
	return nil
}

func (a *Aggregate) Close() error {
	a.closeBase()
	return a.child.Close()
}
