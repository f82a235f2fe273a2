package coredb

// Predicate compares one field of a tuple against a constant:
// tuple.field(FieldIndex) `Op` Constant.
type Predicate struct {
	FieldIndex int
	Op         BoolOp
	Constant   DBValue
}

// NewPredicate constructs a Predicate.
func NewPredicate(fieldIndex int, op BoolOp, constant DBValue) *Predicate {
	return &Predicate{FieldIndex: fieldIndex, Op: op, Constant: constant}
}

// Filter reports whether t satisfies the predicate.
func (p *Predicate) Filter(t *Tuple) bool {
	return t.Fields[p.FieldIndex].EvalPred(p.Constant, p.Op)
}

// JoinPredicate compares one field of a left tuple against one field of a
// right tuple: left.field(LeftField) `Op` right.field(RightField).
type JoinPredicate struct {
	LeftField  int
	Op         BoolOp
	RightField int
}

// NewJoinPredicate constructs a JoinPredicate.
func NewJoinPredicate(leftField int, op BoolOp, rightField int) *JoinPredicate {
	return &JoinPredicate{LeftField: leftField, Op: op, RightField: rightField}
}

// Filter reports whether the pair (left, right) satisfies the predicate.
func (p *JoinPredicate) Filter(left, right *Tuple) bool {
	return left.Fields[p.LeftField].EvalPred(right.Fields[p.RightField], p.Op)
}
