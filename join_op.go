package coredb

// Join is a nested-loops equi/theta join: for each left tuple, it scans the
// entirety of right; when right is exhausted it is rewound and the next
// left tuple is pulled. Output schema is merge(left.Descriptor(),
// right.Descriptor()); output tuples are the concatenation of matching
// left and right fields. Duplicate join columns are not removed.
type Join struct {
	opBase

	predicate   *JoinPredicate
	left, right OpIterator

	leftTuple    *Tuple
	rightIsEmpty bool
	checkedEmpty bool
}

// NewJoin constructs a nested-loops Join operator.
func NewJoin(predicate *JoinPredicate, left, right OpIterator) *Join {
	return &Join{predicate: predicate, left: left, right: right}
}

func (j *Join) Descriptor() *TupleDesc {
	return j.left.Descriptor().merge(j.right.Descriptor())
}

func (j *Join) Children() []OpIterator { return []OpIterator{j.left, j.right} }

func (j *Join) SetChildren(children []OpIterator) {
	j.left, j.right = children[0], children[1]
}

func (j *Join) Open(tid TransactionID) error {
	j.tid = tid
	if err := j.left.Open(tid); err != nil {
		return err
	}
	if err := j.right.Open(tid); err != nil {
		return err
	}
	j.leftTuple = nil
	j.rightIsEmpty = false
	j.checkedEmpty = false
	j.reset(j)
	return nil
}

// fetchNext implements the nested-loops state machine. Once the right
// relation is observed to be empty on its first pass, every subsequent left
// tuple would scan an equally empty right side and match nothing, so
// iteration ends immediately rather than exhausting left for no reason --
// the behavior the specification's inner-empty early-exit describes,
// without the bug of stopping before later left tuples that might have
// matched a non-empty right side.
func (j *Join) fetchNext() (*Tuple, error) {
	for {
		if j.rightIsEmpty {
			return nil, nil
		}

		if j.leftTuple == nil {
			ok, err := j.left.HasNext()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, nil
			}
			lt, err := j.left.Next()
			if err != nil {
				return nil, err
			}
			j.leftTuple = lt
		}

		ok, err := j.right.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			if !j.checkedEmpty {
				j.checkedEmpty = true
				j.rightIsEmpty = true
				j.leftTuple = nil
				continue
			}
			if err := j.right.Rewind(); err != nil {
				return nil, err
			}
			j.leftTuple = nil
			continue
		}
		j.checkedEmpty = true

		rt, err := j.right.Next()
		if err != nil {
			return nil, err
		}
		if j.predicate.Filter(j.leftTuple, rt) {
			return joinTuples(j.leftTuple, rt), nil
		}
	}
}

func (j *Join) Rewind() error {
	if err := j.left.Rewind(); err != nil {
		return err
	}
	if err := j.right.Rewind(); err != nil {
		return err
	}
	j.leftTuple = nil
	j.rightIsEmpty = false
	j.checkedEmpty = false
	j.reset(j)
	return nil
}

func (j *Join) Close() error {
	j.closeBase()
	if err := j.left.Close(); err != nil {
		return err
	}
	return j.right.Close()
}
