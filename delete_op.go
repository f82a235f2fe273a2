package coredb

// Delete drains child on its first pull, deleting each tuple through the
// buffer pool, then yields a single one-field INT tuple carrying the
// deleted-row count. Every subsequent pull yields nothing.
type Delete struct {
	opBase

	bufferPool *BufferPool
	child      OpIterator

	done bool
}

// NewDelete constructs a Delete operator that deletes the records of child
// via bufferPool.
func NewDelete(bufferPool *BufferPool, child OpIterator) *Delete {
	return &Delete{bufferPool: bufferPool, child: child}
}

func (d *Delete) Descriptor() *TupleDesc {
	return &TupleDesc{Fields: []FieldType{{Fname: "count", Ftype: IntType}}}
}

func (d *Delete) Children() []OpIterator { return []OpIterator{d.child} }

func (d *Delete) SetChildren(children []OpIterator) {
	d.child = children[0]
}

func (d *Delete) Open(tid TransactionID) error {
	d.tid = tid
	if err := d.child.Open(tid); err != nil {
		return err
	}
	d.done = false
	d.reset(d)
	return nil
}

func (d *Delete) fetchNext() (*Tuple, error) {
	if d.done {
		return nil, nil
	}
	d.done = true

	var count int64
	for {
		ok, err := d.child.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		t, err := d.child.Next()
		if err != nil {
			return nil, err
		}
		if err := d.bufferPool.DeleteTuple(d.tid, t); err != nil {
			return nil, err
		}
		count++
	}

	return &Tuple{Desc: *d.Descriptor(), Fields: []DBValue{IntField{Value: count}}}, nil
}

func (d *Delete) Rewind() error {
	if err := d.child.Rewind(); err != nil {
		return err
	}
	d.done = false
	d.reset(d)
	return nil
}

func (d *Delete) Close() error {
	d.closeBase()
	return d.child.Close()
}
