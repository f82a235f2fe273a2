package coredb

// Insert drains child on its first pull, inserting each tuple into
// insertFile through the buffer pool, then yields a single one-field INT
// tuple carrying the affected-row count. Every subsequent pull yields
// nothing.
type Insert struct {
	opBase

	insertFile DBFile
	bufferPool *BufferPool
	child      OpIterator

	done bool
}

// NewInsert constructs an Insert operator that inserts the records of child
// into insertFile via bufferPool.
func NewInsert(insertFile DBFile, bufferPool *BufferPool, child OpIterator) *Insert {
	return &Insert{insertFile: insertFile, bufferPool: bufferPool, child: child}
}

func (i *Insert) Descriptor() *TupleDesc {
	return &TupleDesc{Fields: []FieldType{{Fname: "count", Ftype: IntType}}}
}

func (i *Insert) Children() []OpIterator { return []OpIterator{i.child} }

func (i *Insert) SetChildren(children []OpIterator) {
	i.child = children[0]
}

func (i *Insert) Open(tid TransactionID) error {
	i.tid = tid
	if err := i.child.Open(tid); err != nil {
		return err
	}
	i.done = false
	i.reset(i)
	return nil
}

func (i *Insert) fetchNext() (*Tuple, error) {
	if i.done {
		return nil, nil
	}
	i.done = true

	var count int64
	for {
		ok, err := i.child.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		t, err := i.child.Next()
		if err != nil {
			return nil, err
		}
		if err := i.bufferPool.InsertTuple(i.tid, i.insertFile.ID(), t); err != nil {
			return nil, err
		}
		count++
	}

	return &Tuple{Desc: *i.Descriptor(), Fields: []DBValue{IntField{Value: count}}}, nil
}

func (i *Insert) Rewind() error {
	if err := i.child.Rewind(); err != nil {
		return err
	}
	i.done = false
	i.reset(i)
	return nil
}

func (i *Insert) Close() error {
	i.closeBase()
	return i.child.Close()
}
