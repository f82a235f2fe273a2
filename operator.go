package coredb

// OpIterator is the pull-iterator contract every relational operator
// implements:
//
//	Open()                freshly constructed or after Close(): opens children, resets state
//	HasNext()              after Open(): true iff Next() will return a tuple
//	Next()                 HasNext() was true: returns the next tuple, advances
//	Rewind()                after Open(): subsequent iteration restarts from the beginning
//	Close()                 any time: closes children, idempotent
//	Descriptor()             any time: the output schema
//	Children()/SetChildren() any time: plan-rewrite hooks
type OpIterator interface {
	Open(tid TransactionID) error
	HasNext() (bool, error)
	Next() (*Tuple, error)
	Rewind() error
	Close() error
	Descriptor() *TupleDesc
	Children() []OpIterator
	SetChildren(children []OpIterator)
}

// fetcher is implemented by every concrete operator's inner logic: pull one
// tuple, or (nil, nil) at end of stream.
type fetcher interface {
	fetchNext() (*Tuple, error)
}

// opBase implements the lookahead caching every OpIterator needs so that
// HasNext/Next stay consistent, the way the reference implementation's
// abstract Operator base class does for its subclasses. Concrete operators
// embed opBase and provide fetchNext (and their own Open/Rewind/Close logic
// for their children, calling into base at the right points).
type opBase struct {
	self     fetcher
	tid      TransactionID
	opened   bool
	buffered *Tuple
	hasBuf   bool
}

func (b *opBase) reset(self fetcher) {
	b.self = self
	b.opened = true
	b.hasBuf = false
	b.buffered = nil
}

func (b *opBase) HasNext() (bool, error) {
	if !b.opened {
		return false, newDbErr("HasNext called before Open")
	}
	if b.hasBuf {
		return true, nil
	}
	t, err := b.self.fetchNext()
	if err != nil {
		return false, err
	}
	if t == nil {
		return false, nil
	}
	b.buffered = t
	b.hasBuf = true
	return true, nil
}

func (b *opBase) Next() (*Tuple, error) {
	if !b.hasBuf {
		ok, err := b.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newDbErr("Next called with no tuple available")
		}
	}
	t := b.buffered
	b.buffered = nil
	b.hasBuf = false
	return t, nil
}

func (b *opBase) closeBase() {
	b.opened = false
	b.hasBuf = false
	b.buffered = nil
}
