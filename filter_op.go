package coredb

// Filter pulls from child until predicate accepts a tuple or child is
// exhausted. Its output schema is child's schema unchanged.
type Filter struct {
	opBase

	predicate *Predicate
	child     OpIterator
}

// NewFilter constructs a Filter operator.
func NewFilter(predicate *Predicate, child OpIterator) *Filter {
	return &Filter{predicate: predicate, child: child}
}

func (f *Filter) Descriptor() *TupleDesc { return f.child.Descriptor() }

func (f *Filter) Children() []OpIterator { return []OpIterator{f.child} }

func (f *Filter) SetChildren(children []OpIterator) {
	f.child = children[0]
}

func (f *Filter) Open(tid TransactionID) error {
	f.tid = tid
	if err := f.child.Open(tid); err != nil {
		return err
	}
	f.reset(f)
	return nil
}

func (f *Filter) fetchNext() (*Tuple, error) {
	for {
		ok, err := f.child.HasNext()
		if err != nil {
			DPrintf("Filter: child HasNext: %v", err)
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		t, err := f.child.Next()
		if err != nil {
			return nil, err
		}
		if f.predicate.Filter(t) {
			return t, nil
		}
	}
}

func (f *Filter) Rewind() error {
	if err := f.child.Rewind(); err != nil {
		return err
	}
	f.reset(f)
	return nil
}

func (f *Filter) Close() error {
	f.closeBase()
	return f.child.Close()
}
