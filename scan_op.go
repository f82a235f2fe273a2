package coredb

// SeqScan wraps a heap file's iterator for one table id under a
// transaction, the leaf of every plan that reads a table.
type SeqScan struct {
	opBase

	tableID int32
	catalog *Catalog

	fileIter func() (*Tuple, error)
}

// NewSeqScan constructs a scan of tableID, resolved through catalog.
func NewSeqScan(tableID int32, catalog *Catalog) *SeqScan {
	return &SeqScan{tableID: tableID, catalog: catalog}
}

func (s *SeqScan) Descriptor() *TupleDesc {
	td, err := s.catalog.TupleDesc(s.tableID)
	if err != nil {
		return nil
	}
	return td
}

func (s *SeqScan) Children() []OpIterator      { return nil }
func (s *SeqScan) SetChildren(_ []OpIterator) {}

func (s *SeqScan) Open(tid TransactionID) error {
	s.tid = tid
	file, err := s.catalog.GetDBFile(s.tableID)
	if err != nil {
		return err
	}
	iter, err := file.Iterator(tid)
	if err != nil {
		return err
	}
	s.fileIter = iter
	s.reset(s)
	return nil
}

func (s *SeqScan) fetchNext() (*Tuple, error) {
	return s.fileIter()
}

func (s *SeqScan) Rewind() error {
	return s.Open(s.tid)
}

func (s *SeqScan) Close() error {
	s.closeBase()
	s.fileIter = nil
	return nil
}
