package coredb

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
)

// DBFile is the interface the Catalog and BufferPool hold tables through. A
// B+ tree index file would be a second implementation; only HeapFile is in
// scope here.
type DBFile interface {
	ID() int32
	Descriptor() *TupleDesc
	insertTuple(t *Tuple, tid TransactionID) ([]*HeapPage, error)
	deleteTuple(t *Tuple, tid TransactionID) ([]*HeapPage, error)
	readPage(pageNo int) (*HeapPage, error)
	writePage(p *HeapPage) error
	Iterator(tid TransactionID) (func() (*Tuple, error), error)
}

// HeapFile is an unordered collection of tuples backed by one file on disk,
// partitioned into fixed-size pages. It works closely with HeapPage, whose
// layout is described in heap_page.go.
type HeapFile struct {
	path    string
	desc    *TupleDesc
	bufPool *BufferPool
	tableID int32
}

// NewHeapFile constructs a HeapFile backed by path, which may be empty or a
// previously created heap file. The table id is a stable hash of path's
// absolute form, so the same file always yields the same id across
// process restarts -- the specification's own suggestion (a stable hash of
// the absolute path) generalized from the reference's non-portable
// Object.hashCode() to a real hash function.
func NewHeapFile(path string, desc *TupleDesc, bp *BufferPool) (*HeapFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, newIoErr(err, "resolving absolute path for %q", path)
	}
	// Ensure the file exists so NumPages/readPage/writePage have
	// something to open.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0666)
	if err != nil {
		return nil, newIoErr(err, "creating heap file %q", path)
	}
	f.Close()

	return &HeapFile{
		path:    path,
		desc:    desc,
		bufPool: bp,
		tableID: int32(xxhash.Sum64String(abs) & 0x7fffffff),
	}, nil
}

// ID returns the table id derived from this file's absolute path.
func (f *HeapFile) ID() int32 { return f.tableID }

// Descriptor returns the schema of tuples stored in this file.
func (f *HeapFile) Descriptor() *TupleDesc { return f.desc }

// Path returns the backing file's path.
func (f *HeapFile) Path() string { return f.path }

// NumPages returns floor(file_length / PageSize): the number of complete
// pages currently in the file. A previous generation of this engine rounded
// up on a trailing partial page; the file format never has one, since every
// write extends the file by exactly PageSize bytes.
func (f *HeapFile) NumPages() int {
	info, err := os.Stat(f.path)
	if err != nil {
		DPrintf("HeapFile %s: NumPages Stat: %v", f.path, err)
		return 0
	}
	return int(info.Size() / PageSize)
}

// readPage reads page number pageNo from disk and decodes it. Called by
// BufferPool.GetPage on a cache miss.
func (f *HeapFile) readPage(pageNo int) (*HeapPage, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, newIoErr(err, "opening heap file %q", f.path)
	}
	defer file.Close()

	if _, err := file.Seek(int64(pageNo)*PageSize, io.SeekStart); err != nil {
		return nil, newIoErr(err, "seeking to page %d of %q", pageNo, f.path)
	}
	data := make([]byte, PageSize)
	n, err := io.ReadFull(file, data)
	if err != nil {
		return nil, newIoErr(err, "reading page %d of %q (got %d bytes)", pageNo, f.path, n)
	}

	id := PageID{TableID: f.tableID, PageNo: int32(pageNo)}
	return heapPageFromBytes(id, f.desc, data)
}

// writePage writes page's current bytes to its slot in the file, extending
// the file if writing past its current end.
func (f *HeapFile) writePage(page *HeapPage) error {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_RDWR, 0666)
	if err != nil {
		return newIoErr(err, "opening heap file %q for write", f.path)
	}
	defer file.Close()

	pageNo := int64(page.ID().PageNo)
	if _, err := file.Seek(pageNo*PageSize, io.SeekStart); err != nil {
		return newIoErr(err, "seeking to page %d of %q", pageNo, f.path)
	}
	data, err := page.pageData()
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		return newIoErr(err, "writing page %d of %q", pageNo, f.path)
	}
	return nil
}

// insertTuple scans pages 0..NumPages-1 through the buffer pool for the
// first with a free slot; if none has one, it creates a new page at the end
// of the file, inserts into it, and writes that page (tuple included) to
// disk directly rather than through the buffer pool.
func (f *HeapFile) insertTuple(t *Tuple, tid TransactionID) ([]*HeapPage, error) {
	if !f.desc.equals(&t.Desc) {
		return nil, newDbErr("tuple descriptor does not match table %d", f.tableID)
	}

	numPages := f.NumPages()
	for pageNo := 0; pageNo < numPages; pageNo++ {
		pid := PageID{TableID: f.tableID, PageNo: int32(pageNo)}
		page, err := f.bufPool.GetPage(tid, pid, WritePerm)
		if err != nil {
			return nil, err
		}
		if page.NumEmptySlots() == 0 {
			continue
		}
		if err := page.insertTuple(t); err != nil {
			return nil, err
		}
		return []*HeapPage{page}, nil
	}

	pid := PageID{TableID: f.tableID, PageNo: int32(numPages)}
	page := newHeapPage(pid, f.desc)
	if err := page.insertTuple(t); err != nil {
		return nil, err
	}
	if err := f.writePage(page); err != nil {
		return nil, err
	}
	DPrintf("HeapFile %s: grew to page %d (%s)", f.path, numPages, humanize.Comma(int64(numPages+1)))
	return []*HeapPage{page}, nil
}

// deleteTuple loads t's record id's page with write intent and deletes it.
func (f *HeapFile) deleteTuple(t *Tuple, tid TransactionID) ([]*HeapPage, error) {
	if t.Rid == nil {
		return nil, newDbErr("cannot delete a tuple with no record id")
	}
	page, err := f.bufPool.GetPage(tid, t.Rid.PID, WritePerm)
	if err != nil {
		return nil, err
	}
	if err := page.deleteTuple(*t.Rid); err != nil {
		return nil, err
	}
	return []*HeapPage{page}, nil
}

// Iterator returns a closure walking every tuple of every page of the file,
// in page order, obtaining each page through the buffer pool. Tuples it
// yields carry a populated Rid, so they can be round-tripped to
// deleteTuple.
func (f *HeapFile) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	pageNo := 0
	var pageIter func() (*Tuple, error)

	return func() (*Tuple, error) {
		for {
			if pageIter == nil {
				if pageNo >= f.NumPages() {
					return nil, nil
				}
				pid := PageID{TableID: f.tableID, PageNo: int32(pageNo)}
				page, err := f.bufPool.GetPage(tid, pid, ReadPerm)
				if err != nil {
					return nil, err
				}
				pageIter = page.tupleIter()
			}

			t, err := pageIter()
			if err != nil {
				return nil, err
			}
			if t == nil {
				pageIter = nil
				pageNo++
				continue
			}
			return t, nil
		}
	}, nil
}
