package coredb

import (
	"sync"

	"github.com/dustin/go-humanize"
)

// DefaultPages is the buffer pool capacity used when a caller does not pick
// one explicitly (e.g. the CLI's default). It has no special status inside
// BufferPool itself -- eviction always fires against the pool's actual
// configured capacity, never against this constant. A previous generation
// of this engine evicted against a hardcoded default instead of the
// constructor argument; see DESIGN.md.
const DefaultPages = 50

// BufferPool caches HeapPages in memory, keyed by PageID, with an
// approximate-LRU eviction policy and a single pool-wide mutex protecting
// the resident map, the recency order, and every mutation path (insert,
// delete, flush, evict). It is the only component that mutates cached page
// bytes; files are mutated only through its flush and insert paths.
type BufferPool struct {
	mu       sync.Mutex
	capacity int
	catalog  *Catalog

	pages   map[PageID]*HeapPage
	recency []PageID // index 0 is least recently used
}

// NewBufferPool creates a BufferPool that caches up to capacity pages,
// resolving table ids to backing files through catalog.
func NewBufferPool(capacity int, catalog *Catalog) *BufferPool {
	return &BufferPool{
		capacity: capacity,
		catalog:  catalog,
		pages:    make(map[PageID]*HeapPage),
	}
}

// touch moves pid to the most-recently-used end of the recency order,
// inserting it if absent.
func (bp *BufferPool) touch(pid PageID) {
	for i, p := range bp.recency {
		if p == pid {
			bp.recency = append(bp.recency[:i], bp.recency[i+1:]...)
			break
		}
	}
	bp.recency = append(bp.recency, pid)
}

func (bp *BufferPool) forget(pid PageID) {
	for i, p := range bp.recency {
		if p == pid {
			bp.recency = append(bp.recency[:i], bp.recency[i+1:]...)
			return
		}
	}
}

// GetPage retrieves pid, loading it through its owning file on a cache
// miss. If the pool is at capacity, the least-recently-used resident page
// is evicted (flushed first if dirty) before the new page is added. The
// returned page is marked most-recently-used.
func (bp *BufferPool) GetPage(tid TransactionID, pid PageID, perm RWPerm) (*HeapPage, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if page, ok := bp.pages[pid]; ok {
		bp.touch(pid)
		return page, nil
	}

	file, err := bp.catalog.GetDBFile(pid.TableID)
	if err != nil {
		return nil, err
	}
	page, err := file.readPage(int(pid.PageNo))
	if err != nil {
		return nil, err
	}
	if err := bp.addPageLocked(page); err != nil {
		return nil, err
	}
	return page, nil
}

// addPageLocked adds page to the pool, evicting the LRU victim first if the
// pool is already at capacity. Callers must hold bp.mu.
func (bp *BufferPool) addPageLocked(page *HeapPage) error {
	if len(bp.pages) >= bp.capacity {
		if err := bp.evictLocked(); err != nil {
			return err
		}
	}
	bp.pages[page.ID()] = page
	bp.touch(page.ID())
	DPrintf("BufferPool: cached page %v (%s resident)", page.ID(), humanize.Bytes(uint64(len(bp.pages)*PageSize)))
	return nil
}

// evictLocked picks the least-recently-used resident page, flushes it if
// dirty, and drops it. Callers must hold bp.mu.
func (bp *BufferPool) evictLocked() error {
	if len(bp.recency) == 0 {
		return newDbErr("cannot evict from an empty buffer pool")
	}
	victim := bp.recency[0]
	page := bp.pages[victim]
	if _, dirty := page.IsDirty(); dirty {
		file, err := bp.catalog.GetDBFile(victim.TableID)
		if err != nil {
			return err
		}
		if err := file.writePage(page); err != nil {
			return err
		}
	}
	bp.forget(victim)
	delete(bp.pages, victim)
	DPrintf("BufferPool: evicted page %v", victim)
	return nil
}

// putPage installs page in the pool, replacing any existing resident
// version and marking it most-recently-used, evicting first if this is a
// new key and the pool is full.
func (bp *BufferPool) putPage(page *HeapPage) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	pid := page.ID()
	if _, ok := bp.pages[pid]; ok {
		bp.pages[pid] = page
		bp.touch(pid)
		return nil
	}
	return bp.addPageLocked(page)
}

// InsertTuple routes t to tableId's backing file and caches every page the
// file returns, marked dirty and owned by tid.
func (bp *BufferPool) InsertTuple(tid TransactionID, tableID int32, t *Tuple) error {
	file, err := bp.catalog.GetDBFile(tableID)
	if err != nil {
		return err
	}
	pages, err := file.insertTuple(t, tid)
	if err != nil {
		return err
	}
	for _, p := range pages {
		p.MarkDirty(true, tid)
		if err := bp.putPage(p); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTuple routes t's deletion to the file owning its record id and
// caches every page the file returns, marked dirty and owned by tid.
func (bp *BufferPool) DeleteTuple(tid TransactionID, t *Tuple) error {
	if t.Rid == nil {
		return newDbErr("cannot delete a tuple with no record id")
	}
	file, err := bp.catalog.GetDBFile(t.Rid.PID.TableID)
	if err != nil {
		return err
	}
	pages, err := file.deleteTuple(t, tid)
	if err != nil {
		return err
	}
	for _, p := range pages {
		p.MarkDirty(true, tid)
		if err := bp.putPage(p); err != nil {
			return err
		}
	}
	return nil
}

// FlushPage writes pid through its owning file if it is resident and
// dirty; otherwise it is a no-op.
func (bp *BufferPool) FlushPage(pid PageID) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.flushPageLocked(pid)
}

func (bp *BufferPool) flushPageLocked(pid PageID) error {
	page, ok := bp.pages[pid]
	if !ok {
		return nil
	}
	if _, dirty := page.IsDirty(); !dirty {
		return nil
	}
	file, err := bp.catalog.GetDBFile(pid.TableID)
	if err != nil {
		return err
	}
	if err := file.writePage(page); err != nil {
		return err
	}
	page.MarkDirty(false, TransactionID{})
	return nil
}

// FlushAllPages writes every resident dirty page to its backing file.
//
// NB: be careful calling this outside of tests -- it writes dirty data to
// disk, which breaks a no-steal policy if one is ever enforced above this
// core.
func (bp *BufferPool) FlushAllPages() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	for pid := range bp.pages {
		if err := bp.flushPageLocked(pid); err != nil {
			return err
		}
	}
	return nil
}

// FlushPages writes every resident page dirtied by tid to its backing
// file.
func (bp *BufferPool) FlushPages(tid TransactionID) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	for pid, page := range bp.pages {
		owner, dirty := page.IsDirty()
		if !dirty || owner != tid {
			continue
		}
		if err := bp.flushPageLocked(pid); err != nil {
			return err
		}
	}
	return nil
}

// DiscardPage drops pid from the pool without flushing it, for use by
// rollback/recovery hooks that must not let a rolled-back page's bytes
// reach disk.
func (bp *BufferPool) DiscardPage(pid PageID) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	delete(bp.pages, pid)
	bp.forget(pid)
}

// TransactionComplete is the hook a lock/log manager (out of scope here)
// calls when tid finishes. On commit it flushes every page tid dirtied; on
// abort it discards the resident pages tid dirtied without flushing them.
// Bytes that already reached disk before the abort (a dirty page flushed on
// eviction, or a new page written when a heap file grows) are not undone.
// At minimum, this must never leave a committed transaction's dirty pages
// unflushed.
func (bp *BufferPool) TransactionComplete(tid TransactionID, commit bool) error {
	if commit {
		return bp.FlushPages(tid)
	}
	bp.mu.Lock()
	defer bp.mu.Unlock()
	var toDiscard []PageID
	for pid, page := range bp.pages {
		if owner, dirty := page.IsDirty(); dirty && owner == tid {
			toDiscard = append(toDiscard, pid)
		}
	}
	for _, pid := range toDiscard {
		delete(bp.pages, pid)
		bp.forget(pid)
	}
	return nil
}

// Len reports the number of resident pages, for tests asserting capacity
// invariants.
func (bp *BufferPool) Len() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return len(bp.pages)
}
