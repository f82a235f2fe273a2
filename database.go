package coredb

import "sync"

// Database is the process-wide handle to the engine's shared state: the
// Catalog and the BufferPool. Most callers should prefer constructing their
// own Catalog and BufferPool explicitly (see NewCatalog/NewBufferPool) and
// threading them through -- an explicit "engine context" is easier to test
// in isolation than a global. Database exists for the CLI entry point and
// for tests that want the reference singleton lifecycle: initialized once,
// reset between test cases.
type Database struct {
	catalog    *Catalog
	bufferPool *BufferPool
}

var (
	instanceMu sync.Mutex
	instance   *Database
)

// GetDatabase returns the process-wide Database, creating it with
// DefaultPages capacity on first use.
func GetDatabase() *Database {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		instance = newDatabase(DefaultPages)
	}
	return instance
}

func newDatabase(capacity int) *Database {
	catalog := NewCatalog()
	return &Database{
		catalog:    catalog,
		bufferPool: NewBufferPool(capacity, catalog),
	}
}

// Reset discards the process-wide Database and rebuilds it with a fresh,
// empty Catalog and BufferPool of the given capacity. Test suites call this
// between cases so buffer pool state and registered tables from one test
// cannot leak into the next.
func Reset(capacity int) *Database {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	instance = newDatabase(capacity)
	return instance
}

// Catalog returns the process-wide Catalog.
func (d *Database) Catalog() *Catalog { return d.catalog }

// BufferPool returns the process-wide BufferPool.
func (d *Database) BufferPool() *BufferPool { return d.bufferPool }
