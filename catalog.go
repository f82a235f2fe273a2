package coredb

import "sync"

// tableEntry is one row of the Catalog: a registered table's backing file,
// its display name, and the name of its primary-key field (if any). The
// primary-key name is tracked because the specification's Catalog contract
// names it explicitly, even though no in-scope operator consults it yet --
// it is a hook for the out-of-scope optimizer/front-end.
type tableEntry struct {
	file DBFile
	name string
	pkey string
}

// Catalog is the process-wide registry from table id to (file, name,
// primary-key name). Registering a name or id that already exists replaces
// the previous entry, matching the specification's contract.
type Catalog struct {
	mu       sync.RWMutex
	byID     map[int32]*tableEntry
	byName   map[string]int32
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byID:   make(map[int32]*tableEntry),
		byName: make(map[string]int32),
	}
}

// AddTable registers file under name with the given primary-key field name
// (empty if the table has none). The table id is file.ID().
func (c *Catalog) AddTable(file DBFile, name string, primaryKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := file.ID()
	if old, ok := c.byID[id]; ok {
		delete(c.byName, old.name)
	}
	if oldID, ok := c.byName[name]; ok {
		delete(c.byID, oldID)
	}
	c.byID[id] = &tableEntry{file: file, name: name, pkey: primaryKey}
	c.byName[name] = id
	DPrintf("Catalog: registered table %q as id %d", name, id)
}

// GetDBFile returns the file backing tableID.
func (c *Catalog) GetDBFile(tableID int32) (DBFile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byID[tableID]
	if !ok {
		return nil, newDbErr("no table registered with id %d", tableID)
	}
	return e.file, nil
}

// GetTableID returns the id of the table registered under name.
func (c *Catalog) GetTableID(name string) (int32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byName[name]
	if !ok {
		return 0, newDbErr("no table registered with name %q", name)
	}
	return id, nil
}

// GetTableName returns the display name tableID was registered under.
func (c *Catalog) GetTableName(tableID int32) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byID[tableID]
	if !ok {
		return "", newDbErr("no table registered with id %d", tableID)
	}
	return e.name, nil
}

// PrimaryKey returns the primary-key field name tableID was registered
// with, which may be empty.
func (c *Catalog) PrimaryKey(tableID int32) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byID[tableID]
	if !ok {
		return "", newDbErr("no table registered with id %d", tableID)
	}
	return e.pkey, nil
}

// TupleDesc returns the descriptor of the file registered under tableID.
func (c *Catalog) TupleDesc(tableID int32) (*TupleDesc, error) {
	file, err := c.GetDBFile(tableID)
	if err != nil {
		return nil, err
	}
	return file.Descriptor(), nil
}

// TableIDs returns every registered table id, in no particular order.
func (c *Catalog) TableIDs() []int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int32, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	return ids
}
