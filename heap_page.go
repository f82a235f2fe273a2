package coredb

import (
	"bytes"
	"io"
	"math/bits"
)

// HeapPage is the on-disk and in-memory representation of one page of a
// HeapFile. Tuples are fixed length, so a page of PageSize bytes begins
// with a bitmap header naming which of its fixed-width slots are occupied,
// followed by the slots themselves, followed by zero padding out to
// PageSize.
//
// Layout of a page of size P:
//   - H = ceil(numSlots/8) header bytes; bit i of byte i/8 is set iff slot i
//     is occupied (LSB-first within a byte).
//   - numSlots slots, each desc.size() bytes, concatenated.
//   - zero padding so the total length is exactly P.
type HeapPage struct {
	id   PageID
	desc *TupleDesc

	header []byte
	tuples []*Tuple

	numSlots int

	dirty      bool
	dirtyOwner TransactionID

	// beforeImage is a snapshot of the page's bytes as read from disk (or,
	// for a page created in memory, of its empty state), kept for recovery
	// hooks the lock/log manager (out of scope here) would use to undo an
	// in-progress transaction. Flushing the page does not refresh it.
	beforeImage []byte
}

// numSlotsFor computes numSlots = floor(P*8 / (tupleSize*8 + 1)); the "+1"
// accounts for the header bit each slot costs.
func numSlotsFor(desc *TupleDesc) int {
	tupleBits := desc.size() * 8
	return (PageSize * 8) / (tupleBits + 1)
}

func headerSizeFor(numSlots int) int {
	return (numSlots + 7) / 8
}

// newHeapPage constructs a fresh, entirely empty page (all slots free).
func newHeapPage(id PageID, desc *TupleDesc) *HeapPage {
	numSlots := numSlotsFor(desc)
	hp := &HeapPage{
		id:       id,
		desc:     desc,
		header:   make([]byte, headerSizeFor(numSlots)),
		tuples:   make([]*Tuple, numSlots),
		numSlots: numSlots,
	}
	data, _ := hp.pageData()
	hp.beforeImage = data
	return hp
}

// heapPageFromBytes decodes an existing page's bytes. Any occupied slot
// whose decoding fails is fatal (ParseError), per the page-read contract.
func heapPageFromBytes(id PageID, desc *TupleDesc, data []byte) (*HeapPage, error) {
	if len(data) != PageSize {
		return nil, newParseErr("page %v: expected %d bytes, got %d", id, PageSize, len(data))
	}
	numSlots := numSlotsFor(desc)
	headerSize := headerSizeFor(numSlots)

	hp := &HeapPage{
		id:       id,
		desc:     desc,
		numSlots: numSlots,
	}
	hp.header = append([]byte(nil), data[:headerSize]...)
	hp.tuples = make([]*Tuple, numSlots)

	r := bytes.NewReader(data[headerSize:])
	slotWidth := desc.size()
	for i := 0; i < numSlots; i++ {
		if !hp.isSlotUsed(i) {
			if _, err := r.Seek(int64(slotWidth), io.SeekCurrent); err != nil {
				return nil, newParseErr("page %v: skipping empty slot %d: %v", id, i, err)
			}
			continue
		}
		t, err := readTupleFrom(r, desc)
		if err != nil {
			return nil, newParseErr("page %v: decoding occupied slot %d: %v", id, i, err)
		}
		rid := newRecordID(id.TableID, int(id.PageNo), i)
		t.Rid = &rid
		hp.tuples[i] = t
	}

	hp.beforeImage = append([]byte(nil), data...)
	return hp, nil
}

// ID returns the page's identity.
func (h *HeapPage) ID() PageID { return h.id }

func (h *HeapPage) isSlotUsed(i int) bool {
	return h.header[i/8]&(1<<(uint(i)%8)) != 0
}

func (h *HeapPage) markSlotUsed(i int, used bool) {
	if used {
		h.header[i/8] |= 1 << (uint(i) % 8)
	} else {
		h.header[i/8] &^= 1 << (uint(i) % 8)
	}
}

// ffs returns the 0-based index of the lowest set bit of b, or -1 if b is
// zero.
func ffs(b byte) int {
	if b == 0 {
		return -1
	}
	return bits.TrailingZeros8(b)
}

// NumEmptySlots returns the number of unoccupied slots, computed by
// popcount over the header bitmap. When COREDB_DEBUG is set this is
// cross-checked against a slot-by-slot scan, matching the reference
// implementation's internal consistency check (invariant 1): the two must
// always agree, and a disagreement is logged through DPrintf.
func (h *HeapPage) NumEmptySlots() int {
	used := 0
	for _, b := range h.header {
		used += bits.OnesCount8(b)
	}
	if debugEnabled {
		scanned := 0
		for i := 0; i < h.numSlots; i++ {
			if h.isSlotUsed(i) {
				scanned++
			}
		}
		if scanned != used {
			DPrintf("HeapPage %v: header popcount %d disagrees with slot scan %d", h.id, used, scanned)
		}
	}
	return h.numSlots - used
}

// insertTuple writes t into the lowest-numbered free slot, sets the tuple's
// record id, and marks the page dirty. Returns a DbError ("page full") if
// there is no free slot.
func (h *HeapPage) insertTuple(t *Tuple) error {
	for byteIdx, b := range h.header {
		free := ffs(^b)
		if free < 0 {
			continue
		}
		slot := byteIdx*8 + free
		if slot >= h.numSlots {
			continue
		}
		rid := newRecordID(h.id.TableID, int(h.id.PageNo), slot)
		stored := *t
		stored.Rid = &rid
		h.tuples[slot] = &stored
		t.Rid = &rid
		h.markSlotUsed(slot, true)
		h.dirty = true
		return nil
	}
	return newDbErr("page full")
}

// deleteTuple clears the slot named by rid. Returns a DbError if rid does
// not name an occupied slot on this page.
func (h *HeapPage) deleteTuple(rid RecordID) error {
	if rid.PID != h.id {
		return newDbErr("record id %v does not name a slot on page %v", rid, h.id)
	}
	slot := int(rid.Slot)
	if slot < 0 || slot >= h.numSlots || !h.isSlotUsed(slot) {
		return newDbErr("not found on page: slot %d", slot)
	}
	h.markSlotUsed(slot, false)
	h.tuples[slot] = nil
	h.dirty = true
	return nil
}

// BeforeImage returns the page's bytes as they were when the page was read
// from disk or created empty; a flush does not update it. The recovery
// manager (out of scope
// here) uses this to undo an aborted transaction's in-memory mutations
// without a disk round-trip.
func (h *HeapPage) BeforeImage() []byte {
	return h.beforeImage
}

// IsDirty reports whether the page has unflushed mutations, and the
// transaction that owns them.
func (h *HeapPage) IsDirty() (TransactionID, bool) {
	return h.dirtyOwner, h.dirty
}

// MarkDirty sets or clears the page's dirty bit and owning transaction.
func (h *HeapPage) MarkDirty(dirty bool, tid TransactionID) {
	h.dirty = dirty
	if dirty {
		h.dirtyOwner = tid
	} else {
		h.dirtyOwner = TransactionID{}
	}
}

// pageData serializes the page: header, then each slot (zeros if empty),
// then zero padding to PageSize.
func (h *HeapPage) pageData() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(h.header)

	slotWidth := h.desc.size()
	for _, t := range h.tuples {
		if t == nil {
			buf.Write(make([]byte, slotWidth))
			continue
		}
		if err := t.writeTo(buf); err != nil {
			return nil, newIoErr(err, "serializing tuple on page %v", h.id)
		}
	}

	if buf.Len() > PageSize {
		return nil, newDbErr("page %v serialized to %d bytes, exceeds PageSize %d", h.id, buf.Len(), PageSize)
	}
	if buf.Len() < PageSize {
		buf.Write(make([]byte, PageSize-buf.Len()))
	}
	return buf.Bytes(), nil
}

// tupleIter returns a closure yielding the page's occupied slots in
// ascending order, then (nil, nil).
func (h *HeapPage) tupleIter() func() (*Tuple, error) {
	i := 0
	return func() (*Tuple, error) {
		for i < len(h.tuples) {
			t := h.tuples[i]
			i++
			if t != nil {
				return t, nil
			}
		}
		return nil, nil
	}
}
