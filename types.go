package coredb

import "strconv"

// PageSize is the fixed size, in bytes, of every page in every heap file and
// of every page resident in the buffer pool.
const PageSize = 4096

// DBFieldType is the closed set of field types the engine supports.
type DBFieldType int

const (
	IntType DBFieldType = iota
	StringType
)

// IntLength is the on-disk size, in bytes, of an INT field: 4 bytes,
// big-endian, two's complement.
const IntLength = 4

// StringPayloadLength is the maximum number of payload bytes a STRING field
// may carry (L in the specification). A STRING field's total on-disk size is
// a 4-byte big-endian length prefix followed by StringPayloadLength bytes of
// payload/zero-padding, so StringLength = 4 + StringPayloadLength.
const StringPayloadLength = 128

// StringLength is the total on-disk size, in bytes, of a STRING field
// (length prefix + payload region).
const StringLength = IntLength + StringPayloadLength

// Len returns the fixed on-disk size of a field of this type.
func (t DBFieldType) Len() int {
	switch t {
	case IntType:
		return IntLength
	case StringType:
		return StringLength
	default:
		return 0
	}
}

func (t DBFieldType) String() string {
	switch t {
	case IntType:
		return "int"
	case StringType:
		return "string"
	default:
		return "unknown"
	}
}

// BoolOp is a predicate comparison operator.
type BoolOp int

const (
	OpEquals BoolOp = iota
	OpNotEquals
	OpLessThan
	OpLessThanOrEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLike
)

func (op BoolOp) String() string {
	switch op {
	case OpEquals:
		return "="
	case OpNotEquals:
		return "<>"
	case OpLessThan:
		return "<"
	case OpLessThanOrEqual:
		return "<="
	case OpGreaterThan:
		return ">"
	case OpGreaterThanOrEqual:
		return ">="
	case OpLike:
		return "LIKE"
	default:
		return "?"
	}
}

// AggOp is an aggregation operator.
type AggOp int

const (
	AggMin AggOp = iota
	AggMax
	AggSum
	AggCount
	AggAvg
)

func (op AggOp) String() string {
	switch op {
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggSum:
		return "sum"
	case AggCount:
		return "count"
	case AggAvg:
		return "avg"
	default:
		return "?"
	}
}

// NoGrouping is the sentinel group-by field index meaning "compute one
// global aggregate across all input tuples".
const NoGrouping = -1

// TransactionID is an opaque, monotonic identifier attributing dirty pages
// to a logical unit of work. It carries no lock-manager semantics in this
// core -- the lock manager itself is an external collaborator -- but every
// page mutation is tagged with one so a future lock/log manager has
// something to key off of.
type TransactionID struct {
	id int64
}

var tidCounter int64

// NewTID allocates a fresh, process-unique transaction id.
func NewTID() TransactionID {
	tidCounter++
	return TransactionID{id: tidCounter}
}

func (t TransactionID) String() string {
	return "txn#" + strconv.FormatInt(t.id, 10)
}

// RWPerm names the permission with which a page is requested from the
// buffer pool.
type RWPerm int

const (
	ReadPerm RWPerm = iota
	WritePerm
)
