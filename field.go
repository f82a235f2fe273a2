package coredb

import (
	"encoding/binary"
	"io"
	"strings"
)

// DBValue is a tagged field value: an IntField or a StringField. It is the
// engine's runtime representation of one column of one tuple.
type DBValue interface {
	// Type returns the field's type tag.
	Type() DBFieldType
	// EvalPred compares the receiver to other using op, implementing the
	// predicate comparator contract {=, <>, <, <=, >, >=, LIKE}. LIKE on
	// strings is substring containment; on ints it is equality.
	EvalPred(other DBValue, op BoolOp) bool
	// writeTo serializes the value in its fixed on-disk encoding.
	writeTo(w io.Writer) error
}

// IntField is a signed 4-byte (on disk), 64-bit (in memory) integer value.
type IntField struct {
	Value int64
}

func (f IntField) Type() DBFieldType { return IntType }

func (f IntField) EvalPred(other DBValue, op BoolOp) bool {
	o, ok := other.(IntField)
	if !ok {
		return false
	}
	switch op {
	case OpEquals, OpLike:
		return f.Value == o.Value
	case OpNotEquals:
		return f.Value != o.Value
	case OpLessThan:
		return f.Value < o.Value
	case OpLessThanOrEqual:
		return f.Value <= o.Value
	case OpGreaterThan:
		return f.Value > o.Value
	case OpGreaterThanOrEqual:
		return f.Value >= o.Value
	default:
		return false
	}
}

func (f IntField) writeTo(w io.Writer) error {
	return binary.Write(w, binary.BigEndian, int32(f.Value))
}

// readIntField parses an on-disk INT field (4 bytes, big-endian, two's
// complement).
func readIntField(r io.Reader) (IntField, error) {
	var v int32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return IntField{}, newParseErr("reading int field: %v", err)
	}
	return IntField{Value: int64(v)}, nil
}

// StringField is a fixed-width string value, truncated to
// StringPayloadLength bytes on write if longer.
type StringField struct {
	Value string
}

func (f StringField) Type() DBFieldType { return StringType }

func (f StringField) EvalPred(other DBValue, op BoolOp) bool {
	o, ok := other.(StringField)
	if !ok {
		return false
	}
	switch op {
	case OpEquals:
		return f.Value == o.Value
	case OpNotEquals:
		return f.Value != o.Value
	case OpLessThan:
		return f.Value < o.Value
	case OpLessThanOrEqual:
		return f.Value <= o.Value
	case OpGreaterThan:
		return f.Value > o.Value
	case OpGreaterThanOrEqual:
		return f.Value >= o.Value
	case OpLike:
		return strings.Contains(f.Value, o.Value)
	default:
		return false
	}
}

func (f StringField) writeTo(w io.Writer) error {
	payload := f.Value
	if len(payload) > StringPayloadLength {
		payload = payload[:StringPayloadLength]
	}
	if err := binary.Write(w, binary.BigEndian, int32(len(payload))); err != nil {
		return err
	}
	buf := make([]byte, StringPayloadLength)
	copy(buf, payload)
	_, err := w.Write(buf)
	return err
}

// readStringField parses an on-disk STRING field (4-byte big-endian length
// n, n payload bytes, StringPayloadLength-n zero bytes).
func readStringField(r io.Reader) (StringField, error) {
	var n int32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return StringField{}, newParseErr("reading string field length: %v", err)
	}
	if n < 0 || int(n) > StringPayloadLength {
		return StringField{}, newParseErr("string field length %d out of range [0,%d]", n, StringPayloadLength)
	}
	buf := make([]byte, StringPayloadLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return StringField{}, newParseErr("reading string field payload: %v", err)
	}
	return StringField{Value: string(buf[:n])}, nil
}

// readField dispatches to the type-appropriate decoder.
func readField(r io.Reader, ft DBFieldType) (DBValue, error) {
	switch ft {
	case IntType:
		return readIntField(r)
	case StringType:
		return readStringField(r)
	default:
		return nil, newParseErr("unknown field type %v", ft)
	}
}
