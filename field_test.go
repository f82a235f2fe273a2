package coredb

import (
	"bytes"
	"testing"
)

func TestIntFieldRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 1<<31 - 1, -(1 << 31)}
	for _, v := range cases {
		var buf bytes.Buffer
		f := IntField{Value: v}
		if err := f.writeTo(&buf); err != nil {
			t.Fatalf("writeTo(%d): %v", v, err)
		}
		if buf.Len() != IntLength {
			t.Fatalf("encoded length = %d, want %d", buf.Len(), IntLength)
		}
		got, err := readIntField(&buf)
		if err != nil {
			t.Fatalf("readIntField(%d): %v", v, err)
		}
		if got.Value != v {
			t.Fatalf("round-tripped %d as %d", v, got.Value)
		}
	}
}

func TestStringFieldRoundTrip(t *testing.T) {
	cases := []string{"", "hello", string(bytes.Repeat([]byte{'x'}, StringPayloadLength))}
	for _, v := range cases {
		var buf bytes.Buffer
		f := StringField{Value: v}
		if err := f.writeTo(&buf); err != nil {
			t.Fatalf("writeTo(%q): %v", v, err)
		}
		if buf.Len() != StringLength {
			t.Fatalf("encoded length = %d, want %d", buf.Len(), StringLength)
		}
		got, err := readStringField(&buf)
		if err != nil {
			t.Fatalf("readStringField(%q): %v", v, err)
		}
		if got.Value != v {
			t.Fatalf("round-tripped %q as %q", v, got.Value)
		}
	}
}

func TestStringFieldTruncatesOnWrite(t *testing.T) {
	long := make([]byte, StringPayloadLength+50)
	for i := range long {
		long[i] = 'a'
	}
	var buf bytes.Buffer
	f := StringField{Value: string(long)}
	if err := f.writeTo(&buf); err != nil {
		t.Fatalf("writeTo: %v", err)
	}
	got, err := readStringField(&buf)
	if err != nil {
		t.Fatalf("readStringField: %v", err)
	}
	if len(got.Value) != StringPayloadLength {
		t.Fatalf("round-tripped length = %d, want %d", len(got.Value), StringPayloadLength)
	}
}

func TestIntFieldEvalPred(t *testing.T) {
	a, b := IntField{Value: 3}, IntField{Value: 5}
	cases := []struct {
		op   BoolOp
		want bool
	}{
		{OpEquals, false},
		{OpNotEquals, true},
		{OpLessThan, true},
		{OpLessThanOrEqual, true},
		{OpGreaterThan, false},
		{OpGreaterThanOrEqual, false},
	}
	for _, c := range cases {
		if got := a.EvalPred(b, c.op); got != c.want {
			t.Errorf("3 %v 5 = %v, want %v", c.op, got, c.want)
		}
	}
}

func TestStringFieldLikeIsSubstring(t *testing.T) {
	a := StringField{Value: "hello world"}
	if !a.EvalPred(StringField{Value: "lo wo"}, OpLike) {
		t.Error("expected substring match")
	}
	if a.EvalPred(StringField{Value: "xyz"}, OpLike) {
		t.Error("expected no match")
	}
}
