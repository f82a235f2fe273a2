package coredb

import "testing"

func TestIntHistogramBoundaryEstimates(t *testing.T) {
	h := NewIntHistogram(10, 1, 100)
	for v := int64(1); v <= 100; v++ {
		h.AddValue(v)
	}

	if got := h.EstimateSelectivity(OpLessThan, 1); got != 0 {
		t.Errorf("LT(min) = %v, want 0", got)
	}
	if got := h.EstimateSelectivity(OpGreaterThan, 100); got != 0 {
		t.Errorf("GT(max) = %v, want 0", got)
	}
	if got := h.EstimateSelectivity(OpLessThanOrEqual, 100); got < 0.99 {
		t.Errorf("LE(max) = %v, want ~1", got)
	}
}

func TestIntHistogramEqNeAreComplementary(t *testing.T) {
	h := NewIntHistogram(5, 0, 49)
	for v := int64(0); v < 50; v++ {
		h.AddValue(v)
	}
	eq := h.EstimateSelectivity(OpEquals, 25)
	ne := h.EstimateSelectivity(OpNotEquals, 25)
	if diff := (eq + ne) - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("EQ(25)+NE(25) = %v, want 1.0", eq+ne)
	}
}

func TestIntHistogramSelectivityMonotonic(t *testing.T) {
	h := NewIntHistogram(10, 0, 99)
	for v := int64(0); v < 100; v++ {
		h.AddValue(v)
	}
	lo := h.EstimateSelectivity(OpLessThan, 10)
	hi := h.EstimateSelectivity(OpLessThan, 90)
	if lo >= hi {
		t.Errorf("LT(10) = %v should be less than LT(90) = %v", lo, hi)
	}
}

func TestIntHistogramIgnoresOutOfRangeValues(t *testing.T) {
	h := NewIntHistogram(4, 10, 20)
	h.AddValue(5)
	h.AddValue(25)
	h.AddValue(15)
	if h.ntups != 1 {
		t.Errorf("ntups = %d, want 1 (only the in-range value counted)", h.ntups)
	}
}
