package coredb

import "github.com/madden-labs/coredb/internal/minmax"

// IntHistogram is a fixed-width equi-width histogram over a single integer
// field, used to estimate predicate selectivity for query optimization.
// Space and per-value update time are both constant in the number of
// values histogrammed -- it never stores the values themselves, only
// per-bucket counts.
type IntHistogram struct {
	buckets    []int64
	min, max   int64
	width      float64
	ntups      int64
}

// NewIntHistogram creates a histogram splitting [min, max] into numBuckets
// equal-width buckets. min must be <= max.
func NewIntHistogram(numBuckets int, min, max int64) *IntHistogram {
	return &IntHistogram{
		buckets: make([]int64, numBuckets),
		min:     min,
		max:     max,
		width:   (float64(max-min) + 1.0) / float64(numBuckets),
	}
}

func (h *IntHistogram) bucketIndex(v int64) int {
	idx := int(float64(v-h.min) / h.width)
	return minmax.Min(idx, len(h.buckets)-1)
}

// AddValue records v. Values outside [min, max] are ignored.
func (h *IntHistogram) AddValue(v int64) {
	if v < h.min || v > h.max {
		return
	}
	h.buckets[h.bucketIndex(v)]++
	h.ntups++
}

// EstimateSelectivity estimates the fraction of histogrammed values
// satisfying `field op v`.
func (h *IntHistogram) EstimateSelectivity(op BoolOp, v int64) float64 {
	switch op {
	case OpLessThan:
		return h.lessThan(v)
	case OpLessThanOrEqual:
		return h.lessThan(v + 1)
	case OpGreaterThan:
		return 1 - h.EstimateSelectivity(OpLessThanOrEqual, v)
	case OpGreaterThanOrEqual:
		return h.EstimateSelectivity(OpGreaterThan, v-1)
	case OpEquals:
		return h.EstimateSelectivity(OpLessThanOrEqual, v) - h.lessThan(v)
	case OpNotEquals:
		return 1 - h.EstimateSelectivity(OpEquals, v)
	default:
		return 0.0
	}
}

func (h *IntHistogram) lessThan(v int64) float64 {
	if v <= h.min {
		return 0.0
	}
	if v > h.max {
		return 1.0
	}
	if h.ntups == 0 {
		return 0.0
	}
	index := h.bucketIndex(v)
	var cnt float64
	for i := 0; i < index; i++ {
		cnt += float64(h.buckets[i])
	}
	bucketStart := float64(index)*h.width + float64(h.min)
	cnt += float64(h.buckets[index]) / h.width * (float64(v) - bucketStart)
	return cnt / float64(h.ntups)
}

// AvgSelectivity is a placeholder used by callers that want a rough
// estimate without a specific predicate; a real cost-based optimizer (out
// of scope here) would refine this.
func (h *IntHistogram) AvgSelectivity() float64 {
	return 1.0
}
