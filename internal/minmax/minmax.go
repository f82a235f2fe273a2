// Package minmax provides small generic comparison helpers shared by the
// integer aggregator and the histogram's bucket arithmetic, replacing the
// duplicated inline comparisons those two components would otherwise each
// carry.
package minmax

import "golang.org/x/exp/constraints"

// Min returns the lesser of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the greater of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
