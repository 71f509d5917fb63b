// Package numeric holds small generic numeric helpers shared across the
// scoring pipeline.
package numeric

import "golang.org/x/exp/constraints"

// Clamp restricts x to the closed interval [lo, hi].
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
