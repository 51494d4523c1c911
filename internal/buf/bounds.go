package buf

import "math"

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// RoundUp rounds n up to the next multiple of align, which must be a power of two.
// Returns ok = false for negative n or when the rounded value would overflow int.
//
// This is the sizing step for every mapping request:
//
//	n, ok := buf.RoundUp(size, vmem.Granularity())
//	if !ok {
//	    return nil
//	}
func RoundUp(n, align int) (int, bool) {
	if n < 0 || align <= 0 || align&(align-1) != 0 {
		return 0, false
	}
	sum, ok := AddOverflowSafe(n, align-1)
	if !ok {
		return 0, false
	}
	return sum &^ (align - 1), true
}
