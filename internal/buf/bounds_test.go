package buf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestRoundUp(t *testing.T) {
	cases := []struct {
		n, align, want int
	}{
		{0, 4096, 0},
		{1, 4096, 4096},
		{513, 4096, 4096},
		{4096, 4096, 4096},
		{4097, 4096, 8192},
		{41, 8, 48},
		{40, 8, 40},
	}
	for _, tc := range cases {
		got, ok := RoundUp(tc.n, tc.align)
		require.True(t, ok, "RoundUp(%d, %d)", tc.n, tc.align)
		require.Equal(t, tc.want, got, "RoundUp(%d, %d)", tc.n, tc.align)
	}

	_, ok := RoundUp(math.MaxInt, 4096)
	require.False(t, ok, "rounding MaxInt must overflow")
	_, ok = RoundUp(-1, 8)
	require.False(t, ok, "negative sizes are rejected")
	_, ok = RoundUp(10, 12)
	require.False(t, ok, "alignment must be a power of two")
	_, ok = RoundUp(10, 0)
	require.False(t, ok, "zero alignment is rejected")
}
