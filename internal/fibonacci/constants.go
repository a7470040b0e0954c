package fibonacci

// ─────────────────────────────────────────────────────────────────────────────
// Range Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// MaxExactIndex is the largest index whose Fibonacci value fits in a
	// uint64. F(93) = 12,200,160,415,121,876,738; F(94) exceeds 2^64-1 and
	// wraps.
	MaxExactIndex uint32 = 93

	// MaxPracticalNaiveIndex is the largest index for which the naive
	// recursion completes within a few seconds on current hardware. It is
	// advisory only: nothing in this package enforces it.
	MaxPracticalNaiveIndex uint32 = 45
)

// Overflows reports whether F(n) exceeds the uint64 range, i.e. whether the
// value returned by Naive and Iterative for n is the true value modulo 2^64.
func Overflows(n uint32) bool {
	return n > MaxExactIndex
}
