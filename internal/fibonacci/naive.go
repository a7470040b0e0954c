package fibonacci

// Naive returns F(n) using the direct recurrence F(n) = F(n-1) + F(n-2).
//
// It runs in exponential time and recurses to a depth proportional to n.
// Additions are not checked: for n > MaxExactIndex the result wraps modulo
// 2^64. It is safe for concurrent use.
func Naive(n uint32) uint64 {
	if n == 0 {
		return 0
	}
	if n == 1 || n == 2 {
		return 1
	}
	return Naive(n-1) + Naive(n-2)
}
