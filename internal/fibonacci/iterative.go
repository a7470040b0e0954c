package fibonacci

// Iterative returns F(n) with a single forward pass that keeps the last two
// terms. It performs n-1 additions in constant space and returns exactly what
// Naive returns for the same n, wraparound included.
func Iterative(n uint32) uint64 {
	if n == 0 {
		return 0
	}
	if n == 1 || n == 2 {
		return 1
	}

	prev, curr := uint64(0), uint64(1)
	// One step per index in [2, n]. Counting down keeps n = MaxUint32 finite.
	for steps := n - 1; steps > 0; steps-- {
		next := prev + curr
		prev = curr
		curr = next
	}
	return curr
}
