package fibonacci

import (
	"math/big"
	"testing"
)

// naiveTestLimit bounds the indices fed to Naive in tests. F(32) already
// needs a few million calls.
const naiveTestLimit = 32

// fibOracle computes F(n) exactly with math/big, independent of the code
// under test.
func fibOracle(n uint32) *big.Int {
	a, b := big.NewInt(0), big.NewInt(1)
	for i := uint32(0); i < n; i++ {
		a.Add(a, b)
		a, b = b, a
	}
	return a
}

// wrapped reduces v modulo 2^64, which is what unguarded uint64 addition
// yields.
func wrapped(v *big.Int) uint64 {
	mask := new(big.Int).SetUint64(^uint64(0))
	return new(big.Int).And(v, mask).Uint64()
}

func TestKnownValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		n    uint32
		want uint64
	}{
		{"F(0) base case", 0, 0},
		{"F(1) base case", 1, 1},
		{"F(2) base case", 2, 1},
		{"F(3)", 3, 2},
		{"F(10)", 10, 55},
		{"F(20)", 20, 6765},
		{"F(30)", 30, 832040},
		{"F(50)", 50, 12586269025},
		{"F(92)", 92, 7540113804746346429},
		{"F(93) last exact value", 93, 12200160415121876738},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Iterative(tt.n); got != tt.want {
				t.Errorf("Iterative(%d) = %d, want %d", tt.n, got, tt.want)
			}
			if tt.n <= naiveTestLimit {
				if got := Naive(tt.n); got != tt.want {
					t.Errorf("Naive(%d) = %d, want %d", tt.n, got, tt.want)
				}
			}
		})
	}
}

func TestIterativeMatchesOracle(t *testing.T) {
	t.Parallel()
	for n := uint32(0); n <= MaxExactIndex; n++ {
		want := fibOracle(n)
		if !want.IsUint64() {
			t.Fatalf("oracle F(%d) does not fit in uint64", n)
		}
		if got := Iterative(n); got != want.Uint64() {
			t.Errorf("Iterative(%d) = %d, want %s", n, got, want)
		}
	}
}

func TestNaiveMatchesIterative(t *testing.T) {
	t.Parallel()
	for n := uint32(0); n <= naiveTestLimit; n++ {
		if naive, iter := Naive(n), Iterative(n); naive != iter {
			t.Errorf("n=%d: Naive = %d, Iterative = %d", n, naive, iter)
		}
	}
}

func TestOverflowWraparound(t *testing.T) {
	t.Parallel()

	t.Run("F(94) wraps modulo 2^64", func(t *testing.T) {
		t.Parallel()
		exact := fibOracle(94)
		if exact.IsUint64() {
			t.Fatal("F(94) should not fit in uint64")
		}
		const want uint64 = 1293530146158671551
		if wrapped(exact) != want {
			t.Fatalf("oracle mod 2^64 = %d, want %d", wrapped(exact), want)
		}
		if got := Iterative(94); got != want {
			t.Errorf("Iterative(94) = %d, want %d", got, want)
		}
	})

	// Naive(94) is out of reach in a test run, but it is computed as
	// Naive(93) + Naive(92) in uint64, so the wrapped recurrence step is what
	// must agree.
	t.Run("wrapped recurrence step agrees", func(t *testing.T) {
		t.Parallel()
		for _, n := range []uint32{94, 95, 100, 200, 1000} {
			step := Iterative(n-1) + Iterative(n-2)
			if got := Iterative(n); got != step {
				t.Errorf("Iterative(%d) = %d, Iterative(%d)+Iterative(%d) = %d", n, got, n-1, n-2, step)
			}
			if want := wrapped(fibOracle(n)); Iterative(n) != want {
				t.Errorf("Iterative(%d) = %d, want %d (mod 2^64)", n, Iterative(n), want)
			}
		}
	})
}

func TestOverflows(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n    uint32
		want bool
	}{
		{0, false},
		{92, false},
		{93, false},
		{94, true},
		{^uint32(0), true},
	}
	for _, tt := range tests {
		if got := Overflows(tt.n); got != tt.want {
			t.Errorf("Overflows(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestIterativeConcurrentUse(t *testing.T) {
	t.Parallel()
	const workers = 16
	errs := make(chan string, workers)
	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer func() { done <- struct{}{} }()
			n := uint32(w * 5)
			if got, want := Iterative(n), wrapped(fibOracle(n)); got != want {
				errs <- "mismatch"
			}
			if n <= 25 && Naive(n) != Iterative(n) {
				errs <- "naive mismatch"
			}
		}(w)
	}
	for w := 0; w < workers; w++ {
		<-done
	}
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func BenchmarkNaive25(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Naive(25)
	}
}

func BenchmarkIterative93(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Iterative(93)
	}
}
