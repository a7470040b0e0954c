package wasmhost

import (
	"context"
	"testing"

	"github.com/agbru/fibwasm/internal/fibonacci"
)

func TestRegisterCalculators(t *testing.T) {
	t.Parallel()
	h := newTestHost(t)
	factory := fibonacci.NewDefaultFactory()

	if err := RegisterCalculators(factory, h); err != nil {
		t.Fatalf("RegisterCalculators: %v", err)
	}

	want := []string{"iterative", "naive", NaiveKey, OptimizedKey}
	got := factory.List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	for _, key := range CalculatorKeys() {
		calc, err := factory.Get(key)
		if err != nil {
			t.Fatalf("Get(%q): %v", key, err)
		}
		v, err := calc.Calculate(context.Background(), 20)
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if v != 6765 {
			t.Errorf("%s Calculate(20) = %d, want 6765", key, v)
		}
	}
}

func TestNewCalculator_Names(t *testing.T) {
	t.Parallel()
	tests := []struct {
		export string
		want   string
	}{
		{ExportNaive, "WASM Naive Recursive (O(φⁿ))"},
		{ExportOptimized, "WASM Iterative (O(n))"},
		{"other", "WASM other"},
	}
	for _, tt := range tests {
		c := NewCalculator(nil, tt.export)
		if c.Name() != tt.want {
			t.Errorf("Name() for %q = %q, want %q", tt.export, c.Name(), tt.want)
		}
		if c.Export() != tt.export {
			t.Errorf("Export() = %q, want %q", c.Export(), tt.export)
		}
	}
}
