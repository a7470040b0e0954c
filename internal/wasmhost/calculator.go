package wasmhost

import (
	"context"

	"github.com/agbru/fibwasm/internal/fibonacci"
)

// Factory keys for the WebAssembly-backed calculators.
const (
	NaiveKey     = "wasm-naive"
	OptimizedKey = "wasm-optimized"
)

// CalculatorKeys returns the keys RegisterCalculators adds, sorted.
func CalculatorKeys() []string {
	return []string{NaiveKey, OptimizedKey}
}

// Calculator adapts one guest export to fibonacci.Calculator.
type Calculator struct {
	host   *Host
	export string
	name   string
}

var _ fibonacci.Calculator = (*Calculator)(nil)

// NewCalculator returns a calculator calling export on host.
func NewCalculator(host *Host, export string) *Calculator {
	name := "WASM " + export
	switch export {
	case ExportNaive:
		name = "WASM Naive Recursive (O(φⁿ))"
	case ExportOptimized:
		name = "WASM Iterative (O(n))"
	}
	return &Calculator{host: host, export: export, name: name}
}

// Name returns the display name.
func (c *Calculator) Name() string { return c.name }

// Export returns the guest symbol this calculator calls.
func (c *Calculator) Export() string { return c.export }

// Calculate calls the guest export for n.
func (c *Calculator) Calculate(ctx context.Context, n uint32) (uint64, error) {
	return c.host.Call(ctx, c.export, n)
}

// RegisterCalculators adds the naive and optimized guest calculators to
// factory under NaiveKey and OptimizedKey.
func RegisterCalculators(factory fibonacci.CalculatorFactory, host *Host) error {
	if err := factory.Register(NaiveKey, NewCalculator(host, ExportNaive)); err != nil {
		return err
	}
	return factory.Register(OptimizedKey, NewCalculator(host, ExportOptimized))
}
