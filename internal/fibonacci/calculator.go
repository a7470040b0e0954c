//go:generate mockgen -source=calculator.go -destination=mocks/mock_calculator.go -package=mocks

package fibonacci

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/semaphore"

	apperrors "github.com/agbru/fibwasm/internal/errors"
)

// Calculator is the interface every Fibonacci implementation exposes to the
// orchestration, server and TUI layers.
type Calculator interface {
	// Calculate computes F(n). If ctx is done before the value is available
	// it returns an error matching ctx.Err() under errors.Is.
	Calculate(ctx context.Context, n uint32) (uint64, error)
	// Name returns a human-readable description of the implementation.
	Name() string
}

// Func is the signature shared by Naive and Iterative.
type Func func(n uint32) uint64

// DefaultMaxInFlight bounds how many computations of one FuncCalculator may
// run at once, including those whose caller already gave up.
var DefaultMaxInFlight = int64(runtime.NumCPU())

// FuncCalculator adapts a pure Fibonacci function to the Calculator interface.
type FuncCalculator struct {
	name  string
	fn    Func
	slots *semaphore.Weighted
}

// Verify interface compliance.
var _ Calculator = (*FuncCalculator)(nil)

// CalculatorOption configures a FuncCalculator.
type CalculatorOption func(*FuncCalculator)

// WithMaxInFlight sets the number of computation slots. Values below one
// are raised to one.
func WithMaxInFlight(k int64) CalculatorOption {
	return func(c *FuncCalculator) {
		if k < 1 {
			k = 1
		}
		c.slots = semaphore.NewWeighted(k)
	}
}

// NewCalculator wraps fn in a Calculator with the given display name.
// It panics if fn is nil.
func NewCalculator(name string, fn Func, opts ...CalculatorOption) Calculator {
	if fn == nil {
		panic("fibonacci: NewCalculator called with nil function")
	}
	c := &FuncCalculator{name: name, fn: fn}
	for _, opt := range opts {
		opt(c)
	}
	if c.slots == nil {
		c.slots = semaphore.NewWeighted(DefaultMaxInFlight)
	}
	return c
}

// Name returns the display name of the calculator.
func (c *FuncCalculator) Name() string {
	return c.name
}

// Calculate runs the wrapped function for n.
//
// The pure functions take no context, so the computation runs on its own
// goroutine and Calculate stops waiting once ctx is done. An abandoned
// computation keeps its slot until it finishes; when every slot is held,
// Calculate waits for one until ctx is done. An expired deadline is reported
// as an apperrors.TimeoutError.
func (c *FuncCalculator) Calculate(ctx context.Context, n uint32) (uint64, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return 0, apperrors.FromContext(ctx, c.operation(n), start)
	}
	if err := c.slots.Acquire(ctx, 1); err != nil {
		return 0, apperrors.FromContext(ctx, c.operation(n), start)
	}
	if ctx.Done() == nil {
		defer c.slots.Release(1)
		return c.fn(n), nil
	}

	done := make(chan uint64, 1)
	go func() {
		defer c.slots.Release(1)
		done <- c.fn(n)
	}()

	select {
	case v := <-done:
		return v, nil
	case <-ctx.Done():
		return 0, apperrors.FromContext(ctx, c.operation(n), start)
	}
}

func (c *FuncCalculator) operation(n uint32) string {
	return fmt.Sprintf("%s F(%d)", c.name, n)
}
