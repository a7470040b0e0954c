//go:generate mockgen -source=interfaces.go -destination=mocks/mock_orchestration.go -package=mocks

package orchestration

import (
	"io"
	"sync"
	"time"
)

// CalculationResult encapsulates the outcome of a single Fibonacci calculation.
// It serves as the shared domain type between orchestration and presentation layers.
type CalculationResult struct {
	// Name is the display name of the calculator (e.g., "Iterative (O(n))").
	Name string
	// Result is the computed value, modulo 2^64. It is zero if Err is set.
	Result uint64
	// Duration is the time taken to complete the calculation.
	Duration time.Duration
	// Err contains any error that occurred during the calculation.
	Err error
}

// ProgressEvent is emitted once per calculator when it finishes.
type ProgressEvent struct {
	CalculatorIndex int
	Name            string
	Result          uint64
	Duration        time.Duration
	Err             error
}

// PresentationOptions configures how the final result is presented.
type PresentationOptions struct {
	N       uint32
	Verbose bool
}

// ProgressReporter displays calculation progress.
//
// DisplayProgress is started on its own goroutine before the calculators run
// and must return, calling wg.Done, once events is closed.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, events <-chan ProgressEvent, numCalculators int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, events <-chan ProgressEvent, numCalculators int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, events <-chan ProgressEvent, numCalculators int, out io.Writer) {
	f(wg, events, numCalculators, out)
}

// NullProgressReporter drains the event channel without displaying anything.
// Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, events <-chan ProgressEvent, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(events)
}

// ResultPresenter presents calculation results.
type ResultPresenter interface {
	// PresentComparisonTable displays the comparison summary table.
	PresentComparisonTable(results []CalculationResult, out io.Writer)
	// PresentResult displays the final calculation result.
	PresentResult(result CalculationResult, opts PresentationOptions, out io.Writer)
}

// ErrorHandler handles calculation errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
