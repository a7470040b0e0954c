package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/fibwasm/internal/errors"
	"github.com/agbru/fibwasm/internal/fibonacci"
)

var tracer = otel.Tracer("github.com/agbru/fibwasm/internal/orchestration")

// ExecuteCalculations runs every calculator concurrently for the same n and
// collects one result per calculator, in input order.
//
// A failing calculator does not cancel the others. Each run is wrapped in a
// span and emits one ProgressEvent to the reporter when it completes.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - calculators: The calculators to execute.
//   - n: The Fibonacci index.
//   - reporter: The progress reporter (use NullProgressReporter for quiet mode).
//   - out: The io.Writer handed to the reporter.
//
// Returns:
//   - []CalculationResult: One result per calculator.
func ExecuteCalculations(ctx context.Context, calculators []fibonacci.Calculator, n uint32, reporter ProgressReporter, out io.Writer) []CalculationResult {
	ctx, span := tracer.Start(ctx, "fibonacci.compare")
	defer span.End()
	span.SetAttributes(attribute.Int64("fibonacci.n", int64(n)), attribute.Int("calculators", len(calculators)))

	g, ctx := errgroup.WithContext(ctx)
	results := make([]CalculationResult, len(calculators))
	events := make(chan ProgressEvent, len(calculators))

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, events, len(calculators), out)

	for i, calc := range calculators {
		g.Go(func() error {
			results[i] = runCalculator(ctx, calc, n)
			events <- ProgressEvent{
				CalculatorIndex: i,
				Name:            results[i].Name,
				Result:          results[i].Result,
				Duration:        results[i].Duration,
				Err:             results[i].Err,
			}
			return nil
		})
	}

	_ = g.Wait()
	close(events)
	displayWg.Wait()

	return results
}

func runCalculator(ctx context.Context, calc fibonacci.Calculator, n uint32) CalculationResult {
	name := calc.Name()
	ctx, span := tracer.Start(ctx, "fibonacci.calculate")
	defer span.End()
	span.SetAttributes(attribute.String("calculator", name), attribute.Int64("fibonacci.n", int64(n)))

	start := time.Now()
	res, err := calc.Calculate(ctx, n)
	duration := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return CalculationResult{Name: name, Duration: duration, Err: err}
	}
	span.SetAttributes(attribute.Bool("fibonacci.overflowed", fibonacci.Overflows(n)))
	return CalculationResult{Name: name, Result: res, Duration: duration}
}

// AnalyzeComparisonResults sorts results (successes first, then by duration),
// presents the comparison table and checks that every successful calculator
// produced the same value.
//
// Returns:
//   - int: ExitSuccess, ExitErrorMismatch when successful results disagree,
//     or the error handler's code when every calculator failed.
func AnalyzeComparisonResults(results []CalculationResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *CalculationResult
	var firstError error
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
			continue
		}
		if firstValid == nil {
			firstValid = &results[i]
		}
	}

	presenter.PresentComparisonTable(results, out)

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the calculation.\n")
		return errHandler.HandleError(firstError, 0, out)
	}

	for _, res := range results {
		if res.Err == nil && res.Result != firstValid.Result {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the results of the algorithms.\n")
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	presenter.PresentResult(*firstValid, opts, out)
	return apperrors.ExitSuccess
}
