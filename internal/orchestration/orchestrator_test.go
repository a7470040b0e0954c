package orchestration_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	apperrors "github.com/agbru/fibwasm/internal/errors"
	"github.com/agbru/fibwasm/internal/fibonacci"
	fibmocks "github.com/agbru/fibwasm/internal/fibonacci/mocks"
	"github.com/agbru/fibwasm/internal/orchestration"
	"github.com/agbru/fibwasm/internal/orchestration/mocks"
)

func mockCalculator(ctrl *gomock.Controller, name string, n uint32, result uint64, err error) *fibmocks.MockCalculator {
	calc := fibmocks.NewMockCalculator(ctrl)
	calc.EXPECT().Name().Return(name).AnyTimes()
	calc.EXPECT().Calculate(gomock.Any(), n).Return(result, err)
	return calc
}

// TestExecuteCalculations verifies that the orchestrator runs every calculator
// and keeps results in input order.
func TestExecuteCalculations(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")

	tests := []struct {
		name    string
		results []uint64
		errs    []error
	}{
		{name: "Single success", results: []uint64{55}, errs: []error{nil}},
		{name: "Single failure", results: []uint64{0}, errs: []error{boom}},
		{name: "Mixed", results: []uint64{55, 0, 55}, errs: []error{nil, boom, nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			calcs := make([]fibonacci.Calculator, len(tt.results))
			for i := range tt.results {
				calcs[i] = mockCalculator(ctrl, "calc"+string(rune('A'+i)), 10, tt.results[i], tt.errs[i])
			}

			results := orchestration.ExecuteCalculations(context.Background(), calcs, 10, orchestration.NullProgressReporter{}, io.Discard)
			if len(results) != len(calcs) {
				t.Fatalf("got %d results, want %d", len(results), len(calcs))
			}
			for i, res := range results {
				if want := "calc" + string(rune('A'+i)); res.Name != want {
					t.Errorf("results[%d].Name = %q, want %q", i, res.Name, want)
				}
				if !errors.Is(res.Err, tt.errs[i]) {
					t.Errorf("results[%d].Err = %v, want %v", i, res.Err, tt.errs[i])
				}
				if res.Err == nil && res.Result != tt.results[i] {
					t.Errorf("results[%d].Result = %d, want %d", i, res.Result, tt.results[i])
				}
			}
		})
	}
}

func TestExecuteCalculations_ReportsOneEventPerCalculator(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	calcs := []fibonacci.Calculator{
		mockCalculator(ctrl, "a", 20, 6765, nil),
		mockCalculator(ctrl, "b", 20, 6765, nil),
		mockCalculator(ctrl, "c", 20, 0, errors.New("trap")),
	}

	var mu sync.Mutex
	var events []orchestration.ProgressEvent
	reporter := mocks.NewMockProgressReporter(ctrl)
	reporter.EXPECT().
		DisplayProgress(gomock.Any(), gomock.Any(), len(calcs), gomock.Any()).
		Do(func(wg *sync.WaitGroup, ch <-chan orchestration.ProgressEvent, _ int, _ io.Writer) {
			defer wg.Done()
			for ev := range ch {
				mu.Lock()
				events = append(events, ev)
				mu.Unlock()
			}
		})

	orchestration.ExecuteCalculations(context.Background(), calcs, 20, reporter, io.Discard)

	mu.Lock()
	defer mu.Unlock()
	if len(events) != len(calcs) {
		t.Fatalf("got %d events, want %d", len(events), len(calcs))
	}
	failed := 0
	seen := map[int]bool{}
	for _, ev := range events {
		seen[ev.CalculatorIndex] = true
		if ev.Err != nil {
			failed++
		}
	}
	if len(seen) != len(calcs) {
		t.Errorf("events cover indices %v, want all %d", seen, len(calcs))
	}
	if failed != 1 {
		t.Errorf("failed events = %d, want 1", failed)
	}
}

func TestExecuteCalculations_RealCalculators(t *testing.T) {
	t.Parallel()
	factory := fibonacci.NewDefaultFactory()
	calcs := orchestration.GetCalculatorsToRun("all", factory)

	results := orchestration.ExecuteCalculations(context.Background(), calcs, 30, orchestration.NullProgressReporter{}, io.Discard)
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("%s: %v", res.Name, res.Err)
		}
		if res.Result != 832040 {
			t.Errorf("%s: F(30) = %d, want 832040", res.Name, res.Result)
		}
	}
}

func TestExecuteCalculations_Timeout(t *testing.T) {
	t.Parallel()
	slow := fibonacci.NewCalculator("slow", func(uint32) uint64 {
		time.Sleep(2 * time.Second)
		return 1
	})
	fast := fibonacci.NewCalculator("fast", fibonacci.Iterative)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	results := orchestration.ExecuteCalculations(ctx, []fibonacci.Calculator{slow, fast}, 10, orchestration.NullProgressReporter{}, io.Discard)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("ExecuteCalculations waited %s for an expired context", elapsed)
	}
	if !errors.Is(results[0].Err, context.DeadlineExceeded) {
		t.Errorf("slow calculator err = %v, want deadline exceeded", results[0].Err)
	}
	if results[1].Err != nil || results[1].Result != 55 {
		t.Errorf("fast calculator = (%d, %v), want (55, nil)", results[1].Result, results[1].Err)
	}
}

func TestAnalyzeComparisonResults(t *testing.T) {
	t.Parallel()

	t.Run("consistent results", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		presenter := mocks.NewMockResultPresenter(ctrl)
		handler := mocks.NewMockErrorHandler(ctrl)

		results := []orchestration.CalculationResult{
			{Name: "slow", Result: 55, Duration: 2 * time.Millisecond},
			{Name: "broken", Err: errors.New("trap"), Duration: time.Microsecond},
			{Name: "fast", Result: 55, Duration: time.Millisecond},
		}
		opts := orchestration.PresentationOptions{N: 10}

		presenter.EXPECT().PresentComparisonTable(gomock.Any(), gomock.Any())
		presenter.EXPECT().PresentResult(gomock.Any(), opts, gomock.Any()).
			Do(func(res orchestration.CalculationResult, _ orchestration.PresentationOptions, _ io.Writer) {
				if res.Name != "fast" {
					t.Errorf("presented %q, want fastest successful result", res.Name)
				}
			})

		var out bytes.Buffer
		code := orchestration.AnalyzeComparisonResults(results, opts, presenter, handler, &out)
		if code != apperrors.ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
		}
		if results[0].Name != "fast" || results[1].Name != "slow" || results[2].Name != "broken" {
			t.Errorf("unexpected order: %s, %s, %s", results[0].Name, results[1].Name, results[2].Name)
		}
		if !strings.Contains(out.String(), "Success") {
			t.Errorf("output missing success status: %q", out.String())
		}
	})

	t.Run("mismatch", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		presenter := mocks.NewMockResultPresenter(ctrl)
		handler := mocks.NewMockErrorHandler(ctrl)
		presenter.EXPECT().PresentComparisonTable(gomock.Any(), gomock.Any())

		results := []orchestration.CalculationResult{
			{Name: "a", Result: 55},
			{Name: "b", Result: 56},
		}
		var out bytes.Buffer
		code := orchestration.AnalyzeComparisonResults(results, orchestration.PresentationOptions{N: 10}, presenter, handler, &out)
		if code != apperrors.ExitErrorMismatch {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorMismatch)
		}
		if !strings.Contains(out.String(), "inconsistency") {
			t.Errorf("output missing mismatch status: %q", out.String())
		}
	})

	t.Run("all failed", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		presenter := mocks.NewMockResultPresenter(ctrl)
		handler := mocks.NewMockErrorHandler(ctrl)
		first := context.DeadlineExceeded

		presenter.EXPECT().PresentComparisonTable(gomock.Any(), gomock.Any())
		handler.EXPECT().HandleError(first, time.Duration(0), gomock.Any()).Return(apperrors.ExitErrorTimeout)

		results := []orchestration.CalculationResult{
			{Name: "a", Err: first, Duration: time.Millisecond},
			{Name: "b", Err: context.Canceled, Duration: 2 * time.Millisecond},
		}
		code := orchestration.AnalyzeComparisonResults(results, orchestration.PresentationOptions{}, presenter, handler, io.Discard)
		if code != apperrors.ExitErrorTimeout {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
		}
	})
}
