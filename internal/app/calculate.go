package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/fibwasm/internal/cli"
	apperrors "github.com/agbru/fibwasm/internal/errors"
	"github.com/agbru/fibwasm/internal/orchestration"
	"github.com/agbru/fibwasm/internal/ui"
)

// runCalculate runs the one-shot comparison: every selected calculator
// computes F(n) concurrently under the configured timeout.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	calculatorsToRun := orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)
	if len(calculatorsToRun) == 0 {
		a.printError("no calculator registered for %q", a.Config.Algo)
		return apperrors.ExitErrorConfig
	}

	machineOutput := a.Config.Quiet || a.Config.JSON
	if !machineOutput {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculatorsToRun, out)
	}

	var progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if machineOutput {
		progressReporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	results := orchestration.ExecuteCalculations(ctx, calculatorsToRun, a.Config.N, progressReporter, progressOut)

	switch {
	case a.Config.JSON:
		return a.writeJSON(results, out)
	case a.Config.Quiet:
		return a.writeQuiet(results, out)
	default:
		presOpts := orchestration.PresentationOptions{N: a.Config.N, Verbose: a.Config.Verbose}
		return orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)
	}
}

// writeJSON prints the --json document. The exit code follows the same
// rules as the comparison table.
func (a *Application) writeJSON(results []orchestration.CalculationResult, out io.Writer) int {
	report := cli.NewJSONReport(a.Config.N, results)
	if err := cli.WriteJSONReport(out, report); err != nil {
		a.printError("writing JSON: %v", err)
		return apperrors.ExitErrorGeneric
	}
	return a.outcome(results, io.Discard)
}

// writeQuiet prints the fastest successful value alone; failures go to the
// error writer.
func (a *Application) writeQuiet(results []orchestration.CalculationResult, out io.Writer) int {
	code := a.outcome(results, a.ErrWriter)
	if code != apperrors.ExitSuccess {
		return code
	}
	cli.DisplayQuietResult(out, findBestResult(results).Result)
	return apperrors.ExitSuccess
}

// outcome returns the exit code for results, reporting failures on errOut.
func (a *Application) outcome(results []orchestration.CalculationResult, errOut io.Writer) int {
	best := findBestResult(results)
	if best == nil {
		return apperrors.HandleCalculationError(firstError(results), 0, errOut, cli.CLIColorProvider{})
	}
	for _, res := range results {
		if res.Err == nil && res.Result != best.Result {
			fmt.Fprintf(errOut, "%sError: calculators returned different values for F(%d).%s\n",
				ui.ColorRed(), a.Config.N, ui.ColorReset())
			return apperrors.ExitErrorMismatch
		}
	}
	return apperrors.ExitSuccess
}

func findBestResult(results []orchestration.CalculationResult) *orchestration.CalculationResult {
	var bestResult *orchestration.CalculationResult
	for i := range results {
		if results[i].Err == nil {
			if bestResult == nil || results[i].Duration < bestResult.Duration {
				bestResult = &results[i]
			}
		}
	}
	return bestResult
}

func firstError(results []orchestration.CalculationResult) error {
	for _, res := range results {
		if res.Err != nil {
			return res.Err
		}
	}
	return nil
}
