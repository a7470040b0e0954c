package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"

	apperrors "github.com/agbru/fibwasm/internal/errors"
	"github.com/agbru/fibwasm/internal/format"
	"github.com/agbru/fibwasm/internal/orchestration"
	"github.com/agbru/fibwasm/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// terminal spinner.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, events <-chan orchestration.ProgressEvent, numCalculators int, out io.Writer) {
	DisplayProgress(wg, events, numCalculators, out)
}

// CLIResultPresenter implements the orchestration presentation interfaces
// with colorized terminal output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentComparisonTable prints one row per calculator with its duration
// and status. Padding is computed on visible width so ANSI codes do not
// break alignment.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.CalculationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	nameWidth := len("Algorithm")
	durationWidth := len("Duration")
	for _, res := range results {
		nameWidth = max(nameWidth, runewidth.StringWidth(res.Name))
		durationWidth = max(durationWidth, runewidth.StringWidth(tableDuration(res.Duration)))
	}

	fmt.Fprintf(out, "%sAlgorithm%s%s   %sDuration%s%s   %sResult%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", nameWidth-len("Algorithm")),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", durationWidth-len("Duration")),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		} else {
			status = fmt.Sprintf("%s✅ %s%s", ui.ColorGreen(), format.FormatUint64(res.Result), ui.ColorReset())
		}
		duration := tableDuration(res.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(), padRight("", nameWidth-runewidth.StringWidth(res.Name)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", durationWidth-runewidth.StringWidth(duration)),
			status)
	}
}

func tableDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// padRight appends length spaces to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + strings.Repeat(" ", length)
}

// PresentResult prints the final result block.
func (CLIResultPresenter) PresentResult(result orchestration.CalculationResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result.Result, opts.N, result.Duration, opts.Verbose, out)
}

// HandleError maps err to an exit code and prints a status line.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}

// CLIColorProvider implements apperrors.ColorProvider using the active theme.
type CLIColorProvider struct{}

func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }
