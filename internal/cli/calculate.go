package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/fibwasm/internal/config"
	"github.com/agbru/fibwasm/internal/fibonacci"
	"github.com/agbru/fibwasm/internal/ui"
)

// PrintExecutionConfig displays the target index, timeout and environment.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Calculating %sF(%d)%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.N, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	if fibonacci.Overflows(cfg.N) {
		fmt.Fprintf(out, "%sF(%d) exceeds 64 bits; results wrap modulo 2^64.%s\n", ui.ColorYellow(), cfg.N, ui.ColorReset())
	}
	if cfg.N > fibonacci.MaxPracticalNaiveIndex {
		fmt.Fprintf(out, "%sNaive recursion above n=%d is likely to hit the timeout.%s\n",
			ui.ColorYellow(), fibonacci.MaxPracticalNaiveIndex, ui.ColorReset())
	}
}

// PrintExecutionMode displays whether one calculator runs or several are
// compared.
func PrintExecutionMode(calculators []fibonacci.Calculator, out io.Writer) {
	var modeDesc string
	if len(calculators) > 1 {
		modeDesc = fmt.Sprintf("Parallel comparison of %d calculators", len(calculators))
	} else {
		modeDesc = fmt.Sprintf("Single calculation with the %s%s%s calculator",
			ui.ColorGreen(), calculators[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
