// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a string without performing I/O.
//   - Write* functions serialize a document to an [io.Writer].

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/agbru/fibwasm/internal/fibonacci"
	"github.com/agbru/fibwasm/internal/format"
	"github.com/agbru/fibwasm/internal/orchestration"
	"github.com/agbru/fibwasm/internal/ui"
)

// DisplayResult prints the value of F(n), an overflow notice when n is past
// the exact range, and in verbose mode the digit count.
func DisplayResult(result uint64, n uint32, duration time.Duration, verbose bool, out io.Writer) {
	fmt.Fprintf(out, "\n--- Result ---\n")
	fmt.Fprintf(out, "Calculation time: %s%s%s\n", ui.ColorYellow(), format.FormatExecutionDuration(duration), ui.ColorReset())
	fmt.Fprintf(out, "F(%s%d%s) = %s%s%s\n",
		ui.ColorMagenta(), n, ui.ColorReset(), ui.ColorGreen(), format.FormatUint64(result), ui.ColorReset())

	if fibonacci.Overflows(n) {
		fmt.Fprintf(out, "%sWarning: F(%d) exceeds 64 bits; the value is reduced modulo 2^64 (exact up to n=%d).%s\n",
			ui.ColorYellow(), n, fibonacci.MaxExactIndex, ui.ColorReset())
	}
	if verbose {
		fmt.Fprintf(out, "Number of digits: %s%d%s\n", ui.ColorCyan(), format.DigitCount(result), ui.ColorReset())
		fmt.Fprintf(out, "Hexadecimal: %s0x%x%s\n", ui.ColorCyan(), result, ui.ColorReset())
	}
}

// FormatQuietResult returns the bare decimal value, for scripting.
func FormatQuietResult(result uint64) string {
	return fmt.Sprintf("%d", result)
}

// DisplayQuietResult prints the bare decimal value followed by a newline.
func DisplayQuietResult(out io.Writer, result uint64) {
	fmt.Fprintln(out, FormatQuietResult(result))
}

// JSONResult is one calculator's entry in the --json document.
type JSONResult struct {
	Algorithm    string  `json:"algorithm"`
	Value        *uint64 `json:"value,omitempty"`
	DurationSecs float64 `json:"execution_time"`
	Error        string  `json:"error,omitempty"`
}

// JSONReport is the document written by --json.
type JSONReport struct {
	N          uint32       `json:"n"`
	Overflowed bool         `json:"overflowed"`
	Consistent bool         `json:"consistent"`
	Results    []JSONResult `json:"results"`
}

// NewJSONReport builds a report from calculation results. Consistent is true
// when at least one calculator succeeded and every success agrees.
func NewJSONReport(n uint32, results []orchestration.CalculationResult) JSONReport {
	report := JSONReport{N: n, Overflowed: fibonacci.Overflows(n), Results: make([]JSONResult, 0, len(results))}

	var first *uint64
	consistent := true
	for _, res := range results {
		entry := JSONResult{Algorithm: res.Name, DurationSecs: format.Seconds(res.Duration)}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		} else {
			v := res.Result
			entry.Value = &v
			if first == nil {
				first = &v
			} else if *first != v {
				consistent = false
			}
		}
		report.Results = append(report.Results, entry)
	}
	report.Consistent = consistent && first != nil
	return report
}

// WriteJSONReport encodes report as indented JSON.
func WriteJSONReport(out io.Writer, report JSONReport) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
