package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibwasm/internal/fibonacci"
	"github.com/agbru/fibwasm/internal/format"
	"github.com/agbru/fibwasm/internal/orchestration"
)

// rowState is the lifecycle of one calculator within a run.
type rowState int

const (
	rowIdle rowState = iota
	rowRunning
	rowDone
	rowFailed
)

// ResultRow is one calculator's line in the results panel.
type ResultRow struct {
	Name   string
	State  rowState
	Result orchestration.CalculationResult
}

// ResultsModel holds the per-calculator rows of the current run.
type ResultsModel struct {
	rows    []ResultRow
	n       uint32
	started bool
	err     error
	width   int
}

// NewResultsModel creates idle rows for the given calculator names.
func NewResultsModel(names []string) ResultsModel {
	rows := make([]ResultRow, len(names))
	for i, name := range names {
		rows[i] = ResultRow{Name: name}
	}
	return ResultsModel{rows: rows}
}

// Start marks every row as running for index n.
func (r *ResultsModel) Start(n uint32) {
	r.n = n
	r.started = true
	r.err = nil
	for i := range r.rows {
		r.rows[i].State = rowRunning
		r.rows[i].Result = orchestration.CalculationResult{Name: r.rows[i].Name}
	}
}

// Reset returns every row to idle.
func (r *ResultsModel) Reset() {
	r.started = false
	r.err = nil
	for i := range r.rows {
		r.rows[i].State = rowIdle
		r.rows[i].Result = orchestration.CalculationResult{}
	}
}

// Complete records the outcome carried by ev.
func (r *ResultsModel) Complete(ev orchestration.ProgressEvent) {
	if ev.CalculatorIndex < 0 || ev.CalculatorIndex >= len(r.rows) {
		return
	}
	row := &r.rows[ev.CalculatorIndex]
	row.Result = orchestration.CalculationResult{Name: ev.Name, Duration: ev.Duration, Err: ev.Err, Result: ev.Result}
	if ev.Err != nil {
		row.State = rowFailed
	} else {
		row.State = rowDone
	}
}

// SetResults replaces the rows with the final sorted results.
func (r *ResultsModel) SetResults(results []orchestration.CalculationResult) {
	rows := make([]ResultRow, len(results))
	for i, res := range results {
		state := rowDone
		if res.Err != nil {
			state = rowFailed
		}
		rows[i] = ResultRow{Name: res.Name, State: state, Result: res}
	}
	r.rows = rows
}

// SetError records the failure of a whole run.
func (r *ResultsModel) SetError(err error) {
	r.err = err
}

// SetWidth updates the available width.
func (r *ResultsModel) SetWidth(w int) {
	r.width = w
}

// Rows returns the current rows.
func (r ResultsModel) Rows() []ResultRow {
	return r.rows
}

// Mismatch reports whether two successful rows disagree.
func (r ResultsModel) Mismatch() bool {
	var first *uint64
	for i := range r.rows {
		if r.rows[i].State != rowDone {
			continue
		}
		v := r.rows[i].Result.Result
		if first == nil {
			first = &v
		} else if *first != v {
			return true
		}
	}
	return false
}

// Running reports whether any row is still running.
func (r ResultsModel) Running() bool {
	for _, row := range r.rows {
		if row.State == rowRunning {
			return true
		}
	}
	return false
}

// View renders the results panel.
func (r ResultsModel) View() string {
	var b strings.Builder
	nameWidth := len("Calculator")
	for _, row := range r.rows {
		nameWidth = max(nameWidth, lipgloss.Width(row.Name))
	}

	if r.started {
		fmt.Fprintf(&b, "%s\n\n", accentStyle.Render(fmt.Sprintf("F(%d)", r.n)))
	} else {
		fmt.Fprintf(&b, "%s\n\n", dimStyle.Render("Type an index and press enter."))
	}

	fmt.Fprintf(&b, "%s  %s  %s\n",
		tableHeadStyle.Render(pad("Calculator", nameWidth)),
		tableHeadStyle.Render(pad("Duration", 12)),
		tableHeadStyle.Render("Result"))

	for _, row := range r.rows {
		fmt.Fprintf(&b, "%s  %s  %s\n", pad(row.Name, nameWidth), pad(r.durationCell(row), 12), r.valueCell(row))
	}

	switch {
	case r.err != nil:
		fmt.Fprintf(&b, "\n%s", errorStyle.Render("All calculators failed: "+r.err.Error()))
	case r.Mismatch():
		fmt.Fprintf(&b, "\n%s", errorStyle.Render("MISMATCH: calculators returned different values"))
	case r.started && !r.Running():
		status := successStyle.Render("All results consistent")
		if fibonacci.Overflows(r.n) {
			status += "  " + warningStyle.Render("(value wrapped modulo 2^64)")
		}
		fmt.Fprintf(&b, "\n%s", status)
	}

	style := panelStyle
	if r.width > 2 {
		style = style.Width(r.width - 2)
	}
	return style.Render(b.String())
}

func (r ResultsModel) durationCell(row ResultRow) string {
	switch row.State {
	case rowDone, rowFailed:
		return format.FormatExecutionDuration(row.Result.Duration)
	case rowRunning:
		return "running"
	default:
		return "-"
	}
}

func (r ResultsModel) valueCell(row ResultRow) string {
	switch row.State {
	case rowDone:
		return successStyle.Render(format.FormatUint64(row.Result.Result))
	case rowFailed:
		return errorStyle.Render("failed: " + row.Result.Err.Error())
	case rowRunning:
		return dimStyle.Render("…")
	default:
		return ""
	}
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
