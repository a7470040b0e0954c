package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibwasm/internal/format"
)

// sparkHistory is the number of resource samples kept for the sparklines.
const sparkHistory = 20

// HeaderModel renders the top bar: title, version, elapsed time of the
// current run and CPU/memory sparklines.
type HeaderModel struct {
	version   string
	startTime time.Time
	endTime   time.Time
	cpu       *History
	mem       *History
	width     int
}

// NewHeaderModel creates a header with no run in progress.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{
		version: version,
		cpu:     NewHistory(sparkHistory),
		mem:     NewHistory(sparkHistory),
	}
}

// Start restarts the elapsed timer.
func (h *HeaderModel) Start(now time.Time) {
	h.startTime = now
	h.endTime = time.Time{}
}

// Stop freezes the elapsed timer.
func (h *HeaderModel) Stop(now time.Time) {
	if !h.startTime.IsZero() && h.endTime.IsZero() {
		h.endTime = now
	}
}

// Clear forgets the current run.
func (h *HeaderModel) Clear() {
	h.startTime = time.Time{}
	h.endTime = time.Time{}
}

// AddSample records a resource sample.
func (h *HeaderModel) AddSample(cpuPct, memPct float64) {
	h.cpu.Push(cpuPct)
	h.mem.Push(memPct)
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the duration of the current or last run.
func (h HeaderModel) Elapsed(now time.Time) time.Duration {
	switch {
	case h.startTime.IsZero():
		return 0
	case !h.endTime.IsZero():
		return h.endTime.Sub(h.startTime)
	default:
		return now.Sub(h.startTime)
	}
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "fibwasm"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	left := titleStyle.Render(titleText)
	if !h.startTime.IsZero() {
		left += dimStyle.Render(" | ") +
			fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed(time.Now())))
	}

	right := fmt.Sprintf("CPU %s %5.1f%%  MEM %s %5.1f%%",
		cpuSparkStyle.Render(RenderSparkline(h.cpu.Values())), h.cpu.Last(),
		memSparkStyle.Render(RenderSparkline(h.mem.Values())), h.mem.Last())

	gap := h.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	row := left + strings.Repeat(" ", max(gap, 1)) + right
	return headerStyle.Render(row)
}
