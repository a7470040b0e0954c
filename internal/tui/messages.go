package tui

import (
	"time"

	"github.com/agbru/fibwasm/internal/orchestration"
)

// TickMsg drives the periodic refresh of the header.
type TickMsg time.Time

// SysStatsMsg carries a system resource sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// CalculatorDoneMsg reports that one calculator of a run has finished.
type CalculatorDoneMsg struct {
	Generation uint64
	Event      orchestration.ProgressEvent
}

// ComparisonResultsMsg carries the sorted results of a run.
type ComparisonResultsMsg struct {
	Generation uint64
	Results    []orchestration.CalculationResult
}

// ErrorMsg reports that every calculator of a run failed.
type ErrorMsg struct {
	Generation uint64
	Err        error
	Duration   time.Duration
}

// CalculationCompleteMsg signals that a run has finished.
type CalculationCompleteMsg struct {
	Generation uint64
	ExitCode   int
}

// ContextCancelledMsg signals that the parent context is done.
type ContextCancelledMsg struct {
	Err error
}
