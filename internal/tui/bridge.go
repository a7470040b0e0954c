package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/fibwasm/internal/errors"
	"github.com/agbru/fibwasm/internal/orchestration"
)

// sender is the part of tea.Program the bridge needs.
type sender interface {
	Send(msg tea.Msg)
}

// programRef is a shared reference to the running program. bubbletea copies
// the model on every Update, so the bridge holds a pointer that survives
// those copies.
type programRef struct {
	mu      sync.RWMutex
	program sender
}

// SetProgram sets the program reference (thread-safe).
func (r *programRef) SetProgram(p sender) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program, dropping it when none is set.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter by turning
// each completion event into a CalculatorDoneMsg.
type TUIProgressReporter struct {
	ref        *programRef
	generation uint64
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress forwards events until the channel is closed.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, events <-chan orchestration.ProgressEvent, _ int, _ io.Writer) {
	defer wg.Done()
	for ev := range events {
		t.ref.Send(CalculatorDoneMsg{Generation: t.generation, Event: ev})
	}
}

// TUIResultPresenter implements orchestration.ResultPresenter and
// orchestration.ErrorHandler by sending messages instead of writing text.
type TUIResultPresenter struct {
	ref        *programRef
	generation uint64
}

var (
	_ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler    = (*TUIResultPresenter)(nil)
)

// PresentComparisonTable sends the sorted results to the dashboard.
func (t *TUIResultPresenter) PresentComparisonTable(results []orchestration.CalculationResult, _ io.Writer) {
	t.ref.Send(ComparisonResultsMsg{Generation: t.generation, Results: results})
}

// PresentResult is a no-op: the results panel already shows the value.
func (t *TUIResultPresenter) PresentResult(orchestration.CalculationResult, orchestration.PresentationOptions, io.Writer) {
}

// HandleError sends an ErrorMsg and returns the exit code for err.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Generation: t.generation, Err: err, Duration: duration})
	return apperrors.HandleCalculationError(err, duration, io.Discard, noColors{})
}

type noColors struct{}

func (noColors) Yellow() string { return "" }
func (noColors) Red() string    { return "" }
func (noColors) Reset() string  { return "" }
