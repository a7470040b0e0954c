//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/fibwasm/internal/orchestration"
)

const (
	// ProgressRefreshRate is the spinner animation interval.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the completion bar.
	ProgressBarWidth = 20
)

// Spinner abstracts the terminal spinner so DisplayProgress can be tested
// without a real terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with a "k/N calculators finished" suffix
// until events is closed. It calls wg.Done before returning.
func DisplayProgress(wg *sync.WaitGroup, events <-chan orchestration.ProgressEvent, numCalculators int, out io.Writer) {
	defer wg.Done()
	tracker := orchestration.NewProgressTracker(numCalculators)
	if tracker == nil {
		orchestration.DrainChannel(events)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(progressSuffix(tracker))
	s.Start()
	defer s.Stop()

	for ev := range events {
		tracker.Update(ev)
		s.UpdateSuffix(progressSuffix(tracker))
	}
}

func progressSuffix(t *orchestration.ProgressTracker) string {
	return fmt.Sprintf(" %s %d/%d calculators finished", progressBar(t.Fraction(), ProgressBarWidth), t.Done(), t.Total())
}

// progressBar renders a fixed-width bar for progress in [0, 1].
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	count := int(progress * float64(length))
	return strings.Repeat("█", count) + strings.Repeat("░", length-count)
}
