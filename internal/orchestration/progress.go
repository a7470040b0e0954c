package orchestration

import "time"

// ProgressTracker counts finished calculators. It is shared by the CLI
// spinner and the TUI so both report completion the same way.
type ProgressTracker struct {
	total    int
	done     int
	failed   int
	slowest  time.Duration
	finished []string
}

// NewProgressTracker creates a tracker for total calculators. Returns nil if
// total <= 0.
func NewProgressTracker(total int) *ProgressTracker {
	if total <= 0 {
		return nil
	}
	return &ProgressTracker{total: total, finished: make([]string, 0, total)}
}

// Update records a completion event.
func (p *ProgressTracker) Update(ev ProgressEvent) {
	p.done++
	if ev.Err != nil {
		p.failed++
	}
	if ev.Duration > p.slowest {
		p.slowest = ev.Duration
	}
	p.finished = append(p.finished, ev.Name)
}

// Done returns the number of calculators that have finished.
func (p *ProgressTracker) Done() int { return p.done }

// Failed returns the number of calculators that finished with an error.
func (p *ProgressTracker) Failed() int { return p.failed }

// Total returns the number of calculators being tracked.
func (p *ProgressTracker) Total() int { return p.total }

// Fraction returns the completed share in [0, 1].
func (p *ProgressTracker) Fraction() float64 {
	return float64(p.done) / float64(p.total)
}

// Slowest returns the longest duration reported so far.
func (p *ProgressTracker) Slowest() time.Duration { return p.slowest }

// Finished returns calculator names in completion order.
func (p *ProgressTracker) Finished() []string {
	return append([]string(nil), p.finished...)
}

// DrainChannel reads all events from the channel without processing.
func DrainChannel(events <-chan ProgressEvent) {
	for range events {
	}
}
