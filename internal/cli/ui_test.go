package cli

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"
	"github.com/golang/mock/gomock"

	"github.com/agbru/fibwasm/internal/cli/mocks"
	"github.com/agbru/fibwasm/internal/orchestration"
)

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(io.Discard))
	rs := &realSpinner{s}

	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
	if s.Suffix != " test" {
		t.Errorf("Suffix = %q, want %q", s.Suffix, " test")
	}
}

// TestDisplayProgress swaps the package-level spinner factory and must not
// run in parallel with other tests that use it.
func TestDisplayProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockS := mocks.NewMockSpinner(ctrl)

	originalNewSpinner := newSpinner
	defer func() { newSpinner = originalNewSpinner }()
	newSpinner = func(...spinner.Option) Spinner { return mockS }

	var suffixes []string
	gomock.InOrder(
		mockS.EXPECT().UpdateSuffix(gomock.Any()).Do(func(s string) { suffixes = append(suffixes, s) }),
		mockS.EXPECT().Start(),
		mockS.EXPECT().UpdateSuffix(gomock.Any()).Do(func(s string) { suffixes = append(suffixes, s) }).Times(2),
		mockS.EXPECT().Stop(),
	)

	events := make(chan orchestration.ProgressEvent, 2)
	events <- orchestration.ProgressEvent{CalculatorIndex: 0, Name: "a"}
	events <- orchestration.ProgressEvent{CalculatorIndex: 1, Name: "b", Err: errors.New("x")}
	close(events)

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, events, 2, io.Discard)
	wg.Wait()

	if len(suffixes) != 3 {
		t.Fatalf("got %d suffix updates, want 3", len(suffixes))
	}
	if !strings.Contains(suffixes[0], "0/2 calculators finished") {
		t.Errorf("initial suffix = %q", suffixes[0])
	}
	if !strings.Contains(suffixes[2], "2/2 calculators finished") {
		t.Errorf("final suffix = %q", suffixes[2])
	}
}

func TestDisplayProgress_ZeroCalculators(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	wg.Add(1)
	events := make(chan orchestration.ProgressEvent)
	close(events)

	DisplayProgress(&wg, events, 0, io.Discard)
	wg.Wait()
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		want     string
	}{
		{0, "░░░░"},
		{0.5, "██░░"},
		{1, "████"},
		{1.5, "████"},
		{-1, "░░░░"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.progress, 4); got != tt.want {
			t.Errorf("progressBar(%v, 4) = %q, want %q", tt.progress, got, tt.want)
		}
	}
}
