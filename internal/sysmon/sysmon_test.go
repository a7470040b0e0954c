package sysmon

import (
	"context"
	"testing"
)

func TestSample_ReturnsValidRanges(t *testing.T) {
	t.Parallel()
	s := Sample(context.Background())
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

func TestSample_ProcessMemory(t *testing.T) {
	t.Parallel()
	s := Sample(context.Background())
	if s.MemPercent == 0 {
		t.Error("expected non-zero MemPercent on a running system")
	}
	if s.ProcessRSS == 0 {
		t.Error("expected non-zero resident memory for the test process")
	}
}
