// Package sysmon samples host CPU and memory usage for the dashboard header.
package sysmon

import (
	"context"
	"os"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Stats holds one snapshot of resource usage.
type Stats struct {
	CPUPercent float64 // system-wide, 0..100
	MemPercent float64 // system-wide, 0..100
	ProcessRSS uint64  // resident set size of this process, in bytes
}

// Sample collects a snapshot. CPU usage is the delta since the previous
// call (interval 0). Fields that cannot be read are left at zero.
func Sample(ctx context.Context) Stats {
	var s Stats
	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if vmem, err := mem.VirtualMemoryWithContext(ctx); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	if p, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if info, err := p.MemoryInfoWithContext(ctx); err == nil && info != nil {
			s.ProcessRSS = info.RSS
		}
	}
	return s
}
