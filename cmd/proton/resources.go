package main

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/protondb/proton/pkg/errors"
)

// resourceMonitor measures the CPU time and memory this process uses from
// its creation on.
type resourceMonitor struct {
	proc     *process.Process
	startCPU float64
	start    time.Time
}

// resourceUsage is a snapshot taken by resourceMonitor.
type resourceUsage struct {
	// CPUPercent is CPU time over wall time; above 100 when several cores
	// were busy.
	CPUPercent    float64
	RSS           uint64
	Threads       int32
	SystemMemUsed float64
}

func newResourceMonitor() (*resourceMonitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: pids fit in int32
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to open process")
	}
	times, err := proc.Times()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to read cpu times")
	}
	return &resourceMonitor{proc: proc, startCPU: times.Total(), start: time.Now()}, nil
}

func (m *resourceMonitor) usage() (resourceUsage, error) {
	var u resourceUsage
	times, err := m.proc.Times()
	if err != nil {
		return u, errors.Wrap(err, errors.ErrorTypeInternal, "failed to read cpu times")
	}
	if elapsed := time.Since(m.start).Seconds(); elapsed > 0 {
		u.CPUPercent = (times.Total() - m.startCPU) / elapsed * 100
	}
	info, err := m.proc.MemoryInfo()
	if err != nil {
		return u, errors.Wrap(err, errors.ErrorTypeInternal, "failed to read memory info")
	}
	u.RSS = info.RSS
	u.Threads, _ = m.proc.NumThreads()
	if vm, err := mem.VirtualMemory(); err == nil {
		u.SystemMemUsed = vm.UsedPercent
	}
	return u, nil
}
