package services

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// MetricSource is the OS-level capability the sampling pipeline consumes.
type MetricSource interface {
	CPUPercent(ctx context.Context) (float64, error)
	MemoryPercent(ctx context.Context) (float64, error)
	// NetworkBytesRecv returns the cumulative bytes received across all interfaces.
	NetworkBytesRecv(ctx context.Context) (uint64, error)
	Processes(ctx context.Context) ([]ProcessHandle, error)
}

// ProcessHandle is a single running process. CPUPercent is non-blocking: it
// reports usage since the previous call on the same handle and returns 0 the
// first time (priming).
type ProcessHandle interface {
	PID() int32
	Name(ctx context.Context) (string, error)
	CPUPercent(ctx context.Context) (float64, error)
	MemoryPercent(ctx context.Context) (float64, error)
	Zombie(ctx context.Context) (bool, error)
}

// HostSource reads metrics from the local host through gopsutil.
type HostSource struct{}

func NewHostSource() *HostSource {
	return &HostSource{}
}

// Prime takes a throwaway system CPU reading so the first real sample has a
// baseline to diff against.
func (HostSource) Prime(ctx context.Context) error {
	_, err := cpu.PercentWithContext(ctx, 0, false)
	return err
}

// CPUPercent returns system-wide CPU usage since the previous call.
func (HostSource) CPUPercent(ctx context.Context) (float64, error) {
	percentage, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(percentage) == 0 {
		return 0, fmt.Errorf("cpu percent: no data")
	}
	return percentage[0], nil
}

// MemoryPercent returns used virtual memory as a percentage.
func (HostSource) MemoryPercent(ctx context.Context) (float64, error) {
	virtualMemory, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return virtualMemory.UsedPercent, nil
}

// NetworkBytesRecv sums bytes received across all interfaces.
func (HostSource) NetworkBytesRecv(ctx context.Context) (uint64, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return 0, err
	}

	var totalBytesRecv uint64
	for _, counter := range counters {
		totalBytesRecv += counter.BytesRecv
	}
	return totalBytesRecv, nil
}

// Processes enumerates running processes.
func (HostSource) Processes(ctx context.Context) ([]ProcessHandle, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	handles := make([]ProcessHandle, 0, len(procs))
	for _, p := range procs {
		handles = append(handles, hostProcess{p})
	}
	return handles, nil
}

// hostProcess adapts *process.Process. The wrapped value keeps the previous
// CPU times, so the same handle must be used for priming and reading.
type hostProcess struct {
	p *process.Process
}

func (h hostProcess) PID() int32 {
	return h.p.Pid
}

func (h hostProcess) Name(ctx context.Context) (string, error) {
	return h.p.NameWithContext(ctx)
}

func (h hostProcess) CPUPercent(ctx context.Context) (float64, error) {
	return h.p.PercentWithContext(ctx, 0)
}

func (h hostProcess) MemoryPercent(ctx context.Context) (float64, error) {
	memPercent, err := h.p.MemoryPercentWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return float64(memPercent), nil
}

func (h hostProcess) Zombie(ctx context.Context) (bool, error) {
	status, err := h.p.StatusWithContext(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range status {
		if s == process.Zombie {
			return true, nil
		}
	}
	return false, nil
}
