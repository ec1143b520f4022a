package services

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errGone = errors.New("process gone")

// fakeSource serves scripted readings. cpu, memory and bytes are consumed one
// value per call; the last value repeats once the script runs out.
type fakeSource struct {
	mu      sync.Mutex
	cpu     []float64
	memory  []float64
	bytes   []uint64
	procs   []*fakeProcess
	cpuErr  error
	procErr error
}

func next[T any](script *[]T) T {
	var zero T
	if len(*script) == 0 {
		return zero
	}
	v := (*script)[0]
	if len(*script) > 1 {
		*script = (*script)[1:]
	}
	return v
}

func (f *fakeSource) CPUPercent(context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cpuErr != nil {
		return 0, f.cpuErr
	}
	return next(&f.cpu), nil
}

func (f *fakeSource) MemoryPercent(context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return next(&f.memory), nil
}

func (f *fakeSource) NetworkBytesRecv(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return next(&f.bytes), nil
}

func (f *fakeSource) Processes(context.Context) ([]ProcessHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.procErr != nil {
		return nil, f.procErr
	}
	out := make([]ProcessHandle, 0, len(f.procs))
	for _, p := range f.procs {
		out = append(out, p)
	}
	return out, nil
}

// fakeProcess returns 0 on the first CPUPercent call and cpu afterwards,
// mirroring the priming behaviour of the real handle.
type fakeProcess struct {
	pid    int32
	name   string
	cpu    float64
	memory float64
	zombie bool

	failPrime bool
	failRead  bool

	cpuCalls int
}

func (p *fakeProcess) PID() int32 { return p.pid }

func (p *fakeProcess) Name(context.Context) (string, error) {
	if p.failRead {
		return "", errGone
	}
	return p.name, nil
}

func (p *fakeProcess) CPUPercent(context.Context) (float64, error) {
	p.cpuCalls++
	if p.cpuCalls == 1 {
		if p.failPrime {
			return 0, errGone
		}
		return 0, nil
	}
	if p.failRead {
		return 0, errGone
	}
	return p.cpu, nil
}

func (p *fakeProcess) MemoryPercent(context.Context) (float64, error) {
	if p.failRead {
		return 0, errGone
	}
	return p.memory, nil
}

func (p *fakeProcess) Zombie(context.Context) (bool, error) {
	return p.zombie, nil
}

// stepClock advances by step on every call.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func noSleep(context.Context, time.Duration) error { return nil }
