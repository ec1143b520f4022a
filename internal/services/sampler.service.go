package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"sentinel/internal/models"
)

// CounterState carries the previous cumulative network counter between samples.
type CounterState struct {
	PrevBytesRecv uint64
	PrevTime      time.Time
}

// Sampler produces one Snapshot per tick.
type Sampler struct {
	source MetricSource
	events *EventLog
	now    func() time.Time

	state CounterState
}

func NewSampler(source MetricSource, events *EventLog) *Sampler {
	return &Sampler{
		source: source,
		events: events,
		now:    time.Now,
	}
}

// State returns the counter state left by the last call to Sample.
func (s *Sampler) State() CounterState {
	return s.state
}

// Sample queries the source once for each metric and derives the receive rate
// from the counter delta since the previous call.
func (s *Sampler) Sample(ctx context.Context) (models.Snapshot, error) {
	cpuPercent, err := s.source.CPUPercent(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("sample cpu: %w", err)
	}
	memoryPercent, err := s.source.MemoryPercent(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("sample memory: %w", err)
	}
	bytesRecv, err := s.source.NetworkBytesRecv(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("sample network: %w", err)
	}

	now := s.now()
	var elapsed time.Duration
	if !s.state.PrevTime.IsZero() {
		elapsed = now.Sub(s.state.PrevTime)
	}
	rate := NetworkRate(s.state.PrevBytesRecv, bytesRecv, elapsed)

	s.state = CounterState{PrevBytesRecv: bytesRecv, PrevTime: now}

	snap := models.Snapshot{
		Timestamp:     now,
		CPUPercent:    cpuPercent,
		MemoryPercent: memoryPercent,
		NetworkRxRate: rate,
	}

	s.events.Record(snap.Label(), "metrics", fmt.Sprintf("CPU: %.1f%%, Mem: %.1f%%, Net (RX): %.2f KB/s",
		snap.CPUPercent, snap.MemoryPercent, snap.NetworkRxRate))
	return snap, nil
}

// NetworkRate converts a cumulative byte counter delta into KB/s rounded to two
// decimals. A counter that went backwards counts as zero traffic.
func NetworkRate(prev, cur uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 || cur <= prev {
		return 0
	}
	rate := float64(cur-prev) / elapsed.Seconds() / 1024
	return math.Round(rate*100) / 100
}
