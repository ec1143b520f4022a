package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"sentinel/internal/models"
)

// ProcessRanker samples per-process CPU and memory once per cycle.
type ProcessRanker struct {
	source MetricSource
	settle time.Duration
	logger *slog.Logger

	// sleep waits for CPU time to accrue between priming and reading.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewProcessRanker(source MetricSource, settle time.Duration, logger *slog.Logger) *ProcessRanker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ProcessRanker{
		source: source,
		settle: settle,
		logger: logger.With("component", "processes"),
		sleep:  sleepContext,
	}
}

// Top returns at most n processes ranked by CPU.
// Pipeline: Prime → Settle → Read → Select
func (r *ProcessRanker) Top(ctx context.Context, n int) ([]models.ProcessSample, error) {
	handles, err := r.source.Processes(ctx)
	if err != nil {
		return nil, err
	}

	// PRIME: the first CPU read on each handle establishes its baseline
	primed := make([]ProcessHandle, 0, len(handles))
	for _, h := range handles {
		if _, err := h.CPUPercent(ctx); err != nil {
			continue
		}
		primed = append(primed, h)
	}

	// SETTLE
	if err := r.sleep(ctx, r.settle); err != nil {
		return nil, err
	}

	// READ: processes that vanished, are zombies or deny access are skipped
	samples := make([]models.ProcessSample, 0, len(primed))
	skipped := 0
	for _, h := range primed {
		sample, ok := readProcess(ctx, h)
		if !ok {
			skipped++
			continue
		}
		samples = append(samples, sample)
	}
	if skipped > 0 {
		r.logger.Debug("skipped processes", "count", skipped)
	}

	// SELECT
	return SelectTop(samples, n), nil
}

func readProcess(ctx context.Context, h ProcessHandle) (models.ProcessSample, bool) {
	if zombie, err := h.Zombie(ctx); err != nil || zombie {
		return models.ProcessSample{}, false
	}
	name, err := h.Name(ctx)
	if err != nil {
		return models.ProcessSample{}, false
	}
	cpuPercent, err := h.CPUPercent(ctx)
	if err != nil {
		return models.ProcessSample{}, false
	}
	memPercent, err := h.MemoryPercent(ctx)
	if err != nil {
		return models.ProcessSample{}, false
	}
	return models.ProcessSample{
		PID:    h.PID(),
		Name:   name,
		CPU:    cpuPercent,
		Memory: memPercent,
	}, true
}

// SelectTop applies the two-tier policy: when at least n processes used CPU
// only those are ranked, otherwise idle processes fill the list so it is never
// sparse. Result is sorted by CPU descending and truncated to n.
func SelectTop(samples []models.ProcessSample, n int) []models.ProcessSample {
	if n <= 0 {
		return []models.ProcessSample{}
	}

	active := make([]models.ProcessSample, 0, len(samples))
	for _, s := range samples {
		if s.CPU > 0 {
			active = append(active, s)
		}
	}

	var ranked []models.ProcessSample
	if len(active) >= n {
		ranked = active
	} else {
		ranked = make([]models.ProcessSample, len(samples))
		copy(ranked, samples)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CPU > ranked[j].CPU
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
