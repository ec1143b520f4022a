package services

import (
	"testing"
	"time"

	"sentinel/internal/models"
)

func snapAt(i int) models.Snapshot {
	return models.Snapshot{
		Timestamp:     time.Date(2024, 5, 1, 12, 0, i, 0, time.Local),
		CPUPercent:    float64(i),
		MemoryPercent: float64(100 - i),
		NetworkRxRate: float64(i) / 2,
	}
}

func TestHistoryBufferStartsFull(t *testing.T) {
	h := NewHistoryBuffer(HistoryLength)
	view := h.View()

	for name, n := range map[string]int{
		"labels":     len(view.Labels),
		"cpu":        len(view.CPU),
		"memory":     len(view.Memory),
		"network_rx": len(view.NetworkRx),
	} {
		if n != HistoryLength {
			t.Fatalf("%s: len = %d, want %d", name, n, HistoryLength)
		}
	}
	if view.Labels[0] != "" || view.CPU[0] != 0 {
		t.Fatalf("expected empty initial slots, got %q / %v", view.Labels[0], view.CPU[0])
	}
}

func TestHistoryBufferKeepsLastCapacityInOrder(t *testing.T) {
	const capacity = 5
	tests := []struct {
		name    string
		appends int
	}{
		{"partial", 3},
		{"exactly full", capacity},
		{"wrapped", capacity + 2},
		{"wrapped twice", 3*capacity + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistoryBuffer(capacity)
			for i := 1; i <= tt.appends; i++ {
				h.Append(snapAt(i))
				if got := len(h.View().CPU); got != capacity {
					t.Fatalf("after %d appends len = %d, want %d", i, got, capacity)
				}
			}

			view := h.View()
			for k := 0; k < capacity; k++ {
				want := tt.appends - capacity + 1 + k
				if want < 1 {
					if view.CPU[k] != 0 || view.Labels[k] != "" {
						t.Fatalf("slot %d should still be empty, got %v %q", k, view.CPU[k], view.Labels[k])
					}
					continue
				}
				s := snapAt(want)
				if view.CPU[k] != s.CPUPercent || view.Memory[k] != s.MemoryPercent || view.NetworkRx[k] != s.NetworkRxRate {
					t.Fatalf("slot %d = (%v,%v,%v), want snapshot %d", k, view.CPU[k], view.Memory[k], view.NetworkRx[k], want)
				}
				if view.Labels[k] != s.Label() {
					t.Fatalf("slot %d label = %q, want %q", k, view.Labels[k], s.Label())
				}
			}
		})
	}
}

func TestHistoryBufferViewIsCopy(t *testing.T) {
	h := NewHistoryBuffer(3)
	h.Append(snapAt(1))

	view := h.View()
	view.CPU[2] = 999
	view.Labels[2] = "mutated"

	again := h.View()
	if again.CPU[2] != 1 || again.Labels[2] == "mutated" {
		t.Fatalf("view shares storage with buffer: %+v", again)
	}
}

func TestHistoryBufferConcurrentReadsSeeConsistentSeries(t *testing.T) {
	h := NewHistoryBuffer(HistoryLength)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			h.Append(models.Snapshot{CPUPercent: float64(i), MemoryPercent: float64(i), NetworkRxRate: float64(i)})
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		view := h.View()
		for k := range view.CPU {
			if view.CPU[k] != view.Memory[k] || view.CPU[k] != view.NetworkRx[k] {
				t.Fatalf("torn read at %d: cpu=%v mem=%v net=%v", k, view.CPU[k], view.Memory[k], view.NetworkRx[k])
			}
		}
	}
}
