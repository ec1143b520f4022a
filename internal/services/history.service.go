package services

import (
	"sync"

	"sentinel/internal/models"
)

// HistoryBuffer is a fixed-capacity ring of chart points. It always holds
// exactly capacity entries; empty slots start as "" / 0 so charts begin flat.
type HistoryBuffer struct {
	mu        sync.RWMutex
	labels    []string
	cpu       []float64
	memory    []float64
	networkRx []float64
	head      int // index of the oldest entry
}

func NewHistoryBuffer(capacity int) *HistoryBuffer {
	if capacity <= 0 {
		capacity = HistoryLength
	}
	return &HistoryBuffer{
		labels:    make([]string, capacity),
		cpu:       make([]float64, capacity),
		memory:    make([]float64, capacity),
		networkRx: make([]float64, capacity),
	}
}

// Len returns the buffer capacity, which is also its length.
func (h *HistoryBuffer) Len() int {
	return len(h.labels)
}

// Append overwrites the oldest entry with snap.
func (h *HistoryBuffer) Append(snap models.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.labels[h.head] = snap.Label()
	h.cpu[h.head] = snap.CPUPercent
	h.memory[h.head] = snap.MemoryPercent
	h.networkRx[h.head] = snap.NetworkRxRate
	h.head = (h.head + 1) % len(h.labels)
}

// View returns a copy of all four series ordered oldest to newest.
func (h *HistoryBuffer) View() models.ChartHistory {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return models.ChartHistory{
		Labels:    unroll(h.labels, h.head),
		CPU:       unroll(h.cpu, h.head),
		Memory:    unroll(h.memory, h.head),
		NetworkRx: unroll(h.networkRx, h.head),
	}
}

func unroll[T any](ring []T, head int) []T {
	out := make([]T, 0, len(ring))
	out = append(out, ring[head:]...)
	return append(out, ring[:head]...)
}
