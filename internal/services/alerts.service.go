package services

import (
	"sync"

	"sentinel/internal/models"
)

// AlertStore keeps the most recent alerts, newest first, for UI replay.
// Lifecycle alerts are added from connection goroutines, so access is locked.
type AlertStore struct {
	mu       sync.RWMutex
	alerts   []models.Alert
	capacity int
}

func NewAlertStore(capacity int) *AlertStore {
	if capacity <= 0 {
		capacity = AlertCapacity
	}
	return &AlertStore{
		alerts:   make([]models.Alert, 0, capacity),
		capacity: capacity,
	}
}

// Add prepends a and drops the oldest entry once capacity is exceeded.
func (s *AlertStore) Add(a models.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.alerts) < s.capacity {
		s.alerts = append(s.alerts, models.Alert{})
	}
	copy(s.alerts[1:], s.alerts[:len(s.alerts)-1])
	s.alerts[0] = a
}

// Recent returns a copy of the stored alerts, newest first.
func (s *AlertStore) Recent() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

func (s *AlertStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alerts)
}
