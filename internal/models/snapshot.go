package models

import "time"

// LabelLayout is the wall-clock format used for chart labels and alert timestamps.
const LabelLayout = "15:04:05"

// Snapshot is one consolidated reading of system-wide CPU, memory and network.
type Snapshot struct {
	Timestamp     time.Time `json:"timestamp"`
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	NetworkRxRate float64   `json:"network_rx_rate"` // KB/s
}

// Label returns the snapshot time as HH:MM:SS local time.
func (s Snapshot) Label() string {
	return s.Timestamp.Local().Format(LabelLayout)
}
