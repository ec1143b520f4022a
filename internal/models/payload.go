package models

// MetricsPayload is the metrics half of a cycle broadcast.
type MetricsPayload struct {
	CPUUsage        float64      `json:"cpu_usage"`
	MemoryUsage     float64      `json:"memory_usage"`
	NetworkActivity float64      `json:"network_activity"` // KB/s
	ChartHistory    ChartHistory `json:"chart_history"`
	Alerts          []Alert      `json:"alerts"` // most recent first
}

// CyclePayload is broadcast to every observer once per scheduler cycle.
type CyclePayload struct {
	Metrics   MetricsPayload  `json:"metrics"`
	Processes []ProcessSample `json:"processes"`
}

// StatusAck is sent to a single observer when it connects.
type StatusAck struct {
	Data string `json:"data"`
}
