package models

// ProcessSample is one process's CPU and memory share for the current cycle.
// CPU may exceed 100 on multi-core hosts.
type ProcessSample struct {
	PID    int32   `json:"pid"`
	Name   string  `json:"name"`
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
}
