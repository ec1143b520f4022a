package models

// ChartHistory holds the rolling chart series. All four slices always have
// the same length, ordered oldest to newest.
type ChartHistory struct {
	Labels    []string  `json:"labels"`
	CPU       []float64 `json:"cpu"`
	Memory    []float64 `json:"memory"`
	NetworkRx []float64 `json:"network_rx"`
}
