package services

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentinel/internal/models"
)

// Telemetry exposes the monitor's own counters in Prometheus format.
// All methods are no-ops on a nil receiver.
type Telemetry struct {
	registry *prometheus.Registry

	cycles        prometheus.Counter
	cycleErrors   prometheus.Counter
	cycleDuration prometheus.Histogram
	alerts        *prometheus.CounterVec
	observers     prometheus.Gauge
	dropped       prometheus.Counter
	cpu           prometheus.Gauge
	memory        prometheus.Gauge
	networkRx     prometheus.Gauge
}

func NewTelemetry() *Telemetry {
	t := &Telemetry{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinel",
			Name:      "cycles_total",
			Help:      "Sampling cycles started.",
		}),
		cycleErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinel",
			Name:      "cycle_errors_total",
			Help:      "Sampling cycles that failed.",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sentinel",
			Name:      "cycle_duration_seconds",
			Help:      "Time spent in one sampling cycle.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1},
		}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentinel",
			Name:      "alerts_total",
			Help:      "Alerts raised by type.",
		}, []string{"type"}),
		observers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentinel",
			Name:      "observers",
			Help:      "Currently connected observers.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinel",
			Name:      "dropped_messages_total",
			Help:      "Messages not delivered because a queue was full.",
		}),
		cpu: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentinel",
			Name:      "cpu_percent",
			Help:      "Last sampled system CPU usage.",
		}),
		memory: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentinel",
			Name:      "memory_percent",
			Help:      "Last sampled memory usage.",
		}),
		networkRx: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentinel",
			Name:      "network_rx_kbps",
			Help:      "Last sampled network receive rate in KB/s.",
		}),
	}

	t.registry.MustRegister(
		t.cycles, t.cycleErrors, t.cycleDuration, t.alerts,
		t.observers, t.dropped, t.cpu, t.memory, t.networkRx,
	)
	return t
}

// Registry returns the underlying registry.
func (t *Telemetry) Registry() *prometheus.Registry {
	return t.registry
}

// Handler serves the exposition format.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

func (t *Telemetry) CycleDone(start time.Time, err error) {
	if t == nil {
		return
	}
	t.cycles.Inc()
	t.cycleDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		t.cycleErrors.Inc()
	}
}

func (t *Telemetry) Sampled(snap models.Snapshot) {
	if t == nil {
		return
	}
	t.cpu.Set(snap.CPUPercent)
	t.memory.Set(snap.MemoryPercent)
	t.networkRx.Set(snap.NetworkRxRate)
}

func (t *Telemetry) AlertRaised(alertType models.AlertType) {
	if t == nil {
		return
	}
	t.alerts.WithLabelValues(string(alertType)).Inc()
}

func (t *Telemetry) SetObservers(n int) {
	if t == nil {
		return
	}
	t.observers.Set(float64(n))
}

func (t *Telemetry) MessageDropped() {
	if t == nil {
		return
	}
	t.dropped.Inc()
}
