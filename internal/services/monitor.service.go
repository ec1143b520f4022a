package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"sentinel/internal/models"
)

// Fixed monitor settings.
const (
	HistoryLength     = 30
	HighCPUThreshold  = 90.0
	HighCPUDuration   = 10 * time.Second
	PollInterval      = 500 * time.Millisecond
	TopProcessCount   = 5
	AlertCapacity     = 10
	ProcessSettleTime = 50 * time.Millisecond
	ClientSendBuffer  = 256
)

const sessionStartedMessage = "Monitoring session started."

// Monitor drives the sampling cycle and owns all pipeline state. Only the
// goroutine running Run mutates the sampler, history and detector.
type Monitor struct {
	sampler   *Sampler
	history   *HistoryBuffer
	detector  *AnomalyDetector
	alerts    *AlertStore
	ranker    *ProcessRanker
	hub       *WebSocketHub
	events    *EventLog
	telemetry *Telemetry
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.RWMutex
	latest models.CyclePayload
}

func NewMonitor(source MetricSource, events *EventLog, hub *WebSocketHub, telemetry *Telemetry, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := &Monitor{
		sampler:   NewSampler(source, events),
		history:   NewHistoryBuffer(HistoryLength),
		detector:  NewAnomalyDetector(DefaultCPURule),
		alerts:    NewAlertStore(AlertCapacity),
		ranker:    NewProcessRanker(source, ProcessSettleTime, logger),
		hub:       hub,
		events:    events,
		telemetry: telemetry,
		logger:    logger.With("component", "monitor"),
		now:       time.Now,
	}
	m.latest = models.CyclePayload{
		Metrics: models.MetricsPayload{
			ChartHistory: m.history.View(),
			Alerts:       []models.Alert{},
		},
		Processes: []models.ProcessSample{},
	}
	return m
}

// Start runs cycles every PollInterval until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	m.logger.Info("monitor started", "interval", PollInterval)
	m.Run(ctx, ticker.C)
	m.logger.Info("monitor stopped")
}

// Run executes one cycle per tick. A failed cycle is logged and the loop
// continues with the next tick.
func (m *Monitor) Run(ctx context.Context, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			if err := m.RunCycle(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				m.logger.Error("error in monitor cycle", "error", err)
			}
		}
	}
}

// RunCycle samples, updates history, evaluates the CPU rule, ranks processes
// and broadcasts the combined payload.
func (m *Monitor) RunCycle(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("monitor cycle panic: %v", r)
		}
		m.telemetry.CycleDone(start, err)
	}()

	snap, err := m.sampler.Sample(ctx)
	if err != nil {
		return err
	}
	m.telemetry.Sampled(snap)
	m.history.Append(snap)

	if alert := m.detector.Observe(snap.CPUPercent, m.alerts.Recent(), snap.Timestamp); alert != nil {
		m.emitAlert(*alert)
	}

	processes, err := m.ranker.Top(ctx, TopProcessCount)
	if err != nil {
		return fmt.Errorf("rank processes: %w", err)
	}

	payload := models.CyclePayload{
		Metrics: models.MetricsPayload{
			CPUUsage:        snap.CPUPercent,
			MemoryUsage:     snap.MemoryPercent,
			NetworkActivity: snap.NetworkRxRate,
			ChartHistory:    m.history.View(),
			Alerts:          m.alerts.Recent(),
		},
		Processes: processes,
	}

	m.mu.Lock()
	m.latest = payload
	m.mu.Unlock()

	m.hub.Broadcast(WebSocketMessage{
		Type:      MessageRealTimeData,
		Timestamp: snap.Timestamp,
		Data:      payload,
	})
	return nil
}

// RaiseAlert records an alert and pushes it to observers immediately.
func (m *Monitor) RaiseAlert(message string, alertType models.AlertType) models.Alert {
	alert := models.NewAlert(message, alertType, m.now())
	m.emitAlert(alert)
	return alert
}

func (m *Monitor) emitAlert(alert models.Alert) {
	m.alerts.Add(alert)
	m.events.Record(alert.Timestamp, string(alert.Type), alert.Message)
	m.telemetry.AlertRaised(alert.Type)
	m.hub.Broadcast(WebSocketMessage{
		Type:      MessageNewAlert,
		Timestamp: alert.RaisedAt,
		Data:      alert,
	})
}

// ObserverConnected acknowledges a new observer and announces the session.
func (m *Monitor) ObserverConnected(clientID string) {
	m.hub.Send(clientID, WebSocketMessage{
		Type:      MessageStatus,
		Timestamp: m.now(),
		Data:      models.StatusAck{Data: "Connected"},
	})
	m.RaiseAlert(sessionStartedMessage, models.AlertInfo)
}

// ObserverDisconnected only leaves a trace in the event log.
func (m *Monitor) ObserverDisconnected(clientID string) {
	m.logger.Info("observer disconnected", "client", clientID)
	m.events.Record(m.now().Local().Format(models.LabelLayout), "info", "Client disconnected.")
}

// Status returns the payload of the last completed cycle.
func (m *Monitor) Status() models.CyclePayload {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

// Alerts returns the recent alerts, newest first.
func (m *Monitor) Alerts() []models.Alert {
	return m.alerts.Recent()
}
