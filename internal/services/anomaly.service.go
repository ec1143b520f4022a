package services

import (
	"fmt"
	"time"

	"sentinel/internal/models"
)

// CPURule describes the sustained-high-CPU alert. Tick is the fixed polling
// interval; duration is measured in ticks, not wall-clock time.
type CPURule struct {
	Threshold float64
	Duration  time.Duration
	Tick      time.Duration
}

// DefaultCPURule is the only rule the monitor evaluates.
var DefaultCPURule = CPURule{
	Threshold: HighCPUThreshold,
	Duration:  HighCPUDuration,
	Tick:      PollInterval,
}

// DedupWindow is how long an identical alert message is suppressed.
func (r CPURule) DedupWindow() time.Duration {
	return 2 * r.Duration
}

// AnomalyState counts consecutive ticks above the threshold.
type AnomalyState struct {
	HighTicks int
}

// EvaluateCPU is the detector's pure transition. It returns the next state and,
// when the rule fires and no identical alert was raised inside the dedup
// window, the alert to emit. The counter resets after every trigger whether or
// not the alert was suppressed.
func EvaluateCPU(state AnomalyState, cpuPercent float64, rule CPURule, recent []models.Alert, now time.Time) (AnomalyState, *models.Alert) {
	if cpuPercent <= rule.Threshold {
		return AnomalyState{}, nil
	}

	state.HighTicks++
	if time.Duration(state.HighTicks)*rule.Tick < rule.Duration {
		return state, nil
	}

	message := fmt.Sprintf("High CPU usage detected: %.1f%%", cpuPercent)
	if recentlyRaised(recent, message, now, rule.DedupWindow()) {
		return AnomalyState{}, nil
	}

	alert := models.NewAlert(message, models.AlertHighCPU, now)
	return AnomalyState{}, &alert
}

func recentlyRaised(recent []models.Alert, message string, now time.Time, window time.Duration) bool {
	for _, a := range recent {
		if a.Message == message && now.Sub(a.RaisedAt) < window {
			return true
		}
	}
	return false
}

// AnomalyDetector keeps AnomalyState between cycles for the scheduler.
type AnomalyDetector struct {
	rule  CPURule
	state AnomalyState
}

func NewAnomalyDetector(rule CPURule) *AnomalyDetector {
	return &AnomalyDetector{rule: rule}
}

// Observe feeds one tick's CPU reading to the detector.
func (d *AnomalyDetector) Observe(cpuPercent float64, recent []models.Alert, now time.Time) *models.Alert {
	var alert *models.Alert
	d.state, alert = EvaluateCPU(d.state, cpuPercent, d.rule, recent, now)
	return alert
}

// State returns the current accumulation state.
func (d *AnomalyDetector) State() AnomalyState {
	return d.state
}
