package models

import "time"

type AlertType string

const (
	AlertInfo    AlertType = "info"
	AlertWarning AlertType = "warning"
	AlertHighCPU AlertType = "high_cpu"
)

// Alert is an immutable notification shown in the UI and written to the event log.
type Alert struct {
	Message   string    `json:"message"`
	Timestamp string    `json:"timestamp"` // HH:MM:SS, display only
	Type      AlertType `json:"type"`

	// RaisedAt is the absolute time the alert was created; dedup windows use it
	// instead of the display string so they survive midnight.
	RaisedAt time.Time `json:"-"`
}

// NewAlert stamps an alert with now.
func NewAlert(message string, alertType AlertType, now time.Time) Alert {
	return Alert{
		Message:   message,
		Timestamp: now.Local().Format(LabelLayout),
		Type:      alertType,
		RaisedAt:  now,
	}
}
