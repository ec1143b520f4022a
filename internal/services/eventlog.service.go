package services

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const eventLogHeaderLayout = "2006-01-02 15:04:05"

// EventLog is the append-only text record of every sample and alert.
type EventLog struct {
	path   string
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// NewEventLog returns a log writing to path. A nil logger discards diagnostics.
func NewEventLog(path string, logger *slog.Logger) *EventLog {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &EventLog{
		path:   path,
		logger: logger.With("component", "eventlog"),
		now:    time.Now,
	}
}

// Path returns the log file location.
func (l *EventLog) Path() string {
	return l.path
}

// Exists reports whether the log file is present.
func (l *EventLog) Exists() bool {
	info, err := os.Stat(l.path)
	return err == nil && !info.IsDir()
}

// Init creates the log file with a header line when it does not exist yet.
func (l *EventLog) Init() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := os.Stat(l.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("create event log: %w", err)
	}
	defer f.Close()

	header := fmt.Sprintf("--- Cryptojack Sentinel Full Log - %s ---\n\n", l.now().Format(eventLogHeaderLayout))
	if _, err := f.WriteString(header); err != nil {
		return fmt.Errorf("write event log header: %w", err)
	}
	return nil
}

// Write appends one "<timestamp> [<SEVERITY>]: <message>" line.
func (l *EventLog) Write(timestamp, severity, message string) error {
	line := fmt.Sprintf("%s [%s]: %s\n", timestamp, strings.ToUpper(severity), message)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Record writes a line and reports failures to the diagnostic logger instead
// of returning them.
func (l *EventLog) Record(timestamp, severity, message string) {
	if l == nil {
		return
	}
	if err := l.Write(timestamp, severity, message); err != nil {
		l.logger.Error("error writing to event log", "file", l.path, "severity", severity, "error", err)
	}
}
