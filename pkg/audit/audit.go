// Package audit writes a JSON-lines trail of report lifecycle events.
//
// Every submission that enters the pipeline leaves events here: what was
// classified, what failed validation, what was stored and where, and which
// external formats were produced. The trail supports disclosure-timeline
// disputes and debugging, not metrics (see pkg/metrics for those).
package audit

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// EventType is the kind of lifecycle event.
type EventType string

const (
	EventSubmissionReceived  EventType = "submission_received"
	EventSubmissionRejected  EventType = "submission_rejected"
	EventReportClassified    EventType = "report_classified"
	EventReportBuilt         EventType = "report_built"
	EventReportSerialized    EventType = "report_serialized"
	EventConversionCompleted EventType = "conversion_completed"
	EventConversionFailed    EventType = "conversion_failed"
	EventReportStored        EventType = "report_stored"
	EventStorageFailed       EventType = "storage_failed"
	EventRecipientNotified   EventType = "recipient_notified"
)

// Severity of an event.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARN"
	SeverityError   Severity = "ERROR"
)

// Event is one line in the audit trail.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	Severity  Severity       `json:"severity"`
	ReportID  string         `json:"report_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Message   string         `json:"message"`
	Error     string         `json:"error,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// Logger appends events to a writer as JSON lines. It is safe for
// concurrent use.
type Logger struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time

	closer io.Closer
}

// NewLogger creates a logger writing to w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w, now: time.Now}
}

// NewFileLogger creates a logger appending to the file at path.
func NewFileLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	l := NewLogger(f)
	l.closer = f
	return l, nil
}

// Nop returns a logger that discards every event.
func Nop() *Logger {
	return NewLogger(io.Discard)
}

// Log appends the event, stamping the time if unset.
func (l *Logger) Log(ev Event) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = l.now().UTC()
	}
	if ev.Severity == "" {
		ev.Severity = SeverityInfo
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.w.Write(line)
	return err
}

// Info logs an informational event for a report.
func (l *Logger) Info(t EventType, reportID, message string, details map[string]any) {
	_ = l.Log(Event{Type: t, Severity: SeverityInfo, ReportID: reportID, Message: message, Details: details})
}

// Warn logs a warning event for a report.
func (l *Logger) Warn(t EventType, reportID, message string, err error) {
	ev := Event{Type: t, Severity: SeverityWarning, ReportID: reportID, Message: message}
	if err != nil {
		ev.Error = err.Error()
	}
	_ = l.Log(ev)
}

// Fail logs an error event for a report.
func (l *Logger) Fail(t EventType, reportID, message string, err error) {
	ev := Event{Type: t, Severity: SeverityError, ReportID: reportID, Message: message}
	if err != nil {
		ev.Error = err.Error()
	}
	_ = l.Log(ev)
}

// Close closes the underlying file, when the logger owns one.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
