// Package storage persists submitted flaw reports. A provider accepts the
// raw form data plus the machine-readable document and returns a location
// string; retry and fallback across providers is the caller's concern.
package storage

import (
	"context"
	"time"

	"github.com/aiflawlab/sdk/pkg/submission"
)

// StoredReport is a persisted report as a provider returns it.
type StoredReport struct {
	ReportID        string                `json:"report_id"`
	FormData        submission.Submission `json:"form_data"`
	MachineReadable map[string]any        `json:"machine_readable"`
	Location        string                `json:"location"`
	SavedAt         time.Time             `json:"saved_at"`
}

// Provider persists and retrieves flaw reports. Saving the same report id
// twice replaces the stored payloads.
type Provider interface {
	// Save persists the report and returns its location string.
	Save(ctx context.Context, reportID string, formData submission.Submission, machineReadable map[string]any) (string, error)

	// Load retrieves a stored report. A missing id yields a not-found error.
	Load(ctx context.Context, reportID string) (*StoredReport, error)

	// List returns the stored report ids in lexical order.
	List(ctx context.Context) ([]string, error)

	// Close releases provider resources.
	Close() error
}
