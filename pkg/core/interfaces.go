// Package core defines the shared interfaces and ambient types used across
// the AI Flaw Report SDK: the converter contract, the knowledge-base lookup,
// and logging.
package core

// =============================================================================
// Converter Interface
// =============================================================================

// Converter transforms a flaw-report submission into an external document
// format (AVID, CERT/VRF, MITRE ATLAS, ...).
//
// Input may be a submission mapping, a path to a JSON file, or a raw JSON
// string; implementations share the loose-input contract of
// submission.LoadAny. The returned document is format-specific; callers
// that only need bytes should marshal it with encoding/json.
//
// Converters never abort for a missing optional source field: documented
// placeholders are substituted instead. They share no mutable state and may
// run concurrently on the same submission.
type Converter interface {
	// Name returns the converter name (e.g., "avid").
	Name() string

	// Convert transforms the input into the target document.
	Convert(input any) (any, error)
}

// =============================================================================
// Knowledge Base Lookup
// =============================================================================

// SystemRecord describes a known AI system from the knowledge base.
type SystemRecord struct {
	// Slug is the stable lookup key (e.g., "claude-3").
	Slug string `json:"slug"`

	// Name is the system name as published (e.g., "Claude 3").
	Name string `json:"name"`

	// DisplayName is the human-facing name, if it differs from Name.
	DisplayName string `json:"display_name,omitempty"`

	// Version of the system, when the record is version-specific.
	Version string `json:"version,omitempty"`

	// Description of the system.
	Description string `json:"description,omitempty"`

	// Publisher is the organization that develops or deploys the system.
	Publisher *Publisher `json:"publisher,omitempty"`
}

// Publisher describes the organization behind an AI system.
type Publisher struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// SystemLookup is a read-only lookup of known AI systems.
// Implementations are loaded once and safe for concurrent readers.
type SystemLookup interface {
	// Find returns the record matching the identifier (slug first, then a
	// case-insensitive substring match on name/display name), or nil when
	// nothing matches. A miss is never an error.
	Find(identifier string) *SystemRecord
}
