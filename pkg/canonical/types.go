// Package canonical defines the canonical flaw-report model and builds it
// from a validated submission.
package canonical

import (
	"time"

	"github.com/aiflawlab/sdk/pkg/core"
	"github.com/aiflawlab/sdk/pkg/report"
)

// SystemType describes how well a reporter-supplied system name resolved
// against the knowledge base.
type SystemType string

const (
	// SystemKnown means the name resolved to a knowledge-base record.
	SystemKnown SystemType = "known"

	// SystemPartiallyKnown means the reporter named a system the knowledge
	// base does not carry; the raw string is kept as the name.
	SystemPartiallyKnown SystemType = "partially_known"

	// SystemUnknown is the placeholder used when no system was named at all.
	SystemUnknown SystemType = "unknown"
)

// AISystem is one implicated AI system, resolved as far as the knowledge
// base allows.
type AISystem struct {
	Type        SystemType      `json:"type"`
	Slug        string          `json:"slug,omitempty"`
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name,omitempty"`
	Version     string          `json:"version,omitempty"`
	Description string          `json:"description,omitempty"`
	Publisher   *core.Publisher `json:"publisher,omitempty"`
}

// Incident carries the real-world incident details.
type Incident struct {
	Description       string   `json:"description,omitempty"`
	ImplicatedSystems []string `json:"implicated_systems,omitempty"`
	SubmitterRel      string   `json:"submitter_relationship,omitempty"`
	EventDates        []string `json:"event_dates,omitempty"`
	Locations         []string `json:"locations,omitempty"`
	HarmTypes         []string `json:"experienced_harm_types,omitempty"`
	HarmSeverity      string   `json:"experienced_harm_severity,omitempty"`
	HarmNarrative     string   `json:"harm_narrative,omitempty"`
}

// MalignActivity carries the attacker-behavior details.
type MalignActivity struct {
	Tactics            []string `json:"tactics,omitempty"`
	Impact             []string `json:"impact,omitempty"`
	AttackerResources  []string `json:"attacker_resources,omitempty"`
	AttackerObjectives []string `json:"attacker_objectives,omitempty"`
}

// SecurityIncident carries the security-incident details.
type SecurityIncident struct {
	ThreatActorIntent string   `json:"threat_actor_intent,omitempty"`
	Detection         []string `json:"detection,omitempty"`
}

// Vulnerability carries the vulnerability-report details.
type Vulnerability struct {
	ProofOfConcept string `json:"proof_of_concept,omitempty"`
}

// Hazard carries the hazard-report details.
type Hazard struct {
	Examples            []string `json:"examples,omitempty"`
	ReplicationPacket   string   `json:"replication_packet,omitempty"`
	StatisticalArgument string   `json:"statistical_argument,omitempty"`
}

// Disclosure carries the reporter's disclosure plan. It is present whenever
// the submission was classified.
type Disclosure struct {
	Intent   string   `json:"intent,omitempty"`
	Timeline string   `json:"timeline,omitempty"`
	Channels []string `json:"channels,omitempty"`
	Embargo  string   `json:"embargo,omitempty"`
}

// Report is the canonical flaw report. Category sub-payloads are non-nil
// only for active categories; inactive ones are absent, not present-but-empty.
type Report struct {
	ID         string            `json:"report_id"`
	ReporterID string            `json:"reporter_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Status     string            `json:"status,omitempty"`
	Categories []report.Category `json:"categories"`

	Description     string `json:"description"`
	ContextInfo     string `json:"context_info,omitempty"`
	PolicyViolation string `json:"policy_violation,omitempty"`

	Systems []AISystem `json:"systems"`

	Severity             string   `json:"severity,omitempty"`
	Prevalence           string   `json:"prevalence,omitempty"`
	Impacts              []string `json:"impacts,omitempty"`
	ImpactedStakeholders []string `json:"impacted_stakeholders,omitempty"`
	SpecificHarmTypes    []string `json:"specific_harm_types,omitempty"`
	RiskSource           string   `json:"risk_source,omitempty"`
	BountyEligibility    string   `json:"bounty_eligibility,omitempty"`

	FlawTimestampStart string `json:"flaw_timestamp_start,omitempty"`
	FlawTimestampEnd   string `json:"flaw_timestamp_end,omitempty"`

	Incident         *Incident         `json:"incident,omitempty"`
	MalignActivity   *MalignActivity   `json:"malign_activity,omitempty"`
	SecurityIncident *SecurityIncident `json:"security_incident,omitempty"`
	Vulnerability    *Vulnerability    `json:"vulnerability,omitempty"`
	Hazard           *Hazard           `json:"hazard,omitempty"`

	Disclosure *Disclosure `json:"disclosure,omitempty"`

	// ProcessedAt is stamped when the report is built, distinct from any
	// reporter-supplied flaw-occurrence timestamp.
	ProcessedAt time.Time `json:"processed_at"`
}

// HasCategory reports whether the report carries the given category.
func (r *Report) HasCategory(c report.Category) bool {
	return report.HasCategory(r.Categories, c)
}
