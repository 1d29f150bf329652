// Package avid converts flaw-report submissions into AVID (AI Vulnerability
// Database) reports.
package avid

import (
	"fmt"
	"strings"
	"time"

	"github.com/aiflawlab/sdk/pkg/core"
	"github.com/aiflawlab/sdk/pkg/report"
	"github.com/aiflawlab/sdk/pkg/submission"
)

// DataVersion is the AVID taxonomy version this converter targets.
const DataVersion = "0.1"

// Character limits for free-text fields. Truncation is a hard cut, not
// word-aware.
const (
	problemDescriptionLimit = 500
	descriptionLimit        = 1000
)

// LangValue is a language-tagged string.
type LangValue struct {
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

// Artifact names one affected model or system.
type Artifact struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Affects lists the parties and artifacts the flaw touches.
type Affects struct {
	Developer []string   `json:"developer"`
	Deployer  []string   `json:"deployer"`
	Artifacts []Artifact `json:"artifacts"`
}

// ProblemType classifies the flaw in AVID terms.
type ProblemType struct {
	ClassOf     string    `json:"classof"`
	Type        string    `json:"type"`
	Description LangValue `json:"description"`
}

// DetectionMethod describes how a metric's signal was obtained.
type DetectionMethod struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Metric is one measurement attached to the report.
type Metric struct {
	Name            string            `json:"name"`
	Features        map[string]string `json:"features"`
	DetectionMethod *DetectionMethod  `json:"detection_method,omitempty"`
}

// Reference is a pointer to supporting material.
type Reference struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Taxonomy holds the AVID risk-domain view of the flaw.
type Taxonomy struct {
	RiskDomain      []string `json:"risk_domain"`
	SEPView         []string `json:"sep_view"`
	LifecycleView   []string `json:"lifecycle_view"`
	TaxonomyVersion string   `json:"taxonomy_version"`
	VulnID          string   `json:"vuln_id,omitempty"`
}

// Impact wraps the taxonomy view.
type Impact struct {
	AVID Taxonomy `json:"avid"`
}

// Metadata carries the AVID report identifier.
type Metadata struct {
	ReportID string `json:"report_id"`
}

// Report is a complete AVID-format document.
type Report struct {
	DataType     string      `json:"data_type"`
	DataVersion  string      `json:"data_version"`
	Metadata     Metadata    `json:"metadata"`
	Affects      Affects     `json:"affects"`
	ProblemType  ProblemType `json:"problemtype"`
	Metrics      []Metric    `json:"metrics"`
	References   []Reference `json:"references"`
	Description  LangValue   `json:"description"`
	Impact       Impact      `json:"impact"`
	Credit       []LangValue `json:"credit"`
	ReportedDate string      `json:"reported_date"`
}

// vendorInfo pairs a developer with a deployer for a known system name.
type vendorInfo struct {
	developer string
	deployer  string
}

// Static vendor table matching system names the form commonly sees. Misses
// fall back to "Unknown".
var vendorTable = map[string]vendorInfo{
	"GPT-3.5-Turbo":     {"OpenAI", "OpenAI"},
	"GPT-4":             {"OpenAI", "OpenAI"},
	"GPT-4o":            {"OpenAI", "OpenAI"},
	"Claude":            {"Anthropic", "Anthropic"},
	"Claude 3":          {"Anthropic", "Anthropic"},
	"Claude 3.5":        {"Anthropic", "Anthropic"},
	"Gemini":            {"Google", "Google"},
	"PaLM":              {"Google", "Google"},
	"LLaMA":             {"Meta", "Meta"},
	"Llama":             {"Meta", "Meta"},
	"Copilot":           {"Microsoft", "Microsoft"},
	"DALL-E":            {"OpenAI", "OpenAI"},
	"DALL-E 2":          {"OpenAI", "OpenAI"},
	"DALL-E 3":          {"OpenAI", "OpenAI"},
	"Midjourney":        {"Midjourney Inc", "Midjourney Inc"},
	"Stable Diffusion":  {"Stability AI", "Stability AI"},
	"BERT":              {"Google", "HuggingFace"},
	"bert-base-uncased": {"Google", "HuggingFace"},
}

// Impact-to-risk-domain mapping. This table is AVID-specific; the other
// converters carry their own taxonomies and must not share it.
var riskDomainTable = map[string]struct {
	domain string
	sep    []string
}{
	"Discrimination/Bias": {"Ethics", []string{"E0101: Group fairness", "E0102: Individual fairness"}},
	"Privacy":             {"Privacy", []string{"P0201: Sensitive data", "P0202: Right to be forgotten"}},
	"Misinformation":      {"Ethics", []string{"E0301: Toxicity", "E0302: Misinformation"}},
	"Safety":              {"Safety", []string{"S0403: Dangerous action"}},
	"Security":            {"Security", []string{"S0100: Software security"}},
	"Environmental":       {"Ethics", []string{"E0401: Environmental"}},
}

var riskDomainOrder = []string{"Discrimination/Bias", "Privacy", "Misinformation", "Safety", "Security", "Environmental"}

// Converter builds AVID reports. The zero value uses the wall clock.
type Converter struct {
	// Now overrides the clock used for the year in derived ids and the
	// reported-date fallback.
	Now func() time.Time
}

var _ core.Converter = (*Converter)(nil)

// Name implements core.Converter.
func (c *Converter) Name() string { return "avid" }

// Convert accepts a submission mapping, a JSON file path, or a raw JSON
// string and returns the *Report.
func (c *Converter) Convert(input any) (any, error) {
	sub, err := submission.LoadAny(input)
	if err != nil {
		return nil, err
	}
	return c.ConvertSubmission(sub), nil
}

// ConvertSubmission builds the AVID report from an already-loaded
// submission. Missing optional fields never fail the conversion; documented
// placeholders are substituted instead.
func (c *Converter) ConvertSubmission(sub submission.Submission) *Report {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	systems := sub.FirstList(submission.FieldSystems)
	productName := "Unknown System"
	if len(systems) > 0 {
		productName = systems[0]
	}

	var artifacts []Artifact
	var developers, deployers []string
	for _, sys := range systems {
		artifacts = append(artifacts, Artifact{Type: "Model", Name: sys})
		info, ok := vendorTable[sys]
		if !ok {
			info = vendorInfo{"Unknown", "Unknown"}
		}
		developers = appendUnique(developers, info.developer)
		deployers = appendUnique(deployers, info.deployer)
	}
	if len(artifacts) == 0 {
		artifacts = append(artifacts, Artifact{Type: "Model", Name: productName})
	}

	reportID := resolveReportID(sub, now)
	year := now().Year()
	avidID := fmt.Sprintf("AVID-%d-RXXXX", year)
	if len(reportID) >= 4 {
		avidID = fmt.Sprintf("AVID-%d-R%s", year, strings.ToUpper(reportID[:4]))
	}

	reportTypes := sub.FirstList(submission.FieldReportTypes, "reportType")
	impacts := sub.FirstList(submission.FieldImpacts, "impacts")
	specificHarms := sub.FirstList(submission.FieldSpecificHarmTypes, "aifr:specificHarmTypes")

	description := submission.StripDetailMarker(sub.FirstString(
		"No description provided",
		submission.FieldFlawDescription,
		submission.FieldIncidentDescription,
		submission.FieldIncidentDetail,
		submission.FieldFlawDetail,
		"description",
	))

	problemDescription := description
	if len(specificHarms) > 0 {
		n := len(specificHarms)
		if n > 2 {
			n = 2
		}
		problemDescription = fmt.Sprintf("%s. Specific harms: %s", description, strings.Join(specificHarms[:n], ", "))
	}

	riskDomains, sepViews := mapRiskDomains(impacts)

	r := &Report{
		DataType:    "AVID",
		DataVersion: DataVersion,
		Metadata:    Metadata{ReportID: avidID},
		Affects: Affects{
			Developer: emptyNotNil(developers),
			Deployer:  emptyNotNil(deployers),
			Artifacts: artifacts,
		},
		ProblemType: ProblemType{
			ClassOf:     classOf(reportTypes),
			Type:        problemType(reportTypes, impacts),
			Description: LangValue{Lang: "eng", Value: truncate(problemDescription, problemDescriptionLimit)},
		},
		Metrics:     buildMetrics(sub, impacts),
		References:  buildReferences(sub),
		Description: LangValue{Lang: "eng", Value: truncate(description, descriptionLimit)},
		Impact: Impact{AVID: Taxonomy{
			RiskDomain:      riskDomains,
			SEPView:         sepViews,
			LifecycleView:   lifecycleView(reportTypes),
			TaxonomyVersion: DataVersion,
		}},
		Credit:       buildCredit(sub),
		ReportedDate: reportedDate(sub, now),
	}

	if containsStr(reportTypes, report.CategoryVulnerability.String()) {
		vulnID := fmt.Sprintf("AVID-%d-VXXX", year)
		if len(reportID) >= 3 {
			vulnID = fmt.Sprintf("AVID-%d-V%s", year, strings.ToUpper(reportID[:3]))
		}
		r.Impact.AVID.VulnID = vulnID
	}

	return r
}

func resolveReportID(sub submission.Submission, now func() time.Time) string {
	if id := sub.FirstString("", submission.FieldReportID, "identifier"); id != "" {
		return id
	}
	if atID := sub.FirstString("", "@id"); atID != "" {
		if idx := strings.LastIndex(atID, "/"); idx >= 0 && idx < len(atID)-1 {
			return atID[idx+1:]
		}
		return atID
	}
	return "TEMP-" + now().UTC().Format("20060102150405")
}

func classOf(reportTypes []string) string {
	switch {
	case containsStr(reportTypes, report.CategorySecurityIncident.String()),
		containsStr(reportTypes, report.CategoryMalignActor.String()):
		return "Security"
	case containsStr(reportTypes, report.CategoryRealWorld.String()):
		return "Incident"
	case containsStr(reportTypes, report.CategoryVulnerability.String()):
		return "Vulnerability"
	case containsStr(reportTypes, report.CategoryHazard.String()):
		return "Safety"
	}
	return "LLM Evaluation"
}

func problemType(reportTypes, impacts []string) string {
	switch {
	case containsStr(reportTypes, report.CategorySecurityIncident.String()):
		return "Adversarial Attack"
	case containsStr(impacts, "Discrimination/Bias"):
		return "Bias"
	case containsStr(impacts, "Privacy"):
		return "Privacy Violation"
	case containsStr(impacts, "Misinformation"):
		return "Misinformation"
	}
	return "Detection"
}

func mapRiskDomains(impacts []string) (domains, sepViews []string) {
	for _, key := range riskDomainOrder {
		if !containsStr(impacts, key) {
			continue
		}
		entry := riskDomainTable[key]
		domains = appendUnique(domains, entry.domain)
		sepViews = append(sepViews, entry.sep...)
	}
	if len(domains) == 0 {
		return []string{"Ethics"}, []string{"E0100: Bias"}
	}
	return domains, sepViews
}

func lifecycleView(reportTypes []string) []string {
	switch {
	case containsStr(reportTypes, report.CategoryRealWorld.String()):
		return []string{"L06: Deployment"}
	case containsStr(reportTypes, report.CategoryVulnerability.String()):
		return []string{"L04: Verification"}
	}
	return []string{"L05: Evaluation"}
}

func buildMetrics(sub submission.Submission, impacts []string) []Metric {
	methods := sub.FirstList(submission.FieldDetection, "aifr:detectionMethods")
	if len(methods) == 0 {
		return []Metric{}
	}
	severity := sub.FirstString("Unknown", submission.FieldSeverity, "severity")
	prevalence := sub.FirstString("Unknown", submission.FieldPrevalence, "prevalence")

	metrics := make([]Metric, 0, len(methods))
	for _, method := range methods {
		m := Metric{
			Name: method,
			Features: map[string]string{
				"measured": fmt.Sprintf("Severity: %s, Prevalence: %s", severity, prevalence),
			},
		}
		if containsStr(impacts, "Discrimination/Bias") {
			if stakeholders := sub.FirstList(submission.FieldImpactedStakeholders, "aifr:impactedStakeholders"); len(stakeholders) > 0 {
				m.Features["sensitive"] = strings.Join(stakeholders, ", ")
			}
		}
		lower := strings.ToLower(method)
		switch {
		case strings.Contains(lower, "observation"):
			m.DetectionMethod = &DetectionMethod{Type: "Manual Review", Name: "User-reported observation"}
		case strings.Contains(lower, "automated"), strings.Contains(lower, "testing"):
			m.DetectionMethod = &DetectionMethod{Type: "Automated Test", Name: "Automated vulnerability scan"}
		}
		metrics = append(metrics, m)
	}
	return metrics
}

func buildReferences(sub submission.Submission) []Reference {
	refs := []Reference{}
	poc := sub.FirstString("", submission.FieldProofOfConcept)
	if poc == "" {
		poc = sub.NestedString("aifr:vulnerability", "aifr:proofOfConcept")
	}
	if poc != "" {
		refs = append(refs, Reference{Type: "source", Label: "Proof of Concept"})
	}
	if sub.FirstString("", submission.FieldContextInfo, "aifr:contextInfo") != "" {
		refs = append(refs, Reference{Type: "misc", Label: "Additional Context"})
	}
	return refs
}

func buildCredit(sub submission.Submission) []LangValue {
	var credit []LangValue
	if reporter := sub.FirstString("", submission.FieldReporterID); reporter != "" {
		credit = append(credit, LangValue{Lang: "eng", Value: "Reporter: " + reporter})
	}
	if rel := sub.FirstString("", submission.FieldSubmitterRel); rel != "" {
		credit = append(credit, LangValue{Lang: "eng", Value: "Relationship: " + rel})
	}
	if len(credit) == 0 {
		credit = append(credit, LangValue{Lang: "eng", Value: "Anonymous"})
	}
	return credit
}

func reportedDate(sub submission.Submission, now func() time.Time) string {
	if ts := sub.FirstString("", submission.FieldSubmissionTime, "dateCreated"); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			return t.Format("2006-01-02")
		}
	} else if flaw := sub.FirstString("", submission.FieldFlawTimestampStart); flaw != "" {
		if len(flaw) >= 10 {
			return flaw[:10]
		}
		return flaw
	}
	return now().Format("2006-01-02")
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func appendUnique(list []string, s string) []string {
	if containsStr(list, s) {
		return list
	}
	return append(list, s)
}

func emptyNotNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
