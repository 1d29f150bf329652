// Package jsonld serializes canonical flaw reports into the primary
// machine-readable JSON-LD document.
package jsonld

import (
	"fmt"

	"github.com/piprate/json-gold/ld"

	"github.com/aiflawlab/sdk/pkg/canonical"
	"github.com/aiflawlab/sdk/pkg/core"
	"github.com/aiflawlab/sdk/pkg/report"
)

const (
	// SchemaContext is the base vocabulary.
	SchemaContext = "https://schema.org"

	// Namespace is the local vocabulary for flaw-report specific terms.
	Namespace = "https://aiflawreport.org/ns#"

	// NamespacePrefix is the short prefix bound to Namespace in the context.
	NamespacePrefix = "aifr"

	// ReportIDBase is the URI base the report id is embedded into for @id.
	ReportIDBase = "https://aiflawreport.org/reports/"
)

// Serializer turns canonical reports into JSON-LD documents.
//
// Compaction against the declared context is best effort: when it fails
// (for example because the remote context cannot be fetched) the uncompacted
// tree is returned as-is with a warning, never an error.
type Serializer struct {
	Logger core.Logger

	// Compact overrides the compaction step. Nil means json-gold with
	// default options.
	Compact func(doc, context map[string]any) (map[string]any, error)
}

// Serialize builds the JSON-LD document for the report.
func (s *Serializer) Serialize(r *canonical.Report) map[string]any {
	doc := s.buildDocument(r)

	compact := s.Compact
	if compact == nil {
		compact = defaultCompact
	}
	context := map[string]any{"@context": contextValue()}
	compacted, err := compact(doc, context)
	if err != nil {
		s.logger().Warn("JSON-LD compaction failed, returning uncompacted document: %v", err)
		return doc
	}
	return compacted
}

func (s *Serializer) logger() core.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return core.GetDefaultLogger()
}

func defaultCompact(doc, context map[string]any) (map[string]any, error) {
	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	return proc.Compact(doc, context, opts)
}

func contextValue() []any {
	return []any{
		SchemaContext,
		map[string]any{NamespacePrefix: Namespace},
	}
}

func (s *Serializer) buildDocument(r *canonical.Report) map[string]any {
	doc := map[string]any{
		"@context":    contextValue(),
		"@type":       "aifr:AIFlawReport",
		"@id":         ReportIDBase + r.ID,
		"name":        documentName(r),
		"description": r.Description,
		"aiSystem":    systemNodes(r.Systems),
		"severity":    r.Severity,
		"prevalence":  r.Prevalence,
		"impacts":     stringList(r.Impacts),
		"reportType":  categoryLabels(r.Categories),
		"dateCreated": r.ProcessedAt.Format("2006-01-02T15:04:05Z07:00"),
		"identifier":  r.ID,
	}

	if r.ReporterID != "" {
		doc["author"] = map[string]any{
			"@type":      "Person",
			"identifier": r.ReporterID,
		}
	}
	if r.SessionID != "" {
		doc["aifr:sessionId"] = r.SessionID
	}
	if r.FlawTimestampStart != "" {
		ts := map[string]any{"aifr:start": r.FlawTimestampStart}
		if r.FlawTimestampEnd != "" {
			ts["aifr:end"] = r.FlawTimestampEnd
		}
		doc["aifr:flawTimestamp"] = ts
	}
	if len(r.ImpactedStakeholders) > 0 {
		doc["aifr:impactedStakeholders"] = stringList(r.ImpactedStakeholders)
	}
	if len(r.SpecificHarmTypes) > 0 {
		doc["aifr:specificHarmTypes"] = stringList(r.SpecificHarmTypes)
	}
	if r.PolicyViolation != "" {
		doc["aifr:policyViolation"] = r.PolicyViolation
	}

	if r.Incident != nil {
		doc["aifr:incident"] = incidentNode(r.Incident)
	}
	if r.SecurityIncident != nil {
		doc["aifr:securityAspect"] = securityNode(r.SecurityIncident)
	}
	if r.Vulnerability != nil {
		doc["aifr:vulnerability"] = vulnerabilityNode(r.Vulnerability)
	}
	if r.Hazard != nil {
		doc["aifr:hazard"] = hazardNode(r.Hazard)
	}
	if r.MalignActivity != nil {
		doc["aifr:malignActivity"] = malignNode(r.MalignActivity)
	}
	if r.Disclosure != nil {
		doc["aifr:disclosure"] = disclosureNode(r.Disclosure)
	}

	return doc
}

func documentName(r *canonical.Report) string {
	if len(r.Systems) > 0 && r.Systems[0].Name != "" {
		return fmt.Sprintf("AI Flaw Report: %s", r.Systems[0].Name)
	}
	return "AI Flaw Report"
}

func systemNodes(systems []canonical.AISystem) []any {
	nodes := make([]any, 0, len(systems))
	for _, sys := range systems {
		node := map[string]any{
			"@type": "SoftwareApplication",
			"name":  sys.Name,
		}
		if sys.DisplayName != "" && sys.DisplayName != sys.Name {
			node["alternateName"] = sys.DisplayName
		}
		if sys.Version != "" {
			node["softwareVersion"] = sys.Version
		}
		if sys.Description != "" {
			node["description"] = sys.Description
		}
		node["aifr:resolution"] = string(sys.Type)
		if sys.Publisher != nil {
			pub := map[string]any{
				"@type": "Organization",
				"name":  sys.Publisher.Name,
			}
			if sys.Publisher.URL != "" {
				pub["url"] = sys.Publisher.URL
			}
			node["publisher"] = pub
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func categoryLabels(categories []report.Category) []any {
	labels := make([]any, 0, len(categories))
	for _, c := range categories {
		labels = append(labels, c.String())
	}
	return labels
}

func incidentNode(inc *canonical.Incident) map[string]any {
	node := map[string]any{"@type": "aifr:RealWorldIncident"}
	setIf(node, "description", inc.Description)
	setIfList(node, "aifr:implicatedSystems", inc.ImplicatedSystems)
	setIf(node, "aifr:submitterRelationship", inc.SubmitterRel)
	setIfList(node, "aifr:eventDates", inc.EventDates)
	setIfList(node, "aifr:locations", inc.Locations)
	setIfList(node, "aifr:harmTypes", inc.HarmTypes)
	setIf(node, "aifr:harmSeverity", inc.HarmSeverity)
	setIf(node, "aifr:harmNarrative", inc.HarmNarrative)
	return node
}

func securityNode(si *canonical.SecurityIncident) map[string]any {
	node := map[string]any{"@type": "aifr:SecurityIncident"}
	setIf(node, "aifr:threatActorIntent", si.ThreatActorIntent)
	setIfList(node, "aifr:detection", si.Detection)
	return node
}

func vulnerabilityNode(v *canonical.Vulnerability) map[string]any {
	node := map[string]any{"@type": "aifr:Vulnerability"}
	setIf(node, "aifr:proofOfConcept", v.ProofOfConcept)
	return node
}

func hazardNode(h *canonical.Hazard) map[string]any {
	node := map[string]any{"@type": "aifr:Hazard"}
	setIfList(node, "aifr:examples", h.Examples)
	setIf(node, "aifr:replicationPacket", h.ReplicationPacket)
	setIf(node, "aifr:statisticalArgument", h.StatisticalArgument)
	return node
}

func malignNode(ma *canonical.MalignActivity) map[string]any {
	node := map[string]any{"@type": "aifr:MalignActivity"}
	setIfList(node, "aifr:tactics", ma.Tactics)
	setIfList(node, "aifr:impact", ma.Impact)
	setIfList(node, "aifr:attackerResources", ma.AttackerResources)
	setIfList(node, "aifr:attackerObjectives", ma.AttackerObjectives)
	return node
}

func disclosureNode(d *canonical.Disclosure) map[string]any {
	node := map[string]any{"@type": "aifr:DisclosurePlan"}
	setIf(node, "aifr:intent", d.Intent)
	setIf(node, "aifr:timeline", d.Timeline)
	setIfList(node, "aifr:channels", d.Channels)
	setIf(node, "aifr:embargo", d.Embargo)
	return node
}

func setIf(node map[string]any, key, value string) {
	if value != "" {
		node[key] = value
	}
}

func setIfList(node map[string]any, key string, values []string) {
	if len(values) > 0 {
		node[key] = stringList(values)
	}
}

func stringList(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
