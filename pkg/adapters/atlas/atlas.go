// Package atlas converts flaw-report submissions into MITRE ATLAS incident
// documents.
package atlas

import (
	"strings"
	"time"

	"github.com/aiflawlab/sdk/pkg/core"
	"github.com/aiflawlab/sdk/pkg/report"
	"github.com/aiflawlab/sdk/pkg/submission"
)

const titleLimit = 100

// Meta carries sharing and terms metadata.
type Meta struct {
	IncidentSharing string `json:"incidentSharing"`
	TNCAgreed       bool   `json:"tnc_agreed"`
	TNCText         string `json:"tnc_text"`
}

// AffectedEntity names the organization behind the first affected system.
type AffectedEntity struct {
	Name              string `json:"name"`
	PrimaryIndustry   string `json:"primaryIndustry"`
	SecondaryIndustry string `json:"secondaryIndustry"`
}

// AffectedSystem describes one implicated AI system.
type AffectedSystem struct {
	Developer        string  `json:"developer"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	TechnologyDomain string  `json:"technologyDomain"`
	IntendedUse      *string `json:"intendedUse"`
	ActualUse        *string `json:"actualUse"`
	LevelOfAutonomy  *string `json:"levelOfAutonomy"`
	SoftwareSpecs    *string `json:"softwareSpecs"`
	HardwareSpecs    *string `json:"hardwareSpecs"`
}

// AffectedAIArtifacts places the flaw in the AI lifecycle.
type AffectedAIArtifacts struct {
	LifecyclePhase    string  `json:"lifecyclePhase"`
	DataTypes         string  `json:"dataTypes"`
	Dataset           *string `json:"dataset"`
	ModelTask         *string `json:"modelTask"`
	ModelArchitecture *string `json:"modelArchitecture"`
	ModelSource       *string `json:"modelSource"`
}

// AffectedUsers summarizes impacted user populations.
type AffectedUsers struct {
	ImpactedUserTypes               string `json:"impactedUserTypes"`
	NumberOfDirectlyImpactedUsers   *int   `json:"numberOfDirectlyImpactedUsers"`
	NumberOfIndirectlyImpactedUsers *int   `json:"numberOfIndirectlyImpactedUsers"`
}

// Detection records how and by whom the flaw was noticed.
type Detection struct {
	Date         *string  `json:"date"`
	Reporter     string   `json:"reporter"`
	Method       []string `json:"method"`
	MethodDetail *string  `json:"methodDetail"`
	DataSource   *string  `json:"dataSource"`
}

// Mitigation is the (initially empty) mitigation record.
type Mitigation struct {
	MitigationLevel   *string  `json:"mitigationLevel"`
	Date              *string  `json:"date"`
	Categories        []string `json:"categories"`
	LifecyclePhase    *string  `json:"lifecyclePhase"`
	AdditionalDetails *string  `json:"additionalDetails"`
}

// Response pairs detection with mitigation.
type Response struct {
	Detection  Detection  `json:"detection"`
	Mitigation Mitigation `json:"mitigation"`
}

// AttackDetails describes attacker behavior when any was reported.
type AttackDetails struct {
	Name              *string  `json:"name"`
	AttackDescription string   `json:"attackDescription"`
	AttackTechnique   *string  `json:"attackTechnique"`
	AttackMechanism   *string  `json:"attackMechanism"`
	StageOfLearning   []string `json:"stageOfLearning"`
	Capabilities      []string `json:"capabilities"`
	Knowledge         *string  `json:"knowledge"`
	KnowledgeDetails  *string  `json:"knowledgeDetails"`
	Procedure         string   `json:"procedure"`
	Cost              *string  `json:"cost"`
	FailureMode       *string  `json:"failureMode"`
	ExfiltratedData   *string  `json:"exfiltratedData"`
}

// ModelInformation is the model-level record (left mostly empty by the form).
type ModelInformation struct {
	Architecture *string  `json:"architecture"`
	Source       *string  `json:"source"`
	TrainingSet  []string `json:"trainingSet"`
	FailureMode  *string  `json:"failureMode"`
	Artifacts    *string  `json:"artifacts"`
}

// Report is a MITRE ATLAS V1 incident document.
type Report struct {
	ID                        string              `json:"id"`
	Title                     string              `json:"title"`
	Date                      string              `json:"date"`
	Description               string              `json:"description"`
	Meta                      Meta                `json:"_meta"`
	Contributor               string              `json:"contributor"`
	Status                    string              `json:"status"`
	StartDate                 string              `json:"startDate"`
	EndDate                   string              `json:"endDate"`
	InvestigationPhase        string              `json:"investigationPhase"`
	AssuranceCategory         []string            `json:"assuranceCategory"`
	ThreatActorIntent         []string            `json:"threatActorIntent"`
	HarmCategories            []string            `json:"harmCategories"`
	HarmSeverity              string              `json:"harmSeverity"`
	Impact                    []string            `json:"impact"`
	GeographicLocation        []string            `json:"geographicLocation"`
	AssociatedVulnerabilities []string            `json:"associatedVulnerabilities"`
	AffectedEntity            *AffectedEntity     `json:"affectedEntity"`
	AffectedSystems           []AffectedSystem    `json:"affectedSystems"`
	AffectedAIArtifacts       AffectedAIArtifacts `json:"affectedAiArtifacts"`
	AffectedUsers             *AffectedUsers      `json:"affectedUsers"`
	Response                  Response            `json:"response"`
	AttackDetails             *AttackDetails      `json:"attackDetails"`
	ModelInformation          ModelInformation    `json:"modelInformation"`
	ExternalReferences        []string            `json:"externalReferences"`
}

// The ATLAS taxonomies below are independently versioned from the other
// converters' tables and deliberately not shared with them.

var assuranceTable = map[string]string{
	"Security":            "Security",
	"Privacy":             "Privacy",
	"Discrimination/Bias": "Equitability",
	"Misinformation":      "Reliability",
	"Safety":              "Robustness",
}

var harmTable = map[string]string{
	"Discrimination/Bias": "Social",
	"Privacy":             "Privacy/Harassment",
	"Misinformation":      "Social",
	"Security":            "Financial/Reputational",
	"Safety":              "Physical/Environmental",
	"Environmental":       "Physical/Environmental",
}

var impactTable = map[string]string{
	"Privacy":        "Confidentiality/Privacy",
	"Security":       "Integrity",
	"Misinformation": "Integrity",
	"Safety":         "Availability",
}

var severityTable = map[string]string{
	"Critical":    "Severe",
	"High":        "Severe",
	"Significant": "Moderate",
	"Medium":      "Moderate",
	"Low":         "Minor",
	"Negligible":  "Negligible",
}

var atlasVendorTable = map[string]string{
	"GPT-3.5-Turbo": "OpenAI",
	"GPT-4":         "OpenAI",
	"Claude":        "Anthropic",
	"Gemini":        "Google",
	"LLaMA":         "Meta",
	"Copilot":       "Microsoft",
}

// Converter builds MITRE ATLAS documents. The zero value uses the wall clock.
type Converter struct {
	Now func() time.Time
}

var _ core.Converter = (*Converter)(nil)

// Name implements core.Converter.
func (c *Converter) Name() string { return "mitre-atlas" }

// Convert accepts a submission mapping, a JSON file path, or a raw JSON
// string and returns the *Report.
func (c *Converter) Convert(input any) (any, error) {
	sub, err := submission.LoadAny(input)
	if err != nil {
		return nil, err
	}
	return c.ConvertSubmission(sub), nil
}

// ConvertSubmission builds the ATLAS document from an already-loaded
// submission. The canonical report id is reused unchanged; missing fields
// get documented defaults.
func (c *Converter) ConvertSubmission(sub submission.Submission) *Report {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	title := sub.FirstString("AI Incident Report",
		submission.FieldFlawDescription, submission.FieldIncidentDescription)
	if len(title) > titleLimit {
		title = title[:titleLimit-3] + "..."
	}

	description := submission.StripDetailMarker(sub.FirstString(
		"No description provided",
		submission.FieldIncidentDetail,
		submission.FieldFlawDetail,
		submission.FieldIncidentDescription,
		submission.FieldFlawDescription,
	))

	submissionTS := sub.FirstString("", submission.FieldSubmissionTime)
	flawTS := sub.FirstString("", submission.FieldFlawTimestampStart)
	date := submissionTS
	if date == "" {
		date = flawTS
	}
	if date == "" {
		date = now().UTC().Format(time.RFC3339)
	}
	startDate := flawTS
	if startDate == "" {
		startDate = date
	}

	reportTypes := sub.FirstList(submission.FieldReportTypes)
	impacts := sub.FirstList(submission.FieldImpacts)
	assurance, harms, impactTypes := mapImpacts(impacts)

	var geoLocations []string
	if loc := sub.FirstString("", submission.FieldIncidentLocations); loc != "" {
		geoLocations = []string{loc}
	}

	systems := sub.FirstList(submission.FieldSystems)
	var affectedEntity *AffectedEntity
	var affectedSystems []AffectedSystem
	if len(systems) > 0 {
		affectedEntity = &AffectedEntity{
			Name:              vendorFor(systems[0]),
			PrimaryIndustry:   "Technology",
			SecondaryIndustry: "Artificial Intelligence",
		}
		for _, sys := range systems {
			affectedSystems = append(affectedSystems, AffectedSystem{
				Developer:        vendorFor(sys),
				Name:             sys,
				Description:      "AI System: " + sys,
				TechnologyDomain: "Artificial Intelligence",
			})
		}
	}

	var affectedUsers *AffectedUsers
	if stakeholders := sub.FirstList(submission.FieldImpactedStakeholders); len(stakeholders) > 0 {
		affectedUsers = &AffectedUsers{ImpactedUserTypes: strings.Join(stakeholders, ", ")}
	}

	reporter := sub.FirstString("Anonymous", submission.FieldReporterID)
	detection := Detection{
		Reporter: reporter,
		Method:   sub.FirstList(submission.FieldDetection),
	}
	if submissionTS != "" {
		detection.Date = &submissionTS
	}

	attackerResources := sub.FirstList(submission.FieldAttackerResources)
	attackerObjectives := sub.FirstList(submission.FieldAttackerObjectives)
	poc := sub.FirstString("", submission.FieldProofOfConcept)
	attackDetails := buildAttackDetails(sub, reportTypes, attackerResources, attackerObjectives, poc)

	var externalRefs []string
	if ctx := sub.FirstString("", submission.FieldContextInfo); ctx != "" {
		externalRefs = []string{ctx}
	}

	return &Report{
		ID:          sub.FirstString("", submission.FieldReportID),
		Title:       title,
		Date:        date,
		Description: description,
		Meta: Meta{
			IncidentSharing: "MITRE Only",
			TNCAgreed:       true,
			TNCText:         "AI Flaw Report submission",
		},
		Contributor:         reporter,
		Status:              "submitted",
		StartDate:           startDate,
		EndDate:             startDate,
		InvestigationPhase:  "New",
		AssuranceCategory:   assurance,
		ThreatActorIntent:   threatActorIntent(reportTypes, attackerObjectives),
		HarmCategories:      harms,
		HarmSeverity:        mapSeverity(sub.FirstString("Unknown", submission.FieldSeverity)),
		Impact:              impactTypes,
		GeographicLocation:  geoLocations,
		AffectedEntity:      affectedEntity,
		AffectedSystems:     affectedSystems,
		AffectedAIArtifacts: AffectedAIArtifacts{LifecyclePhase: lifecyclePhase(reportTypes), DataTypes: "text"},
		AffectedUsers:       affectedUsers,
		Response:            Response{Detection: detection},
		AttackDetails:       attackDetails,
		ExternalReferences:  externalRefs,
	}
}

func vendorFor(system string) string {
	if v, ok := atlasVendorTable[system]; ok {
		return v
	}
	return "Unknown"
}

func mapImpacts(impacts []string) (assurance, harms, impactTypes []string) {
	for _, impact := range impacts {
		if cat, ok := assuranceTable[impact]; ok {
			assurance = appendUnique(assurance, cat)
		}
		if cat, ok := harmTable[impact]; ok {
			harms = appendUnique(harms, cat)
		}
		if cat, ok := impactTable[impact]; ok {
			impactTypes = appendUnique(impactTypes, cat)
		}
	}
	if len(assurance) == 0 {
		assurance = []string{"Unknown"}
	}
	if len(harms) == 0 {
		harms = []string{"Other"}
	}
	if len(impactTypes) == 0 {
		impactTypes = []string{"Integrity"}
	}
	return assurance, harms, impactTypes
}

func mapSeverity(severity string) string {
	if mapped, ok := severityTable[severity]; ok {
		return mapped
	}
	return "Unknown"
}

func lifecyclePhase(reportTypes []string) string {
	switch {
	case containsStr(reportTypes, report.CategoryRealWorld.String()):
		return "Deployment"
	case containsStr(reportTypes, report.CategoryVulnerability.String()):
		return "Quality Assurance"
	}
	return "Model Engineering"
}

func threatActorIntent(reportTypes, attackerObjectives []string) []string {
	if containsStr(reportTypes, report.CategoryMalignActor.String()) ||
		containsStr(reportTypes, report.CategorySecurityIncident.String()) ||
		len(attackerObjectives) > 0 {
		return []string{"Deliberate"}
	}
	return []string{"Unknown"}
}

func buildAttackDetails(sub submission.Submission, reportTypes, resources, objectives []string, poc string) *AttackDetails {
	if len(resources) == 0 && len(objectives) == 0 && poc == "" {
		return nil
	}

	var capabilities []string
	for _, r := range resources {
		lower := strings.ToLower(r)
		if strings.Contains(lower, "training data") {
			capabilities = appendUnique(capabilities, "Training Data Control")
		}
		if strings.Contains(lower, "model") {
			capabilities = appendUnique(capabilities, "Model Control")
		}
		if strings.Contains(lower, "query") || strings.Contains(lower, "access") {
			capabilities = appendUnique(capabilities, "Query Access")
		}
	}

	stage := "Training"
	if containsStr(reportTypes, report.CategoryRealWorld.String()) {
		stage = "Deployment"
	}

	return &AttackDetails{
		AttackDescription: sub.FirstString("", submission.FieldHarmNarrative, submission.FieldContextInfo),
		StageOfLearning:   []string{stage},
		Capabilities:      capabilities,
		Procedure:         poc,
	}
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
