package atlas

import (
	"reflect"
	"strings"
	"testing"
	"time"

	sdkerrors "github.com/aiflawlab/sdk/pkg/errors"
	"github.com/aiflawlab/sdk/pkg/submission"
)

func fixedConverter() *Converter {
	return &Converter{Now: func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}}
}

func TestConvertBasics(t *testing.T) {
	c := fixedConverter()
	sub := submission.Submission{
		submission.FieldReportID:        "raw-id-77",
		submission.FieldReporterID:      "rep-2",
		submission.FieldFlawDescription: "model reveals system prompt",
		submission.FieldSeverity:        "High",
		submission.FieldReportTypes:     []string{"Malign Actor", "Vulnerability Report"},
		submission.FieldImpacts:         []string{"Privacy"},
	}
	r := c.ConvertSubmission(sub)

	if r.ID != "raw-id-77" {
		t.Errorf("id = %q, want the raw report id unchanged", r.ID)
	}
	if r.Title != "model reveals system prompt" {
		t.Errorf("title = %q", r.Title)
	}
	if r.Contributor != "rep-2" {
		t.Errorf("contributor = %q", r.Contributor)
	}
	if r.Status != "submitted" || r.InvestigationPhase != "New" {
		t.Errorf("status/phase = %q/%q", r.Status, r.InvestigationPhase)
	}
	if r.HarmSeverity != "Severe" {
		t.Errorf("harmSeverity = %q", r.HarmSeverity)
	}
	if !reflect.DeepEqual(r.ThreatActorIntent, []string{"Deliberate"}) {
		t.Errorf("threatActorIntent = %v", r.ThreatActorIntent)
	}
	if r.AffectedAIArtifacts.LifecyclePhase != "Quality Assurance" {
		t.Errorf("lifecyclePhase = %q", r.AffectedAIArtifacts.LifecyclePhase)
	}
	if r.Meta.IncidentSharing != "MITRE Only" || !r.Meta.TNCAgreed {
		t.Errorf("meta = %+v", r.Meta)
	}
}

func TestTitleTruncation(t *testing.T) {
	c := fixedConverter()
	long := strings.Repeat("a", 150)
	r := c.ConvertSubmission(submission.Submission{submission.FieldFlawDescription: long})
	if len(r.Title) != titleLimit {
		t.Errorf("title length = %d, want %d", len(r.Title), titleLimit)
	}
	if !strings.HasSuffix(r.Title, "...") {
		t.Errorf("title = %q, want ... suffix", r.Title)
	}
}

func TestDescriptionPriority(t *testing.T) {
	c := fixedConverter()
	sub := submission.Submission{
		submission.FieldIncidentDetail:  submission.DetailMarker + "detailed incident",
		submission.FieldFlawDescription: "short flaw",
	}
	r := c.ConvertSubmission(sub)
	if r.Description != "detailed incident" {
		t.Errorf("description = %q", r.Description)
	}

	r = c.ConvertSubmission(submission.Submission{})
	if r.Description != "No description provided" {
		t.Errorf("fallback description = %q", r.Description)
	}
}

func TestMapSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Critical", "Severe"},
		{"High", "Severe"},
		{"Significant", "Moderate"},
		{"Medium", "Moderate"},
		{"Low", "Minor"},
		{"Negligible", "Negligible"},
		{"Bananas", "Unknown"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		if got := mapSeverity(tt.in); got != tt.want {
			t.Errorf("mapSeverity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapImpacts(t *testing.T) {
	assurance, harms, impacts := mapImpacts([]string{"Privacy", "Misinformation", "Discrimination/Bias"})
	if !reflect.DeepEqual(assurance, []string{"Privacy", "Reliability", "Equitability"}) {
		t.Errorf("assurance = %v", assurance)
	}
	if !reflect.DeepEqual(harms, []string{"Privacy/Harassment", "Social"}) {
		t.Errorf("harms = %v", harms)
	}
	if !reflect.DeepEqual(impacts, []string{"Confidentiality/Privacy", "Integrity"}) {
		t.Errorf("impacts = %v", impacts)
	}

	assurance, harms, impacts = mapImpacts(nil)
	if !reflect.DeepEqual(assurance, []string{"Unknown"}) ||
		!reflect.DeepEqual(harms, []string{"Other"}) ||
		!reflect.DeepEqual(impacts, []string{"Integrity"}) {
		t.Errorf("defaults = %v %v %v", assurance, harms, impacts)
	}
}

func TestLifecyclePhase(t *testing.T) {
	tests := []struct {
		reportTypes []string
		want        string
	}{
		{[]string{"Real-World Incidents"}, "Deployment"},
		{[]string{"Vulnerability Report"}, "Quality Assurance"},
		{[]string{"Hazard Report"}, "Model Engineering"},
		{nil, "Model Engineering"},
	}
	for _, tt := range tests {
		if got := lifecyclePhase(tt.reportTypes); got != tt.want {
			t.Errorf("lifecyclePhase(%v) = %q, want %q", tt.reportTypes, got, tt.want)
		}
	}
}

func TestThreatActorIntent(t *testing.T) {
	if got := threatActorIntent([]string{"Hazard Report"}, nil); got[0] != "Unknown" {
		t.Errorf("hazard intent = %v", got)
	}
	if got := threatActorIntent([]string{"Security Incident Report"}, nil); got[0] != "Deliberate" {
		t.Errorf("security intent = %v", got)
	}
	if got := threatActorIntent(nil, []string{"data theft"}); got[0] != "Deliberate" {
		t.Errorf("objectives intent = %v", got)
	}
}

func TestAffectedSystems(t *testing.T) {
	c := fixedConverter()
	r := c.ConvertSubmission(submission.Submission{
		submission.FieldSystems: []string{"GPT-4", "CustomNet"},
	})
	if r.AffectedEntity == nil || r.AffectedEntity.Name != "OpenAI" {
		t.Errorf("affectedEntity = %+v", r.AffectedEntity)
	}
	if len(r.AffectedSystems) != 2 {
		t.Fatalf("affectedSystems = %v", r.AffectedSystems)
	}
	if r.AffectedSystems[1].Developer != "Unknown" || r.AffectedSystems[1].Description != "AI System: CustomNet" {
		t.Errorf("unknown system = %+v", r.AffectedSystems[1])
	}

	r = c.ConvertSubmission(submission.Submission{})
	if r.AffectedEntity != nil || r.AffectedSystems != nil {
		t.Error("affected entity/systems present without systems")
	}
}

func TestAttackDetails(t *testing.T) {
	c := fixedConverter()

	r := c.ConvertSubmission(submission.Submission{submission.FieldFlawDescription: "d"})
	if r.AttackDetails != nil {
		t.Error("attack details present without attacker fields")
	}

	r = c.ConvertSubmission(submission.Submission{
		submission.FieldAttackerResources: []string{"Query access to API", "training data poisoning"},
		submission.FieldProofOfConcept:    "exploit steps",
		submission.FieldReportTypes:       []string{"Real-World Incidents"},
		submission.FieldHarmNarrative:     "users were harmed",
	})
	ad := r.AttackDetails
	if ad == nil {
		t.Fatal("attack details missing")
	}
	if !reflect.DeepEqual(ad.Capabilities, []string{"Query Access", "Training Data Control"}) {
		t.Errorf("capabilities = %v", ad.Capabilities)
	}
	if !reflect.DeepEqual(ad.StageOfLearning, []string{"Deployment"}) {
		t.Errorf("stageOfLearning = %v", ad.StageOfLearning)
	}
	if ad.Procedure != "exploit steps" || ad.AttackDescription != "users were harmed" {
		t.Errorf("attack details = %+v", ad)
	}
}

func TestDates(t *testing.T) {
	c := fixedConverter()

	r := c.ConvertSubmission(submission.Submission{
		submission.FieldSubmissionTime:     "2025-12-01T10:00:00Z",
		submission.FieldFlawTimestampStart: "2025-11-15T00:00:00Z",
	})
	if r.Date != "2025-12-01T10:00:00Z" {
		t.Errorf("date = %q", r.Date)
	}
	if r.StartDate != "2025-11-15T00:00:00Z" || r.EndDate != r.StartDate {
		t.Errorf("start/end = %q/%q", r.StartDate, r.EndDate)
	}
	if r.Response.Detection.Date == nil || *r.Response.Detection.Date != "2025-12-01T10:00:00Z" {
		t.Errorf("detection date = %v", r.Response.Detection.Date)
	}

	r = c.ConvertSubmission(submission.Submission{})
	if r.Date != "2026-03-01T12:00:00Z" {
		t.Errorf("fallback date = %q", r.Date)
	}
	if r.Response.Detection.Date != nil {
		t.Error("detection date set without submission timestamp")
	}
}

func TestAffectedUsersAndLocation(t *testing.T) {
	c := fixedConverter()
	r := c.ConvertSubmission(submission.Submission{
		submission.FieldImpactedStakeholders: []string{"Users", "General Public"},
		submission.FieldIncidentLocations:    "Germany",
	})
	if r.AffectedUsers == nil || r.AffectedUsers.ImpactedUserTypes != "Users, General Public" {
		t.Errorf("affectedUsers = %+v", r.AffectedUsers)
	}
	if !reflect.DeepEqual(r.GeographicLocation, []string{"Germany"}) {
		t.Errorf("geographicLocation = %v", r.GeographicLocation)
	}
}

func TestConvertLooseInput(t *testing.T) {
	c := fixedConverter()
	out, err := c.Convert(`{"Report ID": "keep-me"}`)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if out.(*Report).ID != "keep-me" {
		t.Errorf("id = %q", out.(*Report).ID)
	}

	if _, err := c.Convert(struct{}{}); !sdkerrors.IsMalformedInput(err) {
		t.Errorf("Convert(struct) error = %v, want malformed input", err)
	}
}
