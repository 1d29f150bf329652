package recipients

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v74/github"

	"github.com/aiflawlab/sdk/pkg/canonical"
	"github.com/aiflawlab/sdk/pkg/report"
	"github.com/aiflawlab/sdk/pkg/submission"
)

func names(recs []Recipient) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Name)
	}
	return out
}

func hasName(recs []Recipient, name string) bool {
	for _, r := range recs {
		if r.Name == name {
			return true
		}
	}
	return false
}

func TestDetermineDevelopers(t *testing.T) {
	sub := submission.Submission{
		submission.FieldSystems: []string{"GPT-4o", "Claude-3.5-Sonnet", "Gemini-2.0", "HomeBrew"},
	}
	recs := Determine(sub)
	for _, want := range []string{"OpenAI", "Anthropic", "Google"} {
		if !hasName(recs, want) {
			t.Errorf("missing developer %q in %v", want, names(recs))
		}
	}
	if hasName(recs, "Meta") {
		t.Errorf("unexpected Meta in %v", names(recs))
	}
	for _, r := range recs {
		if r.Type != TypeDeveloper || r.Status != StatusPending {
			t.Errorf("recipient = %+v", r)
		}
	}
}

func TestDetermineNoDuplicates(t *testing.T) {
	sub := submission.Submission{
		submission.FieldSystems: []string{"GPT-4", "GPT-3.5-Turbo"},
	}
	recs := Determine(sub)
	if len(recs) != 1 {
		t.Errorf("recipients = %v, want single OpenAI entry", names(recs))
	}
}

func TestDetermineAuthorities(t *testing.T) {
	sub := submission.Submission{
		submission.FieldHarmTypes:   []string{"CSAM"},
		submission.FieldSeverity:    "Critical",
		submission.FieldReportTypes: []string{report.CategorySecurityIncident.String()},
	}
	recs := Determine(sub)
	for _, want := range []string{
		"National Center for Missing & Exploited Children (NCMEC)",
		"Internet Watch Foundation (IWF)",
		"CERT Coordination Center",
		"CISA",
	} {
		if !hasName(recs, want) {
			t.Errorf("missing authority %q in %v", want, names(recs))
		}
	}
}

func TestDetermineSeverityGate(t *testing.T) {
	// Security incident below High severity does not page CERT/CISA.
	sub := submission.Submission{
		submission.FieldSeverity:    "Medium",
		submission.FieldReportTypes: []string{report.CategorySecurityIncident.String()},
	}
	recs := Determine(sub)
	if hasName(recs, "CISA") || hasName(recs, "CERT Coordination Center") {
		t.Errorf("authorities notified at Medium severity: %v", names(recs))
	}
}

func TestDetermineIncidentDatabase(t *testing.T) {
	sub := submission.Submission{
		submission.FieldReportTypes: []string{report.CategoryRealWorld.String()},
	}
	recs := Determine(sub)
	if !hasName(recs, "AI Incident Database") {
		t.Errorf("missing incident database in %v", names(recs))
	}
}

func TestDetermineEmpty(t *testing.T) {
	if recs := Determine(submission.Submission{}); len(recs) != 0 {
		t.Errorf("Determine(empty) = %v", names(recs))
	}
}

type fakeIssues struct {
	owner, repo string
	req         *github.IssueRequest
}

func (f *fakeIssues) Create(ctx context.Context, owner, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error) {
	f.owner, f.repo, f.req = owner, repo, issue
	return &github.Issue{HTMLURL: github.Ptr("https://github.com/org/disclosures/issues/42")}, nil, nil
}

func TestGitHubNotifier(t *testing.T) {
	fake := &fakeIssues{}
	n := NewGitHubNotifierWithIssues(fake, "org", "disclosures")

	r := &canonical.Report{
		ID:         "abcd1234",
		Categories: []report.Category{report.CategoryRealWorld},
		Severity:   "High",
		Systems: []canonical.AISystem{
			{Type: canonical.SystemKnown, Name: "Claude 3"},
		},
		ProcessedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	recs := []Recipient{{Name: "Anthropic", Type: TypeDeveloper, Contact: "https://www.anthropic.com/security"}}

	url, err := n.Notify(context.Background(), r, recs)
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if url != "https://github.com/org/disclosures/issues/42" {
		t.Errorf("url = %q", url)
	}
	if fake.owner != "org" || fake.repo != "disclosures" {
		t.Errorf("target = %s/%s", fake.owner, fake.repo)
	}
	if got := fake.req.GetTitle(); got != "Flaw report abcd1234: Claude 3" {
		t.Errorf("title = %q", got)
	}
	body := fake.req.GetBody()
	for _, want := range []string{"abcd1234", "2026-03-01", "High", "Real-World Incidents", "Anthropic"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if fake.req.Labels == nil || (*fake.req.Labels)[0] != "real-world-incidents" {
		t.Errorf("labels = %v", fake.req.Labels)
	}
}
