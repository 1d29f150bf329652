// Package recipients resolves who should be notified about a submitted
// flaw report and delivers coordination notices.
package recipients

import (
	"strings"

	"github.com/aiflawlab/sdk/pkg/report"
	"github.com/aiflawlab/sdk/pkg/shared/severity"
	"github.com/aiflawlab/sdk/pkg/submission"
)

// Type classifies a recipient.
type Type string

const (
	TypeDeveloper Type = "Developer"
	TypeAuthority Type = "Authority"
	TypeDatabase  Type = "Database"
)

// Status of delivery to one recipient.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Recipient is one party a report should reach.
type Recipient struct {
	Name    string `json:"name"`
	Type    Type   `json:"type"`
	Contact string `json:"contact"`
	Status  Status `json:"status"`
}

type developerRoute struct {
	keywords []string
	name     string
	contact  string
}

// A system name matches a developer on any keyword substring; each
// developer is added at most once.
var developerRoutes = []developerRoute{
	{[]string{"OpenAI", "GPT"}, "OpenAI", "https://openai.com/security/vulnerability-reporting"},
	{[]string{"Anthropic", "Claude"}, "Anthropic", "https://www.anthropic.com/security"},
	{[]string{"Google", "Gemini", "Bard"}, "Google", "https://bughunters.google.com/"},
	{[]string{"Meta", "Llama"}, "Meta", "https://www.facebook.com/whitehat"},
}

// Determine resolves the recipients for a submission: implicated system
// developers, mandated authorities for specific harm types and severities,
// and incident databases for real-world incidents.
func Determine(sub submission.Submission) []Recipient {
	var out []Recipient
	seen := make(map[string]struct{})
	add := func(r Recipient) {
		if _, dup := seen[r.Name]; dup {
			return
		}
		seen[r.Name] = struct{}{}
		r.Status = StatusPending
		out = append(out, r)
	}

	for _, system := range sub.FirstList(submission.FieldSystems) {
		for _, route := range developerRoutes {
			if matchesAny(system, route.keywords) {
				add(Recipient{Name: route.name, Type: TypeDeveloper, Contact: route.contact})
				break
			}
		}
	}

	harmTypes := sub.FirstList(submission.FieldHarmTypes)
	if containsStr(harmTypes, "CSAM") {
		add(Recipient{
			Name:    "National Center for Missing & Exploited Children (NCMEC)",
			Type:    TypeAuthority,
			Contact: "https://report.cybertip.org/",
		})
		add(Recipient{
			Name:    "Internet Watch Foundation (IWF)",
			Type:    TypeAuthority,
			Contact: "https://report.iwf.org.uk/",
		})
	}

	reportTypes := sub.FirstList(submission.FieldReportTypes)
	sev := severity.FromString(sub.FirstString("", submission.FieldSeverity))
	if sev.IsAtLeast(severity.High) &&
		containsStr(reportTypes, report.CategorySecurityIncident.String()) {
		add(Recipient{
			Name:    "CERT Coordination Center",
			Type:    TypeAuthority,
			Contact: "https://www.kb.cert.org/vuls/report/",
		})
		add(Recipient{
			Name:    "CISA",
			Type:    TypeAuthority,
			Contact: "https://www.cisa.gov/report",
		})
	}

	if containsStr(reportTypes, report.CategoryRealWorld.String()) {
		add(Recipient{
			Name:    "AI Incident Database",
			Type:    TypeDatabase,
			Contact: "https://incidentdatabase.ai/submit",
		})
	}

	return out
}

func matchesAny(system string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(system, kw) {
			return true
		}
	}
	return false
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
