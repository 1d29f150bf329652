// Package cert converts flaw-report submissions into CERT/CC VRF
// (Vulnerability Reporting Form) documents.
package cert

import (
	"strings"
	"time"

	"github.com/aiflawlab/sdk/pkg/core"
	"github.com/aiflawlab/sdk/pkg/submission"
)

// Report is a CERT VRF-shaped document. The form's boolean fields are string
// booleans ("True"/"False"); that quirk is part of the target format.
type Report struct {
	ContactName   string   `json:"contact_name"`
	ContactOrg    string   `json:"contact_org"`
	ContactEmail  string   `json:"contact_email"`
	ContactPhone  string   `json:"contact_phone"`
	ShareRelease  string   `json:"share_release"`
	CreditRelease string   `json:"credit_release"`
	CoordStatus   []string `json:"coord_status"`

	VendorName          string  `json:"vendor_name"`
	MultipleVendors     string  `json:"multiplevendors"`
	OtherVendors        string  `json:"other_vendors"`
	FirstContact        *string `json:"first_contact"`
	VendorCommunication string  `json:"vendor_communication"`

	ProductName    string `json:"product_name"`
	ProductVersion string `json:"product_version"`

	ICSImpact         bool            `json:"ics_impact"`
	Metadata          map[string]bool `json:"metadata"`
	VulDescription    string          `json:"vul_description"`
	VulExploit        string          `json:"vul_exploit"`
	VulImpact         string          `json:"vul_impact"`
	VulDiscovery      string          `json:"vul_discovery"`
	VulPublic         string          `json:"vul_public"`
	PublicReferences  string          `json:"public_references"`
	VulExploited      string          `json:"vul_exploited"`
	ExploitReferences string          `json:"exploit_references"`
	VulDisclose       string          `json:"vul_disclose"`
	DisclosurePlans   string          `json:"disclosure_plans"`
	Tracking          string          `json:"tracking"`
	Comments          string          `json:"comments"`
	ReporterPGP       string          `json:"reporter_pgp"`
	CommAttempt       string          `json:"comm_attempt"`
	WhyNoAttempt      string          `json:"why_no_attempt"`
	PleaseExplain     string          `json:"please_explain"`

	AIMLSystem bool `json:"ai_ml_system"`
	CISAPlease bool `json:"cisa_please"`

	VRFID            string  `json:"vrf_id"`
	VRFDateSubmitted string  `json:"vrf_date_submitted"`
	RemoteAddr       string  `json:"remote_addr"`
	RemoteHost       string  `json:"remote_host"`
	HTTPUserAgent    string  `json:"http_user_agent"`
	HTTPReferer      string  `json:"http_referer"`
	SubmissionType   string  `json:"submission_type"`
	Title            string  `json:"title"`
	UserFile         *string `json:"user_file"`
}

// Converter builds CERT VRF documents. The zero value uses the wall clock.
type Converter struct {
	Now func() time.Time
}

var _ core.Converter = (*Converter)(nil)

// Name implements core.Converter.
func (c *Converter) Name() string { return "cert" }

// Convert accepts a submission mapping, a JSON file path, or a raw JSON
// string and returns the *Report.
func (c *Converter) Convert(input any) (any, error) {
	sub, err := submission.LoadAny(input)
	if err != nil {
		return nil, err
	}
	return c.ConvertSubmission(sub), nil
}

// ConvertSubmission builds the VRF document from an already-loaded
// submission. The converter reads both the raw form shape and the JSON-LD
// shape; missing fields get documented defaults, never errors.
func (c *Converter) ConvertSubmission(sub submission.Submission) *Report {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	productName, productVersion, vendorName := collectSystemInfo(sub)

	description := sub.FirstString(
		sub.FirstString("", "description"),
		submission.FieldFlawDescription,
		submission.FieldIncidentDescription,
		submission.FieldIncidentDetail,
		submission.FieldFlawDetail,
	)

	exploit := sub.FirstString("", submission.FieldProofOfConcept)
	if exploit == "" {
		exploit = sub.NestedString("aifr:vulnerability", "aifr:proofOfConcept")
	}

	impact := strings.Join(sub.FirstList(submission.FieldImpacts, "impacts"), ", ")

	discovery := sub.FirstString(
		sub.FirstString("", "aifr:contextInfo"),
		submission.FieldContextInfo,
	)

	disclosureIntent := sub.FirstString("", submission.FieldDisclosureIntent)
	if disclosureIntent == "" {
		disclosureIntent = sub.NestedString("aifr:disclosure", "aifr:intent")
	}
	disclosureTimeline := sub.FirstString("", submission.FieldDisclosureTimeline)
	if disclosureTimeline == "" {
		disclosureTimeline = sub.NestedString("aifr:disclosure", "aifr:timeline")
	}

	reportID := sub.FirstString("", submission.FieldReportID, "identifier")
	if reportID == "" {
		if atID := sub.FirstString("", "@id"); atID != "" {
			if idx := strings.LastIndex(atID, "/"); idx >= 0 && idx < len(atID)-1 {
				reportID = atID[idx+1:]
			} else {
				reportID = atID
			}
		} else {
			reportID = "VRF-" + now().UTC().Format("06-01-02-150405")
		}
	}

	submitted := sub.FirstString(
		now().UTC().Format(time.RFC3339),
		submission.FieldSubmissionTime,
		"dateCreated",
	)

	reportTypes := sub.FirstList(submission.FieldReportTypes, "reportType")
	submissionType := "Vulnerability Report"
	if len(reportTypes) > 0 {
		submissionType = reportTypes[0]
	}

	if vendorName == "" {
		vendorName = "Central Services"
	}

	return &Report{
		ContactName:   sub.FirstString("", submission.FieldReporterID),
		ShareRelease:  "False",
		CreditRelease: "False",
		CoordStatus:   []string{},

		VendorName:      vendorName,
		MultipleVendors: "False",

		ProductName:    productName,
		ProductVersion: productVersion,

		Metadata:        map[string]bool{"ai_ml_system": true},
		VulDescription:  description,
		VulExploit:      exploit,
		VulImpact:       impact,
		VulDiscovery:    discovery,
		VulPublic:       "False",
		VulExploited:    "False",
		VulDisclose:     stringBool(disclosureIntent),
		DisclosurePlans: disclosureTimeline,
		Comments:        sub.FirstString("", submission.FieldHarmNarrative),
		CommAttempt:     "False",

		AIMLSystem: true,

		VRFID:            reportID,
		VRFDateSubmitted: submitted,
		RemoteAddr:       "127.0.0.1",
		RemoteHost:       "unknown",
		HTTPUserAgent:    "Unknown",
		HTTPReferer:      "https://bigvince-devtest-kb.testdit.org/vuls/vulcoordrequest/",
		SubmissionType:   submissionType,
		Title:            "[VRF#" + reportID + "] " + productName,
	}
}

// collectSystemInfo resolves product and vendor from either the raw form
// shape ("Systems" list) or the JSON-LD shape ("aiSystem" nodes).
func collectSystemInfo(sub submission.Submission) (productName, productVersion, vendorName string) {
	productName = "Unknown System"
	vendorName = "AI Flaw Reporting"

	if systems := sub.FirstList(submission.FieldSystems); len(systems) > 0 {
		return systems[0], "", vendorName
	}

	nodes, ok := sub["aiSystem"].([]any)
	if !ok || len(nodes) == 0 {
		return productName, "", vendorName
	}
	node, ok := nodes[0].(map[string]any)
	if !ok {
		return productName, "", vendorName
	}
	if name, ok := node["name"].(string); ok && name != "" {
		productName = name
	}
	if version, ok := node["version"].(string); ok {
		productVersion = version
	}
	pub, ok := node["publisher"].(map[string]any)
	if !ok {
		pub, _ = node["schema:publisher"].(map[string]any)
	}
	if pub != nil {
		if name, ok := pub["name"].(string); ok && name != "" {
			vendorName = name
		}
	}
	return productName, productVersion, vendorName
}

// stringBool renders the VRF string-boolean for a disclosure answer.
func stringBool(val string) string {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "yes", "true", "1":
		return "True"
	}
	return "False"
}
