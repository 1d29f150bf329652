package submission

// Canonical field names for flaw-report submissions. The UI collaborator
// collects values under these keys; the classifier, validator, canonical
// model, and converters all address fields by these names.
const (
	// Basic information
	FieldReportID           = "Report ID"
	FieldReporterID         = "Reporter ID"
	FieldReportStatus       = "Report Status"
	FieldSessionID          = "Session ID"
	FieldFlawTimestampStart = "Flaw Timestamp Start"
	FieldFlawTimestampEnd   = "Flaw Timestamp End"
	FieldSystems            = "Systems"
	FieldSubmissionTime     = "Submission Timestamp"
	FieldReportTypes        = "Report Types"

	// Common fields
	FieldContextInfo          = "Context Info"
	FieldFlawDescription      = "Flaw Description"
	FieldFlawDetail           = "Flaw Description - Detailed"
	FieldPolicyViolation      = "Policy Violation"
	FieldSeverity             = "Severity"
	FieldPrevalence           = "Prevalence"
	FieldImpacts              = "Impacts"
	FieldImpactedStakeholders = "Impacted Stakeholder(s)"
	FieldRiskSource           = "Risk Source"
	FieldBountyEligibility    = "Bounty Eligibility"
	FieldSpecificHarmTypes    = "Specific Harm Types"
	FieldUploadedFiles        = "Uploaded Files"

	// Real-world incident fields
	FieldIncidentDescription = "Description of the Incident(s)"
	FieldIncidentDetail      = "Incident Description - Detailed"
	FieldImplicatedSystems   = "Implicated Systems"
	FieldSubmitterRel        = "Submitter Relationship"
	FieldEventDates          = "Event Date(s)"
	FieldIncidentLocations   = "Incident Location(s)"
	FieldHarmTypes           = "Experienced Harm Types"
	FieldHarmSeverity        = "Experienced Harm Severity"
	FieldHarmNarrative       = "Harm Narrative"

	// Malign actor fields
	FieldTacticSelect       = "Tactic Select"
	FieldAttackImpact       = "Impact"
	FieldAttackerResources  = "Attacker Resources"
	FieldAttackerObjectives = "Attacker Objectives"

	// Security incident fields
	FieldThreatActorIntent = "Threat Actor Intent"
	FieldDetection         = "Detection"

	// Vulnerability fields
	FieldProofOfConcept = "Proof-of-Concept Exploit"

	// Hazard fields
	FieldExamples            = "Examples"
	FieldReplicationPacket   = "Replication Packet"
	FieldStatisticalArgument = "Statistical Argument"

	// Disclosure plan
	FieldDisclosureIntent   = "Disclosure Intent"
	FieldDisclosureTimeline = "Disclosure Timeline"
	FieldDisclosureChannels = "Disclosure Channels"
	FieldEmbargoRequest     = "Embargo Request"
)

// DetailMarker prefixes the detailed-description variants of the flaw and
// incident description fields. It is stripped before the value is used.
const DetailMarker = "**Detailed Description:**\n"

// Option lists for the selection-typed fields. The UI renders these; the
// core treats values as opaque strings and never rejects an off-list value.
var (
	ReportStatusOptions = []string{
		"New",
		"Update to Under Investigation Report",
		"Update to Rejected Report",
		"Update to Closed/Fixed Report",
	}

	SeverityOptions = []string{"Negligible", "Low", "Medium", "High", "Critical"}

	PrevalenceOptions = []string{"Unknown", "Rare", "Occasional", "Common", "Widespread"}

	ImpactOptions = []string{
		"Autonomy",
		"Physical",
		"Psychological",
		"Reputational",
		"Financial and Business",
		"Human Rights and Civil Liberties",
		"Societal and Cultural",
		"Political and Economic",
		"Environmental",
		"Sexualization",
	}

	StakeholderOptions = []string{
		"Users",
		"Developers",
		"Administrators",
		"General Public",
		"Vulnerable populations",
		"Organizations",
		"Other",
	}

	RiskSourceOptions = []string{
		"Design flaw",
		"Implementation error",
		"Data bias",
		"Deployment issue",
		"Integration problem",
		"Other",
	}

	BountyOptions = []string{"Yes", "No", "Not sure"}

	HarmTypeOptions = []string{
		"Physical",
		"Psychological",
		"Reputational",
		"Economic/property",
		"Environmental",
		"Public interest/critical infrastructure",
		"Fundamental rights",
		"Sexualization",
		"Other",
	}

	HarmSeverityOptions = []string{"Low", "Medium", "Significant", "Critical"}

	TacticOptions = []string{
		"Initial Access",
		"Execution",
		"Persistence",
		"Privilege Escalation",
		"Defense Evasion",
		"Credential Access",
		"Discovery",
		"Lateral Movement",
		"Collection",
		"Command and Control",
		"Exfiltration",
		"Impact",
	}

	ImpactTypeOptions = []string{
		"Confidentiality breach",
		"Integrity violation",
		"Availability disruption",
		"Abuse of system",
	}

	ThreatActorIntentOptions = []string{"Deliberate", "Unintentional", "Unknown"}

	DetectionMethodOptions = []string{
		"User observation",
		"Monitoring",
		"Testing",
		"External report",
		"Automated analysis",
	}

	DisclosureIntentOptions = []string{"Yes", "No", "Undecided"}

	DisclosureTimelineOptions = []string{
		"Immediate (0 days)",
		"Short-term (1-30 days)",
		"Medium-term (31-90 days)",
		"Long-term (90+ days)",
	}

	DisclosureChannelOptions = []string{
		"Academic paper",
		"Blog post",
		"Social media",
		"Media outlet",
		"Conference presentation",
		"Other",
	}
)
