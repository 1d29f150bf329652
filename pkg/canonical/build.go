package canonical

import (
	"time"

	"github.com/aiflawlab/sdk/pkg/core"
	"github.com/aiflawlab/sdk/pkg/report"
	"github.com/aiflawlab/sdk/pkg/shared/reportid"
	"github.com/aiflawlab/sdk/pkg/submission"
)

// NoDescription is the fallback description when every description field is
// empty.
const NoDescription = "No description provided"

// UnknownSystemDescription fills the placeholder system synthesized when the
// submission names no systems at all.
const UnknownSystemDescription = "No AI system was identified in this report"

// Builder constructs canonical reports. The zero value works without a
// knowledge base; every system lookup then misses.
type Builder struct {
	Lookup core.SystemLookup

	// Now is the clock used for the processed-at stamp. Nil means time.Now.
	Now func() time.Time
}

// Build assembles the canonical report from a submission and its active
// category set. Malformed field types surface as typed malformed-input
// errors naming the field; values are never coerced across container types.
func (b *Builder) Build(sub submission.Submission, categories []report.Category) (*Report, error) {
	id, err := resolveID(sub)
	if err != nil {
		return nil, err
	}

	r := &Report{
		ID:         id,
		Categories: append([]report.Category(nil), categories...),
	}

	strFields := []struct {
		field string
		dst   *string
	}{
		{submission.FieldReporterID, &r.ReporterID},
		{submission.FieldSessionID, &r.SessionID},
		{submission.FieldReportStatus, &r.Status},
		{submission.FieldContextInfo, &r.ContextInfo},
		{submission.FieldPolicyViolation, &r.PolicyViolation},
		{submission.FieldSeverity, &r.Severity},
		{submission.FieldPrevalence, &r.Prevalence},
		{submission.FieldRiskSource, &r.RiskSource},
		{submission.FieldBountyEligibility, &r.BountyEligibility},
		{submission.FieldFlawTimestampStart, &r.FlawTimestampStart},
		{submission.FieldFlawTimestampEnd, &r.FlawTimestampEnd},
	}
	for _, f := range strFields {
		if *f.dst, err = sub.GetString(f.field); err != nil {
			return nil, err
		}
	}

	listFields := []struct {
		field string
		dst   *[]string
	}{
		{submission.FieldImpacts, &r.Impacts},
		{submission.FieldImpactedStakeholders, &r.ImpactedStakeholders},
		{submission.FieldSpecificHarmTypes, &r.SpecificHarmTypes},
	}
	for _, f := range listFields {
		if *f.dst, err = sub.GetStringList(f.field); err != nil {
			return nil, err
		}
	}

	if r.Description, err = resolveDescription(sub); err != nil {
		return nil, err
	}
	if r.Systems, err = b.resolveSystems(sub); err != nil {
		return nil, err
	}
	if err := populateCategories(r, sub, categories); err != nil {
		return nil, err
	}

	if len(categories) > 0 {
		if r.Disclosure, err = buildDisclosure(sub); err != nil {
			return nil, err
		}
	}

	now := b.Now
	if now == nil {
		now = time.Now
	}
	r.ProcessedAt = now().UTC()
	return r, nil
}

// resolveID reuses the submission's report id when present and otherwise
// derives a deterministic short id from the submission content, so
// re-building the same content yields the same id.
func resolveID(sub submission.Submission) (string, error) {
	id, err := sub.GetString(submission.FieldReportID)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	return reportid.Derive(sub), nil
}

// resolveDescription picks the most specific non-empty description, in
// priority order: incident description, detailed incident description,
// flaw description, detailed flaw description.
func resolveDescription(sub submission.Submission) (string, error) {
	candidates := []struct {
		field  string
		marker bool
	}{
		{submission.FieldIncidentDescription, false},
		{submission.FieldIncidentDetail, true},
		{submission.FieldFlawDescription, false},
		{submission.FieldFlawDetail, true},
	}
	for _, c := range candidates {
		v, err := sub.GetString(c.field)
		if err != nil {
			return "", err
		}
		if c.marker {
			v = submission.StripDetailMarker(v)
		}
		if v != "" {
			return v, nil
		}
	}
	return NoDescription, nil
}

func (b *Builder) resolveSystems(sub submission.Submission) ([]AISystem, error) {
	names, err := sub.GetStringList(submission.FieldSystems)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []AISystem{{
			Type:        SystemUnknown,
			Name:        "Unknown AI System",
			Description: UnknownSystemDescription,
		}}, nil
	}

	systems := make([]AISystem, 0, len(names))
	for _, name := range names {
		var rec *core.SystemRecord
		if b.Lookup != nil {
			rec = b.Lookup.Find(name)
		}
		if rec == nil {
			systems = append(systems, AISystem{
				Type:        SystemPartiallyKnown,
				Name:        name,
				DisplayName: name,
			})
			continue
		}
		systems = append(systems, AISystem{
			Type:        SystemKnown,
			Slug:        rec.Slug,
			Name:        rec.Name,
			DisplayName: rec.DisplayName,
			Version:     rec.Version,
			Description: rec.Description,
			Publisher:   rec.Publisher,
		})
	}
	return systems, nil
}

func populateCategories(r *Report, sub submission.Submission, categories []report.Category) error {
	for _, c := range categories {
		var err error
		switch c {
		case report.CategoryRealWorld:
			err = populateIncident(r, sub)
		case report.CategoryMalignActor:
			err = populateMalignActivity(r, sub)
		case report.CategorySecurityIncident:
			err = populateSecurityIncident(r, sub)
		case report.CategoryVulnerability:
			err = populateVulnerability(r, sub)
		case report.CategoryHazard:
			err = populateHazard(r, sub)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func populateIncident(r *Report, sub submission.Submission) error {
	inc := &Incident{}
	var err error
	if inc.Description, err = sub.GetString(submission.FieldIncidentDescription); err != nil {
		return err
	}
	if inc.SubmitterRel, err = sub.GetString(submission.FieldSubmitterRel); err != nil {
		return err
	}
	if inc.HarmSeverity, err = sub.GetString(submission.FieldHarmSeverity); err != nil {
		return err
	}
	if inc.HarmNarrative, err = sub.GetString(submission.FieldHarmNarrative); err != nil {
		return err
	}
	if inc.ImplicatedSystems, err = sub.GetStringList(submission.FieldImplicatedSystems); err != nil {
		return err
	}
	if inc.EventDates, err = sub.GetStringList(submission.FieldEventDates); err != nil {
		return err
	}
	if inc.Locations, err = sub.GetStringList(submission.FieldIncidentLocations); err != nil {
		return err
	}
	if inc.HarmTypes, err = sub.GetStringList(submission.FieldHarmTypes); err != nil {
		return err
	}
	r.Incident = inc
	return nil
}

func populateMalignActivity(r *Report, sub submission.Submission) error {
	ma := &MalignActivity{}
	var err error
	if ma.Tactics, err = sub.GetStringList(submission.FieldTacticSelect); err != nil {
		return err
	}
	if ma.Impact, err = sub.GetStringList(submission.FieldAttackImpact); err != nil {
		return err
	}
	if ma.AttackerResources, err = sub.GetStringList(submission.FieldAttackerResources); err != nil {
		return err
	}
	if ma.AttackerObjectives, err = sub.GetStringList(submission.FieldAttackerObjectives); err != nil {
		return err
	}
	r.MalignActivity = ma
	return nil
}

func populateSecurityIncident(r *Report, sub submission.Submission) error {
	si := &SecurityIncident{}
	var err error
	if si.ThreatActorIntent, err = sub.GetString(submission.FieldThreatActorIntent); err != nil {
		return err
	}
	if si.Detection, err = sub.GetStringList(submission.FieldDetection); err != nil {
		return err
	}
	r.SecurityIncident = si
	return nil
}

func populateVulnerability(r *Report, sub submission.Submission) error {
	v := &Vulnerability{}
	var err error
	if v.ProofOfConcept, err = sub.GetString(submission.FieldProofOfConcept); err != nil {
		return err
	}
	r.Vulnerability = v
	return nil
}

func populateHazard(r *Report, sub submission.Submission) error {
	h := &Hazard{}
	var err error
	if h.Examples, err = sub.GetStringList(submission.FieldExamples); err != nil {
		return err
	}
	if h.ReplicationPacket, err = sub.GetString(submission.FieldReplicationPacket); err != nil {
		return err
	}
	if h.StatisticalArgument, err = sub.GetString(submission.FieldStatisticalArgument); err != nil {
		return err
	}
	r.Hazard = h
	return nil
}

func buildDisclosure(sub submission.Submission) (*Disclosure, error) {
	d := &Disclosure{}
	var err error
	if d.Intent, err = sub.GetString(submission.FieldDisclosureIntent); err != nil {
		return nil, err
	}
	if d.Timeline, err = sub.GetString(submission.FieldDisclosureTimeline); err != nil {
		return nil, err
	}
	if d.Channels, err = sub.GetStringList(submission.FieldDisclosureChannels); err != nil {
		return nil, err
	}
	if d.Embargo, err = sub.GetString(submission.FieldEmbargoRequest); err != nil {
		return nil, err
	}
	return d, nil
}
