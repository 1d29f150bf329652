package report

import "github.com/aiflawlab/sdk/pkg/submission"

// RequiredFields derives the required field names for the active category
// set. An empty category set has no requirements (no sections are shown
// before classification).
//
// The description requirement follows the active categories: the incident
// description when Real-World Incidents is active, the flaw description
// otherwise. The malign-actor mapping is the tactic selection plus the
// impact-of-attack field; attacker resources and objectives stay optional.
// The result keeps a stable order and holds no duplicates.
func RequiredFields(categories []Category) []string {
	if len(categories) == 0 {
		return nil
	}

	var fields []string
	if HasCategory(categories, CategoryRealWorld) {
		fields = append(fields, submission.FieldIncidentDescription)
	} else {
		fields = append(fields, submission.FieldFlawDescription)
	}
	fields = append(fields,
		submission.FieldPolicyViolation,
		submission.FieldImpacts,
		submission.FieldImpactedStakeholders,
	)

	for _, c := range categories {
		switch c {
		case CategoryRealWorld:
			fields = append(fields,
				submission.FieldImplicatedSystems,
				submission.FieldHarmTypes,
				submission.FieldHarmNarrative,
			)
		case CategoryMalignActor:
			fields = append(fields,
				submission.FieldTacticSelect,
				submission.FieldAttackImpact,
			)
		case CategorySecurityIncident:
			fields = append(fields, submission.FieldDetection)
		case CategoryVulnerability:
			fields = append(fields, submission.FieldProofOfConcept)
		case CategoryHazard:
			fields = append(fields,
				submission.FieldExamples,
				submission.FieldReplicationPacket,
				submission.FieldStatisticalArgument,
			)
		}
	}

	fields = append(fields, submission.FieldDisclosureIntent)
	return dedupe(fields)
}

func dedupe(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
